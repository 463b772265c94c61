package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/casematch/internal/argue"
	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/refstore"
)

// argumentsRequest is the body of POST /v1/arguments
type argumentsRequest struct {
	model.QueryContext
	Position argue.Position `json:"position"`
	Count    int            `json:"count"`
}

// getOffense handles GET /v1/offenses/:act/:section
func (s *Server) getOffense(c *gin.Context) {
	act := model.Act(c.Param("act"))
	section := c.Param("section")

	offense, err := s.pipeline.Store().OffenseDetails(section, act)
	if err != nil {
		abortError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"offense":    offense,
		"precedents": nonNil(s.pipeline.Store().PrecedentsForSection(section, act)),
	})
}

// search handles GET /v1/search?q=
func (s *Server) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		abortError(c, http.StatusBadRequest, "INVALID_INPUT", "query parameter q is required")
		return
	}
	c.JSON(http.StatusOK, s.pipeline.Store().Search(q))
}

// findPrecedents handles POST /v1/precedents. Section and act are optional
// filters; the description is required.
func (s *Server) findPrecedents(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}
	if strings.TrimSpace(q.CaseDescription) == "" {
		abortError(c, http.StatusBadRequest, "INVALID_INPUT", (&model.InvalidInputError{Fields: []string{"case_description"}}).Error())
		return
	}
	c.JSON(http.StatusOK, s.pipeline.Precedents(q))
}

// scoreRights handles POST /v1/rights
func (s *Server) scoreRights(c *gin.Context) {
	q, ok := bindValidQuery(c)
	if !ok {
		return
	}

	rights, err := s.pipeline.Rights(q)
	if errors.Is(err, refstore.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"outcome": model.OutcomeNotFound,
			"message": err.Error(),
			"rights":  rights,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": model.OutcomeOK, "rights": rights})
}

// scoreDefenses handles POST /v1/defenses
func (s *Server) scoreDefenses(c *gin.Context) {
	q, ok := bindValidQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"defenses": s.pipeline.Defenses(q)})
}

// analyze handles POST /v1/analyze
func (s *Server) analyze(c *gin.Context) {
	q, ok := bindQuery(c)
	if !ok {
		return
	}

	report, err := s.pipeline.Analyze(c.Request.Context(), q)
	if err != nil {
		abortError(c, http.StatusServiceUnavailable, "CANCELLED", err.Error())
		return
	}
	if report.QueryID == "" {
		report.QueryID = c.GetString(requestIDKey)
	}

	status := http.StatusOK
	switch report.Outcome {
	case model.OutcomeInvalidInput:
		status = http.StatusBadRequest
	case model.OutcomeNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, report)
}

// arguments handles POST /v1/arguments
func (s *Server) arguments(c *gin.Context) {
	var req argumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var (
		result any
		err    error
	)
	switch req.Position {
	case argue.PositionDefense, "":
		result, err = s.generator.Generate(req.QueryContext, true, req.Count)
	case argue.PositionProsecution:
		result, err = s.generator.Generate(req.QueryContext, false, req.Count)
	case argue.PositionBailFavor:
		result, err = s.generator.GenerateBail(req.QueryContext, true, req.Count)
	case argue.PositionBailAgainst:
		result, err = s.generator.GenerateBail(req.QueryContext, false, req.Count)
	default:
		abortError(c, http.StatusBadRequest, "INVALID_POSITION",
			"position must be one of defense, prosecution, favor, against")
		return
	}

	var invalid *model.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		abortError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, refstore.ErrNotFound):
		abortError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case err != nil:
		abortError(c, http.StatusInternalServerError, "GENERATION_FAILED", err.Error())
	default:
		c.JSON(http.StatusOK, result)
	}
}

func bindQuery(c *gin.Context) (model.QueryContext, bool) {
	var q model.QueryContext
	if err := c.ShouldBindJSON(&q); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return q, false
	}
	return q, true
}

func bindValidQuery(c *gin.Context) (model.QueryContext, bool) {
	q, ok := bindQuery(c)
	if !ok {
		return q, false
	}
	if err := q.Validate(); err != nil {
		abortError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
		return q, false
	}
	return q, true
}

func nonNil(p []model.Precedent) []model.Precedent {
	if p == nil {
		return []model.Precedent{}
	}
	return p
}
