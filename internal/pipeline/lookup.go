package pipeline

import (
	"github.com/ppiankov/casematch/internal/model"
)

// Precedents ranks the precedents for q against its description
func (p *Pipeline) Precedents(q model.QueryContext) model.MatchResult {
	return p.matcher.FindSimilar(q.CaseDescription, q.Section, q.Act, p.limit(q))
}

// Rights scores the rights catalogue against q. An unknown offense yields
// the general rights at fallback relevance together with the
// *refstore.NotFoundError.
func (p *Pipeline) Rights(q model.QueryContext) ([]model.ScoredCandidate, error) {
	offense, err := p.store.OffenseDetails(q.Section, q.Act)
	if err != nil {
		return p.scorer.FallbackRights(p.store.Rights().General), err
	}
	return p.rightsFor(offense, q.CaseDescription), nil
}

// Defenses scores the common defense options plus those specific to q's
// section. Unknown sections get the common options only.
func (p *Pipeline) Defenses(q model.QueryContext) []model.ScoredCandidate {
	common, specific := p.store.DefenseOptions(q.Section, q.Act)
	return p.scorer.ScoreDefenses(common, specific, q.CaseDescription)
}

// rightsFor scores general, bail and trial rights using the offense's
// bail status
func (p *Pipeline) rightsFor(offense model.OffenseDetails, description string) []model.ScoredCandidate {
	catalogue := p.store.Rights()
	rights := make([]string, 0, len(catalogue.General)+len(catalogue.Bail)+len(catalogue.Trial))
	rights = append(rights, catalogue.General...)
	rights = append(rights, catalogue.Bail...)
	rights = append(rights, catalogue.Trial...)
	return p.scorer.ScoreRights(rights, description, offense.Bail)
}

func (p *Pipeline) limit(q model.QueryContext) int {
	if q.TopK <= 0 && p.config.Engine.TopK > 0 {
		return p.config.Engine.TopK
	}
	return q.Limit()
}
