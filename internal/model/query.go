package model

import (
	"fmt"
	"strings"
)

// DefaultTopK is the number of precedents returned when a query leaves TopK unset
const DefaultTopK = 5

// QueryContext is the per-call input to every retrieval. It is never stored.
type QueryContext struct {
	ID              string `json:"id,omitempty" yaml:"id,omitempty"`
	Section         string `json:"section" yaml:"section"`
	Act             Act    `json:"act" yaml:"act"`
	CaseDescription string `json:"case_description" yaml:"case_description"`
	TopK            int    `json:"top_k,omitempty" yaml:"top_k,omitempty"`
}

// InvalidInputError reports which required query fields are missing or malformed
type InvalidInputError struct {
	Fields []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: missing or invalid %s", strings.Join(e.Fields, ", "))
}

// Validate checks required fields before any computation runs
func (q QueryContext) Validate() error {
	var fields []string
	if strings.TrimSpace(q.Section) == "" {
		fields = append(fields, "section")
	}
	if strings.TrimSpace(string(q.Act)) == "" {
		fields = append(fields, "act")
	}
	if strings.TrimSpace(q.CaseDescription) == "" {
		fields = append(fields, "case_description")
	}
	if q.TopK < 0 {
		fields = append(fields, "top_k")
	}
	if len(fields) > 0 {
		return &InvalidInputError{Fields: fields}
	}
	return nil
}

// Limit returns TopK, or DefaultTopK when unset
func (q QueryContext) Limit() int {
	if q.TopK <= 0 {
		return DefaultTopK
	}
	return q.TopK
}
