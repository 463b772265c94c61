package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		query  QueryContext
		fields []string
	}{
		{
			name:  "complete",
			query: QueryContext{Section: "302", Act: ActIPC, CaseDescription: "stabbed"},
		},
		{
			name:   "empty",
			query:  QueryContext{},
			fields: []string{"section", "act", "case_description"},
		},
		{
			name:   "whitespace description",
			query:  QueryContext{Section: "302", Act: ActIPC, CaseDescription: "  \n\t"},
			fields: []string{"case_description"},
		},
		{
			name:   "negative top k",
			query:  QueryContext{Section: "302", Act: ActIPC, CaseDescription: "stabbed", TopK: -1},
			fields: []string{"top_k"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("Validate() = %v, want *InvalidInputError", err)
			}
			if strings.Join(invalid.Fields, ",") != strings.Join(tt.fields, ",") {
				t.Errorf("Fields = %v, want %v", invalid.Fields, tt.fields)
			}
		})
	}
}

func TestInvalidInputErrorMessage(t *testing.T) {
	err := &InvalidInputError{Fields: []string{"section", "act"}}
	want := "invalid input: missing or invalid section, act"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestLimit(t *testing.T) {
	if got := (QueryContext{}).Limit(); got != DefaultTopK {
		t.Errorf("Limit() = %d, want %d", got, DefaultTopK)
	}
	if got := (QueryContext{TopK: 2}).Limit(); got != 2 {
		t.Errorf("Limit() = %d, want 2", got)
	}
}

func TestParseAct(t *testing.T) {
	for _, a := range KnownActs {
		got, ok := ParseAct(string(a))
		if !ok || got != a {
			t.Errorf("ParseAct(%q) = %q, %v", a, got, ok)
		}
	}

	got, ok := ParseAct("ipc")
	if ok {
		t.Error("ParseAct should be case-sensitive")
	}
	if got != Act("ipc") {
		t.Errorf("ParseAct(ipc) = %q, want the input back", got)
	}
}

func TestBailStatus(t *testing.T) {
	if NonBailable.String() != "non-bailable" || !NonBailable.IsNonBailable() {
		t.Errorf("NonBailable = %q", NonBailable.String())
	}
	if Bailable.String() != "bailable" || Bailable.IsNonBailable() {
		t.Errorf("Bailable = %q", Bailable.String())
	}
	if BailStatus("").String() != "bailable" {
		t.Error("zero value should read as bailable")
	}
}

func TestNotFoundMessage(t *testing.T) {
	if got := NotFoundMessage("66A", ActIT); got != "Section 66A not found in IT Act" {
		t.Errorf("NotFoundMessage() = %q", got)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Engine.TopK != DefaultTopK {
		t.Errorf("Engine.TopK = %d, want %d", cfg.Engine.TopK, DefaultTopK)
	}
	if cfg.Engine.NGramMax != 2 {
		t.Errorf("Engine.NGramMax = %d, want 2", cfg.Engine.NGramMax)
	}
	if !cfg.Fetch.RespectRobots {
		t.Error("robots.txt should be respected by default")
	}
	if !cfg.Cache.Enabled || cfg.Cache.Dir != "" {
		t.Errorf("Cache = %+v, want enabled and memory only", cfg.Cache)
	}
}
