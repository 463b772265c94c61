package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/casematch/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fir-101", "fir-101"},
		{"case 12/2024", "case-12_2024"},
		{"a:b*c?d", "a_b_c_d"},
		{"../../etc/passwd", "_.._etc_passwd"},
		{"  ", "query"},
		{"...", "query"},
	}

	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := sanitizeFilename(strings.Repeat("x", 150)); len(got) != 100 {
		t.Errorf("long name length = %d, want 100", len(got))
	}
}

func TestOutputFormat(t *testing.T) {
	cfg := model.DefaultConfig()
	if got := outputFormat("", cfg); got != "text" {
		t.Errorf("outputFormat() = %q, want text", got)
	}
	if got := outputFormat("json", cfg); got != "json" {
		t.Errorf("flag should win, got %q", got)
	}
	cfg.Output.Format = "json"
	if got := outputFormat("", cfg); got != "json" {
		t.Errorf("config should apply, got %q", got)
	}
	cfg.Output.Format = ""
	if got := outputFormat("", cfg); got != "text" {
		t.Errorf("empty config should fall back to text, got %q", got)
	}
}

func TestQueryFlags(t *testing.T) {
	f := queryFlags{section: " 302 ", act: "indian penal code", description: "stabbed", topK: 3}
	q, err := f.query()
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	if q.Section != "302" || q.Act != model.ActIPC || q.CaseDescription != "stabbed" || q.TopK != 3 {
		t.Errorf("query() = %+v", q)
	}
}

func TestQueryFlagsUnknownAct(t *testing.T) {
	f := queryFlags{section: "1", act: "Companies Act"}
	q, err := f.query()
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	if q.Act != model.Act("Companies Act") {
		t.Errorf("Act = %q, want it passed through", q.Act)
	}
}

func TestQueryFlagsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fir.txt")
	if err := os.WriteFile(path, []byte("The accused forged a cheque."), 0644); err != nil {
		t.Fatal(err)
	}

	f := queryFlags{section: "420", act: "IPC", description: "ignored", file: path}
	q, err := f.query()
	if err != nil {
		t.Fatalf("query() error = %v", err)
	}
	if q.CaseDescription != "The accused forged a cheque." {
		t.Errorf("CaseDescription = %q", q.CaseDescription)
	}

	f.file = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := f.query(); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	want := model.DefaultConfig()
	if cfg.Engine != want.Engine || cfg.Server != want.Server || cfg.Cache != want.Cache {
		t.Errorf("round-tripped config = %+v, want %+v", cfg, *want)
	}
}
