package textnorm

import (
	"regexp"
	"strings"

	"github.com/ppiankov/casematch/internal/model"
)

// SectionRef is a statute reference found in free text. Act is empty when
// the text does not name one.
type SectionRef struct {
	Section string    `json:"section"`
	Act     model.Act `json:"act,omitempty"`
}

var sectionRefPattern = regexp.MustCompile(
	`(?i)\bsection\s+(\d+[A-Za-z]*)\b(?:\s+of\s+(?:the\s+)?(indian\s+penal\s+code|ipc|code\s+of\s+criminal\s+procedure|crpc|code\s+of\s+civil\s+procedure|cpc|indian\s+evidence\s+act|evidence\s+act|information\s+technology\s+act|it\s+act|motor\s+vehicles\s+act|mv\s+act))?`,
)

var actAliases = map[string]model.Act{
	"indian penal code":          model.ActIPC,
	"ipc":                        model.ActIPC,
	"code of criminal procedure": model.ActCrPC,
	"crpc":                       model.ActCrPC,
	"code of civil procedure":    model.ActCPC,
	"cpc":                        model.ActCPC,
	"indian evidence act":        model.ActEvidence,
	"evidence act":               model.ActEvidence,
	"information technology act": model.ActIT,
	"it act":                     model.ActIT,
	"motor vehicles act":         model.ActMV,
	"mv act":                     model.ActMV,
}

// ExtractSectionRefs finds "section <id> [of the <act>]" mentions in text.
// Results are deduplicated and keep first-occurrence order; section ids are
// uppercased ("304a" -> "304A").
func ExtractSectionRefs(text string) []SectionRef {
	var refs []SectionRef
	seen := make(map[SectionRef]bool)

	for _, m := range sectionRefPattern.FindAllStringSubmatch(text, -1) {
		ref := SectionRef{Section: strings.ToUpper(m[1])}
		if m[2] != "" {
			name := strings.Join(strings.Fields(strings.ToLower(m[2])), " ")
			ref.Act = actAliases[name]
		}
		if seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}

// ResolveAct maps a user-typed act name to a known act. Canonical names
// match exactly; aliases ("ipc", "Indian Penal Code", "it act") match
// case-insensitively.
func ResolveAct(name string) (model.Act, bool) {
	if act, ok := model.ParseAct(name); ok {
		return act, true
	}
	key := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	if act, ok := actAliases[key]; ok {
		return act, true
	}
	return model.Act(strings.TrimSpace(name)), false
}
