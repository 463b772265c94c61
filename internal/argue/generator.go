// Package argue drafts templated legal arguments for either side of a case.
// Output is a drafting aid: templates are filled with case elements, the
// section, constitutional rights and the precedents recorded for the section.
package argue

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/ppiankov/casematch/internal/textnorm"
)

// DefaultCount is the number of arguments generated when none is requested
const DefaultCount = 5

// Position names the side an argument set supports
type Position string

const (
	PositionDefense     Position = "defense"
	PositionProsecution Position = "prosecution"
	PositionBailFavor   Position = "favor"
	PositionBailAgainst Position = "against"
)

// Reference is the subset of the reference store the generator reads
type Reference interface {
	OffenseDetails(section string, act model.Act) (model.OffenseDetails, error)
	PrecedentsForSection(section string, act model.Act) []model.Precedent
}

// Arguments is a generated argument set for trial
type Arguments struct {
	Position   Position             `json:"position"`
	Arguments  []string             `json:"arguments"`
	Elements   []string             `json:"elements"`
	Offense    model.OffenseDetails `json:"offense_details"`
	Precedents []model.Precedent    `json:"supporting_precedents"`
}

// BailArguments is a generated argument set for a bail hearing
type BailArguments struct {
	Position   Position             `json:"position"`
	Arguments  []string             `json:"bail_arguments"`
	Bail       model.BailStatus     `json:"bail_status"`
	Offense    model.OffenseDetails `json:"offense_details"`
	Precedents []model.Precedent    `json:"supporting_precedents"`
}

// Generator fills argument templates. It is safe for concurrent use; the
// random source is guarded by a mutex.
type Generator struct {
	ref Reference

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator drawing from rng. Pass a seeded source
// for reproducible output.
func NewGenerator(ref Reference, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{ref: ref, rng: rng}
}

// Generate drafts up to count trial arguments. Defense arguments draw from
// the defense and bail-favor templates, prosecution arguments from the
// prosecution and bail-against templates, shuffled together.
func (g *Generator) Generate(q model.QueryContext, favorDefense bool, count int) (*Arguments, error) {
	offense, precedents, err := g.lookup(q)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultCount
	}

	position := PositionDefense
	templates := slices.Concat(defenseTemplates, bailFavorTemplates)
	if !favorDefense {
		position = PositionProsecution
		templates = slices.Concat(prosecutionTemplates, bailAgainstTemplates)
	}
	templates = usable(templates, len(precedents) > 0)
	elements := CaseElements(q.Section, q.Act, q.CaseDescription)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.rng.Shuffle(len(templates), func(i, j int) {
		templates[i], templates[j] = templates[j], templates[i]
	})

	args := make([]string, 0, min(count, len(templates)))
	for _, tmpl := range templates[:min(count, len(templates))] {
		fill := map[string]string{
			"element": pick(g.rng, elements),
			"right":   pick(g.rng, constitutionalRights),
			"section": q.Section,
		}
		if needsPrecedent(tmpl) {
			p := precedents[g.rng.IntN(len(precedents))]
			fill["precedent"] = p.CaseName
			fill["argument"] = lowerFirst(strings.TrimSuffix(pick(g.rng, p.KeyPoints), "."))
		}
		args = append(args, render(tmpl, fill))
	}

	return &Arguments{
		Position:   position,
		Arguments:  args,
		Elements:   elements,
		Offense:    offense,
		Precedents: precedents,
	}, nil
}

// GenerateBail drafts up to count bail-hearing arguments in template order
func (g *Generator) GenerateBail(q model.QueryContext, favorBail bool, count int) (*BailArguments, error) {
	offense, precedents, err := g.lookup(q)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = DefaultCount
	}

	position := PositionBailFavor
	templates := bailFavorTemplates
	if !favorBail {
		position = PositionBailAgainst
		templates = bailAgainstTemplates
	}
	templates = usable(templates, len(precedents) > 0)

	g.mu.Lock()
	defer g.mu.Unlock()

	args := make([]string, 0, min(count, len(templates)))
	for _, tmpl := range templates[:min(count, len(templates))] {
		fill := map[string]string{"section": q.Section}
		if needsPrecedent(tmpl) {
			fill["precedent"] = precedents[g.rng.IntN(len(precedents))].CaseName
		}
		args = append(args, render(tmpl, fill))
	}

	return &BailArguments{
		Position:   position,
		Arguments:  args,
		Bail:       offense.Bail,
		Offense:    offense,
		Precedents: precedents,
	}, nil
}

func (g *Generator) lookup(q model.QueryContext) (model.OffenseDetails, []model.Precedent, error) {
	if err := q.Validate(); err != nil {
		return model.OffenseDetails{}, nil, err
	}
	offense, err := g.ref.OffenseDetails(q.Section, q.Act)
	if err != nil {
		return model.OffenseDetails{}, nil, fmt.Errorf("argument lookup: %w", err)
	}
	return offense, g.ref.PrecedentsForSection(q.Section, q.Act), nil
}

// CaseElements lists the elements an argument can dispute: those cued by
// words in the description, then those tied to the section. Falls back to
// the common elements when neither yields anything.
func CaseElements(section string, act model.Act, description string) []string {
	tokens := textnorm.TokenSet(description)

	var elements []string
	add := func(e string) {
		if !slices.Contains(elements, e) {
			elements = append(elements, e)
		}
	}

	for _, cue := range elementCues {
		for _, w := range cue.words {
			if _, ok := tokens[w]; ok {
				add(cue.element)
				break
			}
		}
	}
	for _, e := range sectionElements[act][section] {
		add(e)
	}

	if len(elements) == 0 {
		return slices.Clone(commonElements)
	}
	return elements
}

// usable drops precedent templates when there is no precedent to cite.
// The result is always a fresh slice.
func usable(templates []string, havePrecedents bool) []string {
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		if !havePrecedents && needsPrecedent(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func needsPrecedent(tmpl string) bool {
	return strings.Contains(tmpl, "{precedent}")
}

func render(tmpl string, fill map[string]string) string {
	pairs := make([]string, 0, len(fill)*2)
	for k, v := range fill {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func pick(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.IntN(len(items))]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
