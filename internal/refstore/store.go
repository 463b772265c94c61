// Package refstore holds the immutable legal reference dataset: section
// tables, bail denylists, rights and defense catalogues, and precedents.
//
// A Store is built once at startup and shared read-only; every accessor
// returns copies so callers cannot mutate it.
package refstore

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ppiankov/casematch/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/reference.yaml
var builtinDataset []byte

// ErrNotFound is matched by every NotFoundError
var ErrNotFound = errors.New("not found")

// NotFoundError carries the section/act pair that was looked up
type NotFoundError struct {
	Section string
	Act     model.Act
}

func (e *NotFoundError) Error() string {
	return model.NotFoundMessage(e.Section, e.Act)
}

// Is lets errors.Is(err, ErrNotFound) match
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// RightsCatalogue groups defendant rights by stage
type RightsCatalogue struct {
	General []string `yaml:"general"`
	Bail    []string `yaml:"bail"`
	Trial   []string `yaml:"trial"`
}

// DefenseCatalogue holds generic options and per-(act, section) specific options
type DefenseCatalogue struct {
	Common   []string                          `yaml:"common"`
	Specific map[model.Act]map[string][]string `yaml:"specific"`
}

// Dataset is the on-disk schema of a reference dataset
type Dataset struct {
	Sections       map[model.Act][]model.LegalSection `yaml:"sections"`
	NonBailable    map[model.Act][]string             `yaml:"non_bailable"`
	Rights         RightsCatalogue                    `yaml:"rights"`
	Defenses       DefenseCatalogue                   `yaml:"defenses"`
	Precedents     []model.Precedent                  `yaml:"precedents"`
	BailGuidelines map[string]model.BailGuideline     `yaml:"bail_guidelines"`
	Jurisdictions  []model.Jurisdiction               `yaml:"jurisdictions"`
}

// Store is the read-only reference store
type Store struct {
	sections      map[model.Act][]model.LegalSection
	index         map[model.Act]map[string]int
	nonBailable   map[model.Act]map[string]bool
	rights        RightsCatalogue
	defenses      DefenseCatalogue
	precedents    []model.Precedent
	guidelines    map[string]model.BailGuideline
	jurisdictions []model.Jurisdiction
}

// Default loads the built-in dataset
func Default() (*Store, error) {
	return Load(builtinDataset)
}

// LoadFile loads a dataset from a YAML file, or the built-in dataset when path is empty
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Load(data)
}

// Load parses a YAML dataset
func Load(data []byte) (*Store, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	return New(ds)
}

// New builds a Store from an in-memory dataset. The dataset is copied.
func New(ds Dataset) (*Store, error) {
	s := &Store{
		sections:    make(map[model.Act][]model.LegalSection),
		index:       make(map[model.Act]map[string]int),
		nonBailable: make(map[model.Act]map[string]bool),
		rights: RightsCatalogue{
			General: slices.Clone(ds.Rights.General),
			Bail:    slices.Clone(ds.Rights.Bail),
			Trial:   slices.Clone(ds.Rights.Trial),
		},
		defenses: DefenseCatalogue{
			Common:   slices.Clone(ds.Defenses.Common),
			Specific: make(map[model.Act]map[string][]string),
		},
		guidelines:    make(map[string]model.BailGuideline),
		jurisdictions: slices.Clone(ds.Jurisdictions),
	}

	for act, entries := range ds.Sections {
		if _, ok := model.ParseAct(string(act)); !ok {
			return nil, fmt.Errorf("sections: unknown act %q", act)
		}
		idx := make(map[string]int, len(entries))
		table := make([]model.LegalSection, 0, len(entries))
		for _, e := range entries {
			if e.Section == "" {
				return nil, fmt.Errorf("sections: %s entry with empty section id", act)
			}
			if _, dup := idx[e.Section]; dup {
				return nil, fmt.Errorf("sections: duplicate %s section %s", act, e.Section)
			}
			e.Act = act
			idx[e.Section] = len(table)
			table = append(table, e)
		}
		s.sections[act] = table
		s.index[act] = idx
	}

	for act, ids := range ds.NonBailable {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		s.nonBailable[act] = set
	}

	for act, bySection := range ds.Defenses.Specific {
		m := make(map[string][]string, len(bySection))
		for section, options := range bySection {
			m[section] = slices.Clone(options)
		}
		s.defenses.Specific[act] = m
	}

	for i, p := range ds.Precedents {
		if p.CaseName == "" {
			return nil, fmt.Errorf("precedents[%d]: empty case_name", i)
		}
		if _, ok := model.ParseAct(string(p.Act)); !ok {
			return nil, fmt.Errorf("precedents[%d] %q: unknown act %q", i, p.CaseName, p.Act)
		}
		p.KeyPoints = slices.Clone(p.KeyPoints)
		s.precedents = append(s.precedents, p)
	}

	for k, g := range ds.BailGuidelines {
		s.guidelines[k] = g
	}

	return s, nil
}

// Sections returns the section table of an act in dataset order
func (s *Store) Sections(act model.Act) []model.LegalSection {
	return slices.Clone(s.sections[act])
}

// Section looks up a single section
func (s *Store) Section(section string, act model.Act) (model.LegalSection, bool) {
	idx, ok := s.index[act][section]
	if !ok {
		return model.LegalSection{}, false
	}
	return s.sections[act][idx], true
}

// BailStatus classifies a section using the per-act denylist
func (s *Store) BailStatus(section string, act model.Act) model.BailStatus {
	if s.nonBailable[act][section] {
		return model.NonBailable
	}
	return model.Bailable
}

// BailGuideline returns procedure text for a bail class
func (s *Store) BailGuideline(status model.BailStatus) model.BailGuideline {
	return cloneGuideline(s.guidelines[string(status)])
}

// SpecialBailProvisions returns the special-consideration bail guideline
func (s *Store) SpecialBailProvisions() model.BailGuideline {
	return cloneGuideline(s.guidelines["special_provisions"])
}

// OffenseDetails returns the record for a section. Unknown acts and sections
// yield a *NotFoundError.
func (s *Store) OffenseDetails(section string, act model.Act) (model.OffenseDetails, error) {
	sec, ok := s.Section(section, act)
	if !ok {
		return model.OffenseDetails{}, &NotFoundError{Section: section, Act: act}
	}
	bail := s.BailStatus(section, act)
	return model.OffenseDetails{
		Section:       sec.Section,
		Act:           act,
		Title:         sec.Title,
		Rights:        slices.Clone(s.rights.General),
		Bail:          bail,
		BailGuideline: s.BailGuideline(bail),
	}, nil
}

// Precedents returns every precedent in dataset order
func (s *Store) Precedents() []model.Precedent {
	out := make([]model.Precedent, len(s.precedents))
	for i, p := range s.precedents {
		out[i] = clonePrecedent(p)
	}
	return out
}

// PrecedentsForSection returns precedents whose act matches and whose
// section field contains section as a substring
func (s *Store) PrecedentsForSection(section string, act model.Act) []model.Precedent {
	var out []model.Precedent
	for _, p := range s.precedents {
		if p.Act == act && strings.Contains(p.Section, section) {
			out = append(out, clonePrecedent(p))
		}
	}
	return out
}

// Rights returns the rights catalogue
func (s *Store) Rights() RightsCatalogue {
	return RightsCatalogue{
		General: slices.Clone(s.rights.General),
		Bail:    slices.Clone(s.rights.Bail),
		Trial:   slices.Clone(s.rights.Trial),
	}
}

// DefenseOptions returns the generic options and the options specific to (section, act)
func (s *Store) DefenseOptions(section string, act model.Act) (common, specific []string) {
	return slices.Clone(s.defenses.Common), slices.Clone(s.defenses.Specific[act][section])
}

// Jurisdictions returns the jurisdiction types
func (s *Store) Jurisdictions() []model.Jurisdiction {
	out := make([]model.Jurisdiction, len(s.jurisdictions))
	for i, j := range s.jurisdictions {
		j.Items = slices.Clone(j.Items)
		out[i] = j
	}
	return out
}

func clonePrecedent(p model.Precedent) model.Precedent {
	p.KeyPoints = slices.Clone(p.KeyPoints)
	return p
}

func cloneGuideline(g model.BailGuideline) model.BailGuideline {
	g.Procedure = slices.Clone(g.Procedure)
	g.Examples = slices.Clone(g.Examples)
	g.Details = slices.Clone(g.Details)
	return g
}
