package model

// Act identifies a statute the reference store knows about
type Act string

const (
	ActIPC      Act = "IPC"          // Indian Penal Code
	ActCrPC     Act = "CrPC"         // Code of Criminal Procedure
	ActCPC      Act = "CPC"          // Code of Civil Procedure
	ActEvidence Act = "Evidence Act" // Indian Evidence Act
	ActIT       Act = "IT Act"       // Information Technology Act
	ActMV       Act = "MV Act"       // Motor Vehicles Act
)

// KnownActs lists every act in display order
var KnownActs = []Act{ActIPC, ActCrPC, ActCPC, ActEvidence, ActIT, ActMV}

// ParseAct reports whether s names a known act. Matching is exact and case-sensitive.
func ParseAct(s string) (Act, bool) {
	for _, a := range KnownActs {
		if string(a) == s {
			return a, true
		}
	}
	return Act(s), false
}

// LegalSection identifies a single statute provision
type LegalSection struct {
	Act     Act    `json:"act" yaml:"act"`
	Section string `json:"section" yaml:"section"` // Alphanumeric, e.g. "304A"
	Title   string `json:"title" yaml:"title"`
}

// Precedent is a case-law record. CaseName is its identity.
type Precedent struct {
	CaseName  string   `json:"case_name" yaml:"case_name"`
	Citation  string   `json:"citation" yaml:"citation"`
	Section   string   `json:"section" yaml:"section"` // Free text, may cite several ids ("66, 43")
	Act       Act      `json:"act" yaml:"act"`
	Summary   string   `json:"summary" yaml:"summary"`
	KeyPoints []string `json:"key_points" yaml:"key_points"`
}

// BailStatus is the statutory bail classification of an offense
type BailStatus string

const (
	Bailable    BailStatus = "bailable"
	NonBailable BailStatus = "non_bailable"
)

// IsNonBailable reports whether release pending trial is at the court's discretion
func (b BailStatus) IsNonBailable() bool {
	return b == NonBailable
}

func (b BailStatus) String() string {
	if b == NonBailable {
		return "non-bailable"
	}
	return "bailable"
}

// BailGuideline describes the bail procedure for a bail class
type BailGuideline struct {
	Description string   `json:"description" yaml:"description"`
	Procedure   []string `json:"procedure,omitempty" yaml:"procedure,omitempty"`
	Examples    []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Details     []string `json:"details,omitempty" yaml:"details,omitempty"`
}

// OffenseDetails is the store's answer to a (section, act) lookup
type OffenseDetails struct {
	Section       string        `json:"section"`
	Act           Act           `json:"act"`
	Title         string        `json:"title"`
	Rights        []string      `json:"rights"`
	Bail          BailStatus    `json:"bail_status"`
	BailGuideline BailGuideline `json:"bail_info"`
}

// Jurisdiction describes one jurisdiction type in the court system
type Jurisdiction struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Items       []string `json:"items" yaml:"items"`
}
