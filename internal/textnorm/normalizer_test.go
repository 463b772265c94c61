package textnorm

import (
	"testing"

	"github.com/ppiankov/casematch/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \t\n ", ""},
		{"lowercases and drops stopwords", "The Accused WAS at the scene", "accused scene"},
		{"strips punctuation", "knife, blood-stains; & motive!", "knife blood stains motive"},
		{"drops standalone digits", "arrested on 12 march 2021", "arrested march"},
		{"keeps section references", "Charged under Section 302 and section 304A.", "charged section_302 section_304a"},
		{"joins idioms", "no mens rea, only prima facie evidence", "mens_rea prima_facie evidence"},
		{"joins idioms containing stopwords", "Burden of proof lies on the State", "burden_of_proof lies state"},
		{"joins three word idioms", "guilt beyond reasonable doubt", "guilt beyond_reasonable_doubt"},
		{"collapses whitespace before idioms", "habeas    corpus petition", "habeas_corpus petition"},
		{"all stopwords", "it is what it is", ""},
		{"underscore survives", "already_joined token", "already_joined token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTokens_EmptyIsNil(t *testing.T) {
	assert.Nil(t, Tokens(""))
	assert.Empty(t, Tokens("the of and"))
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 1, Overlap("Challenge the admissibility of evidence", "no evidence of premeditation"))
	assert.Equal(t, 0, Overlap("Establish alibi", "no evidence of premeditation"))
	// distinct tokens only
	assert.Equal(t, 1, Overlap("evidence evidence", "evidence evidence evidence"))
	assert.Equal(t, 0, Overlap("", "anything"))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.True(t, IsStopword("not"))
	assert.False(t, IsStopword("evidence"))
}

func TestKeywordTable_BoostFactor(t *testing.T) {
	kw := DefaultKeywords()

	assert.Equal(t, 1.5, kw.BoostFactor("murder"))
	assert.Equal(t, 1.8, kw.BoostFactor("ipc"))
	assert.Equal(t, 1.4, kw.BoostFactor("mens_rea"))
	assert.Equal(t, 1.4, kw.BoostFactor("code"))
	assert.Equal(t, 1.0, kw.BoostFactor("banana"))

	var nilTable *KeywordTable
	assert.Equal(t, 1.0, nilTable.BoostFactor("murder"))
	assert.False(t, nilTable.Has("murder"))
}

func TestKeywordTable_WeightsInRange(t *testing.T) {
	kw := DefaultKeywords()
	require.Greater(t, len(kw.weights), 50)
	for term, w := range builtinKeywords {
		assert.GreaterOrEqual(t, w, 1.2, term)
		assert.LessOrEqual(t, w, 1.8, term)
	}
}

func TestNewKeywordTable_NormalizesKeys(t *testing.T) {
	kw := NewKeywordTable(map[string]float64{
		"Habeas Corpus": 2.0,
		"weak":          0.5,
		"  ":            3.0,
	})

	assert.Equal(t, 2.0, kw.BoostFactor("habeas_corpus"))
	assert.Equal(t, 1.0, kw.BoostFactor("weak"))
	assert.False(t, kw.Has(""))
	assert.Len(t, kw.weights, 2)
}

func TestEnhanceQuery(t *testing.T) {
	kw := DefaultKeywords()

	tests := []struct {
		name string
		in   string
		want string
	}{
		// murder 1.5 rounds to 2 -> one extra copy
		{"duplicates strong terms", "murder case", "murder murder case"},
		// evidence 1.4 rounds to 1 -> no extra copy
		{"leaves weak terms alone", "evidence found", "evidence found"},
		{"ipc rounds up", "ipc charge", "ipc ipc charge"},
		{"idiom token boosted as a whole", "writ of habeas corpus", "writ writ habeas_corpus habeas_corpus"},
		{"partial idiom gets no boost", "the habeas petition", "habeas petition"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kw.EnhanceQuery(tt.in))
		})
	}
}

func TestEnhanceQuery_CustomTable(t *testing.T) {
	kw := NewKeywordTable(map[string]float64{"alibi": 3.4})
	assert.Equal(t, "alibi alibi alibi", kw.EnhanceQuery("Alibi"))
}

func TestExtractSectionRefs(t *testing.T) {
	text := "Charged under Section 302 of the Indian Penal Code and section 66a of IT Act. " +
		"Bail sought under section 439 of CrPC; section 302 again, and Section 65B."

	refs := ExtractSectionRefs(text)
	assert.Equal(t, []SectionRef{
		{Section: "302", Act: model.ActIPC},
		{Section: "66A", Act: model.ActIT},
		{Section: "439", Act: model.ActCrPC},
		{Section: "302"},
		{Section: "65B"},
	}, refs)

	assert.Empty(t, ExtractSectionRefs("no statute mentioned"))
}

func TestVisibleText(t *testing.T) {
	doc := `<html><head><title>Order</title><style>p{}</style></head>
	<body><h1>FIR No. 12</h1><p>The accused was seen with a <b>knife</b>.</p>
	<script>var x = 1;</script></body></html>`

	text, err := VisibleText(doc)
	require.NoError(t, err)
	assert.Equal(t, "FIR No. 12 The accused was seen with a knife .", text)
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "Order")
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<!DOCTYPE html><html></html>"))
	assert.True(t, LooksLikeHTML("  <p>hello</p>"))
	assert.False(t, LooksLikeHTML("plain narrative < 5 witnesses"))
}

func TestResolveAct(t *testing.T) {
	tests := []struct {
		in    string
		want  model.Act
		known bool
	}{
		{"IPC", model.ActIPC, true},
		{"ipc", model.ActIPC, true},
		{"Indian  Penal Code", model.ActIPC, true},
		{"IT Act", model.ActIT, true},
		{"it act", model.ActIT, true},
		{"crpc", model.ActCrPC, true},
		{" Companies Act ", "Companies Act", false},
	}
	for _, tt := range tests {
		got, ok := ResolveAct(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.known, ok, tt.in)
	}
}

func TestSplitSentences(t *testing.T) {
	text := "The accused was seen near the house on Monday night. He fled! Was the knife recovered? See sec. 27 of the Evidence Act."
	got := SplitSentences(text, 1)
	assert.Equal(t, []string{
		"The accused was seen near the house on Monday night.",
		"He fled!",
		"Was the knife recovered?",
		"See sec. 27 of the Evidence Act.",
	}, got)

	assert.Empty(t, SplitSentences("   ", 1))
	assert.Equal(t, []string{"Long enough sentence."}, SplitSentences("Hi. Long enough sentence.", 5))
}
