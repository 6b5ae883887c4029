// Package facts holds the pure validators and normalizers used to accept
// captured values: person and company names, institutions, marital status,
// payment method, tax identifiers, amounts and short yes/no replies.
//
// Jurisdiction-specific words live in an embedded YAML vocabulary rather
// than in code. Every function is deterministic and free of I/O.
package facts

import (
	_ "embed"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/arkus-mindteams/Notary-sub000/internal/domain/transaction"
)

//go:embed vocabulary.yaml
var defaultVocabulary []byte

// Institution is a known lender with its accepted spellings.
type Institution struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

type rawVocabulary struct {
	Institutions       []Institution       `yaml:"institutions"`
	MaritalStatus      map[string][]string `yaml:"marital_status"`
	PaymentMethods     map[string][]string `yaml:"payment_methods"`
	LegalEntityMarkers []string            `yaml:"legal_entity_markers"`
	Polarity           struct {
		Affirmative  []string `yaml:"affirmative"`
		Negative     []string `yaml:"negative"`
		InvertedCues []string `yaml:"inverted_cues"`
	} `yaml:"polarity"`
	AmountMultipliers map[string]float64 `yaml:"amount_multipliers"`
	TaxIDPatterns     struct {
		NaturalPerson string `yaml:"natural_person"`
		LegalEntity   string `yaml:"legal_entity"`
	} `yaml:"tax_id_patterns"`
	NameStopwords []string `yaml:"name_stopwords"`
}

// phrase is a folded vocabulary entry mapped to its canonical value.
type phrase struct {
	text  string
	value string
}

// Vocabulary is the compiled capture vocabulary. It is immutable after
// Load and safe for concurrent use.
type Vocabulary struct {
	institutions  []Institution
	instPhrases   []phrase
	marital       []phrase
	payment       []phrase
	entityMarkers []string
	affirmative   []string
	negative      []string
	invertedCues  []string
	multipliers   map[string]float64
	taxNatural    *regexp.Regexp
	taxEntity     *regexp.Regexp
	stopwords     map[string]struct{}
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// Default returns the embedded vocabulary. The embedded file is part of the
// binary, so a decode failure is a build defect and panics.
func Default() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := Load(defaultVocabulary)
		if err != nil {
			panic(fmt.Sprintf("facts: embedded vocabulary: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

// Load decodes and compiles a YAML vocabulary document.
func Load(data []byte) (*Vocabulary, error) {
	var raw rawVocabulary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding vocabulary: %w", err)
	}

	v := &Vocabulary{
		institutions: raw.Institutions,
		multipliers:  make(map[string]float64, len(raw.AmountMultipliers)),
		stopwords:    make(map[string]struct{}, len(raw.NameStopwords)),
	}

	for _, inst := range raw.Institutions {
		canonical := Fold(inst.Name)
		if canonical == "" {
			return nil, fmt.Errorf("institution with empty name")
		}
		v.instPhrases = append(v.instPhrases, phrase{text: canonical, value: canonical})
		for _, alias := range inst.Aliases {
			v.instPhrases = append(v.instPhrases, phrase{text: Fold(alias), value: canonical})
		}
	}

	var err error
	if v.marital, err = enumPhrases(raw.MaritalStatus, func(s string) bool {
		return transaction.MaritalStatus(s).IsValid()
	}); err != nil {
		return nil, fmt.Errorf("marital_status: %w", err)
	}
	if v.payment, err = enumPhrases(raw.PaymentMethods, func(s string) bool {
		return transaction.PaymentMethod(s).IsValid()
	}); err != nil {
		return nil, fmt.Errorf("payment_methods: %w", err)
	}

	v.entityMarkers = foldAll(raw.LegalEntityMarkers)
	v.affirmative = foldAll(raw.Polarity.Affirmative)
	v.negative = foldAll(raw.Polarity.Negative)
	v.invertedCues = foldAll(raw.Polarity.InvertedCues)

	for word, factor := range raw.AmountMultipliers {
		v.multipliers[Fold(word)] = factor
	}
	for _, w := range raw.NameStopwords {
		v.stopwords[Fold(w)] = struct{}{}
	}

	if v.taxNatural, err = regexp.Compile(raw.TaxIDPatterns.NaturalPerson); err != nil {
		return nil, fmt.Errorf("tax_id_patterns.natural_person: %w", err)
	}
	if v.taxEntity, err = regexp.Compile(raw.TaxIDPatterns.LegalEntity); err != nil {
		return nil, fmt.Errorf("tax_id_patterns.legal_entity: %w", err)
	}

	// Longest phrases first so "CREDITO Y CONTADO" wins over "CREDITO".
	for _, list := range [][]phrase{v.instPhrases, v.marital, v.payment} {
		sortPhrases(list)
	}
	return v, nil
}

// Institutions returns the known lenders.
func (v *Vocabulary) Institutions() []Institution {
	return append([]Institution(nil), v.institutions...)
}

func enumPhrases(m map[string][]string, valid func(string) bool) ([]phrase, error) {
	var out []phrase
	for value, words := range m {
		if !valid(value) {
			return nil, fmt.Errorf("unknown value %q", value)
		}
		for _, w := range words {
			out = append(out, phrase{text: Fold(w), value: value})
		}
	}
	return out, nil
}

func sortPhrases(list []phrase) {
	sort.SliceStable(list, func(i, j int) bool {
		if len(list[i].text) != len(list[j].text) {
			return len(list[i].text) > len(list[j].text)
		}
		return list[i].text < list[j].text
	})
}

func foldAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// findPhrase returns the first phrase that occurs in text as whole words.
func findPhrase(list []phrase, text string) (phrase, bool) {
	folded := " " + Fold(text) + " "
	for _, p := range list {
		if containsWords(folded, p.text) {
			return p, true
		}
	}
	return phrase{}, false
}

// containsWords reports whether needle occurs in padded haystack with word
// boundaries on both sides. haystack must be folded and padded with spaces.
func containsWords(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		if isBoundary(haystack, start-1) && isBoundary(haystack, end) {
			return true
		}
		idx = start + 1
	}
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c >= 0x80)
}
