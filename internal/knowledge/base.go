// Package knowledge holds the static medical lookup tables: symptom to
// candidate conditions, red-flag symptoms, condition details, symptom
// clarification questions and age risk bands. The tables are loaded once
// at startup and never mutated afterwards; every service receives the
// same shared Base.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/medtriage/backend/internal/domain/entities"
)

// Base is the immutable knowledge base.
type Base struct {
	symptomConditions map[string][]string
	redFlags          map[string]struct{}
	conditions        map[string]entities.Condition
	questions         map[string][]string
	ageBands          []entities.AgeBand
	highRiskHistory   map[string]struct{}
}

// baseFile is the JSON shape of a knowledge override file.
type baseFile struct {
	SymptomConditions map[string][]string           `json:"symptom_conditions"`
	RedFlagSymptoms   []string                      `json:"red_flag_symptoms"`
	Conditions        map[string]entities.Condition `json:"conditions"`
	SymptomQuestions  map[string][]string           `json:"symptom_questions"`
	AgeBands          []entities.AgeBand            `json:"age_bands"`
	HighRiskHistory   []string                      `json:"high_risk_history"`
}

// Load reads a knowledge base from a JSON file. Keys are normalized the
// same way lookups are, so an override file can use any casing.
func Load(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge file: %w", err)
	}

	var raw baseFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge file: %w", err)
	}

	return fromFile(raw), nil
}

func fromFile(raw baseFile) *Base {
	b := &Base{
		symptomConditions: make(map[string][]string, len(raw.SymptomConditions)),
		redFlags:          make(map[string]struct{}, len(raw.RedFlagSymptoms)),
		conditions:        make(map[string]entities.Condition, len(raw.Conditions)),
		questions:         make(map[string][]string, len(raw.SymptomQuestions)),
		ageBands:          raw.AgeBands,
		highRiskHistory:   make(map[string]struct{}, len(raw.HighRiskHistory)),
	}

	for symptom, conditions := range raw.SymptomConditions {
		b.symptomConditions[normalizeToken(symptom)] = conditions
	}
	for _, symptom := range raw.RedFlagSymptoms {
		b.redFlags[normalizeToken(symptom)] = struct{}{}
	}
	for id, cond := range raw.Conditions {
		cond.ID = id
		b.conditions[id] = cond
	}
	for symptom, questions := range raw.SymptomQuestions {
		b.questions[NormalizeSymptom(symptom)] = questions
	}
	for _, h := range raw.HighRiskHistory {
		b.highRiskHistory[strings.ToLower(h)] = struct{}{}
	}

	return b
}

// normalizeToken lowercases, trims and underscores a symptom token.
func normalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// NormalizeSymptom lowercases and trims a reported symptom. Internal
// spaces are preserved; red-flag membership additionally underscores them.
func NormalizeSymptom(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ConditionsFor returns the candidate condition ids for a normalized
// symptom, or nil when the symptom has no table entry.
func (b *Base) ConditionsFor(symptom string) []string {
	return b.symptomConditions[symptom]
}

// ConditionsForAll returns the set union of candidate conditions over all
// symptoms, sorted for stable output. A condition appears once no matter
// how many symptoms matched it.
func (b *Base) ConditionsForAll(symptoms []string) []string {
	set := make(map[string]struct{})
	for _, symptom := range symptoms {
		for _, cond := range b.symptomConditions[symptom] {
			set[cond] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for cond := range set {
		out = append(out, cond)
	}
	sort.Strings(out)
	return out
}

// IsRedFlag reports whether the symptom is a red flag. The symptom is
// normalized with spaces replaced by underscores before the membership
// test.
func (b *Base) IsRedFlag(symptom string) bool {
	_, ok := b.redFlags[normalizeToken(symptom)]
	return ok
}

// Condition returns the detail record for a condition id.
func (b *Base) Condition(id string) (entities.Condition, bool) {
	cond, ok := b.conditions[id]
	return cond, ok
}

// Questions returns the clarification questions for a symptom. Lookup is
// by lowercased, trimmed token; internal spaces are not underscored, so
// "chest pain" misses the "chest_pain" entry and falls back to the
// default question set at the caller.
func (b *Base) Questions(symptom string) ([]string, bool) {
	qs, ok := b.questions[NormalizeSymptom(symptom)]
	return qs, ok
}

// AgeBandFor returns the first declared band containing age. The declared
// order is authoritative: the scan stops at the first match.
func (b *Base) AgeBandFor(age int) (entities.AgeBand, bool) {
	for _, band := range b.ageBands {
		if band.Contains(age) {
			return band, true
		}
	}
	return entities.AgeBand{}, false
}

// IsHighRiskHistory reports whether a medical-history entry belongs to
// the fixed high-risk condition set. Matching is case-insensitive.
func (b *Base) IsHighRiskHistory(condition string) bool {
	_, ok := b.highRiskHistory[strings.ToLower(condition)]
	return ok
}

// SymptomEntry pairs a symptom with its candidate conditions, for search
// indexing.
type SymptomEntry struct {
	Symptom    string
	Conditions []string
	RedFlag    bool
}

// SymptomEntries lists every symptom known to the base (condition table
// and red-flag set combined), sorted by symptom.
func (b *Base) SymptomEntries() []SymptomEntry {
	seen := make(map[string]struct{}, len(b.symptomConditions)+len(b.redFlags))
	entries := make([]SymptomEntry, 0, len(seen))

	for symptom, conditions := range b.symptomConditions {
		seen[symptom] = struct{}{}
		entries = append(entries, SymptomEntry{
			Symptom:    symptom,
			Conditions: conditions,
			RedFlag:    b.IsRedFlag(symptom),
		})
	}
	for symptom := range b.redFlags {
		if _, ok := seen[symptom]; ok {
			continue
		}
		entries = append(entries, SymptomEntry{Symptom: symptom, RedFlag: true})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Symptom < entries[j].Symptom })
	return entries
}
