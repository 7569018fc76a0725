// Package extract recognizes requirement fields in unstructured tender text.
//
// Extraction is heuristic: every field is looked up with an ordered list of
// patterns and the first pattern that matches anywhere in the text wins. A
// field nothing matches keeps its zero value; extraction never fails.
package extract

import (
	"regexp"
	"strings"
)

const (
	maxEligibilityCriteria = 10
	maxKeyRequirements     = 15
)

// Requirements holds the fields recognized in a tender text.
type Requirements struct {
	Objective           string   `json:"objective"`
	Scope               string   `json:"scope"`
	Deadline            string   `json:"deadline"`
	EligibilityCriteria []string `json:"eligibility_criteria"`
	Budget              string   `json:"budget"`
	Location            string   `json:"location"`
	KeyRequirements     []string `json:"key_requirements"`
}

// IsEmpty reports whether no field was recognized.
func (r Requirements) IsEmpty() bool {
	return r.Objective == "" &&
		r.Scope == "" &&
		r.Deadline == "" &&
		len(r.EligibilityCriteria) == 0 &&
		r.Budget == "" &&
		r.Location == "" &&
		len(r.KeyRequirements) == 0
}

// RequirementText joins eligibility criteria and key requirements, lower-cased.
func (r Requirements) RequirementText() string {
	parts := make([]string, 0, len(r.EligibilityCriteria)+len(r.KeyRequirements))
	parts = append(parts, r.EligibilityCriteria...)
	parts = append(parts, r.KeyRequirements...)
	return strings.ToLower(strings.Join(parts, " "))
}

// Patterns are case-insensitive and let `.` cross newlines.
func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?is)`+p))
	}
	return compiled
}

const numericDate = `(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`

var (
	objectivePatterns = compile(
		`objective[:\s]*([^.\n]+)`,
		`purpose[:\s]*([^.\n]+)`,
		`aim[:\s]*([^.\n]+)`,
		`introduction[:\s]*([^.\n]{50,200})`,
	)

	scopePatterns = compile(
		`scope[:\s]*([^.\n]{50,300})`,
		`works[:\s]*([^.\n]{50,300})`,
		`services[:\s]*([^.\n]{50,300})`,
		`description[:\s]*([^.\n]{50,300})`,
	)

	deadlinePatterns = compile(
		`deadline[:\s]*([^.\n]{10,50})`,
		`submission[^.\n]{0,50}?`+numericDate,
		`closing[^.\n]{0,50}?`+numericDate,
		`(\d{1,2} (january|february|march|april|may|june|july|august|september|october|november|december) \d{4})`,
	)

	budgetPatterns = compile(
		`budget[:\s]*([^.\n]{10,50})`,
		`amount[:\s]*([^.\n]{10,50})`,
		`value[:\s]*([^.\n]{10,50})`,
		`(\$|r|usd)\s*(\d[\d,\.]*)`,
	)

	locationPatterns = compile(
		`location[:\s]*([^.\n]{10,50})`,
		`province[:\s]*([^.\n]{10,50})`,
		`city[:\s]*([^.\n]{10,50})`,
		`address[:\s]*([^.\n]{10,50})`,
	)

	eligibilityKeywords = []string{"eligible", "qualification", "requirement", "must have", "should have"}
	requirementKeywords = []string{"must", "shall", "required", "requirement", "specification"}
)

// Extract recognizes every field in text. It is safe for concurrent use.
func Extract(text string) Requirements {
	sentences := strings.Split(text, ".")

	return Requirements{
		Objective:           Pattern(text, objectivePatterns),
		Scope:               Pattern(text, scopePatterns),
		Deadline:            Pattern(text, deadlinePatterns),
		EligibilityCriteria: Sentences(sentences, eligibilityKeywords, maxEligibilityCriteria),
		Budget:              Pattern(text, budgetPatterns),
		Location:            Pattern(text, locationPatterns),
		KeyRequirements:     Sentences(sentences, requirementKeywords, maxKeyRequirements),
	}
}

// Pattern returns the first match of the first matching pattern.
// When the pattern has several groups the non-empty ones are joined with a space.
func Pattern(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		groups := re.FindStringSubmatch(text)
		if groups == nil {
			continue
		}

		captured := groups[1:]
		if len(captured) == 0 {
			return strings.TrimSpace(groups[0])
		}

		if len(captured) == 1 {
			return strings.TrimSpace(captured[0])
		}

		nonEmpty := make([]string, 0, len(captured))
		for _, g := range captured {
			if g != "" {
				nonEmpty = append(nonEmpty, g)
			}
		}
		return strings.TrimSpace(strings.Join(nonEmpty, " "))
	}

	return ""
}

// Sentences keeps trimmed sentences containing any keyword, in document order, up to limit.
func Sentences(sentences []string, keywords []string, limit int) []string {
	kept := make([]string, 0)
	for _, sentence := range sentences {
		if len(kept) == limit {
			break
		}

		if ContainsAny(strings.ToLower(sentence), keywords) {
			kept = append(kept, strings.TrimSpace(sentence))
		}
	}
	return kept
}

// ContainsAny reports whether s contains any of substrs.
func ContainsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
