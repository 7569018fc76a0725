// Package summary renders extracted tender requirements for people.
package summary

import (
	"strings"

	"github.com/spigell/tender-responder/internal/extract"
)

const (
	// Unavailable is returned when neither fields nor key sentences were found.
	Unavailable = "Summary not available from document content."

	maxSummaryRequirements = 5
	maxFallbackSentences   = 5
	maxHighlightBullets    = 3
	highlightBulletRunes   = 80
	highlightScopeRunes    = 100
)

var (
	fallbackKeywords = []string{"tender", "bid", "submit", "deadline", "requirement", "eligible", "scope"}

	// GenericHighlights are shown when no field was recognized.
	GenericHighlights = []string{
		"Review tender documents for complete requirements",
		"Check submission deadline carefully",
		"Verify all eligibility criteria before bidding",
		"Ensure all required documents are prepared",
		"Confirm budget and scope alignment",
	}
)

// Summary is the composed output for one text.
type Summary struct {
	Text         string               `json:"summary"`
	Highlights   []string             `json:"highlights"`
	Requirements extract.Requirements `json:"requirements"`
}

// Compose extracts requirements from text and renders both the summary and its highlights.
func Compose(text string) Summary {
	reqs := extract.Extract(text)
	return Summary{
		Text:         Summarize(reqs, text),
		Highlights:   Highlights(reqs),
		Requirements: reqs,
	}
}

// Summarize renders one paragraph per recognized field. raw is only read when
// no field was recognized, to pick key sentences instead.
func Summarize(reqs extract.Requirements, raw string) string {
	if reqs.IsEmpty() {
		return fallback(raw)
	}

	paragraphs := make([]string, 0, 7)
	if reqs.Objective != "" {
		paragraphs = append(paragraphs, "📋 **Objective**: "+reqs.Objective)
	}
	if reqs.Scope != "" {
		paragraphs = append(paragraphs, "🎯 **Scope**: "+reqs.Scope)
	}
	if reqs.Deadline != "" {
		paragraphs = append(paragraphs, "⏰ **Submission Deadline**: "+reqs.Deadline)
	}
	if len(reqs.EligibilityCriteria) > 0 {
		paragraphs = append(paragraphs, bulletList("✅ **Eligibility Criteria**:", reqs.EligibilityCriteria))
	}
	if reqs.Budget != "" {
		paragraphs = append(paragraphs, "💰 **Budget**: "+reqs.Budget)
	}
	if reqs.Location != "" {
		paragraphs = append(paragraphs, "📍 **Location**: "+reqs.Location)
	}
	if len(reqs.KeyRequirements) > 0 {
		top := reqs.KeyRequirements[:min(maxSummaryRequirements, len(reqs.KeyRequirements))]
		paragraphs = append(paragraphs, bulletList("🔧 **Key Requirements**:", top))
	}

	return strings.Join(paragraphs, "\n\n")
}

func bulletList(label string, items []string) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, label)
	for _, item := range items {
		lines = append(lines, "   • "+item)
	}
	return strings.Join(lines, "\n")
}

func fallback(raw string) string {
	key := extract.Sentences(strings.Split(raw, "."), fallbackKeywords, maxFallbackSentences)
	if len(key) == 0 {
		return Unavailable
	}
	return strings.Join(key, ". ") + "."
}

// Highlights returns short bullets for the recognized fields, or GenericHighlights.
func Highlights(reqs extract.Requirements) []string {
	points := make([]string, 0, 11)

	if reqs.Objective != "" {
		points = append(points, "🎯 Objective: "+reqs.Objective)
	}
	if reqs.Scope != "" {
		points = append(points, "📋 Scope: "+truncate(reqs.Scope, highlightScopeRunes)+"...")
	}
	if reqs.Deadline != "" {
		points = append(points, "⏰ Deadline: "+reqs.Deadline)
	}
	if reqs.Budget != "" {
		points = append(points, "💰 Budget: "+reqs.Budget)
	}
	if reqs.Location != "" {
		points = append(points, "📍 Location: "+reqs.Location)
	}
	for _, criteria := range reqs.EligibilityCriteria[:min(maxHighlightBullets, len(reqs.EligibilityCriteria))] {
		points = append(points, "✅ "+truncate(criteria, highlightBulletRunes)+"...")
	}
	for _, req := range reqs.KeyRequirements[:min(maxHighlightBullets, len(reqs.KeyRequirements))] {
		points = append(points, "🔧 "+truncate(req, highlightBulletRunes)+"...")
	}

	if len(points) == 0 {
		return append([]string(nil), GenericHighlights...)
	}
	return points
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
