// Package relevance selects the listings that match a free-text keyword query.
package relevance

import (
	"regexp"
	"strings"

	"github.com/spigell/tender-responder/internal/extract"
	"github.com/spigell/tender-responder/internal/tender"
)

// FallbackLimit is the number of listings returned when nothing matched.
const FallbackLimit = 10

// structuralKeyword is the only phrase the structural heuristic fires for.
const structuralKeyword = "construction"

const maxStructuralTitleWords = 12

// Query is a keyword query. Filters are informational and never enforced.
type Query struct {
	Keywords string            `mapstructure:"keywords" json:"keywords"`
	Filters  map[string]string `mapstructure:"filters" json:"filters,omitempty"`
}

// Related-term expansions keyed by the whole lower-cased keyword phrase. Read-only.
var relatedTerms = map[string][]string{
	"construction": {"build", "building", "contractor", "civil", "engineering", "renovation", "infrastructure", "maintenance", "roads", "plumbing", "electrical"},
	"security":     {"guard", "guarding", "surveillance", "cctv", "protection", "patrol"},
	"it":           {"software", "hardware", "network", "ict", "digital", "computer"},
	"cleaning":     {"hygiene", "sanitation", "janitorial", "waste"},
	"health":       {"hospital", "clinic", "pharmaceutical", "medical"},
	"education":    {"school", "training", "learner", "university"},
}

var (
	tenderStyleTitle = regexp.MustCompile(`(?i)^\s*(tender|bid|rfq|rfp|rfb)\b[\s:#.]*(no\.?|number|ref\.?)?[\s:#.]*[a-z]*\d`)
	biddingTerms     = []string{"bid", "rfp", "request for proposal"}
	supplyPattern    = regexp.MustCompile(`(?i)\bsupply\b.*\b(material|materials|equipment)\b`)
)

// Filter keeps candidates relevant to keywords, preserving input order.
// An empty query returns candidates unchanged. When nothing matches, the
// first FallbackLimit candidates are returned instead.
func Filter(candidates []*tender.Release, keywords string) []*tender.Release {
	phrase := strings.ToLower(strings.TrimSpace(keywords))
	if phrase == "" {
		return candidates
	}

	words := strings.Fields(phrase)
	related := relatedTerms[phrase]

	kept := make([]*tender.Release, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}

		text := SearchableText(candidate)
		if extract.ContainsAny(text, words) ||
			extract.ContainsAny(text, related) ||
			structuralMatch(phrase, candidate) {
			kept = append(kept, candidate)
		}
	}

	if len(kept) == 0 && len(candidates) > 0 {
		return candidates[:min(FallbackLimit, len(candidates))]
	}

	return kept
}

// Apply runs Filter with the query keywords.
func (q Query) Apply(candidates []*tender.Release) []*tender.Release {
	return Filter(candidates, q.Keywords)
}

// SearchableText is the lower-cased text keyword matching runs against.
func SearchableText(r *tender.Release) string {
	parts := []string{r.Tender.Title, r.Tender.Description}
	for _, item := range r.Tender.Items {
		parts = append(parts, item.Description, item.Classification.Description)
	}
	parts = append(parts, r.BuyerName(), r.BuyerID())

	return strings.ToLower(strings.Join(parts, " "))
}

func structuralMatch(phrase string, r *tender.Release) bool {
	if phrase != structuralKeyword {
		return false
	}

	title := strings.TrimSpace(r.Tender.Title)
	if title != "" && len(strings.Fields(title)) <= maxStructuralTitleWords && tenderStyleTitle.MatchString(title) {
		return true
	}

	lower := strings.ToLower(title + " " + r.Tender.Description)
	return extract.ContainsAny(lower, biddingTerms) || supplyPattern.MatchString(lower)
}
