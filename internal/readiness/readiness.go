// Package readiness scores how well a company profile fits a tender.
//
// Six independent criteria are evaluated against the requirements recognized in
// the tender text. Each criterion adds its earned points and one or more
// checklist lines; the suitability score is the earned share of all available
// points. Scoring never fails: faults become a degraded zero-score result.
package readiness

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/extract"
	"github.com/spigell/tender-responder/internal/utils"
)

const (
	PassMarker = "✅"
	FailMarker = "❌"

	degradedRecommendation = "Unable to calculate score due to processing error"
	degradedChecklistEntry = "Error in scoring calculation"
)

// CompanyProfile is the normalized company view consumed by the scorer.
type CompanyProfile struct {
	Name               string   `json:"name,omitempty"`
	Industry           string   `json:"industry"`
	Services           []string `json:"services"`
	Certifications     []string `json:"certifications"`
	GeographicCoverage []string `json:"geographic_coverage"`
	YearsOfExperience  int      `json:"years_of_experience"`
	AnnualTurnover     int      `json:"annual_turnover"`
	EmployeeCount      int      `json:"employee_count"`
	BlackOwned         bool     `json:"black_owned"`
	SME                bool     `json:"sme"`
}

// ScoreResult is the outcome of one scoring call.
type ScoreResult struct {
	SuitabilityScore   int                  `json:"suitability_score"`
	Recommendation     string               `json:"recommendation"`
	Checklist          []string             `json:"checklist"`
	MatchedCriteria    int                  `json:"matched_criteria"`
	TotalCriteria      int                  `json:"total_criteria"`
	TenderRequirements extract.Requirements `json:"tender_requirements"`
	// Degraded is set when the score could not be computed.
	Degraded bool `json:"degraded,omitempty"`
}

// Scorer evaluates tenders. The zero value is ready to use.
type Scorer struct {
	logger *zap.Logger
}

// New returns a Scorer that reports degraded results to logger. A nil logger is allowed.
func New(logger *zap.Logger) *Scorer {
	return &Scorer{logger: logger}
}

// Score extracts requirements from text and scores them against company.
func Score(text string, company *CompanyProfile) ScoreResult {
	return (&Scorer{}).Score(text, company)
}

// Score never panics; a nil company or an internal fault yields a degraded result.
func (s *Scorer) Score(text string, company *CompanyProfile) (result ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			s.warn("scoring failed", zap.Any("panic", r), zap.String("text", utils.TruncateForLog(text, 200)))
			result = degraded()
		}
	}()

	if company == nil {
		s.warn("scoring failed", zap.String("reason", "company profile is missing"))
		return degraded()
	}

	reqs := extract.Extract(text)
	return evaluate(text, reqs, company)
}

func (s *Scorer) warn(msg string, fields ...zap.Field) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Warn(msg, fields...)
}

func degraded() ScoreResult {
	return ScoreResult{
		SuitabilityScore: 0,
		Recommendation:   degradedRecommendation,
		Checklist:        []string{degradedChecklistEntry},
		MatchedCriteria:  0,
		TotalCriteria:    1,
		Degraded:         true,
	}
}

// tally accumulates earned points and checklist lines across criteria.
type tally struct {
	earned    int
	total     int
	checklist []string
}

func (t *tally) pass(line string) {
	t.checklist = append(t.checklist, PassMarker+" "+line)
}

func (t *tally) fail(line string) {
	t.checklist = append(t.checklist, FailMarker+" "+line)
}

func (t *tally) add(weight, earned int) {
	t.total += weight
	t.earned += earned
}

func evaluate(text string, reqs extract.Requirements, company *CompanyProfile) ScoreResult {
	t := &tally{}

	t.add(weightIndustry, checkIndustry(t, text, company))
	t.add(weightExperience, checkExperience(t, reqs, company))
	t.add(weightLocation, checkLocation(t, reqs, company))
	t.add(weightCertification, checkCertifications(t, reqs, company))
	t.add(weightCapacity, checkCapacity(t, text, company))
	t.add(weightBBBEE, checkBBBEE(t, text, company))

	score := 0
	if t.total > 0 {
		score = 100 * t.earned / t.total
	}
	if score > 100 {
		score = 100
	}

	matched := 0
	for _, line := range t.checklist {
		if strings.Contains(line, PassMarker) {
			matched++
		}
	}

	return ScoreResult{
		SuitabilityScore:   score,
		Recommendation:     Recommend(score, matched, len(t.checklist)),
		Checklist:          t.checklist,
		MatchedCriteria:    matched,
		TotalCriteria:      len(t.checklist),
		TenderRequirements: reqs,
	}
}

// Recommend maps a score to its recommendation band.
func Recommend(score, matched, total int) string {
	switch {
	case score >= 80:
		return fmt.Sprintf("HIGHLY SUITABLE - Strong match (%d/%d criteria). Recommended for bidding.", matched, total)
	case score >= 60:
		return fmt.Sprintf("SUITABLE - Good match (%d/%d criteria). Consider bidding with minor adjustments.", matched, total)
	case score >= 40:
		return fmt.Sprintf("MODERATELY SUITABLE - Partial match (%d/%d criteria). Review requirements carefully.", matched, total)
	default:
		return fmt.Sprintf("LOW SUITABILITY - Limited match (%d/%d criteria). Not recommended unless gaps can be addressed.", matched, total)
	}
}
