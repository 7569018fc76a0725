package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const hallTender = "Objective: build a community hall. Scope: construction of a hall in Gauteng. " +
	"Deadline: 30 days. Minimum 5 years experience required. BBBEE level 2 preferred."

func constructionCompany() *CompanyProfile {
	return &CompanyProfile{
		Industry:           "Construction",
		YearsOfExperience:  8,
		GeographicCoverage: []string{"Gauteng"},
		Certifications:     []string{},
		BlackOwned:         false,
		EmployeeCount:      45,
		AnnualTurnover:     50_000_000,
		Services:           []string{},
	}
}

func TestScoreCommunityHall(t *testing.T) {
	t.Parallel()

	got := Score(hallTender, constructionCompany())

	assert.Equal(t, 85, got.SuitabilityScore)
	assert.Equal(t, []string{
		"✅ Industry/Sector: MATCHED",
		"✅ Experience: 8 years (meets 5+ requirement)",
		"✅ Location: No specific requirement",
		"✅ Certifications: No specific requirements",
		"✅ Capacity: No specific requirements",
		"❌ BBBEE: Not compliant",
	}, got.Checklist)
	assert.Equal(t, 5, got.MatchedCriteria)
	assert.Equal(t, 6, got.TotalCriteria)
	assert.Equal(t, "HIGHLY SUITABLE - Strong match (5/6 criteria). Recommended for bidding.", got.Recommendation)
	assert.Equal(t, "build a community hall", got.TenderRequirements.Objective)
	assert.False(t, got.Degraded)
}

func TestScoreMissingExperienceAndIndustry(t *testing.T) {
	t.Parallel()

	company := constructionCompany()
	company.Industry = "Security"
	company.YearsOfExperience = 3

	got := Score("Bidders must have at least 10 years experience.", company)

	// 0 + 10 + 15 + 15 + 10 + 15 out of 100
	assert.Equal(t, 65, got.SuitabilityScore)
	assert.Equal(t, "❌ Industry/Sector: NOT MATCHED", got.Checklist[0])
	assert.Equal(t, "❌ Experience: 3 years (needs 10+ years)", got.Checklist[1])
	assert.Equal(t, "SUITABLE - Good match (4/6 criteria). Consider bidding with minor adjustments.", got.Recommendation)
}

func TestScoreCertificationFamilies(t *testing.T) {
	t.Parallel()

	company := constructionCompany()
	company.Certifications = []string{"CIDB 7CE", "BBBEE 2"}

	got := Score("Bidders must hold CIDB grading 7CE and ISO 9001 certification.", company)

	assert.Contains(t, got.Checklist, "✅ CIDB: Certified")
	assert.Contains(t, got.Checklist, "❌ ISO: Not certified")
	assert.NotContains(t, got.Checklist, "✅ Certifications: No specific requirements")
	// one checklist line per mentioned family
	assert.Equal(t, 7, got.TotalCriteria)
}

func TestScoreCapacity(t *testing.T) {
	t.Parallel()

	company := constructionCompany()
	company.EmployeeCount = 5
	company.AnnualTurnover = 2_000_000

	got := Score("The bidder must have 20 staff and an annual turnover above R5 million.", company)

	assert.Contains(t, got.Checklist, "❌ Capacity: Limited workforce")
	assert.Contains(t, got.Checklist, "✅ Financial: Adequate turnover")
	assert.NotContains(t, got.Checklist, "✅ Capacity: No specific requirements")
}

func TestScoreLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		coverage []string
		want     string
	}{
		{
			name:     "tender location outside coverage",
			text:     "Location: Polokwane, Limpopo.",
			coverage: []string{"Gauteng"},
			want:     "❌ Location: Does not operate in polokwane, limpopo",
		},
		{
			name:     "coverage term inside tender location",
			text:     "Location: Johannesburg, Gauteng.",
			coverage: []string{"Western Cape", "Gauteng"},
			want:     "✅ Location: Operates in johannesburg, gauteng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			company := constructionCompany()
			company.GeographicCoverage = tt.coverage

			got := Score(tt.text, company)
			assert.Equal(t, tt.want, got.Checklist[2])
		})
	}
}

func TestScoreStaysInRange(t *testing.T) {
	t.Parallel()

	texts := []string{
		"",
		hallTender,
		"CIDB BBBEE ISO 9001 SANS 10400 must be provided. Staff and turnover required. Location: Cape Town Harbour.",
		"Software and digital services must be delivered by 5 yr experienced staff.",
	}
	weak := &CompanyProfile{Industry: "Catering"}

	for _, text := range texts {
		for _, company := range []*CompanyProfile{weak, constructionCompany()} {
			got := Score(text, company)
			assert.GreaterOrEqual(t, got.SuitabilityScore, 0)
			assert.LessOrEqual(t, got.SuitabilityScore, 100)
			assert.Equal(t, len(got.Checklist), got.TotalCriteria)
		}
	}
}

func TestScoreNilCompanyDegrades(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.WarnLevel)
	scorer := New(zap.New(core))

	got := scorer.Score(hallTender, nil)

	assert.True(t, got.Degraded)
	assert.Equal(t, 0, got.SuitabilityScore)
	assert.Equal(t, "Unable to calculate score due to processing error", got.Recommendation)
	assert.Equal(t, []string{"Error in scoring calculation"}, got.Checklist)
	assert.Equal(t, 0, got.MatchedCriteria)
	assert.Equal(t, 1, got.TotalCriteria)
	require.Equal(t, 1, observed.Len())
	assert.Equal(t, "scoring failed", observed.All()[0].Message)
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  string
	}{
		{score: 100, want: "HIGHLY SUITABLE - Strong match (3/4 criteria). Recommended for bidding."},
		{score: 80, want: "HIGHLY SUITABLE - Strong match (3/4 criteria). Recommended for bidding."},
		{score: 79, want: "SUITABLE - Good match (3/4 criteria). Consider bidding with minor adjustments."},
		{score: 40, want: "MODERATELY SUITABLE - Partial match (3/4 criteria). Review requirements carefully."},
		{score: 39, want: "LOW SUITABILITY - Limited match (3/4 criteria). Not recommended unless gaps can be addressed."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Recommend(tt.score, 3, 4))
	}
}

func TestRequiredExperience(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, RequiredExperience(""))
	assert.Equal(t, 5, RequiredExperience("minimum 5 years experience required"))
	assert.Equal(t, 3, RequiredExperience("3yr track record"))
	assert.Equal(t, 7, RequiredExperience("minimum 7 experience"))
}

func TestMatchIndustry(t *testing.T) {
	t.Parallel()

	industry, ok := MatchIndustry("Provision of guard services", "Security Services")
	assert.True(t, ok)
	assert.Equal(t, "security", industry)

	_, ok = MatchIndustry("Provision of guard services", "Catering")
	assert.False(t, ok)
}
