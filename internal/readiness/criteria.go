package readiness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/tender-responder/internal/extract"
)

const (
	weightIndustry      = 20
	weightExperience    = 20
	weightLocation      = 15
	weightCertification = 15
	// Capacity is declared as 15 but at most 10 can be earned.
	weightCapacity = 15
	weightBBBEE    = 15

	capacityAwardNoRequirement = 10
	capacityAwardPerCheck      = 5
	minimumEmployees           = 10
	minimumTurnover            = 1_000_000
	certificationAward         = 5
	bbbeeAwardNotCompliant     = 5
)

type keywordGroup struct {
	name     string
	keywords []string
}

// Tables are read-only after init.
var (
	industryKeywords = []keywordGroup{
		{name: "construction", keywords: []string{"construction", "building", "civil", "engineering", "contractor"}},
		{name: "it", keywords: []string{"it", "technology", "software", "hardware", "digital"}},
		{name: "security", keywords: []string{"security", "guard", "surveillance", "protection"}},
		{name: "cleaning", keywords: []string{"cleaning", "maintenance", "sanitation", "hygiene"}},
	}

	certificationFamilies = []keywordGroup{
		{name: "cidb", keywords: []string{"cidb"}},
		{name: "bbbee", keywords: []string{"bbbee", "b-bbee"}},
		{name: "iso", keywords: []string{"iso 9001", "iso 14001"}},
		{name: "sans", keywords: []string{"sans 10400"}},
	}

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*years`),
		regexp.MustCompile(`(\d+)\s*yr`),
		regexp.MustCompile(`minimum\s*(\d+)\s*experience`),
		regexp.MustCompile(`at least\s*(\d+)\s*years`),
	}

	bbbeeKeywords  = []string{"bbbee", "b-bbee"}
	workforceTerms = []string{"employees", "staff"}
	financialTerms = []string{"turnover", "revenue"}
)

// MatchIndustry returns the industry shared by the company and the tender text.
func MatchIndustry(text, industry string) (string, bool) {
	companyIndustry := strings.ToLower(industry)
	tenderText := strings.ToLower(text)

	for _, group := range industryKeywords {
		if extract.ContainsAny(companyIndustry, group.keywords) && extract.ContainsAny(tenderText, group.keywords) {
			return group.name, true
		}
	}
	return "", false
}

func checkIndustry(t *tally, text string, company *CompanyProfile) int {
	if _, ok := MatchIndustry(text, company.Industry); ok {
		t.pass("Industry/Sector: MATCHED")
		return weightIndustry
	}

	t.fail("Industry/Sector: NOT MATCHED")
	return 0
}

// RequiredExperience returns the first years-of-experience figure in requirement text, or 0.
func RequiredExperience(requirementText string) int {
	for _, re := range experiencePatterns {
		m := re.FindStringSubmatch(requirementText)
		if m == nil {
			continue
		}

		years, err := strconv.Atoi(m[1])
		if err != nil {
			return 0
		}
		return years
	}
	return 0
}

func checkExperience(t *tally, reqs extract.Requirements, company *CompanyProfile) int {
	required := RequiredExperience(reqs.RequirementText())

	switch {
	case required == 0:
		t.pass("Experience: No specific requirement")
		return weightExperience
	case company.YearsOfExperience >= required:
		t.pass(fmt.Sprintf("Experience: %d years (meets %d+ requirement)", company.YearsOfExperience, required))
		return weightExperience
	default:
		t.fail(fmt.Sprintf("Experience: %d years (needs %d+ years)", company.YearsOfExperience, required))
		return weightExperience / 2
	}
}

func checkLocation(t *tally, reqs extract.Requirements, company *CompanyProfile) int {
	location := strings.ToLower(reqs.Location)
	if location == "" {
		t.pass("Location: No specific requirement")
		return weightLocation
	}

	for _, area := range company.GeographicCoverage {
		area = strings.ToLower(strings.TrimSpace(area))
		if strings.Contains(location, area) || strings.Contains(area, location) {
			t.pass("Location: Operates in " + location)
			return weightLocation
		}
	}

	t.fail("Location: Does not operate in " + location)
	return 0
}

func checkCertifications(t *tally, reqs extract.Requirements, company *CompanyProfile) int {
	requirementText := reqs.RequirementText()

	held := make([]string, 0, len(company.Certifications))
	for _, cert := range company.Certifications {
		held = append(held, strings.ToLower(cert))
	}

	mentioned := false
	score := 0
	for _, family := range certificationFamilies {
		if !extract.ContainsAny(requirementText, family.keywords) {
			continue
		}
		mentioned = true

		label := strings.ToUpper(family.name)
		if holdsAny(held, family.keywords) {
			t.pass(label + ": Certified")
			score += certificationAward
			continue
		}
		t.fail(label + ": Not certified")
	}

	if !mentioned {
		t.pass("Certifications: No specific requirements")
		return weightCertification
	}

	return min(score, weightCertification)
}

func holdsAny(certs []string, keywords []string) bool {
	for _, cert := range certs {
		if extract.ContainsAny(cert, keywords) {
			return true
		}
	}
	return false
}

func checkCapacity(t *tally, text string, company *CompanyProfile) int {
	lower := strings.ToLower(text)
	checked := false
	score := 0

	if extract.ContainsAny(lower, workforceTerms) {
		checked = true
		if company.EmployeeCount >= minimumEmployees {
			t.pass("Capacity: Adequate workforce")
			score += capacityAwardPerCheck
		} else {
			t.fail("Capacity: Limited workforce")
		}
	}

	if extract.ContainsAny(lower, financialTerms) {
		checked = true
		if company.AnnualTurnover >= minimumTurnover {
			t.pass("Financial: Adequate turnover")
			score += capacityAwardPerCheck
		} else {
			t.fail("Financial: Limited turnover")
		}
	}

	if !checked {
		t.pass("Capacity: No specific requirements")
		return capacityAwardNoRequirement
	}
	return score
}

func checkBBBEE(t *tally, text string, company *CompanyProfile) int {
	if !extract.ContainsAny(strings.ToLower(text), bbbeeKeywords) {
		t.pass("BBBEE: No specific requirement")
		return weightBBBEE
	}

	if company.BlackOwned {
		t.pass("BBBEE: Compliant (Black-owned)")
		return weightBBBEE
	}

	t.fail("BBBEE: Not compliant")
	return bbbeeAwardNotCompliant
}
