// Package profile loads stored company profiles and normalizes them for scoring.
package profile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/spigell/tender-responder/internal/readiness"
)

// smeEmployeeLimit is the head count below which a company counts as an SME.
const smeEmployeeLimit = 50

var ErrInvalid = errors.New("invalid company profile")

// Stored is a company profile as kept by a profile store. Lists are comma separated.
type Stored struct {
	CompanyName        string `yaml:"company_name" json:"company_name" validate:"required"`
	RegistrationNumber string `yaml:"registration_number,omitempty" json:"registration_number,omitempty"`
	IndustrySector     string `yaml:"industry_sector" json:"industry_sector" validate:"required"`
	ServicesProvided   string `yaml:"services_provided" json:"services_provided"`
	YearsOfExperience  int    `yaml:"years_of_experience" json:"years_of_experience" validate:"gte=0"`
	CIDBGrading        string `yaml:"cidb_grading,omitempty" json:"cidb_grading,omitempty"`
	BBBEELevel         string `yaml:"bbbee_level,omitempty" json:"bbbee_level,omitempty"`
	OperatingProvinces string `yaml:"operating_provinces" json:"operating_provinces"`
	ContactEmail       string `yaml:"contact_email,omitempty" json:"contact_email,omitempty" validate:"omitempty,email"`
	NumberOfEmployees  int    `yaml:"number_of_employees" json:"number_of_employees" validate:"gte=0"`
	AnnualTurnover     string `yaml:"annual_turnover" json:"annual_turnover"`
	// Certifications lists extra certificates beyond CIDB and B-BBEE.
	Certifications []string `yaml:"certifications,omitempty" json:"certifications,omitempty"`
}

// Validate checks the profile and wraps failures in ErrInvalid.
func (s *Stored) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Demo is the profile used when none is configured.
func Demo() *Stored {
	return &Stored{
		CompanyName:        "Demo Construction Company",
		IndustrySector:     "Construction",
		ServicesProvided:   "Building Construction, Civil Engineering, Road Works",
		YearsOfExperience:  8,
		CIDBGrading:        "7CE",
		BBBEELevel:         "2",
		OperatingProvinces: "Gauteng, Western Cape, KwaZulu-Natal",
		NumberOfEmployees:  45,
		AnnualTurnover:     "R 50,000,000",
	}
}

// LoadFile reads and validates a YAML profile.
func LoadFile(path string) (*Stored, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", path, err)
	}

	var stored Stored
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: decoding %q: %w", ErrInvalid, path, err)
	}

	if err := stored.Validate(); err != nil {
		return nil, err
	}

	return &stored, nil
}

// Normalize converts a stored profile into the shape the scorer reads.
func Normalize(s *Stored) *readiness.CompanyProfile {
	return &readiness.CompanyProfile{
		Name:               s.CompanyName,
		Industry:           s.IndustrySector,
		Services:           SplitList(s.ServicesProvided),
		Certifications:     Certifications(s),
		GeographicCoverage: SplitList(s.OperatingProvinces),
		YearsOfExperience:  max(s.YearsOfExperience, 0),
		AnnualTurnover:     ParseTurnover(s.AnnualTurnover),
		EmployeeCount:      max(s.NumberOfEmployees, 0),
		BlackOwned:         IsBlackOwned(s.BBBEELevel),
		SME:                s.NumberOfEmployees < smeEmployeeLimit,
	}
}

// SplitList splits a comma separated list, trimming entries and dropping empty ones.
func SplitList(list string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Certifications returns the extra certificates followed by the CIDB grading and B-BBEE level.
func Certifications(s *Stored) []string {
	certs := make([]string, 0, len(s.Certifications)+2)
	for _, cert := range s.Certifications {
		if cert = strings.TrimSpace(cert); cert != "" {
			certs = append(certs, cert)
		}
	}

	if grading := strings.TrimSpace(s.CIDBGrading); grading != "" {
		certs = append(certs, "CIDB "+grading)
	}
	if level := strings.TrimSpace(s.BBBEELevel); level != "" {
		certs = append(certs, "BBBEE "+level)
	}
	return certs
}

// ParseTurnover reads amounts like "R 5,000,000" or "5 million". Unparseable input yields 0.
func ParseTurnover(turnover string) int {
	if turnover == "" {
		return 0
	}

	cleaned := strings.ToUpper(turnover)
	cleaned = strings.NewReplacer("R", "", " ", "", ",", "").Replace(cleaned)

	if strings.Contains(cleaned, "MILLION") {
		amount, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, "MILLION", ""), 64)
		if err != nil {
			return 0
		}
		return int(amount * 1_000_000)
	}

	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return amount
}

// IsBlackOwned reports whether a B-BBEE level is 1, 2 or 3.
func IsBlackOwned(level string) bool {
	return strings.ContainsAny(level, "123")
}
