package filtering

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/relevance"
	"github.com/spigell/tender-responder/internal/tender"
)

func sampleListings() *tender.Listings {
	return &tender.Listings{
		Items: []*tender.Release{
			{
				OCID: "ocds-1",
				Tender: tender.Info{
					Title:           "Construction of community hall",
					Province:        "Gauteng Province, Johannesburg",
					ProcuringEntity: tender.Entity{ID: "dpw", Name: "Department of Public Works"},
				},
			},
			{
				OCID: "ocds-2",
				Tender: tender.Info{
					Title:           "Catering services for a conference",
					Province:        "Limpopo Province, Polokwane",
					ProcuringEntity: tender.Entity{ID: "doh", Name: "Department of Health"},
				},
			},
			{
				OCID: "ocds-3",
				Tender: tender.Info{
					Title:           "Road maintenance and building repairs",
					ProcuringEntity: tender.Entity{ID: "coj", Name: "City of Johannesburg"},
				},
			},
		},
	}
}

func ocids(l *tender.Listings) string {
	ids := make([]string, 0, l.Len())
	for _, release := range l.Items {
		ids = append(ids, release.OCID)
	}
	return strings.Join(ids, ",")
}

type failingFilter struct {
	validateErr error
	applyErr    error
	applied     bool
}

func (f *failingFilter) Name() string    { return "failing" }
func (f *failingFilter) Disable(string)  {}
func (f *failingFilter) IsEnabled() bool { return true }
func (f *failingFilter) Validate() error { return f.validateErr }

func (f *failingFilter) Apply(_ context.Context, l *tender.Listings) (*tender.Listings, Step, error) {
	f.applied = true
	return l, Step{}, f.applyErr
}

func TestRunFiltersAppliesStepsInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	steps := []Filter{
		NewRelevance(relevance.Query{Keywords: "construction"}, zap.New(core)),
		NewExcludedBuyers([]string{"city of johannesburg"}),
		NewExcludeFile(""),
	}

	got, err := New(steps, zap.New(core)).RunFilters(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ocids(got) != "ocds-1" {
		t.Fatalf("unexpected listings left: %s", ocids(got))
	}

	entries := logs.FilterMessage("filter step").All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 step logs, got %d", len(entries))
	}

	want := []struct {
		name    string
		dropped int64
		left    int64
	}{
		{name: "relevance", dropped: 1, left: 2},
		{name: "buyers", dropped: 1, left: 1},
		{name: "exclude_file", dropped: 0, left: 1},
	}
	for i, w := range want {
		fields := entries[i].ContextMap()
		if fields["name"] != w.name {
			t.Fatalf("step %d: expected name %q, got %v", i, w.name, fields["name"])
		}
		if fields["dropped"] != w.dropped || fields["left"] != w.left {
			t.Fatalf("step %s: unexpected counts %v/%v", w.name, fields["dropped"], fields["left"])
		}
	}
}

func TestRunFiltersValidatesBeforeApplying(t *testing.T) {
	first := &failingFilter{}
	broken := &failingFilter{validateErr: errors.New("broken config")}

	_, err := New([]Filter{first, broken}, nil).RunFilters(context.Background(), sampleListings())
	if err == nil || !strings.Contains(err.Error(), "broken config") {
		t.Fatalf("expected validation error, got %v", err)
	}
	if first.applied {
		t.Fatalf("no step should run when validation fails")
	}
}

func TestRunFiltersStopsOnApplyError(t *testing.T) {
	step := &failingFilter{applyErr: errors.New("boom")}

	_, err := New([]Filter{step}, nil).RunFilters(context.Background(), sampleListings())
	if err == nil || !strings.HasPrefix(err.Error(), "failing: ") {
		t.Fatalf("expected error prefixed with step name, got %v", err)
	}
}

func TestRunFiltersSkipsDisabledSteps(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	f := New([]Filter{
		NewReadiness(&ReadinessFilterConfig{Enabled: true}, nil),
	}, zap.New(core))
	f.DisableByName("readiness", "no profile")

	got, err := f.RunFilters(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("disabled step must not be validated: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("expected listings untouched, got %d", got.Len())
	}
	if logs.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled step to be logged")
	}
}

func TestRelevanceLogsInformationalFilters(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	step := NewRelevance(relevance.Query{
		Keywords: "catering",
		Filters:  map[string]string{"province": "Gauteng"},
	}, zap.New(core))

	got, info, err := step.Apply(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ocids(got) != "ocds-2" || info.Dropped != 2 {
		t.Fatalf("unexpected result %s (dropped %d)", ocids(got), info.Dropped)
	}
	if logs.FilterMessage("search filters are informational and not applied").Len() != 1 {
		t.Fatalf("expected informational filters to be logged")
	}
}

func TestBuyersMatchIDOrName(t *testing.T) {
	got, info, err := NewExcludedBuyers([]string{"DPW", "Department of Health"}).
		Apply(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ocids(got) != "ocds-3" || info.Dropped != 2 {
		t.Fatalf("unexpected result %s (dropped %d)", ocids(got), info.Dropped)
	}
}

func TestExcludeFileDropsKnownTenders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")

	excluded := (&tender.Listings{Items: sampleListings().Items[1:2]}).ToExcluded(tender.ExcludeActorManual, "")
	if err := excluded.ToFile(path); err != nil {
		t.Fatalf("writing exclude file: %v", err)
	}

	got, info, err := NewExcludeFile(path).Apply(context.Background(), sampleListings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ocids(got) != "ocds-1,ocds-3" || info.Dropped != 1 {
		t.Fatalf("unexpected result %s (dropped %d)", ocids(got), info.Dropped)
	}
}

func TestReadinessDropsLowScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.json")
	core, logs := observer.New(zapcore.InfoLevel)

	step := NewReadiness(&ReadinessFilterConfig{Enabled: true, MinimumScore: 80}, &ReadinessFilterDeps{
		Logger: zap.New(core),
		Company: &readiness.CompanyProfile{
			Name:               "Demo Construction Company",
			Industry:           "Construction",
			GeographicCoverage: []string{"Gauteng"},
			EmployeeCount:      45,
		},
		ExcludeFile: path,
	})
	if err := step.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	listings := sampleListings()
	listings.Items = listings.Items[:2]

	got, info, err := step.Apply(context.Background(), listings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ocids(got) != "ocds-1" || info.Dropped != 1 {
		t.Fatalf("unexpected result %s (dropped %d)", ocids(got), info.Dropped)
	}

	assessment := got.Items[0].Readiness
	if assessment == nil || assessment.Score < 80 {
		t.Fatalf("expected a passing assessment, got %+v", assessment)
	}
	if !strings.HasPrefix(assessment.Recommendation, "HIGHLY SUITABLE") {
		t.Fatalf("unexpected recommendation %q", assessment.Recommendation)
	}

	if logs.FilterMessage("tender rejected by readiness score").Len() != 1 {
		t.Fatalf("expected the rejection to be logged")
	}

	excluded, err := tender.GetExcludedFromFile(path)
	if err != nil {
		t.Fatalf("reading exclude file: %v", err)
	}
	if len(excluded.Items) != 1 {
		t.Fatalf("expected one excluded tender, got %d", len(excluded.Items))
	}
	if excluded.Items[0].OCID != "ocds-2" || excluded.Items[0].Actor != tender.ExcludeActorReadiness {
		t.Fatalf("unexpected excluded entry %+v", excluded.Items[0])
	}
	if !strings.HasPrefix(excluded.Items[0].Reason, "LOW SUITABILITY") && !strings.HasPrefix(excluded.Items[0].Reason, "SUITABLE") &&
		!strings.HasPrefix(excluded.Items[0].Reason, "MODERATELY SUITABLE") {
		t.Fatalf("expected the recommendation as reason, got %q", excluded.Items[0].Reason)
	}
}

func TestReadinessValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ReadinessFilterConfig
		deps *ReadinessFilterDeps
	}{
		{name: "no deps", cfg: &ReadinessFilterConfig{Enabled: true}},
		{name: "no company", cfg: &ReadinessFilterConfig{Enabled: true}, deps: &ReadinessFilterDeps{}},
		{
			name: "score out of range",
			cfg:  &ReadinessFilterConfig{Enabled: true, MinimumScore: 120},
			deps: &ReadinessFilterDeps{Company: &readiness.CompanyProfile{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := NewReadiness(tt.cfg, tt.deps).Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
