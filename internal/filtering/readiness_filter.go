package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/document"
	"github.com/spigell/tender-responder/internal/logger"
	"github.com/spigell/tender-responder/internal/readiness"
	"github.com/spigell/tender-responder/internal/tender"
)

type readinessFilter struct {
	enabled bool
	reason  string
	config  *ReadinessFilterConfig
	deps    *ReadinessFilterDeps
}

type ReadinessFilterConfig struct {
	Enabled      bool
	MinimumScore int
}

type ReadinessFilterDeps struct {
	Logger  *zap.Logger
	Company *readiness.CompanyProfile

	// Documents, when set, scores listings against their downloaded documents.
	Documents   *document.Fetcher
	ExcludeFile string
}

// NewReadiness creates the readiness scoring step.
func NewReadiness(cfg *ReadinessFilterConfig, deps *ReadinessFilterDeps) Filter {
	return &readinessFilter{
		enabled: cfg.Enabled,
		config:  cfg,
		deps:    deps,
	}
}

func (f *readinessFilter) Name() string { return "readiness" }

func (f *readinessFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *readinessFilter) IsEnabled() bool { return f.enabled }

func (f *readinessFilter) Validate() error {
	if f.deps == nil {
		return fmt.Errorf("deps are not initialized: filter is not usable")
	}
	if f.deps.Company == nil {
		return fmt.Errorf("company profile is required when readiness filter is enabled")
	}
	if f.config.MinimumScore < 0 || f.config.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be between 0 and 100, got %d", f.config.MinimumScore)
	}
	if f.deps.Logger == nil {
		f.deps.Logger = zap.NewNop()
	}
	return nil
}

func (f *readinessFilter) Apply(ctx context.Context, l *tender.Listings) (*tender.Listings, Step, error) {
	initial := l.Len()
	scorer := readiness.New(f.deps.Logger)

	approved := make([]*tender.Release, 0, initial)
	for _, release := range l.Items {
		log := logger.WithTenderFields(f.deps.Logger, release.OCID, release.Title())

		result := scorer.Score(f.text(ctx, release), f.deps.Company)
		release.Readiness = &tender.Assessment{
			Score:          result.SuitabilityScore,
			Recommendation: result.Recommendation,
			Checklist:      result.Checklist,
			Degraded:       result.Degraded,
		}

		if result.Degraded {
			log.Warn("readiness could not be scored. It will be kept.")
			approved = append(approved, release)
			continue
		}

		if result.SuitabilityScore < f.config.MinimumScore {
			log.Info("tender rejected by readiness score",
				zap.Int("readiness_score", result.SuitabilityScore),
				zap.Int("minimum_score", f.config.MinimumScore),
			)

			if err := f.appendToExcludeFile(release, result.Recommendation); err != nil {
				log.Warn("failed to append tender to exclude file", zap.Error(err))
			}
			continue
		}

		log.Debug("tender approved by readiness score", zap.Int("readiness_score", result.SuitabilityScore))
		approved = append(approved, release)
	}

	l.Items = approved

	return l, Step{Initial: initial, Dropped: initial - l.Len(), Left: l.Len()}, nil
}

func (f *readinessFilter) text(ctx context.Context, release *tender.Release) string {
	if f.deps.Documents == nil || len(release.Tender.Documents) == 0 {
		return release.Text()
	}

	result := f.deps.Documents.ProcessTender(ctx, release)
	if !result.Success() {
		return release.Text()
	}
	return result.Text
}

func (f *readinessFilter) appendToExcludeFile(release *tender.Release, reason string) error {
	path := strings.TrimSpace(f.deps.ExcludeFile)
	if path == "" {
		return nil
	}

	excluded, err := tender.GetExcludedFromFile(path)
	if err != nil {
		return fmt.Errorf("load excluded tenders: %w", err)
	}

	toAppend := (&tender.Listings{Items: []*tender.Release{release}}).ToExcluded(tender.ExcludeActorReadiness, reason)
	excluded.Append(toAppend)

	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded tenders: %w", err)
	}

	f.deps.Logger.Info("tender appended to exclude file",
		zap.String("tender_ocid", release.OCID),
		zap.String("exclude_file", path),
	)

	return nil
}
