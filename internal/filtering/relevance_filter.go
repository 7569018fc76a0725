package filtering

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/relevance"
	"github.com/spigell/tender-responder/internal/tender"
)

type relevanceFilter struct {
	query  relevance.Query
	logger *zap.Logger
}

// NewRelevance creates a filter that keeps listings matching the query keywords.
func NewRelevance(query relevance.Query, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &relevanceFilter{
		query:  query,
		logger: logger,
	}
}

func (f *relevanceFilter) Name() string { return "relevance" }

func (f *relevanceFilter) Disable(string) {}

func (f *relevanceFilter) IsEnabled() bool { return true }

func (f *relevanceFilter) Validate() error { return nil }

func (f *relevanceFilter) Apply(_ context.Context, l *tender.Listings) (*tender.Listings, Step, error) {
	initial := l.Len()

	if len(f.query.Filters) > 0 {
		f.logger.Info("search filters are informational and not applied", zap.Any("filters", f.query.Filters))
	}

	l.Items = f.query.Apply(l.Items)

	return l, Step{Initial: initial, Dropped: initial - l.Len(), Left: l.Len()}, nil
}
