package filtering

import (
	"context"

	"github.com/spigell/tender-responder/internal/tender"
)

type buyersFilter struct {
	buyers []string
}

// NewExcludedBuyers creates a filter that removes listings of the configured buyers,
// matched by buyer id or name.
func NewExcludedBuyers(buyers []string) Filter {
	return &buyersFilter{
		buyers: buyers,
	}
}

func (f *buyersFilter) Name() string { return "buyers" }

func (f *buyersFilter) Disable(string) {}

func (f *buyersFilter) IsEnabled() bool { return true }

func (f *buyersFilter) Validate() error { return nil }

func (f *buyersFilter) Apply(_ context.Context, l *tender.Listings) (*tender.Listings, Step, error) {
	initial := l.Len()
	if len(f.buyers) == 0 {
		return l, Step{Initial: initial, Dropped: 0, Left: l.Len()}, nil
	}

	excluded := l.Exclude(tender.BuyerIDField, f.buyers)
	excluded = append(excluded, l.Exclude(tender.BuyerNameField, f.buyers)...)

	return l, Step{Initial: initial, Dropped: len(excluded), Left: l.Len()}, nil
}
