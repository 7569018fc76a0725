// Package feed reads tender listings from RSS and Atom feeds.
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/etenders"
	"github.com/spigell/tender-responder/internal/tender"
)

const requestTimeout = 15 * time.Second

var ErrNoFeeds = errors.New("no feeds configured")

type Source struct {
	Client *http.Client
	Feeds  []string

	logger *zap.Logger
	now    func() time.Time
}

func New(feeds []string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Source{
		Client: &http.Client{Timeout: requestTimeout},
		Feeds:  feeds,
		logger: logger,
		now:    time.Now,
	}
}

// Search pulls every feed and maps items published inside the search window
// to releases. Undated items are kept. Failing feeds are skipped unless all fail.
func (s *Source) Search(ctx context.Context, p *etenders.SearchParams) (*tender.Listings, error) {
	if len(s.Feeds) == 0 {
		return nil, ErrNoFeeds
	}

	params := p.WithDefaults()
	to := s.now()
	from := to.AddDate(0, 0, -params.Days)

	parser := gofeed.NewParser()
	listings := &tender.Listings{}

	var errs []error
	for _, feedURL := range s.Feeds {
		feed, err := s.fetch(ctx, parser, feedURL)
		if err != nil {
			s.logger.Warn("skipping feed", zap.String("feed", feedURL), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", feedURL, err))
			continue
		}

		added := 0
		for _, item := range feed.Items {
			if published := publishedAt(item); published != nil && (published.Before(from) || published.After(to)) {
				continue
			}

			listings.Items = append(listings.Items, toRelease(feed, item))
			added++
		}

		s.logger.Info("feed parsed",
			zap.String("feed", feedURL),
			zap.String("title", strings.TrimSpace(feed.Title)),
			zap.Int("items", len(feed.Items)),
			zap.Int("in_window", added),
		)
	}

	if len(errs) == len(s.Feeds) {
		return nil, fmt.Errorf("all feeds failed: %w", errors.Join(errs...))
	}

	return listings, nil
}

func (s *Source) fetch(ctx context.Context, parser *gofeed.Parser, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	return parser.Parse(resp.Body)
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	return item.UpdatedParsed
}

func toRelease(feed *gofeed.Feed, item *gofeed.Item) *tender.Release {
	ocid := strings.TrimSpace(item.GUID)
	if ocid == "" {
		ocid = strings.TrimSpace(item.Link)
	}

	description := strings.TrimSpace(item.Description)
	if description == "" {
		description = strings.TrimSpace(item.Content)
	}

	release := &tender.Release{
		OCID: ocid,
		Tender: tender.Info{
			ID:          ocid,
			Title:       strings.TrimSpace(item.Title),
			Description: description,
		},
	}

	if published := publishedAt(item); published != nil {
		release.Date = published.UTC().Format(time.RFC3339)
	}

	for _, category := range item.Categories {
		release.Tender.Items = append(release.Tender.Items, tender.Item{
			Classification: tender.Classification{Description: strings.TrimSpace(category)},
		})
	}

	buyer := strings.TrimSpace(feed.Title)
	if item.Author != nil && strings.TrimSpace(item.Author.Name) != "" {
		buyer = strings.TrimSpace(item.Author.Name)
	}
	release.Buyer = tender.Entity{Name: buyer}

	if link := strings.TrimSpace(item.Link); link != "" {
		release.Tender.Documents = append(release.Tender.Documents, tender.Document{
			ID:     "link",
			Title:  "Tender notice",
			URL:    link,
			Format: "text/html",
		})
	}

	for i, enclosure := range item.Enclosures {
		release.Tender.Documents = append(release.Tender.Documents, tender.Document{
			ID:     fmt.Sprintf("enclosure-%d", i+1),
			Title:  release.Tender.Title,
			URL:    enclosure.URL,
			Format: enclosure.Type,
		})
	}

	return release
}
