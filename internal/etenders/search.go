package etenders

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/tender"
)

const (
	ReleasesPath = "/api/OCDSReleases"
	ReleasePath  = "/api/OCDSReleases/release/"

	dateLayout = "2006-01-02"
)

type SearchParams struct {
	Keywords string `mapstructure:"keywords" json:"keywords,omitempty"`
	// Province and Buyer are informational and passed on to the relevance step.
	Province string `mapstructure:"province" json:"province,omitempty"`
	Buyer    string `mapstructure:"buyer" json:"buyer,omitempty"`
	Days     int    `mapstructure:"days" json:"days,omitempty"`
	PageSize int    `mapstructure:"page-size" json:"page_size,omitempty"`
	MaxPages int    `mapstructure:"max-pages" json:"max_pages,omitempty"`
}

// Window returns the date range searched, ending at now.
func (p *SearchParams) Window(now time.Time) (string, string) {
	days := p.Days
	if days <= 0 {
		days = defaultDays
	}
	return now.AddDate(0, 0, -days).Format(dateLayout), now.Format(dateLayout)
}

// Filters returns the non-empty informational filters.
func (p *SearchParams) Filters() map[string]string {
	filters := make(map[string]string)
	if p.Province != "" {
		filters["province"] = p.Province
	}
	if p.Buyer != "" {
		filters["buyer"] = p.Buyer
	}
	return filters
}

// WithDefaults returns a copy with unset paging values filled in.
func (p *SearchParams) WithDefaults() *SearchParams {
	params := &SearchParams{}
	if p != nil {
		*params = *p
	}

	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.MaxPages <= 0 {
		params.MaxPages = defaultMaxPages
	}
	if params.Days <= 0 {
		params.Days = defaultDays
	}
	return params
}

func (c *Client) search(ctx context.Context, p *SearchParams) (*tender.Listings, error) {
	params := p.WithDefaults()
	from, to := params.Window(c.now())

	q := url.Values{}
	q.Set("dateFrom", from)
	q.Set("dateTo", to)
	q.Set("pageSize", strconv.Itoa(params.PageSize))

	c.logger.Info("fetching releases",
		zap.String("date_from", from),
		zap.String("date_to", to),
		zap.Int("page_size", params.PageSize),
		zap.Int("max_pages", params.MaxPages),
	)

	items, err := c.GetItems(ctx, c.APIURL+ReleasesPath, q, params.PageSize, params.MaxPages)
	if err != nil {
		return nil, err
	}

	var releases []*tender.Release
	if err := decode(items, &releases); err != nil {
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	return &tender.Listings{
		Items: releases,
	}, nil
}

func (c *Client) getRelease(ctx context.Context, ocid string) (*tender.Release, error) {
	if ocid == "" {
		return nil, fmt.Errorf("ocid is required")
	}

	var raw map[string]any
	if err := c.getJSON(ctx, c.APIURL+ReleasePath+url.PathEscape(ocid), nil, &raw); err != nil {
		return nil, fmt.Errorf("getting release %s: %w", ocid, err)
	}

	// The endpoint may answer with a release package instead of a bare release.
	var item any = raw
	if packaged, ok := raw["releases"].([]any); ok {
		if len(packaged) == 0 {
			return nil, fmt.Errorf("release %s: empty release package", ocid)
		}
		item = packaged[0]
	}

	var release tender.Release
	if err := decode(item, &release); err != nil {
		return nil, fmt.Errorf("decoding release %s: %w", ocid, err)
	}

	return &release, nil
}

func decode(input, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           result,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
