package etenders

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/tender"
)

const (
	apiURL    = "https://ocds-api.etenders.gov.za"
	userAgent = "spigell/tender-responder (spigelly@gmail.com)"

	// Max value for search per page.
	defaultPageSize   = 200
	defaultDays       = 90
	defaultMaxPages   = 1
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	requestTimeout    = 30 * time.Second
)

// Source returns tender listings for a search.
type Source interface {
	Search(ctx context.Context, params *SearchParams) (*tender.Listings, error)
}

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
	MaxRetries int
	RetryDelay time.Duration

	now func() time.Time
}

func New(logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: requestTimeout,
		},
		logger:     logger,
		UserAgent:  userAgent,
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
		now:        time.Now,
	}
}

func (c *Client) Search(ctx context.Context, params *SearchParams) (*tender.Listings, error) {
	return c.search(ctx, params)
}

func (c *Client) GetRelease(ctx context.Context, ocid string) (*tender.Release, error) {
	return c.getRelease(ctx, ocid)
}
