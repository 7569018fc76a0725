package etenders

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/tender-responder/internal/utils"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// ReleasesResponse is one page of the OCDS releases endpoint.
type ReleasesResponse struct {
	Releases []Item `json:"releases"`
}

type Item any

// GetItems requests url with q and follows pages while they come back full
// and maxPages is not reached.
func (c *Client) GetItems(ctx context.Context, url string, q url.Values, pageSize, maxPages int) ([]Item, error) {
	var items []Item

	for page := 1; ; page++ {
		q.Set("page", strconv.Itoa(page))

		var response ReleasesResponse
		if err := c.getJSON(ctx, url, q, &response); err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}

		c.logger.Debug("got response from eTenders",
			zap.Int("page", page),
			zap.Int("releases", len(response.Releases)),
		)

		items = append(items, response.Releases...)

		if len(response.Releases) < pageSize {
			break
		}

		if page >= maxPages {
			c.logger.Debug("stop paging", zap.String("reason", fmt.Sprintf(
				"max pages (%d) reached", maxPages),
			))
			break
		}
	}

	return items, nil
}

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) error {
	data, err := c.get(ctx, url, q)
	if err != nil {
		return err
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// get retries transport errors and 5xx responses with a linear backoff.
func (c *Client) get(ctx context.Context, url string, q url.Values) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.RetryDelay
			c.logger.Warn("retrying request",
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr),
			)
			if err := utils.WaitFor(ctx, delay); err != nil {
				return nil, err
			}
		}

		data, retry, err := c.do(ctx, url, q)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("giving up after %d retries: %w", c.MaxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, q url.Values) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		// a cancelled context will not recover on retry
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("bad status: %s", resp.Status)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("bad status: %s", resp.Status)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, false, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, true, err
	}

	return data, false, nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
