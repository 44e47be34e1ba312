// Package azureretail fetches VM retail pricing from the Azure retail
// prices API, following its cursor-style pagination.
package azureretail

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vmcatalog/core/catalog"
	"vmcatalog/internal/config"
	"vmcatalog/internal/errors"
	"vmcatalog/internal/logging"
)

// Getter issues GET requests. It is satisfied by httpclient.Session and
// enables dependency injection for testing.
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Config controls the paginated fetch.
type Config struct {
	// PricingURL is the first page, carrying the service filter expression
	PricingURL string

	// SeriesPrefixes is the SKU prefix allowlist
	SeriesPrefixes []string

	// PageDelay is the polite delay between page requests
	PageDelay time.Duration

	// MaxTimeoutRetries bounds consecutive timeout retries on one page
	// before the fetch gives up on that page entirely
	MaxTimeoutRetries int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Azure)
}

// ConfigFrom builds a fetch Config from application configuration.
func ConfigFrom(cfg config.AzureConfig) Config {
	return Config{
		PricingURL:        cfg.PricingURL,
		SeriesPrefixes:    cfg.SeriesPrefixes,
		PageDelay:         time.Duration(cfg.PageDelayMillis) * time.Millisecond,
		MaxTimeoutRetries: cfg.MaxTimeoutRetries,
	}
}

// Result carries the outcome of a paginated fetch: the records
// collected so far plus an optional truncating failure. A degraded
// fetch is partial data with a reason, not an error to the caller.
type Result struct {
	// Records are the accepted, normalized rows, at most the requested limit
	Records []catalog.PricedRecord

	// Pages is the number of pages successfully parsed
	Pages int

	// TimeoutRetries counts wasted attempts caused by page timeouts
	TimeoutRetries int

	// Err is the failure that truncated the fetch; nil when the source
	// was drained or the record limit was reached
	Err error
}

// Client is the paginated fetcher.
type Client struct {
	session Getter
	cfg     Config
}

// NewClient creates a paginated fetcher over the given session.
func NewClient(session Getter, cfg Config) *Client {
	return &Client{session: session, cfg: cfg}
}

// FetchVMPricing follows the next-page cursor from the configured start
// URL, filtering items through the SKU prefix allowlist and projecting
// them into PricedRecords, until the limit is reached or pages run out.
//
// A page timeout retries the same cursor, up to MaxTimeoutRetries
// consecutive timeouts. Any other fetch or parse failure stops
// pagination and returns whatever was accumulated.
func (c *Client) FetchVMPricing(ctx context.Context, limit int) Result {
	var res Result
	if limit <= 0 {
		return res
	}

	next := c.cfg.PricingURL
	consecutiveTimeouts := 0

	for next != "" && len(res.Records) < limit {
		resp, err := c.session.Get(ctx, next)
		if err != nil {
			if errors.IsType(err, errors.TypeTimeout) {
				res.TimeoutRetries++
				consecutiveTimeouts++
				logging.Warn("page request timed out, retrying same page",
					zap.Int("page", res.Pages+1),
					zap.Int("consecutive_timeouts", consecutiveTimeouts))
				if consecutiveTimeouts > c.cfg.MaxTimeoutRetries {
					res.Err = errors.Wrapf(errors.TypeTimeout, err,
						"page abandoned after %d consecutive timeouts", consecutiveTimeouts)
					break
				}
				continue
			}
			logging.Warn("stopping pagination", zap.Int("page", res.Pages+1), zap.Error(err))
			res.Err = err
			break
		}

		var page priceSheet
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			res.Err = errors.Parsing("failed to decode price page", err)
			break
		}
		consecutiveTimeouts = 0

		accepted := 0
		for _, item := range page.Items {
			if len(res.Records) >= limit {
				break
			}
			if !c.allowed(item.ArmSkuName) {
				continue
			}
			res.Records = append(res.Records, item.toRecord())
			accepted++
		}

		res.Pages++
		logging.Debug("page fetched",
			zap.Int("page", res.Pages),
			zap.Int("accepted", accepted),
			zap.Int("page_items", len(page.Items)),
			zap.Int("collected", len(res.Records)))

		if page.NextPageLink == nil || *page.NextPageLink == "" {
			break
		}
		next = *page.NextPageLink

		if len(res.Records) >= limit {
			break
		}
		// Polite delay before the next page request, respecting
		// source-side rate limits.
		if err := sleep(ctx, c.cfg.PageDelay); err != nil {
			res.Err = err
			break
		}
	}

	return res
}

// allowed reports whether a SKU passes the series prefix allowlist.
// Empty SKUs never pass.
func (c *Client) allowed(sku string) bool {
	if sku == "" {
		return false
	}
	for _, prefix := range c.cfg.SeriesPrefixes {
		if strings.HasPrefix(sku, prefix) {
			return true
		}
	}
	return false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return errors.Network("fetch cancelled between pages", ctx.Err())
	}
}
