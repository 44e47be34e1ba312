// Package ec2catalog fetches the EC2 instance capability catalog from a
// prioritized list of mirrors, normalizing the two body shapes the
// mirrors are known to serve.
package ec2catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strconv"

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

// Config controls the fallback fetch.
type Config struct {
	// CatalogURLs are the catalog mirrors, tried in order
	CatalogURLs []string
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return ConfigFrom(config.Default().AWS)
}

// ConfigFrom builds a fetch Config from application configuration.
func ConfigFrom(cfg config.AWSConfig) Config {
	return Config{CatalogURLs: cfg.CatalogURLs}
}

// Attempt records one failed mirror.
type Attempt struct {
	URL string
	Err error
}

// Result carries the outcome of a fallback fetch. Total source
// exhaustion is an empty Records slice with the per-mirror failures
// recorded, never an error.
type Result struct {
	// Records are the normalized rows from the first usable mirror
	Records []catalog.InstanceRecord

	// SourceURL is the mirror that produced the data; empty if none did
	SourceURL string

	// Attempts are the mirrors that failed before one succeeded
	Attempts []Attempt
}

// Client is the fallback multi-source fetcher.
type Client struct {
	session Getter
	cfg     Config
}

// NewClient creates a fallback fetcher over the given session.
func NewClient(session Getter, cfg Config) *Client {
	return &Client{session: session, cfg: cfg}
}

// FetchInstances tries each configured mirror in order and returns the
// records from the first one yielding non-empty data. Transport errors,
// bad statuses, malformed bodies and empty datasets all advance to the
// next mirror.
func (c *Client) FetchInstances(ctx context.Context) Result {
	var res Result

	for _, url := range c.cfg.CatalogURLs {
		logging.Debug("trying instance catalog mirror", zap.String("url", url))

		rows, err := c.fetchOne(ctx, url)
		if err != nil {
			logging.Warn("catalog mirror failed",
				zap.String("url", url), zap.Error(err))
			res.Attempts = append(res.Attempts, Attempt{URL: url, Err: err})
			continue
		}

		res.Records = project(rows)
		res.SourceURL = url
		logging.Info("instance catalog collected",
			zap.String("url", url), zap.Int("records", len(res.Records)))
		return res
	}

	logging.Warn("no instance catalog data available from any mirror")
	return res
}

func (c *Client) fetchOne(ctx context.Context, url string) ([]map[string]interface{}, error) {
	resp, err := c.session.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Network("failed to read catalog body", err)
	}

	rows, err := normalize(body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New(errors.TypeParsing, "catalog source returned no records")
	}
	return rows, nil
}

// normalize accepts either a plain array of records or a keyed
// collection of records and reduces both to one slice at the boundary.
// Keyed collections are ordered by key so normalization is
// deterministic.
func normalize(body []byte) ([]map[string]interface{}, error) {
	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err == nil {
		return list, nil
	}

	var keyed map[string]map[string]interface{}
	if err := json.Unmarshal(body, &keyed); err != nil {
		return nil, errors.Parsing("catalog body is neither a record array nor a keyed collection", err)
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]map[string]interface{}, 0, len(keyed))
	for _, k := range keys {
		rows = append(rows, keyed[k])
	}
	return rows, nil
}

// project maps raw catalog rows to InstanceRecords, classifying the
// vendor from whichever processor field name the source used.
func project(rows []map[string]interface{}) []catalog.InstanceRecord {
	records := make([]catalog.InstanceRecord, 0, len(rows))
	for _, row := range rows {
		rec := catalog.InstanceRecord{
			InstanceType: asString(row["instance_type"]),
			Name:         asString(row["pretty_name"]),
			Family:       asString(row["family"]),
			VCPUs:        asFloat(row["vCPU"]),
			MemoryGiB:    asFloat(row["memory"]),
			CPUVendor:    catalog.VendorUnknown,
		}

		proc, ok := row["processor"]
		if !ok {
			proc, ok = row["Processor"]
		}
		if ok {
			rec.Processor = asString(proc)
			rec.CPUVendor = catalog.ClassifyVendor(proc)
		}

		records = append(records, rec)
	}
	return records
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}
