package azureretail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vmcatalog/adapters/httpclient"
	"vmcatalog/core/catalog"
	"vmcatalog/internal/errors"
)

// stubStep scripts one Get call: either a 200 body or an error.
type stubStep struct {
	body string
	err  error
}

type stubGetter struct {
	steps []stubStep
	calls int
}

func (s *stubGetter) Get(ctx context.Context, url string) (*http.Response, error) {
	if s.calls >= len(s.steps) {
		return nil, fmt.Errorf("unexpected request %d to %s", s.calls+1, url)
	}
	step := s.steps[s.calls]
	s.calls++
	if step.err != nil {
		return nil, step.err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(step.body)),
	}, nil
}

func testConfig() Config {
	return Config{
		PricingURL:        "https://example.test/prices",
		SeriesPrefixes:    []string{"P", "T", "B", "D", "H", "F"},
		PageDelay:         0,
		MaxTimeoutRetries: 5,
	}
}

const singlePage = `{
	"Items": [
		{"armSkuName": "D2s_v3", "productName": "Dsv3 Series AMD", "armRegionName": "eastus", "unitPrice": 0.096, "currencyCode": "USD", "meterRegion": "", "serviceFamily": "Compute", "type": "Consumption"},
		{"armSkuName": "X9_v2", "productName": "Xv2 Series", "armRegionName": "eastus", "unitPrice": 1.5, "currencyCode": "USD", "serviceFamily": "Compute", "type": "Consumption"},
		{"armSkuName": "P3", "productName": "P Series Intel", "armRegionName": "westus", "unitPrice": 0.2, "currencyCode": "USD", "serviceFamily": "Compute", "type": "Consumption"}
	]
}`

func TestFetchFiltersBySeriesPrefix(t *testing.T) {
	getter := &stubGetter{steps: []stubStep{{body: singlePage}}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 100)
	if res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Records))
	}
	if res.Records[0].SKU != "D2s_v3" || res.Records[1].SKU != "P3" {
		t.Errorf("expected D2s_v3 and P3 in source order, got %s and %s",
			res.Records[0].SKU, res.Records[1].SKU)
	}
}

func TestFetchProjectsRecords(t *testing.T) {
	getter := &stubGetter{steps: []stubStep{{body: singlePage}}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 100)
	if res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}

	rec := res.Records[0]
	if rec.CPUVendor != catalog.VendorAMD {
		t.Errorf("expected AMD vendor from product name, got %s", rec.CPUVendor)
	}
	if rec.Series != "D2" {
		t.Errorf("expected series D2, got %s", rec.Series)
	}
	if rec.UnitPrice == nil || rec.UnitPrice.String() != "0.096" {
		t.Errorf("unexpected unit price: %v", rec.UnitPrice)
	}
	if rec.Currency != "USD" || rec.Location != "eastus" || rec.RawSKU != "D2s_v3" {
		t.Errorf("unexpected projection: %+v", rec)
	}

	p3 := res.Records[1]
	if p3.Series != "P3" {
		t.Errorf("short SKU keeps whole identifier as series, got %s", p3.Series)
	}
	if p3.CPUVendor != catalog.VendorIntel {
		t.Errorf("expected Intel vendor, got %s", p3.CPUVendor)
	}
}

func TestFetchZeroLimitIssuesNoRequests(t *testing.T) {
	getter := &stubGetter{}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 0)
	if len(res.Records) != 0 || res.Err != nil {
		t.Errorf("expected empty result, got %d records, err %v", len(res.Records), res.Err)
	}
	if getter.calls != 0 {
		t.Errorf("limit 0 must not issue requests, got %d", getter.calls)
	}
}

func TestFetchStopsMidPageAtLimit(t *testing.T) {
	next := "https://example.test/prices?page=2"
	page := fmt.Sprintf(`{"Items": [
		{"armSkuName": "D2s_v3", "productName": "a"},
		{"armSkuName": "D4s_v3", "productName": "b"},
		{"armSkuName": "D8s_v3", "productName": "c"}
	], "NextPageLink": %q}`, next)

	getter := &stubGetter{steps: []stubStep{{body: page}}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 2)
	if res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected exactly the limit, got %d records", len(res.Records))
	}
	if getter.calls != 1 {
		t.Errorf("reaching the limit must stop pagination, got %d requests", getter.calls)
	}
}

func TestFetchReturnsPartialOnPageError(t *testing.T) {
	page1 := `{"Items": [
		{"armSkuName": "D2s_v3", "productName": "a"},
		{"armSkuName": "P3", "productName": "b"}
	], "NextPageLink": "https://example.test/prices?page=2"}`

	getter := &stubGetter{steps: []stubStep{
		{body: page1},
		{err: errors.Newf(errors.TypeNetwork, "source returned status 500")},
	}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 100)
	if res.Err == nil {
		t.Fatal("expected the truncating failure to be recorded")
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected exactly the first page's records, got %d", len(res.Records))
	}
	if res.Pages != 1 {
		t.Errorf("expected 1 parsed page, got %d", res.Pages)
	}
}

func TestFetchReturnsPartialOnMalformedPage(t *testing.T) {
	page1 := `{"Items": [{"armSkuName": "D2s_v3"}], "NextPageLink": "https://example.test/prices?page=2"}`

	getter := &stubGetter{steps: []stubStep{
		{body: page1},
		{body: `{"Items": not json`},
	}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 100)
	if !errors.IsType(res.Err, errors.TypeParsing) {
		t.Fatalf("expected PARSING_ERROR, got %v", res.Err)
	}
	if len(res.Records) != 1 {
		t.Errorf("expected the first page's records only, got %d", len(res.Records))
	}
}

func TestFetchRetriesSamePageOnTimeout(t *testing.T) {
	timeout := errors.Timeout("request timed out", context.DeadlineExceeded)
	getter := &stubGetter{steps: []stubStep{
		{err: timeout},
		{err: timeout},
		{body: singlePage},
	}}
	client := NewClient(getter, testConfig())

	res := client.FetchVMPricing(context.Background(), 100)
	if res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected the page's records exactly once, got %d", len(res.Records))
	}
	if res.TimeoutRetries != 2 {
		t.Errorf("expected 2 wasted attempts recorded, got %d", res.TimeoutRetries)
	}
	if getter.calls != 3 {
		t.Errorf("expected 3 requests to the same cursor, got %d", getter.calls)
	}
}

func TestFetchAbandonsPageAfterTimeoutBudget(t *testing.T) {
	timeout := errors.Timeout("request timed out", context.DeadlineExceeded)
	getter := &stubGetter{steps: []stubStep{
		{err: timeout}, {err: timeout}, {err: timeout},
	}}
	cfg := testConfig()
	cfg.MaxTimeoutRetries = 2
	client := NewClient(getter, cfg)

	res := client.FetchVMPricing(context.Background(), 100)
	if !errors.IsType(res.Err, errors.TypeTimeout) {
		t.Fatalf("expected TIMEOUT_ERROR after exhausting the budget, got %v", res.Err)
	}
	if res.TimeoutRetries != 3 {
		t.Errorf("expected 3 recorded timeouts, got %d", res.TimeoutRetries)
	}
	if len(res.Records) != 0 {
		t.Errorf("expected no records, got %d", len(res.Records))
	}
}

// TestFetchFollowsCursorThroughSession exercises the fetcher against a
// real server through the retrying session.
func TestFetchFollowsCursorThroughSession(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"Items": [{"armSkuName": "F4s_v2", "productName": "Fsv2 Series"}]}`)
			return
		}
		fmt.Fprintf(w, `{"Items": [{"armSkuName": "B2ms", "productName": "B Series"}], "NextPageLink": %q}`, srvURL+"/?page=2")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	session, err := httpclient.NewSession(nil)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	cfg := testConfig()
	cfg.PricingURL = srv.URL
	client := NewClient(session, cfg)

	res := client.FetchVMPricing(context.Background(), 100)
	if res.Err != nil {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Pages != 2 {
		t.Errorf("expected 2 pages, got %d", res.Pages)
	}
	if len(res.Records) != 2 || res.Records[0].SKU != "B2ms" || res.Records[1].SKU != "F4s_v2" {
		t.Errorf("unexpected records across pages: %+v", res.Records)
	}
}
