package foliotrack

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setupTestCore creates a temporary database for testing and returns a Core
// instance. The caller should defer cleanup() to remove the temp file.
func setupTestCore(t *testing.T, opts Options) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "foliotrack-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	opts.DBPath = filepath.Join(tmpDir, "test.db")
	core, err := OpenWithOptions(opts)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test db: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}

	return core, cleanup
}

func setupTestDB(t *testing.T) (*Core, func()) {
	t.Helper()
	return setupTestCore(t, Options{})
}

// testPortfolio creates a portfolio and returns its ID.
func testPortfolio(t *testing.T, core *Core, userID, name string) string {
	t.Helper()
	portfolio, err := core.AddPortfolio(userID, name, nil)
	if err != nil {
		t.Fatalf("failed to create test portfolio: %v", err)
	}
	return portfolio.PortfolioID
}

// testAsset registers an asset and returns its ID.
func testAsset(t *testing.T, core *Core, symbol string) int64 {
	t.Helper()
	id, err := core.AddAsset(AddAssetRequest{Symbol: symbol})
	if err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return id
}

// testTransaction records a ledger entry.
func testTransaction(t *testing.T, core *Core, portfolioID string, assetID int64, date, txType string, qty, price float64) int64 {
	t.Helper()
	id, err := core.AddTransaction(AddTransactionRequest{
		PortfolioID: portfolioID,
		AssetID:     assetID,
		Date:        date,
		Type:        txType,
		Quantity:    qty,
		Price:       price,
	})
	if err != nil {
		t.Fatalf("failed to create test %s transaction: %v", txType, err)
	}
	return id
}

// floatEquals checks if two floats are approximately equal.
func floatEquals(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}

// assertFloatEquals fails the test if the floats are not approximately equal.
func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if !floatEquals(got, want, 0.001) {
		t.Errorf("%s: got %.4f, want %.4f", msg, got, want)
	}
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

// mockHTTPClient implements HTTPDoer with one fixed response.
type mockHTTPClient struct {
	status int
	body   string
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

// capturingHTTPClient records the request URL before answering.
type capturingHTTPClient struct {
	status int
	body   string
	url    *url.URL
}

func (m *capturingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.url = req.URL
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

// routingHTTPClient maps the ticker query parameter to a response body so
// multi-asset tests can serve different series per symbol.
type routingHTTPClient struct {
	bodies map[string]string
	errs   map[string]error
}

func (m *routingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	ticker := req.URL.Query().Get("ticker")
	if err, ok := m.errs[ticker]; ok {
		return nil, err
	}
	body, ok := m.bodies[ticker]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"error":"unknown ticker"}`)),
			Header:     make(http.Header),
		}, nil
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}, nil
}

// unixFor converts a YYYY-MM-DD day to a unix seconds timestamp at UTC noon.
func unixFor(t *testing.T, date string) float64 {
	t.Helper()
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return float64(parsed.Add(12 * time.Hour).Unix())
}

// seriesBody builds a provider payload where every bar reuses one price for
// open, high, low, and close. A nil price yields null OHLC values.
func seriesBody(t *testing.T, days []string, prices []*float64) string {
	t.Helper()
	if len(days) != len(prices) {
		t.Fatalf("seriesBody: %d days but %d prices", len(days), len(prices))
	}
	series := PriceSeries{
		Timestamp: make([]*float64, len(days)),
		Open:      make([]*float64, len(days)),
		High:      make([]*float64, len(days)),
		Low:       make([]*float64, len(days)),
		Close:     make([]*float64, len(days)),
		Volume:    make([]*float64, len(days)),
	}
	for i, day := range days {
		ts := unixFor(t, day)
		series.Timestamp[i] = &ts
		series.Open[i] = prices[i]
		series.High[i] = prices[i]
		series.Low[i] = prices[i]
		series.Close[i] = prices[i]
		volume := 1000.0
		series.Volume[i] = &volume
	}
	payload, err := json.Marshal(map[string]PriceSeries{"price_data": series})
	if err != nil {
		t.Fatalf("marshal series: %v", err)
	}
	return string(payload)
}

func price(v float64) *float64 {
	return &v
}

func fmtDays(start string, n int) []string {
	parsed, err := time.Parse(dateLayout, start)
	if err != nil {
		panic(fmt.Sprintf("bad start date %q", start))
	}
	days := make([]string, n)
	for i := range days {
		days[i] = parsed.AddDate(0, 0, i).Format(dateLayout)
	}
	return days
}
