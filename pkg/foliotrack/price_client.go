package foliotrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const (
	defaultPriceBaseURL = "http://localhost:5000"
	// maxResponseSize caps provider payloads at 1MB.
	maxResponseSize = 1 << 20
)

// priceClient fetches daily OHLCV series from the caching price provider.
type priceClient struct {
	baseURL string
	logger  *slog.Logger
	client  HTTPDoer
}

type priceClientOptions struct {
	BaseURL    string
	Logger     *slog.Logger
	HTTPClient HTTPDoer
}

func newPriceClient(opts priceClientOptions) *priceClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultPriceBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &priceClient{baseURL: baseURL, logger: logger, client: client}
}

// priceDataResponse mirrors the provider's envelope.
type priceDataResponse struct {
	PriceData *PriceSeries `json:"price_data"`
}

// DailyOHLCV fetches the cached daily series for a ticker. All failures are
// reported as *PriceProviderError so callers can classify them uniformly.
func (p *priceClient) DailyOHLCV(ctx context.Context, symbol string) (*PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/cachedPriceData?ticker=%s", p.baseURL, url.QueryEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &PriceProviderError{Symbol: symbol, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &PriceProviderError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &PriceProviderError{Symbol: symbol, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PriceProviderError{
			Symbol: symbol,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var decoded priceDataResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &PriceProviderError{Symbol: symbol, Err: fmt.Errorf("decode body: %w", err)}
	}
	if decoded.PriceData == nil {
		return nil, &PriceProviderError{Symbol: symbol, Err: fmt.Errorf("missing price_data")}
	}

	series := decoded.PriceData
	for name, arr := range map[string][]*float64{
		"timestamp": series.Timestamp,
		"open":      series.Open,
		"high":      series.High,
		"low":       series.Low,
		"close":     series.Close,
		"volume":    series.Volume,
	} {
		if arr == nil {
			return nil, &PriceProviderError{Symbol: symbol, Err: fmt.Errorf("missing %s array", name)}
		}
	}

	p.logger.Debug("fetched price series", "symbol", symbol, "bars", len(series.Timestamp))
	return series, nil
}
