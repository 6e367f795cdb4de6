package foliotrack

import (
	"context"
	"testing"
)

func newTestPriceClient(client HTTPDoer) *priceClient {
	return newPriceClient(priceClientOptions{
		BaseURL:    "http://provider.test",
		HTTPClient: client,
	})
}

func TestDailyOHLCVDecodesSeries(t *testing.T) {
	days := fmtDays("2024-03-01", 2)
	body := seriesBody(t, days, []*float64{price(10), nil})
	pc := newTestPriceClient(&mockHTTPClient{status: 200, body: body})

	series, err := pc.DailyOHLCV(context.Background(), "AAPL")
	assertNoError(t, err, "fetch series")

	if len(series.Timestamp) != 2 {
		t.Fatalf("got %d bars, want 2", len(series.Timestamp))
	}
	if series.Close[0] == nil || *series.Close[0] != 10 {
		t.Errorf("close[0]: got %v, want 10", series.Close[0])
	}
	if series.Close[1] != nil {
		t.Errorf("close[1]: got %v, want nil for JSON null", *series.Close[1])
	}
}

func TestDailyOHLCVRequestShape(t *testing.T) {
	captured := &capturingHTTPClient{status: 200, body: seriesBody(t, fmtDays("2024-03-01", 1), []*float64{price(1)})}
	pc := newTestPriceClient(captured)

	_, err := pc.DailyOHLCV(context.Background(), "BRK.B")
	assertNoError(t, err, "fetch series")

	if captured.url.Path != "/cachedPriceData" {
		t.Errorf("path: got %s", captured.url.Path)
	}
	if got := captured.url.Query().Get("ticker"); got != "BRK.B" {
		t.Errorf("ticker: got %q, want BRK.B", got)
	}
}

func TestDailyOHLCVFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"no envelope", `{}`},
		{"missing volume array", `{"price_data":{"timestamp":[1],"open":[1],"high":[1],"low":[1],"close":[1]}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pc := newTestPriceClient(&mockHTTPClient{status: 200, body: tc.body})
			if _, err := pc.DailyOHLCV(context.Background(), "X"); err == nil {
				t.Fatal("expected error")
			} else if _, ok := err.(*PriceProviderError); !ok {
				t.Errorf("got %T, want *PriceProviderError", err)
			}
		})
	}

	pc := newTestPriceClient(&mockHTTPClient{status: 503, body: "unavailable"})
	if _, err := pc.DailyOHLCV(context.Background(), "X"); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}
