package foliotrack

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDayFromUnix(t *testing.T) {
	ts := unixFor(t, "2024-03-15")
	day, ok := dayFromUnix(&ts)
	if !ok || day != "2024-03-15" {
		t.Errorf("got %q/%v, want 2024-03-15/true", day, ok)
	}

	if _, ok := dayFromUnix(nil); ok {
		t.Error("nil timestamp must not produce a day")
	}
	nan := math.NaN()
	if _, ok := dayFromUnix(&nan); ok {
		t.Error("NaN timestamp must not produce a day")
	}
	inf := math.Inf(1)
	if _, ok := dayFromUnix(&inf); ok {
		t.Error("Inf timestamp must not produce a day")
	}
}

func TestFiniteValue(t *testing.T) {
	v := 1.5
	if got, ok := finiteValue(&v); !ok || got != 1.5 {
		t.Errorf("got %v/%v", got, ok)
	}
	nan := math.NaN()
	if _, ok := finiteValue(&nan); ok {
		t.Error("NaN is not a value")
	}
	if _, ok := finiteValue(nil); ok {
		t.Error("nil is not a value")
	}
}

func TestRound2(t *testing.T) {
	assertFloatEquals(t, round2(1.004), 1.0, "round down")
	assertFloatEquals(t, round2(-10.556), -10.56, "negative rounding")
	assertFloatEquals(t, round2(100), 100, "integer passthrough")
}

func TestAmountJSONRoundTrip(t *testing.T) {
	a := NewAmount(123.456789126)
	data, err := json.Marshal(a)
	assertNoError(t, err, "marshal amount")
	if string(data) != "123.456789" {
		t.Errorf("marshaled: got %s, want 123.456789", data)
	}

	var parsed Amount
	assertNoError(t, json.Unmarshal([]byte("42.5"), &parsed), "unmarshal amount")
	assertFloatEquals(t, parsed.Float(), 42.5, "unmarshaled value")
}

func TestNormalizers(t *testing.T) {
	if got := normalizeSymbol(" brk.b "); got != "BRK.B" {
		t.Errorf("symbol: got %q", got)
	}
	if got := normalizeAssetType(" ETF "); got != "etf" {
		t.Errorf("asset type: got %q", got)
	}
	if got := normalizeCurrency(" usd "); got != "USD" {
		t.Errorf("currency: got %q", got)
	}
}
