package foliotrack

import (
	"context"
	"math"
	"sort"
	"sync"
)

// UnmatchedPolicy decides what happens to transactions dated on days the
// price series has no bar for (weekends, holidays, provider gaps).
type UnmatchedPolicy int

const (
	// UnmatchedDrop ignores transactions whose date never appears in the
	// series. This matches providers that only emit trading days.
	UnmatchedDrop UnmatchedPolicy = iota
	// UnmatchedCarryForward applies an unmatched transaction at the first
	// bar on or after its date, so off-market entries still move state.
	UnmatchedCarryForward
)

// ComputeAssetPerformance reconstructs the daily position, market value, and
// PnL history of one asset within a portfolio by folding its ledger over the
// provider's daily price series.
func (c *Core) ComputeAssetPerformance(ctx context.Context, portfolioID string, assetID int64) (*AssetPerformance, error) {
	asset, err := c.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, ErrNoData
	}

	transactions, err := c.listAssetTransactions(portfolioID, assetID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, ErrNoData
	}

	series, err := c.prices.DailyOHLCV(ctx, asset.Symbol)
	if err != nil {
		return nil, err
	}

	history := buildAssetHistory(transactions, series, c.unmatched)
	if len(history) == 0 {
		return nil, ErrEmptySeries
	}

	c.logger.Debug("computed asset performance",
		"portfolio_id", portfolioID, "symbol", asset.Symbol, "days", len(history))
	return &AssetPerformance{Ticker: asset.Symbol, History: history}, nil
}

// truncateSeries clips all parallel arrays to the shortest one so every bar
// index is addressable in each array.
func truncateSeries(s *PriceSeries) int {
	n := len(s.Timestamp)
	for _, arr := range [][]*float64{s.Open, s.High, s.Low, s.Close, s.Volume} {
		if len(arr) < n {
			n = len(arr)
		}
	}
	s.Timestamp = s.Timestamp[:n]
	s.Open = s.Open[:n]
	s.High = s.High[:n]
	s.Low = s.Low[:n]
	s.Close = s.Close[:n]
	s.Volume = s.Volume[:n]
	return n
}

// buildAssetHistory is the single forward pass over the price series. Running
// position and cumulative cash flow are updated by buy and sell entries only;
// each transaction is applied at most once. The ledger arrives ordered by
// date then insertion ID, and bar days ascend, so one cursor suffices.
func buildAssetHistory(transactions []Transaction, series *PriceSeries, policy UnmatchedPolicy) []DailyAssetRecord {
	n := truncateSeries(series)

	var (
		position float64
		cashFlow float64
		cursor   int
	)
	history := make([]DailyAssetRecord, 0, n)

	for i := 0; i < n; i++ {
		day, ok := dayFromUnix(series.Timestamp[i])
		if !ok {
			continue
		}

		for cursor < len(transactions) && transactions[cursor].Date <= day {
			t := transactions[cursor]
			cursor++
			if policy == UnmatchedDrop && t.Date != day {
				continue
			}
			switch t.Type {
			case "buy":
				q := t.Quantity.Float()
				position += q
				cashFlow -= q * t.Price.Float()
			case "sell":
				q := t.Quantity.Float()
				position -= q
				cashFlow += q * t.Price.Float()
			}
		}

		var marketValue, pnl float64
		if close, ok := finiteValue(series.Close[i]); ok {
			marketValue = position * close
			pnl = marketValue + cashFlow
		} else {
			pnl = cashFlow
		}

		history = append(history, DailyAssetRecord{
			Date: day,
			OHLCV: Bar{
				Open:   finitePtr(series.Open[i]),
				High:   finitePtr(series.High[i]),
				Low:    finitePtr(series.Low[i]),
				Close:  finitePtr(series.Close[i]),
				Volume: finitePtr(series.Volume[i]),
			},
			PnL:         round2(pnl),
			MarketValue: marketValue,
			Position:    position,
		})
	}
	return history
}

// finitePtr passes a value through only when present and finite.
func finitePtr(p *float64) *float64 {
	if v, ok := finiteValue(p); ok {
		return floatPtr(v)
	}
	return nil
}

type assetOutcome struct {
	perf *AssetPerformance
	err  error
}

// ComputePortfolioPerformance aggregates all held assets' daily histories
// into one date-keyed series. Per-asset failures never fail the whole
// aggregate; failed assets are reported in Skipped. Only the ledger query
// itself can return an error.
func (c *Core) ComputePortfolioPerformance(ctx context.Context, portfolioID string) (*PortfolioPerformance, error) {
	refs, err := c.ListPortfolioAssets(portfolioID)
	if err != nil {
		return nil, err
	}

	// Fetch every asset's series concurrently; merge sequentially below so
	// the cross-asset processing order stays deterministic (symbol order).
	outcomes := make([]assetOutcome, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref AssetRef) {
			defer wg.Done()
			perf, err := c.ComputeAssetPerformance(ctx, portfolioID, ref.AssetID)
			outcomes[i] = assetOutcome{perf: perf, err: err}
		}(i, ref)
	}
	wg.Wait()

	days := make(map[string]*dayAccumulator)
	var skipped []SkippedAsset
	for i, ref := range refs {
		outcome := outcomes[i]
		if outcome.err != nil {
			c.logger.Warn("skipping asset in portfolio aggregate",
				"portfolio_id", portfolioID, "symbol", ref.Symbol, "err", outcome.err)
			skipped = append(skipped, SkippedAsset{
				AssetID: ref.AssetID,
				Symbol:  ref.Symbol,
				Reason:  outcome.err.Error(),
			})
			continue
		}
		for _, rec := range outcome.perf.History {
			acc, ok := days[rec.Date]
			if !ok {
				acc = newDayAccumulator()
				days[rec.Date] = acc
			}
			acc.add(rec)
		}
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	history := make([]DailyPortfolioRecord, 0, len(dates))
	for _, date := range dates {
		history = append(history, days[date].record(date))
	}

	return &PortfolioPerformance{
		PortfolioID: portfolioID,
		History:     history,
		Skipped:     skipped,
	}, nil
}

// dayAccumulator merges one calendar day's records across assets. Open keeps
// the first valid value seen, close the last, high and low run max and min
// from infinity sentinels, and volume, pnl, and market value accumulate sums.
type dayAccumulator struct {
	open      *float64
	lastClose *float64
	high      float64
	low       float64
	volume    float64
	hasVolume bool

	pnl         float64
	marketValue float64
}

func newDayAccumulator() *dayAccumulator {
	return &dayAccumulator{high: math.Inf(-1), low: math.Inf(1)}
}

func (a *dayAccumulator) add(rec DailyAssetRecord) {
	if a.open == nil && rec.OHLCV.Open != nil {
		a.open = rec.OHLCV.Open
	}
	if rec.OHLCV.Close != nil {
		a.lastClose = rec.OHLCV.Close
	}
	if v, ok := finiteValue(rec.OHLCV.High); ok && v > a.high {
		a.high = v
	}
	if v, ok := finiteValue(rec.OHLCV.Low); ok && v < a.low {
		a.low = v
	}
	if v, ok := finiteValue(rec.OHLCV.Volume); ok {
		a.volume += v
		a.hasVolume = true
	}
	a.pnl += rec.PnL
	a.marketValue += rec.MarketValue
}

func (a *dayAccumulator) record(date string) DailyPortfolioRecord {
	var bar Bar
	bar.Open = a.open
	bar.Close = a.lastClose
	// Untouched sentinels mean no asset reported a value that day.
	if !math.IsInf(a.high, -1) {
		bar.High = floatPtr(a.high)
	}
	if !math.IsInf(a.low, 1) {
		bar.Low = floatPtr(a.low)
	}
	if a.hasVolume {
		bar.Volume = floatPtr(a.volume)
	}
	return DailyPortfolioRecord{
		Date:        date,
		OHLCV:       bar,
		PnL:         round2(a.pnl),
		MarketValue: round2(a.marketValue),
	}
}
