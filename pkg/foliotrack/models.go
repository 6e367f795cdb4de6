package foliotrack

// TransactionTypes lists the accepted ledger transaction types.
// Only buy and sell move position and cash flow in the performance engine;
// the other types are recorded for completeness.
var TransactionTypes = []string{
	"buy",
	"sell",
	"dividend",
	"deposit",
	"withdrawal",
}

// DefaultAssetTypes seed the assets table classification.
var DefaultAssetTypes = []string{"stock", "etf", "bond", "crypto", "cash"}

// Portfolio groups transactions under a user.
type Portfolio struct {
	PortfolioID string  `json:"portfolio_id"`
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CreatedAt   *string `json:"created_at"`
}

// Asset identifies a tradable instrument; the symbol selects the external
// price series used by the performance engine.
type Asset struct {
	AssetID   int64   `json:"asset_id"`
	Symbol    string  `json:"symbol"`
	Name      *string `json:"name"`
	AssetType string  `json:"asset_type"`
	Currency  string  `json:"currency"`
}

// AssetRef is the minimal identity of an asset held in a portfolio.
type AssetRef struct {
	AssetID int64  `json:"asset_id"`
	Symbol  string `json:"symbol"`
}

// Transaction is one immutable ledger entry. Quantity, price, and fees are
// stored as decimals; the performance engine converts to float64 on read.
type Transaction struct {
	TransactionID int64   `json:"transaction_id"`
	PortfolioID   string  `json:"portfolio_id"`
	AssetID       int64   `json:"asset_id"`
	Symbol        string  `json:"symbol"`
	Name          *string `json:"name,omitempty"`
	Date          string  `json:"date"`
	Type          string  `json:"type"`
	Quantity      Amount  `json:"quantity"`
	Price         Amount  `json:"price"`
	Fees          Amount  `json:"fees"`
	Notes         *string `json:"notes"`
	CreatedAt     *string `json:"created_at"`
}

// AddTransactionRequest defines inputs to record a transaction.
type AddTransactionRequest struct {
	PortfolioID string
	AssetID     int64
	Date        string
	Type        string
	Quantity    float64
	Price       float64
	Fees        float64
	Notes       *string
}

// AddAssetRequest defines inputs to register an asset.
type AddAssetRequest struct {
	Symbol    string
	Name      *string
	AssetType string
	Currency  string
}

// PriceSeries holds the provider's parallel OHLCV arrays; element i of every
// slice describes bar i. Nil elements are missing values, nil slices are
// missing arrays (a malformed payload).
type PriceSeries struct {
	Timestamp []*float64 `json:"timestamp"`
	Open      []*float64 `json:"open"`
	High      []*float64 `json:"high"`
	Low       []*float64 `json:"low"`
	Close     []*float64 `json:"close"`
	Volume    []*float64 `json:"volume"`
}

// Bar is one daily OHLCV sample. Fields are nil when the provider omitted the
// value or reported a non-finite number.
type Bar struct {
	Open   *float64 `json:"open"`
	High   *float64 `json:"high"`
	Low    *float64 `json:"low"`
	Close  *float64 `json:"close"`
	Volume *float64 `json:"volume"`
}

// DailyAssetRecord is one day of reconstructed state for a single asset.
// PnL is market value plus cumulative cash flow when the close is known, and
// degrades to cumulative cash flow alone when it is not.
type DailyAssetRecord struct {
	Date        string  `json:"date"`
	OHLCV       Bar     `json:"ohlcv"`
	PnL         float64 `json:"pnl"`
	MarketValue float64 `json:"market_value"`
	Position    float64 `json:"position"`
}

// AssetPerformance is the full daily history for one asset.
type AssetPerformance struct {
	Ticker  string             `json:"ticker"`
	History []DailyAssetRecord `json:"history"`
}

// DailyPortfolioRecord aggregates all assets' records for one calendar day:
// open is the first valid value seen, close the last, high/low the running
// max/min, and volume, pnl, and market value are sums.
type DailyPortfolioRecord struct {
	Date        string  `json:"date"`
	OHLCV       Bar     `json:"ohlcv"`
	PnL         float64 `json:"pnl"`
	MarketValue float64 `json:"market_value"`
}

// SkippedAsset reports an asset omitted from a portfolio aggregate and why.
type SkippedAsset struct {
	AssetID int64  `json:"asset_id"`
	Symbol  string `json:"symbol"`
	Reason  string `json:"reason"`
}

// PortfolioPerformance is the aggregated daily history for a portfolio.
// History is empty, never nil, when no asset produced a usable series.
type PortfolioPerformance struct {
	PortfolioID string                 `json:"portfolio_id"`
	History     []DailyPortfolioRecord `json:"history"`
	Skipped     []SkippedAsset         `json:"skipped_assets,omitempty"`
}
