package foliotrack

import "database/sql"

// AddAsset registers an asset and returns its ID. Symbols are unique; adding
// an existing symbol returns the existing row's ID.
func (c *Core) AddAsset(req AddAssetRequest) (int64, error) {
	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" {
		return 0, NewError(ErrCodeInvalidInput, "symbol required")
	}
	assetType := normalizeAssetType(req.AssetType)
	if assetType == "" {
		assetType = "stock"
	}
	currency := normalizeCurrency(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	var existing int64
	err := c.db.QueryRow("SELECT asset_id FROM assets WHERE symbol = ?", symbol).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return 0, WrapError(ErrCodeDatabase, "select asset", err)
	}

	result, err := c.db.Exec(
		"INSERT INTO assets (symbol, name, asset_type, currency) VALUES (?, ?, ?, ?)",
		symbol, nullString(req.Name), assetType, currency,
	)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert asset", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert asset", err)
	}
	return id, nil
}

// GetAsset fetches a single asset by ID. Returns nil when not found.
func (c *Core) GetAsset(assetID int64) (*Asset, error) {
	row := c.db.QueryRow(`
		SELECT asset_id, symbol, name, asset_type, currency
		FROM assets
		WHERE asset_id = ?
	`, assetID)

	var a Asset
	var name sql.NullString
	if err := row.Scan(&a.AssetID, &a.Symbol, &name, &a.AssetType, &a.Currency); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, WrapError(ErrCodeDatabase, "select asset", err)
	}
	if name.Valid {
		a.Name = &name.String
	}
	return &a, nil
}

// ListAssets returns all registered assets ordered by symbol.
func (c *Core) ListAssets() ([]Asset, error) {
	rows, err := c.db.Query(`
		SELECT asset_id, symbol, name, asset_type, currency
		FROM assets
		ORDER BY symbol
	`)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "select assets", err)
	}
	defer rows.Close()

	var results []Asset
	for rows.Next() {
		var a Asset
		var name sql.NullString
		if err := rows.Scan(&a.AssetID, &a.Symbol, &name, &a.AssetType, &a.Currency); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan asset", err)
		}
		if name.Valid {
			a.Name = &name.String
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

// ListPortfolioAssets returns the distinct assets with at least one
// transaction in the portfolio, ordered by symbol. The order fixes the
// cross-asset processing order used by the portfolio aggregator.
func (c *Core) ListPortfolioAssets(portfolioID string) ([]AssetRef, error) {
	rows, err := c.db.Query(`
		SELECT DISTINCT a.asset_id, a.symbol
		FROM transactions t
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE t.portfolio_id = ?
		ORDER BY a.symbol
	`, portfolioID)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "select portfolio assets", err)
	}
	defer rows.Close()

	var results []AssetRef
	for rows.Next() {
		var ref AssetRef
		if err := rows.Scan(&ref.AssetID, &ref.Symbol); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan portfolio asset", err)
		}
		results = append(results, ref)
	}
	return results, rows.Err()
}

// DeleteAsset removes an asset that no transaction references.
func (c *Core) DeleteAsset(assetID int64) (bool, error) {
	var refs int
	if err := c.db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE asset_id = ?", assetID,
	).Scan(&refs); err != nil {
		return false, WrapError(ErrCodeDatabase, "count asset references", err)
	}
	if refs > 0 {
		return false, NewError(ErrCodeInvalidInput, "asset has transactions; delete them first")
	}

	result, err := c.db.Exec("DELETE FROM assets WHERE asset_id = ?", assetID)
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete asset", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete asset", err)
	}
	return affected > 0, nil
}
