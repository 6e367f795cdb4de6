package foliotrack

import (
	"database/sql"
	"fmt"
)

// AddTransaction records a ledger entry and returns its ID. Entries are
// immutable once recorded; the only lifecycle operation is deletion.
func (c *Core) AddTransaction(req AddTransactionRequest) (int64, error) {
	if req.PortfolioID == "" {
		return 0, NewError(ErrCodeInvalidInput, "portfolio_id required")
	}
	if req.AssetID <= 0 {
		return 0, NewError(ErrCodeInvalidInput, "asset_id required")
	}
	if req.Type == "" {
		return 0, NewError(ErrCodeInvalidInput, "type required")
	}
	if !isValidTransactionType(req.Type) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid type: %s", req.Type))
	}
	if req.Date == "" {
		req.Date = todayISO()
	}
	if !isValidDate(req.Date) {
		return 0, NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid date: %s", req.Date))
	}
	if req.Quantity < 0 || !isFinite(req.Quantity) {
		return 0, NewError(ErrCodeInvalidInput, "quantity must be >= 0")
	}
	if req.Price < 0 || !isFinite(req.Price) {
		return 0, NewError(ErrCodeInvalidInput, "price must be >= 0")
	}
	if req.Fees < 0 || !isFinite(req.Fees) {
		return 0, NewError(ErrCodeInvalidInput, "fees must be >= 0")
	}

	portfolio, err := c.GetPortfolio(req.PortfolioID)
	if err != nil {
		return 0, err
	}
	if portfolio == nil {
		return 0, NewError(ErrCodeNotFound, "portfolio not found")
	}
	asset, err := c.GetAsset(req.AssetID)
	if err != nil {
		return 0, err
	}
	if asset == nil {
		return 0, NewError(ErrCodeNotFound, "asset not found")
	}

	result, err := c.db.Exec(`
		INSERT INTO transactions (portfolio_id, asset_id, date, type, quantity, price, fees, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		req.PortfolioID,
		req.AssetID,
		req.Date,
		req.Type,
		NewAmount(req.Quantity),
		NewAmount(req.Price),
		NewAmount(req.Fees),
		nullString(req.Notes),
	)
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert transaction", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, WrapError(ErrCodeDatabase, "insert transaction", err)
	}
	return id, nil
}

// ListTransactions returns a portfolio's full ledger joined with asset
// metadata, ordered by date ascending.
func (c *Core) ListTransactions(portfolioID string) ([]Transaction, error) {
	return c.queryTransactions(`
		SELECT
			t.transaction_id, t.portfolio_id, t.asset_id, t.date, t.type,
			t.quantity, t.price, t.fees, t.notes, t.created_at,
			a.symbol, a.name
		FROM transactions t
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE t.portfolio_id = ?
		ORDER BY t.date ASC, t.transaction_id ASC
	`, portfolioID)
}

// listAssetTransactions returns one asset's ledger within a portfolio in
// ledger order: date ascending, insertion ID breaking ties.
func (c *Core) listAssetTransactions(portfolioID string, assetID int64) ([]Transaction, error) {
	return c.queryTransactions(`
		SELECT
			t.transaction_id, t.portfolio_id, t.asset_id, t.date, t.type,
			t.quantity, t.price, t.fees, t.notes, t.created_at,
			a.symbol, a.name
		FROM transactions t
		JOIN assets a ON a.asset_id = t.asset_id
		WHERE t.portfolio_id = ? AND t.asset_id = ?
		ORDER BY t.date ASC, t.transaction_id ASC
	`, portfolioID, assetID)
}

func (c *Core) queryTransactions(query string, params ...any) ([]Transaction, error) {
	rows, err := c.db.Query(query, params...)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "select transactions", err)
	}
	defer rows.Close()

	var results []Transaction
	for rows.Next() {
		var t Transaction
		var notes, createdAt, name sql.NullString
		if err := rows.Scan(
			&t.TransactionID, &t.PortfolioID, &t.AssetID, &t.Date, &t.Type,
			&t.Quantity, &t.Price, &t.Fees, &notes, &createdAt,
			&t.Symbol, &name,
		); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan transaction", err)
		}
		if notes.Valid {
			t.Notes = &notes.String
		}
		if createdAt.Valid {
			t.CreatedAt = &createdAt.String
		}
		if name.Valid {
			t.Name = &name.String
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// DeleteTransaction deletes a transaction by ID.
func (c *Core) DeleteTransaction(id int64) (bool, error) {
	result, err := c.db.Exec("DELETE FROM transactions WHERE transaction_id = ?", id)
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete transaction", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete transaction", err)
	}
	return affected > 0, nil
}
