package foliotrack

import (
	"database/sql"
	"fmt"
)

func initDatabase(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS portfolios (
			portfolio_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS assets (
			asset_id INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol TEXT NOT NULL UNIQUE,
			name TEXT,
			asset_type TEXT NOT NULL DEFAULT 'stock',
			currency TEXT NOT NULL DEFAULT 'USD'
		)
	`); err != nil {
		return err
	}

	// Older databases predate the currency column.
	if hasCurrency, err := tableHasColumn(tx, "assets", "currency"); err != nil {
		return err
	} else if !hasCurrency {
		if err := exec(tx, "ALTER TABLE assets ADD COLUMN currency TEXT NOT NULL DEFAULT 'USD'"); err != nil {
			return err
		}
	}

	if err := exec(tx, `
		CREATE TABLE IF NOT EXISTS transactions (
			transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
			portfolio_id TEXT NOT NULL,
			asset_id INTEGER NOT NULL,
			date TEXT NOT NULL,
			type TEXT NOT NULL CHECK(type IN ('buy', 'sell', 'dividend', 'deposit', 'withdrawal')),
			quantity REAL NOT NULL DEFAULT 0 CHECK(quantity >= 0),
			price REAL NOT NULL DEFAULT 0 CHECK(price >= 0),
			fees REAL NOT NULL DEFAULT 0 CHECK(fees >= 0),
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (portfolio_id) REFERENCES portfolios(portfolio_id) ON DELETE CASCADE,
			FOREIGN KEY (asset_id) REFERENCES assets(asset_id)
		)
	`); err != nil {
		return err
	}

	if err := exec(tx, `
		CREATE INDEX IF NOT EXISTS idx_transactions_portfolio_asset_date
		ON transactions(portfolio_id, asset_id, date)
	`); err != nil {
		return err
	}

	return tx.Commit()
}

func exec(tx *sql.Tx, query string) error {
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("schema exec failed: %w", err)
	}
	return nil
}

func tableHasColumn(tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
