package foliotrack

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// AddPortfolio creates a portfolio for a user and returns it.
func (c *Core) AddPortfolio(userID, name string, description *string) (*Portfolio, error) {
	userID = strings.TrimSpace(userID)
	name = strings.TrimSpace(name)
	if userID == "" {
		return nil, NewError(ErrCodeInvalidInput, "user_id required")
	}
	if name == "" {
		return nil, NewError(ErrCodeInvalidInput, "name required")
	}

	id := uuid.NewString()
	if _, err := c.db.Exec(
		"INSERT INTO portfolios (portfolio_id, user_id, name, description) VALUES (?, ?, ?, ?)",
		id, userID, name, nullString(description),
	); err != nil {
		return nil, WrapError(ErrCodeDatabase, "insert portfolio", err)
	}
	return c.GetPortfolio(id)
}

// GetPortfolio fetches a single portfolio by ID. Returns nil when not found.
func (c *Core) GetPortfolio(portfolioID string) (*Portfolio, error) {
	row := c.db.QueryRow(`
		SELECT portfolio_id, user_id, name, description, created_at
		FROM portfolios
		WHERE portfolio_id = ?
	`, portfolioID)

	var p Portfolio
	var description, createdAt sql.NullString
	if err := row.Scan(&p.PortfolioID, &p.UserID, &p.Name, &description, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, WrapError(ErrCodeDatabase, "select portfolio", err)
	}
	if description.Valid {
		p.Description = &description.String
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.String
	}
	return &p, nil
}

// GetPortfoliosByUser returns all portfolios belonging to a user.
func (c *Core) GetPortfoliosByUser(userID string) ([]Portfolio, error) {
	rows, err := c.db.Query(`
		SELECT portfolio_id, user_id, name, description, created_at
		FROM portfolios
		WHERE user_id = ?
		ORDER BY created_at, portfolio_id
	`, userID)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "select portfolios", err)
	}
	defer rows.Close()

	var results []Portfolio
	for rows.Next() {
		var p Portfolio
		var description, createdAt sql.NullString
		if err := rows.Scan(&p.PortfolioID, &p.UserID, &p.Name, &description, &createdAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan portfolio", err)
		}
		if description.Valid {
			p.Description = &description.String
		}
		if createdAt.Valid {
			p.CreatedAt = &createdAt.String
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// DeletePortfolio removes a portfolio and, via cascade, its transactions.
func (c *Core) DeletePortfolio(portfolioID string) (bool, error) {
	result, err := c.db.Exec("DELETE FROM portfolios WHERE portfolio_id = ?", portfolioID)
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete portfolio", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, WrapError(ErrCodeDatabase, "delete portfolio", err)
	}
	return affected > 0, nil
}
