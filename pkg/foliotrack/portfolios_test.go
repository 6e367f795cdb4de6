package foliotrack

import "testing"

func TestAddAndGetPortfolio(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	description := "long term holdings"
	created, err := core.AddPortfolio("alice", "Retirement", &description)
	assertNoError(t, err, "add portfolio")
	if created.PortfolioID == "" {
		t.Fatal("expected generated portfolio id")
	}
	if created.Name != "Retirement" || created.UserID != "alice" {
		t.Errorf("unexpected portfolio: %+v", created)
	}
	if created.Description == nil || *created.Description != description {
		t.Errorf("description not persisted: %+v", created.Description)
	}

	fetched, err := core.GetPortfolio(created.PortfolioID)
	assertNoError(t, err, "get portfolio")
	if fetched == nil || fetched.PortfolioID != created.PortfolioID {
		t.Errorf("fetched wrong portfolio: %+v", fetched)
	}
}

func TestAddPortfolioValidation(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := core.AddPortfolio("", "Name", nil); !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Errorf("missing user_id: got %v, want INVALID_INPUT", err)
	}
	if _, err := core.AddPortfolio("alice", "  ", nil); !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Errorf("blank name: got %v, want INVALID_INPUT", err)
	}
}

func TestGetPortfolioNotFound(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	portfolio, err := core.GetPortfolio("does-not-exist")
	assertNoError(t, err, "get missing portfolio")
	if portfolio != nil {
		t.Errorf("expected nil, got %+v", portfolio)
	}
}

func TestGetPortfoliosByUser(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	testPortfolio(t, core, "alice", "First")
	testPortfolio(t, core, "alice", "Second")
	testPortfolio(t, core, "bob", "Other")

	portfolios, err := core.GetPortfoliosByUser("alice")
	assertNoError(t, err, "get portfolios by user")
	if len(portfolios) != 2 {
		t.Fatalf("got %d portfolios, want 2", len(portfolios))
	}
	for _, p := range portfolios {
		if p.UserID != "alice" {
			t.Errorf("leaked portfolio for %q", p.UserID)
		}
	}
}

func TestDeletePortfolioCascadesTransactions(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	portfolioID := testPortfolio(t, core, "alice", "Doomed")
	assetID := testAsset(t, core, "AAPL")
	testTransaction(t, core, portfolioID, assetID, "2024-01-01", "buy", 1, 100)

	deleted, err := core.DeletePortfolio(portfolioID)
	assertNoError(t, err, "delete portfolio")
	if !deleted {
		t.Fatal("expected deletion")
	}

	transactions, err := core.ListTransactions(portfolioID)
	assertNoError(t, err, "list transactions after cascade")
	if len(transactions) != 0 {
		t.Errorf("transactions survived cascade: %d", len(transactions))
	}

	deleted, err = core.DeletePortfolio(portfolioID)
	assertNoError(t, err, "delete missing portfolio")
	if deleted {
		t.Error("second delete should report not found")
	}
}
