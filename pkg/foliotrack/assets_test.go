package foliotrack

import "testing"

func TestAddAssetNormalizesAndDefaults(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	id, err := core.AddAsset(AddAssetRequest{Symbol: "  aapl "})
	assertNoError(t, err, "add asset")

	asset, err := core.GetAsset(id)
	assertNoError(t, err, "get asset")
	if asset.Symbol != "AAPL" {
		t.Errorf("symbol: got %q, want AAPL", asset.Symbol)
	}
	if asset.AssetType != "stock" || asset.Currency != "USD" {
		t.Errorf("defaults: got %q/%q, want stock/USD", asset.AssetType, asset.Currency)
	}
}

func TestAddAssetIdempotentOnSymbol(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := core.AddAsset(AddAssetRequest{Symbol: "MSFT"})
	assertNoError(t, err, "first add")
	second, err := core.AddAsset(AddAssetRequest{Symbol: "msft"})
	assertNoError(t, err, "second add")
	if first != second {
		t.Errorf("same symbol produced distinct ids: %d, %d", first, second)
	}
}

func TestAddAssetRequiresSymbol(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := core.AddAsset(AddAssetRequest{Symbol: "   "}); !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Errorf("blank symbol: got %v, want INVALID_INPUT", err)
	}
}

func TestListPortfolioAssetsOrderedBySymbol(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	portfolioID := testPortfolio(t, core, "alice", "Sorted")
	zzz := testAsset(t, core, "ZZZ")
	aaa := testAsset(t, core, "AAA")
	mmm := testAsset(t, core, "MMM")
	testAsset(t, core, "NOTHELD")

	testTransaction(t, core, portfolioID, zzz, "2024-01-01", "buy", 1, 10)
	testTransaction(t, core, portfolioID, aaa, "2024-01-01", "buy", 1, 10)
	testTransaction(t, core, portfolioID, mmm, "2024-01-02", "sell", 1, 10)
	// a second transaction must not duplicate the asset
	testTransaction(t, core, portfolioID, aaa, "2024-01-03", "buy", 1, 12)

	refs, err := core.ListPortfolioAssets(portfolioID)
	assertNoError(t, err, "list portfolio assets")
	if len(refs) != 3 {
		t.Fatalf("got %d assets, want 3", len(refs))
	}
	want := []string{"AAA", "MMM", "ZZZ"}
	for i, ref := range refs {
		if ref.Symbol != want[i] {
			t.Errorf("position %d: got %s, want %s", i, ref.Symbol, want[i])
		}
	}
}

func TestDeleteAssetRefusesWhenReferenced(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	portfolioID := testPortfolio(t, core, "alice", "Sticky")
	assetID := testAsset(t, core, "GLD")
	txID := testTransaction(t, core, portfolioID, assetID, "2024-01-01", "buy", 1, 180)

	if _, err := core.DeleteAsset(assetID); !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Errorf("referenced asset delete: got %v, want INVALID_INPUT", err)
	}

	deleted, err := core.DeleteTransaction(txID)
	assertNoError(t, err, "delete transaction")
	if !deleted {
		t.Fatal("expected transaction deletion")
	}

	deleted, err = core.DeleteAsset(assetID)
	assertNoError(t, err, "delete unreferenced asset")
	if !deleted {
		t.Error("expected asset deletion")
	}
}
