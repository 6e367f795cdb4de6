package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foliotrack/pkg/foliotrack"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

// --- portfolios ---

type addPortfolioRequest struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *handler) addPortfolio(w http.ResponseWriter, r *http.Request) {
	var req addPortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest,
			foliotrack.NewError(foliotrack.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	portfolio, err := h.core.AddPortfolio(req.UserID, req.Name, req.Description)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Code: 0, Data: portfolio})
}

func (h *handler) getPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.core.GetPortfoliosByUser(chi.URLParam(r, "userID"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if portfolios == nil {
		portfolios = []foliotrack.Portfolio{}
	}
	writeSuccess(w, portfolios)
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.core.GetPortfolio(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if portfolio == nil {
		writeErrorResponse(w, http.StatusNotFound,
			foliotrack.NewError(foliotrack.ErrCodeNotFound, "portfolio not found"))
		return
	}
	writeSuccess(w, portfolio)
}

func (h *handler) deletePortfolio(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.core.DeletePortfolio(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeErrorResponse(w, http.StatusNotFound,
			foliotrack.NewError(foliotrack.ErrCodeNotFound, "portfolio not found"))
		return
	}
	writeSuccessWithMessage(w, "portfolio deleted", nil)
}

// --- assets ---

type addAssetRequest struct {
	Symbol    string  `json:"symbol"`
	Name      *string `json:"name"`
	AssetType string  `json:"asset_type"`
	Currency  string  `json:"currency"`
}

func (h *handler) getAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.core.ListAssets()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if assets == nil {
		assets = []foliotrack.Asset{}
	}
	writeSuccess(w, assets)
}

func (h *handler) addAsset(w http.ResponseWriter, r *http.Request) {
	var req addAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest,
			foliotrack.NewError(foliotrack.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	id, err := h.core.AddAsset(foliotrack.AddAssetRequest{
		Symbol:    req.Symbol,
		Name:      req.Name,
		AssetType: req.AssetType,
		Currency:  req.Currency,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Code: 0, Data: map[string]int64{"asset_id": id}})
}

func (h *handler) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := h.core.DeleteAsset(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeErrorResponse(w, http.StatusNotFound,
			foliotrack.NewError(foliotrack.ErrCodeNotFound, "asset not found"))
		return
	}
	writeSuccessWithMessage(w, "asset deleted", nil)
}

func (h *handler) getPortfolioAssets(w http.ResponseWriter, r *http.Request) {
	refs, err := h.core.ListPortfolioAssets(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if refs == nil {
		refs = []foliotrack.AssetRef{}
	}
	writeSuccess(w, refs)
}

// --- transactions ---

type addTransactionRequest struct {
	PortfolioID string  `json:"portfolio_id"`
	AssetID     int64   `json:"asset_id"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Fees        float64 `json:"fees"`
	Notes       *string `json:"notes"`
}

func (h *handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest,
			foliotrack.NewError(foliotrack.ErrCodeInvalidInput, "invalid JSON body"))
		return
	}
	id, err := h.core.AddTransaction(foliotrack.AddTransactionRequest{
		PortfolioID: req.PortfolioID,
		AssetID:     req.AssetID,
		Date:        req.Date,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Fees:        req.Fees,
		Notes:       req.Notes,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, Response{Code: 0, Data: map[string]int64{"transaction_id": id}})
}

func (h *handler) getTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.core.ListTransactions(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if transactions == nil {
		transactions = []foliotrack.Transaction{}
	}
	writeSuccess(w, transactions)
}

func (h *handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	deleted, err := h.core.DeleteTransaction(id)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if !deleted {
		writeErrorResponse(w, http.StatusNotFound,
			foliotrack.NewError(foliotrack.ErrCodeNotFound, "transaction not found"))
		return
	}
	writeSuccessWithMessage(w, "transaction deleted", nil)
}

// --- performance ---

func (h *handler) getAssetPerformance(w http.ResponseWriter, r *http.Request) {
	assetID, err := parseID(chi.URLParam(r, "assetID"))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	perf, err := h.core.ComputeAssetPerformance(r.Context(), chi.URLParam(r, "id"), assetID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, perf)
}

func (h *handler) getPortfolioPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.core.ComputePortfolioPerformance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, perf)
}

// --- news and insights ---

func (h *handler) getNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 10
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeErrorResponse(w, http.StatusBadRequest,
				foliotrack.NewError(foliotrack.ErrCodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	var articles []foliotrack.NewsArticle
	var err error
	if portfolioID := query.Get("portfolio_id"); portfolioID != "" {
		articles, err = h.core.FetchNews(r.Context(), portfolioID, limit)
	} else {
		// Country feed. Defaults match the upstream provider's home market.
		countries := query.Get("countries")
		if countries == "" {
			countries = "mx"
		}
		language := query.Get("language")
		if language == "" {
			language = "es"
		}
		articles, err = h.core.FetchMarketNews(r.Context(), foliotrack.NewsQuery{
			Countries: countries,
			Language:  language,
			Limit:     limit,
		})
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, articles)
}

func (h *handler) getInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.core.GetPortfolioInsights(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeSuccess(w, insights)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, foliotrack.NewError(foliotrack.ErrCodeInvalidInput, "invalid id")
	}
	return id, nil
}
