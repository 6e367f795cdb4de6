package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"foliotrack/pkg/foliotrack"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *foliotrack.Core) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(core.Logger()))
	r.Use(recoveryLoggingMiddleware(core.Logger()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Portfolios
	r.Post("/api/portfolios", h.addPortfolio)
	r.Get("/api/portfolios/user/{userID}", h.getPortfolios)
	r.Get("/api/portfolios/{id}", h.getPortfolio)
	r.Delete("/api/portfolios/{id}", h.deletePortfolio)

	// Assets
	r.Get("/api/assets", h.getAssets)
	r.Post("/api/assets", h.addAsset)
	r.Delete("/api/assets/{id}", h.deleteAsset)
	r.Get("/api/portfolios/{id}/assets", h.getPortfolioAssets)

	// Transactions
	r.Post("/api/transactions", h.addTransaction)
	r.Get("/api/transactions/{id}", h.getTransactions)
	r.Delete("/api/transactions/{id}", h.deleteTransaction)

	// Performance
	r.Get("/api/portfolios/{id}/performance", h.getPortfolioPerformance)
	r.Get("/api/portfolios/{id}/assets/{assetID}/performance", h.getAssetPerformance)

	// News and insights
	r.Get("/api/news", h.getNews)
	r.Post("/api/portfolios/{id}/insights", h.getInsights)

	return r
}

type handler struct {
	core *foliotrack.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
