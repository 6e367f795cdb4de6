package foliotrack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const defaultNewsBaseURL = "https://api.marketaux.com"

// NewsArticle is one market news item for a set of symbols.
type NewsArticle struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	PublishedAt *string `json:"published_at"`
}

// newsClient fetches market news from a marketaux-compatible API.
type newsClient struct {
	baseURL string
	apiKey  string
	logger  *slog.Logger
	client  HTTPDoer
}

type newsClientOptions struct {
	BaseURL    string
	APIKey     string
	Logger     *slog.Logger
	HTTPClient HTTPDoer
}

func newNewsClient(opts newsClientOptions) *newsClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultNewsBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &newsClient{baseURL: baseURL, apiKey: opts.APIKey, logger: logger, client: client}
}

// NewsQuery selects which news to fetch: either the tickers of interest or
// a country market feed. Symbols and Countries may be combined; at least one
// must be set.
type NewsQuery struct {
	Symbols   []string
	Countries string // comma-separated ISO country codes, e.g. "mx,us"
	Language  string
	Limit     int
}

// newsSource tolerates providers that send either a plain string or an
// object with a name field.
type newsSource string

func (s *newsSource) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = newsSource(plain)
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*s = newsSource(obj.Name)
		return nil
	}
	*s = ""
	return nil
}

type newsResponse struct {
	Data []struct {
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		URL         string     `json:"url"`
		Source      newsSource `json:"source"`
		PublishedAt *string    `json:"published_at"`
	} `json:"data"`
}

// FetchNews returns recent news matching the query, most recent first.
// Articles without a title or URL are dropped.
func (n *newsClient) FetchNews(ctx context.Context, q NewsQuery) ([]NewsArticle, error) {
	if n.apiKey == "" {
		return nil, NewError(ErrCodeInvalidInput, "news api key not configured")
	}
	if len(q.Symbols) == 0 && strings.TrimSpace(q.Countries) == "" {
		return nil, NewError(ErrCodeInvalidInput, "symbols or countries required")
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}

	params := url.Values{}
	if len(q.Symbols) > 0 {
		params.Set("symbols", strings.Join(q.Symbols, ","))
		params.Set("filter_entities", "true")
	}
	if countries := strings.TrimSpace(q.Countries); countries != "" {
		params.Set("countries", countries)
	}
	if language := strings.TrimSpace(q.Language); language != "" {
		params.Set("language", language)
	}
	params.Set("limit", fmt.Sprintf("%d", q.Limit))
	params.Set("api_token", n.apiKey)
	endpoint := fmt.Sprintf("%s/v1/news/all?%s", n.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "build news request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "fetch news", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "read news body", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, WrapError(ErrCodeInternal, "fetch news",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var decoded newsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, WrapError(ErrCodeInternal, "decode news body", err)
	}

	articles := make([]NewsArticle, 0, len(decoded.Data))
	for _, item := range decoded.Data {
		if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.URL) == "" {
			continue
		}
		articles = append(articles, NewsArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      string(item.Source),
			PublishedAt: item.PublishedAt,
		})
	}
	n.logger.Debug("fetched news",
		"symbols", q.Symbols, "countries", q.Countries, "articles", len(articles))
	return articles, nil
}

// FetchMarketNews returns recent news for an arbitrary query.
func (c *Core) FetchMarketNews(ctx context.Context, q NewsQuery) ([]NewsArticle, error) {
	return c.news.FetchNews(ctx, q)
}

// FetchNews returns recent market news for the distinct assets held in a
// portfolio.
func (c *Core) FetchNews(ctx context.Context, portfolioID string, limit int) ([]NewsArticle, error) {
	refs, err := c.ListPortfolioAssets(portfolioID)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return []NewsArticle{}, nil
	}
	symbols := make([]string, 0, len(refs))
	for _, ref := range refs {
		symbols = append(symbols, ref.Symbol)
	}
	return c.news.FetchNews(ctx, NewsQuery{Symbols: symbols, Language: "en", Limit: limit})
}
