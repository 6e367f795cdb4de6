package foliotrack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	defaultInsightsModel = "gemini-2.0-flash"
	insightsMaxTokens    = 2048
)

const insightsSystemPrompt = `You are an investment portfolio analyst.
You receive a JSON summary of a portfolio's recent performance and ledger.
Respond with a single JSON object of the form:
{"summary": string, "findings": [string], "suggestions": [string]}
Keep findings and suggestions short and concrete. Do not include markdown.`

type aiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

// PortfolioInsights is a model-generated read on recent portfolio performance.
type PortfolioInsights struct {
	Summary     string   `json:"summary"`
	Findings    []string `json:"findings"`
	Suggestions []string `json:"suggestions"`
	Model       string   `json:"model"`
	GeneratedAt string   `json:"generated_at"`
}

type insightsModelResponse struct {
	Summary     string   `json:"summary"`
	Findings    []string `json:"findings"`
	Suggestions []string `json:"suggestions"`
}

// insightsInput is the condensed portfolio view serialized into the prompt.
type insightsInput struct {
	PortfolioID  string                 `json:"portfolio_id"`
	Transactions int                    `json:"transaction_count"`
	Assets       []string               `json:"assets"`
	Skipped      []SkippedAsset         `json:"skipped_assets,omitempty"`
	RecentDays   []DailyPortfolioRecord `json:"recent_days"`
}

// GetPortfolioInsights asks the configured Gemini model for a qualitative
// read on the portfolio's recent aggregate history.
func (c *Core) GetPortfolioInsights(ctx context.Context, portfolioID string) (*PortfolioInsights, error) {
	if strings.TrimSpace(c.ai.APIKey) == "" {
		return nil, NewError(ErrCodeInvalidInput, "ai api key not configured")
	}

	portfolio, err := c.GetPortfolio(portfolioID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, NewError(ErrCodeNotFound, "portfolio not found")
	}

	perf, err := c.ComputePortfolioPerformance(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	transactions, err := c.ListTransactions(portfolioID)
	if err != nil {
		return nil, err
	}
	refs, err := c.ListPortfolioAssets(portfolioID)
	if err != nil {
		return nil, err
	}

	input := insightsInput{
		PortfolioID:  portfolioID,
		Transactions: len(transactions),
		Skipped:      perf.Skipped,
		RecentDays:   recentDays(perf.History, 30),
	}
	for _, ref := range refs {
		input.Assets = append(input.Assets, ref.Symbol)
	}
	prompt, err := json.Marshal(input)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "marshal insights input", err)
	}

	content, model, err := c.requestInsights(ctx, string(prompt))
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "generate insights", err)
	}

	parsed, err := parseInsightsResponse(content)
	if err != nil {
		return nil, WrapError(ErrCodeInternal, "parse insights response", err)
	}

	return &PortfolioInsights{
		Summary:     strings.TrimSpace(parsed.Summary),
		Findings:    trimNonEmpty(parsed.Findings),
		Suggestions: trimNonEmpty(parsed.Suggestions),
		Model:       model,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (c *Core) requestInsights(ctx context.Context, userPrompt string) (content, model string, err error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(c.ai.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint := strings.TrimSpace(c.ai.Endpoint); endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", "", fmt.Errorf("create gemini client failed: %w", err)
	}

	modelName := strings.TrimSpace(c.ai.Model)
	if modelName == "" {
		modelName = defaultInsightsModel
	}
	requestConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: insightsSystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.2)),
		MaxOutputTokens:  insightsMaxTokens,
		ResponseMIMEType: "application/json",
	}

	response, err := client.Models.GenerateContent(ctx, modelName, genai.Text(userPrompt), requestConfig)
	if err != nil {
		return "", "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	content = strings.TrimSpace(response.Text())
	if content == "" {
		return "", "", fmt.Errorf("ai response content is empty")
	}
	model = strings.TrimSpace(response.ModelVersion)
	if model == "" {
		model = modelName
	}
	return content, model, nil
}

func parseInsightsResponse(content string) (*insightsModelResponse, error) {
	cleaned := cleanupModelJSON(content)
	var parsed insightsModelResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return &parsed, nil
}

// cleanupModelJSON strips markdown code fences and leading or trailing prose
// that models sometimes wrap around a JSON object.
func cleanupModelJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		lines := strings.Split(trimmed, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
				lines = lines[:len(lines)-1]
			}
			trimmed = strings.Join(lines, "\n")
		}
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		trimmed = trimmed[start : end+1]
	}
	return strings.TrimSpace(trimmed)
}

func recentDays(history []DailyPortfolioRecord, n int) []DailyPortfolioRecord {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func trimNonEmpty(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		result = append(result, trimmed)
	}
	return result
}
