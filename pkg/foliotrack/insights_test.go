package foliotrack

import (
	"context"
	"testing"
)

func TestCleanupModelJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"summary":"ok"}`, `{"summary":"ok"}`},
		{"fenced", "```json\n{\"summary\":\"ok\"}\n```", `{"summary":"ok"}`},
		{"prose wrapped", `Here you go: {"summary":"ok"} hope that helps`, `{"summary":"ok"}`},
		{"whitespace", "  \n{\"summary\":\"ok\"}\n  ", `{"summary":"ok"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanupModelJSON(tc.input); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseInsightsResponse(t *testing.T) {
	content := "```json\n{\"summary\":\"steady growth\",\"findings\":[\"AAPL drives pnl\",\"  \"],\"suggestions\":[\"rebalance\"]}\n```"
	parsed, err := parseInsightsResponse(content)
	assertNoError(t, err, "parse insights")
	if parsed.Summary != "steady growth" {
		t.Errorf("summary: got %q", parsed.Summary)
	}
	if len(parsed.Findings) != 2 {
		t.Errorf("findings: got %d, want 2 before trimming", len(parsed.Findings))
	}
	if got := trimNonEmpty(parsed.Findings); len(got) != 1 || got[0] != "AAPL drives pnl" {
		t.Errorf("trimmed findings: got %v", got)
	}

	if _, err := parseInsightsResponse("not json at all"); err == nil {
		t.Error("expected error for invalid model output")
	}
}

func TestGetPortfolioInsightsRequiresAPIKey(t *testing.T) {
	core, cleanup := setupTestDB(t)
	defer cleanup()

	portfolioID := testPortfolio(t, core, "alice", "Main")
	if _, err := core.GetPortfolioInsights(context.Background(), portfolioID); !IsErrorCode(err, ErrCodeInvalidInput) {
		t.Errorf("missing api key: got %v, want INVALID_INPUT", err)
	}
}

func TestGetPortfolioInsightsUnknownPortfolio(t *testing.T) {
	core, cleanup := setupTestCore(t, Options{AIAPIKey: "key"})
	defer cleanup()

	if _, err := core.GetPortfolioInsights(context.Background(), "missing"); !IsErrorCode(err, ErrCodeNotFound) {
		t.Errorf("unknown portfolio: got %v, want NOT_FOUND", err)
	}
}

func TestRecentDays(t *testing.T) {
	history := make([]DailyPortfolioRecord, 40)
	for i := range history {
		history[i].Date = fmtDays("2024-01-01", 40)[i]
	}
	got := recentDays(history, 30)
	if len(got) != 30 {
		t.Fatalf("got %d records, want 30", len(got))
	}
	if got[0].Date != history[10].Date {
		t.Errorf("window start: got %s, want %s", got[0].Date, history[10].Date)
	}
	if len(recentDays(history[:5], 30)) != 5 {
		t.Error("short history must pass through untouched")
	}
}
