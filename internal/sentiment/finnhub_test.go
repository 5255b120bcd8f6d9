package sentiment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "" {
			t.Errorf("request missing token parameter")
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func newsClient(server *httptest.Server) *FinnhubClient {
	client := NewFinnhubClient("test-key", zerolog.Nop())
	client.baseURL = server.URL
	return client
}

func TestNewsSentimentMissingKey(t *testing.T) {
	client := NewFinnhubClient("", zerolog.Nop())
	if _, err := client.NewsSentiment(context.Background(), "BTCUSDT"); err == nil {
		t.Error("expected an error without an API key")
	}
}

func TestNewsSentimentScoresArticles(t *testing.T) {
	body := `[
		{"headline": "Bitcoin surge continues", "summary": "rally extends"},
		{"headline": "Market crash fears", "summary": "dump accelerates"}
	]`
	client := newsClient(newsServer(t, http.StatusOK, body))

	score, err := client.NewsSentiment(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("NewsSentiment: %v", err)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0 for one positive and one negative article", score)
	}
}

func TestNewsSentimentNoCoverage(t *testing.T) {
	client := newsClient(newsServer(t, http.StatusOK, "[]"))

	score, err := client.NewsSentiment(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("NewsSentiment: %v", err)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestNewsSentimentRateLimited(t *testing.T) {
	client := newsClient(newsServer(t, http.StatusTooManyRequests, ""))

	score, err := client.NewsSentiment(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("rate limiting should degrade to neutral, got %v", err)
	}
	if score != 0 {
		t.Errorf("score = %v, want 0", score)
	}
}

func TestNewsSentimentServerError(t *testing.T) {
	client := newsClient(newsServer(t, http.StatusInternalServerError, ""))

	if _, err := client.NewsSentiment(context.Background(), "BTCUSDT"); err == nil {
		t.Error("expected an error on a server failure")
	}
}

func TestFinnhubSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"BTCUSDT", "BTC-USD"},
		{"ethusdt", "ETH-USD"},
		{"AAPL", "AAPL"},
	}
	for _, tt := range tests {
		if got := finnhubSymbol(tt.in); got != tt.want {
			t.Errorf("finnhubSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
