package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// maxArticles bounds how many recent articles are scored per request.
const maxArticles = 10

// FinnhubClient fetches company news for keyword-based sentiment scoring.
type FinnhubClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewFinnhubClient creates a new Finnhub news client.
func NewFinnhubClient(apiKey string, logger zerolog.Logger) *FinnhubClient {
	return &FinnhubClient{
		apiKey:     apiKey,
		baseURL:    finnhubBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With().Str("component", "finnhub").Logger(),
	}
}

type newsArticle struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
}

// NewsSentiment scores the most recent news for a symbol. A symbol with no
// coverage scores 0. A missing API key or an API error returns an error so
// the caller can fall back.
func (f *FinnhubClient) NewsSentiment(ctx context.Context, symbol string) (float64, error) {
	if f.apiKey == "" {
		return 0, fmt.Errorf("finnhub API key not provided")
	}

	params := url.Values{}
	params.Set("symbol", finnhubSymbol(symbol))
	params.Set("token", f.apiKey)

	reqURL := f.baseURL + "/company-news?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.logger.Warn().Msg("Finnhub rate limit exceeded")
		return 0, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("finnhub returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var articles []newsArticle
	if err := json.Unmarshal(body, &articles); err != nil {
		return 0, fmt.Errorf("parsing news response: %w", err)
	}

	if len(articles) == 0 {
		f.logger.Info().Str("symbol", symbol).Msg("No news found")
		return 0, nil
	}
	if len(articles) > maxArticles {
		articles = articles[:maxArticles]
	}

	var total float64
	for _, article := range articles {
		total += AnalyzeText(article.Headline + " " + article.Summary)
	}
	avg := total / float64(len(articles))

	f.logger.Info().Str("symbol", symbol).Float64("sentiment", avg).Msg("Scored news sentiment")
	return avg, nil
}

// finnhubSymbol converts a Binance-style pair to the Finnhub crypto format.
func finnhubSymbol(symbol string) string {
	return strings.Replace(strings.ToUpper(symbol), "USDT", "-USD", 1)
}
