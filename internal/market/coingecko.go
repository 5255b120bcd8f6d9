package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/models"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// coingeckoPlaceholderVolume stands in for volume, which the CoinGecko
// OHLC endpoint does not provide.
const coingeckoPlaceholderVolume = 1000000.0

// coingeckoIDs maps Binance-style symbols to CoinGecko coin IDs.
var coingeckoIDs = map[string]string{
	"BTCUSDT":   "bitcoin",
	"ETHUSDT":   "ethereum",
	"BNBUSDT":   "binancecoin",
	"ADAUSDT":   "cardano",
	"SOLUSDT":   "solana",
	"XRPUSDT":   "ripple",
	"DOTUSDT":   "polkadot",
	"DOGEUSDT":  "dogecoin",
	"AVAXUSDT":  "avalanche-2",
	"MATICUSDT": "matic-network",
}

// CoinGeckoClient fetches OHLC data from CoinGecko as a fallback source.
type CoinGeckoClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewCoinGeckoClient creates a new CoinGecko client.
func NewCoinGeckoClient(logger zerolog.Logger) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    coingeckoBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger.With().Str("component", "coingecko").Logger(),
	}
}

// GetCandles fetches OHLC data and resamples it to the requested
// timeframe. Volume is a placeholder since the endpoint omits it.
func (c *CoinGeckoClient) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	coinID, ok := coingeckoIDs[strings.ToUpper(symbol)]
	if !ok {
		return nil, fmt.Errorf("unsupported symbol for CoinGecko: %s", symbol)
	}

	minutes, err := timeframeMinutes(timeframe)
	if err != nil {
		return nil, err
	}

	days := limit * minutes / (24 * 60)
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	reqURL := fmt.Sprintf("%s/coins/%s/ohlc?%s", c.baseURL, coinID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching CoinGecko data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CoinGecko returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// Entries are [timestampMillis, open, high, low, close].
	var raw [][]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing CoinGecko response: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no data received from CoinGecko")
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 5 {
			return nil, fmt.Errorf("CoinGecko entry has %d fields", len(entry))
		}
		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(int64(entry[0])).UTC(),
			Open:      entry[1],
			High:      entry[2],
			Low:       entry[3],
			Close:     entry[4],
			Volume:    coingeckoPlaceholderVolume,
		})
	}

	resampled, err := Resample(candles, timeframe)
	if err != nil {
		return nil, err
	}
	if len(resampled) > limit {
		resampled = resampled[len(resampled)-limit:]
	}

	c.logger.Info().
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Int("candles", len(resampled)).
		Msg("Retrieved candles from CoinGecko")

	return resampled, nil
}
