// internal/assistant/quotes/client.go
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finassist/internal/common/config"
	"finassist/internal/common/httpx"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/models"
)

var (
	ErrQuoteFetchFailed = errors.New("QUOTE_FETCH_FAILED")
	ErrQuoteAPITimeout  = errors.New("QUOTE_API_TIMEOUT")
	ErrQuoteNotFound    = errors.New("QUOTE_NOT_FOUND")
)

// Cache is the optional provider-response cache in front of the quote API.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Client fetches equity quotes from the Yahoo Finance chart and quote APIs.
type Client struct {
	cfg    config.QuotesConfig
	client *httpx.Client
	cache  Cache
	logger logger.Logger
}

// NewClient builds a quote client. cache may be nil.
func NewClient(cfg config.QuotesConfig, cache Cache, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: httpx.NewClient(cfg.TimeoutDuration(), "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		cache:  cache,
		logger: log.With(map[string]interface{}{"collaborator": "quotes"}),
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				Currency           string  `json:"currency"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			LongName             string   `json:"longName"`
			ShortName            string   `json:"shortName"`
			MarketCap            *float64 `json:"marketCap"`
			RegularMarketDayHigh float64  `json:"regularMarketDayHigh"`
			RegularMarketDayLow  float64  `json:"regularMarketDayLow"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// Fetch retrieves a quote for ticker. The chart API supplies price data;
// the quote API supplies name, market cap and day range, and its failure
// only degrades the result instead of failing the fetch.
func (c *Client) Fetch(ctx context.Context, ticker string) (*models.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("%w: empty ticker", ErrQuoteNotFound)
	}

	cacheKey := "quote:" + ticker
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			var quote models.Quote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				metrics.CacheHits.WithLabelValues("quotes").Inc()
				return &quote, nil
			}
		}
	}

	c.logger.Info("fetching stock data", map[string]interface{}{
		"ticker": ticker,
	})

	chartURL := fmt.Sprintf("%s/%s?interval=1d&range=5d", c.cfg.ChartBaseURL, url.PathEscape(ticker))
	resp, err := c.client.Get(ctx, chartURL)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrQuoteAPITimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrQuoteFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: chart API returned %d", ErrQuoteFetchFailed, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrQuoteFetchFailed, err)
	}

	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrQuoteNotFound, ticker)
	}

	meta := chart.Chart.Result[0].Meta
	currentPrice := meta.RegularMarketPrice
	previousClose := meta.PreviousClose
	if previousClose == 0 {
		previousClose = currentPrice
	}

	change := currentPrice - previousClose
	changePercent := 0.0
	if previousClose != 0 {
		changePercent = change / previousClose * 100
	}

	currency := meta.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := &models.Quote{
		Symbol:        ticker,
		Name:          ticker,
		CurrentPrice:  round2(currentPrice),
		PreviousClose: round2(previousClose),
		Change:        round2(change),
		ChangePercent: round2(changePercent),
		High:          round2(currentPrice),
		Low:           round2(currentPrice),
		Currency:      currency,
		Timestamp:     time.Now().UTC().Format("2006-01-02 15:04:05"),
	}

	c.enrichFromQuoteAPI(ctx, ticker, quote)

	if c.cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			if err := c.cache.Set(ctx, cacheKey, string(data), c.cfg.CacheTTLDuration()); err != nil {
				c.logger.Debug("quote cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return quote, nil
}

// enrichFromQuoteAPI fills name, market cap and day range from the quote
// API. Any failure leaves the chart-derived quote untouched.
func (c *Client) enrichFromQuoteAPI(ctx context.Context, ticker string, quote *models.Quote) {
	quoteURL := fmt.Sprintf("%s?symbols=%s", c.cfg.QuoteBaseURL, url.QueryEscape(ticker))
	resp, err := c.client.Get(ctx, quoteURL)
	if err != nil {
		c.logger.Warn("quote API unavailable, using chart data only", map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return
	}
	if len(qr.QuoteResponse.Result) == 0 {
		return
	}

	info := qr.QuoteResponse.Result[0]
	if info.LongName != "" {
		quote.Name = info.LongName
	} else if info.ShortName != "" {
		quote.Name = info.ShortName
	}
	quote.MarketCap = info.MarketCap
	if info.RegularMarketDayHigh != 0 {
		quote.High = round2(info.RegularMarketDayHigh)
	}
	if info.RegularMarketDayLow != 0 {
		quote.Low = round2(info.RegularMarketDayLow)
	}
}

func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() == context.DeadlineExceeded ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
