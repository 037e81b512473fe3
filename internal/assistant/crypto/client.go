// internal/assistant/crypto/client.go
package crypto

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"finassist/internal/common/config"
	"finassist/internal/common/httpx"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/models"
)

var (
	ErrCryptoFetchFailed = errors.New("CRYPTO_FETCH_FAILED")
	ErrCryptoAPITimeout  = errors.New("CRYPTO_API_TIMEOUT")
)

// Cache is the optional provider-response cache in front of the crypto API.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Client fetches the Bitcoin quote from the Coinlore ticker API. The asset
// is fixed by configuration; Fetch takes no parameters.
type Client struct {
	cfg    config.CryptoConfig
	client *httpx.Client
	cache  Cache
	logger logger.Logger
}

// NewClient builds a crypto client. cache may be nil.
func NewClient(cfg config.CryptoConfig, cache Cache, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: httpx.NewClient(cfg.TimeoutDuration(), ""),
		cache:  cache,
		logger: log.With(map[string]interface{}{"collaborator": "crypto"}),
	}
}

// Fetch retrieves the current Bitcoin quote.
func (c *Client) Fetch(ctx context.Context) (*models.CryptoQuote, error) {
	cacheKey := "crypto:" + c.cfg.AssetID
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey); err == nil {
			var quote models.CryptoQuote
			if err := json.Unmarshal([]byte(cached), &quote); err == nil {
				metrics.CacheHits.WithLabelValues("crypto").Inc()
				return &quote, nil
			}
		}
	}

	c.logger.Info("fetching bitcoin data", map[string]interface{}{
		"assetId": c.cfg.AssetID,
	})

	url := fmt.Sprintf("%s?id=%s", c.cfg.BaseURL, c.cfg.AssetID)
	resp, err := c.client.Get(ctx, url)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, ErrCryptoAPITimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrCryptoFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned %d", ErrCryptoFetchFailed, resp.StatusCode)
	}

	// Coinlore serves numbers as strings in most fields, so decode loosely
	// and coerce.
	var payload []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrCryptoFetchFailed, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrCryptoFetchFailed)
	}

	info := payload[0]
	quote := &models.CryptoQuote{
		Name:         stringField(info, "name", "Bitcoin"),
		Symbol:       stringField(info, "symbol", "BTC"),
		CurrentPrice: floatField(info, "price_usd"),
		Change24h:    floatField(info, "percent_change_24h"),
		Change1h:     floatField(info, "percent_change_1h"),
		Change7d:     floatField(info, "percent_change_7d"),
		Timestamp:    time.Now().UTC().Format("2006-01-02 15:04:05"),
	}
	if v := floatField(info, "volume24"); v != 0 {
		quote.Volume24h = &v
	}
	if v := floatField(info, "market_cap_usd"); v != 0 {
		quote.MarketCap = &v
	}

	if c.cache != nil {
		if data, err := json.Marshal(quote); err == nil {
			if err := c.cache.Set(ctx, cacheKey, string(data), c.cfg.CacheTTLDuration()); err != nil {
				c.logger.Debug("crypto cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return quote, nil
}

func stringField(m map[string]interface{}, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func isTimeout(ctx context.Context, err error) bool {
	return ctx.Err() == context.DeadlineExceeded ||
		errors.Is(err, context.DeadlineExceeded) ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "deadline") ||
		strings.Contains(err.Error(), "Client.Timeout")
}
