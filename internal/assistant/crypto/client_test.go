// internal/assistant/crypto/client_test.go
package crypto

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/common/config"
	"finassist/internal/common/logger"
)

const tickerBody = `[{
	"id": "90",
	"symbol": "BTC",
	"name": "Bitcoin",
	"price_usd": "67890.12",
	"percent_change_24h": "1.23",
	"percent_change_1h": "-0.10",
	"percent_change_7d": "4.56",
	"market_cap_usd": "1337000000000",
	"volume24": 41200000000.0
}]`

func testConfig(baseURL string) config.CryptoConfig {
	return config.CryptoConfig{
		BaseURL: baseURL,
		AssetID: "90",
		Timeout: 2000,
	}
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "90", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tickerBody))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewNoOpLogger())
	quote, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bitcoin", quote.Name)
	assert.Equal(t, "BTC", quote.Symbol)
	assert.Equal(t, 67890.12, quote.CurrentPrice)
	assert.Equal(t, 1.23, quote.Change24h)
	assert.Equal(t, -0.10, quote.Change1h)
	assert.Equal(t, 4.56, quote.Change7d)
	require.NotNil(t, quote.Volume24h)
	assert.Equal(t, 41200000000.0, *quote.Volume24h)
	require.NotNil(t, quote.MarketCap)
	assert.Equal(t, 1337000000000.0, *quote.MarketCap)
	assert.NotEmpty(t, quote.Timestamp)
}

func TestFetch_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewNoOpLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCryptoFetchFailed)
}

func TestFetch_EmptyPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewNoOpLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCryptoFetchFailed)
}

func TestFetch_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewNoOpLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCryptoFetchFailed)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(tickerBody))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50
	client := NewClient(cfg, nil, logger.NewNoOpLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCryptoAPITimeout)
}

func TestFetch_MissingNumericFieldsDefaultToZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "Bitcoin", "symbol": "BTC", "price_usd": "50000"}]`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL), nil, logger.NewNoOpLogger())
	quote, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50000.0, quote.CurrentPrice)
	assert.Zero(t, quote.Change24h)
	assert.Nil(t, quote.Volume24h)
	assert.Nil(t, quote.MarketCap)
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.items[key]; ok {
		return v, nil
	}
	return "", context.Canceled
}

func (c *mapCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value.(string)
	return nil
}

func TestFetch_CacheHitSkipsHTTP(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(tickerBody))
	}))
	defer server.Close()

	cache := newMapCache()
	client := NewClient(testConfig(server.URL), cache, logger.NewNoOpLogger())

	first, err := client.Fetch(context.Background())
	require.NoError(t, err)
	second, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.CurrentPrice, second.CurrentPrice)
}
