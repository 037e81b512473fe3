// internal/assistant/format/formatter_test.go
package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finassist/internal/assistant/intent"
	"finassist/internal/assistant/router"
	"finassist/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func sampleQuote() *models.Quote {
	return &models.Quote{
		Symbol:        "AAPL",
		Name:          "Apple Inc.",
		CurrentPrice:  192.5,
		PreviousClose: 190.0,
		Change:        2.5,
		ChangePercent: 1.32,
		High:          193.1,
		Low:           189.4,
		Currency:      "USD",
		MarketCap:     floatPtr(3.0e12),
		Timestamp:     "2026-08-31 14:00:00",
	}
}

func TestRender_StockQuote(t *testing.T) {
	f := NewFormatter()
	out := f.Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindStockPrice, Ticker: "AAPL"},
		Quote:  &models.QuoteResult{Quote: sampleQuote()},
	})

	assert.Contains(t, out, "**Apple Inc.** (AAPL)")
	assert.Contains(t, out, "**Current Price:** $192.5 USD")
	assert.Contains(t, out, "**Change:** +$2.5 (+1.32%)")
	assert.Contains(t, out, "**Previous Close:** $190")
	assert.Contains(t, out, "**Day Range:** $189.4 - $193.1")
	assert.Contains(t, out, "**Market Cap:** $3000.00B")
	assert.Contains(t, out, "_Updated: 2026-08-31 14:00:00_")
	assert.Contains(t, out, "📈")
}

func TestRender_NegativeChangeUsesDownArrowAndNoPlus(t *testing.T) {
	q := sampleQuote()
	q.Change = -3.2
	q.ChangePercent = -1.66

	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindStockPrice},
		Quote:  &models.QuoteResult{Quote: q},
	})

	assert.Contains(t, out, "📉")
	assert.Contains(t, out, "**Change:** $-3.2 (-1.66%)")
	assert.NotContains(t, out, "+$-")
}

func TestRender_QuoteErrorSlot(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindStockPrice, Ticker: "ZZZZ"},
		Quote:  &models.QuoteResult{Err: "QUOTE_NOT_FOUND: No data found for ticker"},
	})

	assert.Contains(t, out, "❌ Error: QUOTE_NOT_FOUND")
}

func TestRender_CryptoQuote(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindCryptoPrice, Asset: intent.BitcoinAsset},
		Crypto: &models.CryptoResult{Quote: &models.CryptoQuote{
			Name:         "Bitcoin",
			Symbol:       "BTC",
			CurrentPrice: 67890.12,
			Change24h:    1.23,
			MarketCap:    floatPtr(1.337e12),
			Volume24h:    floatPtr(4.12e10),
			Timestamp:    "2026-08-31 14:00:00",
		}},
	})

	assert.Contains(t, out, "**Bitcoin** (BTC)")
	assert.Contains(t, out, "**Current Price:** $67,890.12 USD")
	assert.Contains(t, out, "**24h Change:** +1.23%")
	assert.Contains(t, out, "**Market Cap:** $1337.00B")
	assert.Contains(t, out, "**24h Volume:** $41.20B")
}

func TestRender_ScrapeSections(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindWebScrape},
		Scrapes: []models.ScrapeResult{
			{URL: "https://a.example/one", Err: "PAGE_FETCH_FAILED: Failed to fetch page"},
			{URL: "https://b.example/two", Extract: &models.PageExtract{
				URL:       "https://b.example/two",
				Relevant:  true,
				Summary:   "Record revenue quarter",
				KeyPoints: []string{"beat estimates", "raised guidance"},
			}},
			{URL: "https://c.example/three", Extract: &models.PageExtract{
				URL:      "https://c.example/three",
				Relevant: false,
			}},
		},
	})

	// Sections keep URL order and are visibly separated.
	first := strings.Index(out, "https://a.example/one")
	second := strings.Index(out, "https://b.example/two")
	third := strings.Index(out, "https://c.example/three")
	assert.Less(t, first, second)
	assert.Less(t, second, third)
	assert.Equal(t, 2, strings.Count(out, "\n\n---\n\n"))

	assert.Contains(t, out, "❌ Error scraping https://a.example/one: PAGE_FETCH_FAILED")
	assert.Contains(t, out, "✅ **Found relevant information from:** https://b.example/two")
	assert.Contains(t, out, "**Summary:**\nRecord revenue quarter")
	assert.Contains(t, out, "- beat estimates")
	assert.Contains(t, out, "- raised guidance")
	assert.Contains(t, out, "ℹ️ No relevant information found at https://c.example/three")
}

func TestRender_CombinedOrdersQuoteBeforeScrapes(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindCombined, Ticker: "TSLA"},
		Quote:  &models.QuoteResult{Quote: sampleQuote()},
		Scrapes: []models.ScrapeResult{
			{URL: "https://news.example", Extract: &models.PageExtract{Relevant: true, Summary: "news"}},
		},
	})

	quoteIdx := strings.Index(out, "Current Price")
	scrapeIdx := strings.Index(out, "Found relevant information")
	require.GreaterOrEqual(t, quoteIdx, 0)
	require.GreaterOrEqual(t, scrapeIdx, 0)
	assert.Less(t, quoteIdx, scrapeIdx)
}

func TestRender_UnknownIntentGuidance(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindUnknown, RawQuery: "hello"},
	})

	assert.Contains(t, out, "I'm not sure what you're asking for")
	assert.Contains(t, out, "'AAPL stock price'")
	assert.Contains(t, out, "'Bitcoin value'")
	assert.Contains(t, out, "'Scrape [URL] for [query]'")
}

func TestRender_EmptyResultFallback(t *testing.T) {
	out := NewFormatter().Render(&router.AggregatedResult{
		Intent: intent.Intent{Kind: intent.KindWebScrape},
	})

	assert.Equal(t, "I couldn't find any relevant information.", out)
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "67,890.12", groupThousands(67890.12))
	assert.Equal(t, "1,000,000.00", groupThousands(1000000))
	assert.Equal(t, "999.99", groupThousands(999.99))
	assert.Equal(t, "-12,345.60", groupThousands(-12345.6))
}
