// internal/assistant/intent/classifier_test.go
package intent

import (
	"context"
	"errors"
	"testing"

	"finassist/internal/assistant/ticker"
	"finassist/internal/common/logger"

	"github.com/stretchr/testify/assert"
)

// fakeGenerator returns a canned response or error for every prompt.
type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newRuleOnlyClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(nil, ticker.NewResolver(), logger.NewNoOpLogger())
}

func TestClassify_RulePath(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Intent
	}{
		{
			name:  "company name yields stock price",
			query: "What is Apple stock price?",
			expected: Intent{
				Kind:     KindStockPrice,
				Ticker:   "AAPL",
				RawQuery: "What is Apple stock price?",
			},
		},
		{
			name:  "crypto keyword yields bitcoin price",
			query: "Bitcoin value today",
			expected: Intent{
				Kind:     KindCryptoPrice,
				Asset:    BitcoinAsset,
				RawQuery: "Bitcoin value today",
			},
		},
		{
			name:  "btc abbreviation",
			query: "how much is btc worth",
			expected: Intent{
				Kind:     KindCryptoPrice,
				Asset:    BitcoinAsset,
				RawQuery: "how much is btc worth",
			},
		},
		{
			name:  "company plus url yields combined",
			query: "Tesla stock and news from https://teslarati.com",
			expected: Intent{
				Kind:         KindCombined,
				Ticker:       "TSLA",
				URLs:         []string{"https://teslarati.com"},
				SearchPhrase: "Tesla stock and news from https://teslarati.com",
				RawQuery:     "Tesla stock and news from https://teslarati.com",
			},
		},
		{
			name:  "crypto plus url yields combined on crypto branch",
			query: "bitcoin analysis from https://coindesk.com",
			expected: Intent{
				Kind:         KindCombined,
				Asset:        BitcoinAsset,
				URLs:         []string{"https://coindesk.com"},
				SearchPhrase: "bitcoin analysis from https://coindesk.com",
				RawQuery:     "bitcoin analysis from https://coindesk.com",
			},
		},
		{
			name:  "url only yields web scrape",
			query: "summarize https://example.com/markets please",
			expected: Intent{
				Kind:         KindWebScrape,
				URLs:         []string{"https://example.com/markets"},
				SearchPhrase: "summarize https://example.com/markets please",
				RawQuery:     "summarize https://example.com/markets please",
			},
		},
		{
			name:  "duplicate urls are kept in order",
			query: "check https://a.com and https://a.com again",
			expected: Intent{
				Kind:         KindWebScrape,
				URLs:         []string{"https://a.com", "https://a.com"},
				SearchPhrase: "check https://a.com and https://a.com again",
				RawQuery:     "check https://a.com and https://a.com again",
			},
		},
		{
			name:  "nothing recognizable yields unknown",
			query: "tell me a joke",
			expected: Intent{
				Kind:     KindUnknown,
				RawQuery: "tell me a joke",
			},
		},
		{
			name:  "crypto keyword checked before ticker resolution",
			query: "should I move my Apple gains into crypto",
			expected: Intent{
				Kind:     KindCryptoPrice,
				Asset:    BitcoinAsset,
				RawQuery: "should I move my Apple gains into crypto",
			},
		},
	}

	c := newRuleOnlyClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(context.Background(), tt.query)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClassify_ModelPath_ValidResponse(t *testing.T) {
	gen := &fakeGenerator{
		response: "```json\n{\"intent\":\"stock_price\",\"ticker\":\"NVDA\",\"company_name\":\"Nvidia\",\"urls\":[],\"search_query\":null}\n```",
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "nvidia price")
	assert.Equal(t, KindStockPrice, got.Kind)
	assert.Equal(t, "NVDA", got.Ticker)
	assert.Equal(t, 1, gen.calls)
}

func TestClassify_ModelPath_UnfencedJSON(t *testing.T) {
	gen := &fakeGenerator{
		response: `{"intent":"web_scrape","ticker":null,"company_name":null,"urls":["https://news.com/a"],"search_query":"market trends"}`,
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "scrape https://news.com/a for market trends")
	assert.Equal(t, KindWebScrape, got.Kind)
	assert.Equal(t, []string{"https://news.com/a"}, got.URLs)
	assert.Equal(t, "market trends", got.SearchPhrase)
}

func TestClassify_ModelPath_GeneratorErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "Microsoft share price")
	assert.Equal(t, KindStockPrice, got.Kind)
	assert.Equal(t, "MSFT", got.Ticker)
}

func TestClassify_ModelPath_MalformedJSONFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "I think you want a stock price!"}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "Microsoft share price")
	assert.Equal(t, KindStockPrice, got.Kind)
	assert.Equal(t, "MSFT", got.Ticker)
}

func TestClassify_ModelPath_SchemaViolationFallsBack(t *testing.T) {
	// Intent value outside the enum must be rejected by validation.
	gen := &fakeGenerator{response: `{"intent":"weather_report","urls":[]}`}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "bitcoin please")
	assert.Equal(t, KindCryptoPrice, got.Kind)
}

func TestClassify_ModelPath_MalformedURLsDropped(t *testing.T) {
	gen := &fakeGenerator{
		response: `{"intent":"web_scrape","urls":["notaurl","https://ok.com","ftp://nope.com"],"search_query":"news"}`,
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "scrape some sites https://ok.com")
	assert.Equal(t, KindWebScrape, got.Kind)
	assert.Equal(t, []string{"https://ok.com"}, got.URLs)
}

func TestClassify_ModelPath_CombinedTickerWinsOverCrypto(t *testing.T) {
	// Even when the query mentions crypto, a ticker in the analysis takes
	// the price slot. At most one price target per combined query.
	gen := &fakeGenerator{
		response: `{"intent":"both","ticker":"TSLA","urls":["https://news.com"],"search_query":"tesla vs bitcoin"}`,
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "tesla and bitcoin news https://news.com")
	assert.Equal(t, KindCombined, got.Kind)
	assert.Equal(t, "TSLA", got.Ticker)
	assert.Empty(t, got.Asset)
}

func TestClassify_ModelPath_CombinedWithoutURLsDegrades(t *testing.T) {
	gen := &fakeGenerator{
		response: `{"intent":"both","ticker":"AAPL","urls":[]}`,
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "apple stock")
	assert.Equal(t, KindStockPrice, got.Kind)
	assert.Equal(t, "AAPL", got.Ticker)
}

func TestClassify_ModelPath_StockWithoutTickerRecovers(t *testing.T) {
	gen := &fakeGenerator{
		response: `{"intent":"stock_price","ticker":null,"company_name":"Starbucks","urls":[]}`,
	}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "how is that coffee chain doing")
	assert.Equal(t, KindStockPrice, got.Kind)
	assert.Equal(t, "SBUX", got.Ticker)
}

func TestClassify_ModelPath_UnknownPassesThrough(t *testing.T) {
	gen := &fakeGenerator{response: `{"intent":"unknown","urls":[]}`}
	c := NewClassifier(gen, ticker.NewResolver(), logger.NewNoOpLogger())

	got := c.Classify(context.Background(), "hello there")
	assert.Equal(t, KindUnknown, got.Kind)
	assert.Equal(t, "hello there", got.RawQuery)
}

func TestClassify_NeverEmptyActionableIntent(t *testing.T) {
	// Every non-unknown intent must carry at least one actionable
	// parameter.
	c := newRuleOnlyClassifier(t)
	queries := []string{
		"What is Apple stock price?",
		"bitcoin",
		"read https://a.com",
		"tesla and https://b.com",
		"nothing useful here",
	}
	for _, q := range queries {
		got := c.Classify(context.Background(), q)
		if got.Kind == KindUnknown {
			continue
		}
		assert.True(t, got.HasPriceTarget() || got.WantsScraping(), "query %q produced inactionable intent %+v", q, got)
	}
}
