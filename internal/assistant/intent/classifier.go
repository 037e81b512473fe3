// internal/assistant/intent/classifier.go
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"finassist/internal/assistant/genai"
	"finassist/internal/assistant/ticker"
	"finassist/internal/common/logger"

	"github.com/xeipuuv/gojsonschema"
)

var (
	urlPattern   = regexp.MustCompile(`https?://[^\s]+`)
	wellFormed   = regexp.MustCompile(`^https?://`)
	cryptoTokens = []string{"bitcoin", "btc", "crypto"}
)

// Classifier turns free-form query text into an Intent. The language-model
// path is tried first when a Generator is configured; every failure along
// that path degrades silently to the deterministic rule path, so Classify
// is total and never returns an error.
type Classifier struct {
	llm      genai.Generator
	resolver *ticker.Resolver
	schema   *gojsonschema.Schema
	logger   logger.Logger
}

// NewClassifier builds a classifier. llm may be nil, in which case only the
// rule path is used.
func NewClassifier(llm genai.Generator, resolver *ticker.Resolver, log logger.Logger) *Classifier {
	schema, err := compileAnalysisSchema()
	if err != nil {
		// The schema is a compile-time constant; failing to compile it is a
		// programming error, but the classifier stays usable via rules.
		log.Error("intent schema failed to compile", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return &Classifier{
		llm:      llm,
		resolver: resolver,
		schema:   schema,
		logger:   log.With(map[string]interface{}{"component": "classifier"}),
	}
}

func (c *Classifier) Classify(ctx context.Context, query string) Intent {
	if c.llm == nil || c.schema == nil {
		return c.classifyWithRules(query)
	}

	analysis, err := c.analyzeWithModel(ctx, query)
	if err != nil {
		c.logger.Warn("model analysis unavailable, using rule path", map[string]interface{}{
			"error": err.Error(),
		})
		return c.classifyWithRules(query)
	}

	return c.normalize(analysis, query)
}

func (c *Classifier) analyzeWithModel(ctx context.Context, query string) (*modelAnalysis, error) {
	raw, err := c.llm.Generate(ctx, buildAnalysisPrompt(query))
	if err != nil {
		return nil, err
	}

	stripped := genai.StripCodeFence(raw)

	result, err := c.schema.Validate(gojsonschema.NewStringLoader(stripped))
	if err != nil {
		return nil, fmt.Errorf("analysis not parseable: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("analysis failed schema validation: %v", result.Errors())
	}

	var analysis modelAnalysis
	if err := json.Unmarshal([]byte(stripped), &analysis); err != nil {
		return nil, fmt.Errorf("analysis decode: %w", err)
	}

	return &analysis, nil
}

// normalize maps a schema-valid model analysis onto an Intent, enforcing
// the invariants the model cannot be trusted to honor. Unusable analyses
// fall back to the rule path rather than producing a broken Intent.
func (c *Classifier) normalize(a *modelAnalysis, query string) Intent {
	urls := filterWellFormed(a.URLs)
	tickerSym := strings.ToUpper(strings.TrimSpace(deref(a.Ticker)))
	phrase := strings.TrimSpace(deref(a.SearchQuery))
	if phrase == "" {
		phrase = query
	}

	switch a.Intent {
	case string(KindStockPrice):
		if tickerSym == "" {
			// Model recognized a stock question but lost the symbol; the
			// resolver usually recovers it from the company name or text.
			if sym, ok := c.resolver.Resolve(deref(a.CompanyName) + " " + query); ok {
				tickerSym = sym
			}
		}
		if tickerSym == "" {
			return c.classifyWithRules(query)
		}
		return Intent{Kind: KindStockPrice, Ticker: tickerSym, RawQuery: query}

	case string(KindCryptoPrice):
		return Intent{Kind: KindCryptoPrice, Asset: BitcoinAsset, RawQuery: query}

	case string(KindWebScrape):
		if len(urls) == 0 {
			return c.classifyWithRules(query)
		}
		return Intent{Kind: KindWebScrape, URLs: urls, SearchPhrase: phrase, RawQuery: query}

	case string(KindCombined):
		if len(urls) == 0 {
			// Nothing to scrape; degrade to the single price target.
			if tickerSym != "" {
				return Intent{Kind: KindStockPrice, Ticker: tickerSym, RawQuery: query}
			}
			if containsCryptoKeyword(query) {
				return Intent{Kind: KindCryptoPrice, Asset: BitcoinAsset, RawQuery: query}
			}
			return c.classifyWithRules(query)
		}
		// The stock branch wins over crypto when the analysis implies both.
		if tickerSym != "" {
			return Intent{Kind: KindCombined, Ticker: tickerSym, URLs: urls, SearchPhrase: phrase, RawQuery: query}
		}
		if containsCryptoKeyword(query) {
			return Intent{Kind: KindCombined, Asset: BitcoinAsset, URLs: urls, SearchPhrase: phrase, RawQuery: query}
		}
		return Intent{Kind: KindWebScrape, URLs: urls, SearchPhrase: phrase, RawQuery: query}

	case string(KindUnknown):
		return Intent{Kind: KindUnknown, RawQuery: query}
	}

	return c.classifyWithRules(query)
}

// classifyWithRules is the deterministic fallback path. It always
// terminates with a valid Intent and has no external dependencies.
func (c *Classifier) classifyWithRules(query string) Intent {
	urls := urlPattern.FindAllString(query, -1)

	if containsCryptoKeyword(query) {
		if len(urls) > 0 {
			return Intent{Kind: KindCombined, Asset: BitcoinAsset, URLs: urls, SearchPhrase: query, RawQuery: query}
		}
		return Intent{Kind: KindCryptoPrice, Asset: BitcoinAsset, RawQuery: query}
	}

	if sym, ok := c.resolver.Resolve(query); ok {
		if len(urls) > 0 {
			return Intent{Kind: KindCombined, Ticker: sym, URLs: urls, SearchPhrase: query, RawQuery: query}
		}
		return Intent{Kind: KindStockPrice, Ticker: sym, RawQuery: query}
	}

	if len(urls) > 0 {
		return Intent{Kind: KindWebScrape, URLs: urls, SearchPhrase: query, RawQuery: query}
	}

	return Intent{Kind: KindUnknown, RawQuery: query}
}

func containsCryptoKeyword(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range cryptoTokens {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// filterWellFormed drops URLs that do not carry an http(s) scheme.
// Duplicates are kept: result slot i must correspond to requested URL i.
func filterWellFormed(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if wellFormed.MatchString(u) {
			out = append(out, u)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func buildAnalysisPrompt(query string) string {
	return fmt.Sprintf(`Analyze this financial query and extract information:

Query: %q

Respond in this exact JSON format:
{
    "intent": "stock_price" OR "bitcoin_price" OR "web_scrape" OR "both" OR "unknown",
    "ticker": "TICKER_SYMBOL or null",
    "company_name": "Company name or null",
    "urls": ["url1", "url2"] or [],
    "search_query": "what to search for or null"
}

Rules:
- If asking about stock price only: intent="stock_price", extract ticker
- If asking about Bitcoin/BTC: intent="bitcoin_price"
- If URLs are provided: intent="web_scrape" or "both", extract URLs
- If asking for both price AND scraping: intent="both"

Example 1: "What is Apple stock price?"
-> {"intent": "stock_price", "ticker": "AAPL", "company_name": "Apple", "urls": [], "search_query": null}

Example 2: "Get Tesla stock price and scrape https://news.com for Tesla news"
-> {"intent": "both", "ticker": "TSLA", "company_name": "Tesla", "urls": ["https://news.com"], "search_query": "Tesla news"}

Example 3: "Scrape https://finance.yahoo.com/news for market trends"
-> {"intent": "web_scrape", "ticker": null, "company_name": null, "urls": ["https://finance.yahoo.com/news"], "search_query": "market trends"}`, query)
}
