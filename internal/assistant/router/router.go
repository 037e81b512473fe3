// internal/assistant/router/router.go
package router

import (
	"context"
	"time"

	"finassist/internal/assistant/intent"
	"finassist/internal/common/errors"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/models"
)

// QuoteFetcher retrieves an equity quote for a ticker symbol.
type QuoteFetcher interface {
	Fetch(ctx context.Context, ticker string) (*models.Quote, error)
}

// CryptoFetcher retrieves the configured cryptocurrency quote.
type CryptoFetcher interface {
	Fetch(ctx context.Context) (*models.CryptoQuote, error)
}

// PageExtractor fetches a page and analyzes it against a search phrase.
type PageExtractor interface {
	Extract(ctx context.Context, url, searchPhrase string) (*models.PageExtract, error)
}

// AggregatedResult is everything the collaborators produced for one query.
// Slots are nil when the intent did not ask for them; Scrapes preserves the
// order of the intent's URLs, one entry per URL.
type AggregatedResult struct {
	Query   string
	Intent  intent.Intent
	Quote   *models.QuoteResult
	Crypto  *models.CryptoResult
	Scrapes []models.ScrapeResult
}

// Router dispatches a classified intent to the collaborators and collects
// their results. A collaborator failure lands in that result slot; it never
// aborts the other slots.
type Router struct {
	quotes QuoteFetcher
	crypto CryptoFetcher
	pages  PageExtractor
	logger logger.Logger
}

func NewRouter(quotes QuoteFetcher, crypto CryptoFetcher, pages PageExtractor, log logger.Logger) *Router {
	return &Router{
		quotes: quotes,
		crypto: crypto,
		pages:  pages,
		logger: log.With(map[string]interface{}{"component": "router"}),
	}
}

// Route runs every collaborator the intent calls for and aggregates the
// outcomes.
func (r *Router) Route(ctx context.Context, in intent.Intent) *AggregatedResult {
	result := &AggregatedResult{
		Query:  in.RawQuery,
		Intent: in,
	}

	metrics.QueriesProcessed.WithLabelValues(string(in.Kind)).Inc()
	r.logger.Info("routing query", map[string]interface{}{
		"intent": string(in.Kind),
		"ticker": in.Ticker,
		"urls":   len(in.URLs),
	})

	switch in.Kind {
	case intent.KindStockPrice:
		result.Quote = r.fetchQuote(ctx, in.Ticker)
	case intent.KindCryptoPrice:
		result.Crypto = r.fetchCrypto(ctx)
	case intent.KindWebScrape:
		result.Scrapes = r.fetchPages(ctx, in)
	case intent.KindCombined:
		if in.Ticker != "" {
			result.Quote = r.fetchQuote(ctx, in.Ticker)
		} else if in.Asset != "" {
			result.Crypto = r.fetchCrypto(ctx)
		}
		result.Scrapes = r.fetchPages(ctx, in)
	case intent.KindUnknown:
		// nothing to dispatch
	}

	return result
}

func (r *Router) fetchQuote(ctx context.Context, ticker string) *models.QuoteResult {
	start := time.Now()
	quote, err := r.quotes.Fetch(ctx, ticker)
	r.observe("quotes", start, err)
	if err != nil {
		r.logger.Warn("quote fetch failed", map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		})
		return &models.QuoteResult{Err: errors.Reason(err)}
	}
	return &models.QuoteResult{Quote: quote}
}

func (r *Router) fetchCrypto(ctx context.Context) *models.CryptoResult {
	start := time.Now()
	quote, err := r.crypto.Fetch(ctx)
	r.observe("crypto", start, err)
	if err != nil {
		r.logger.Warn("crypto fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &models.CryptoResult{Err: errors.Reason(err)}
	}
	return &models.CryptoResult{Quote: quote}
}

func (r *Router) fetchPages(ctx context.Context, in intent.Intent) []models.ScrapeResult {
	results := make([]models.ScrapeResult, 0, len(in.URLs))
	for _, url := range in.URLs {
		start := time.Now()
		extract, err := r.pages.Extract(ctx, url, in.SearchPhrase)
		r.observe("scrape", start, err)
		if err != nil {
			r.logger.Warn("page extraction failed", map[string]interface{}{
				"url":   url,
				"error": err.Error(),
			})
			results = append(results, models.ScrapeResult{URL: url, Err: errors.Reason(err)})
			continue
		}
		results = append(results, models.ScrapeResult{URL: url, Extract: extract})
	}
	return results
}

func (r *Router) observe(service string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.CollaboratorCalls.WithLabelValues(service, status).Inc()
	metrics.CollaboratorCallDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}
