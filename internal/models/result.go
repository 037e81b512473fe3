// internal/models/result.go
package models

// Each result slot is either a payload or an error reason, never both.
// A failed collaborator call fills Err and leaves the payload nil.

type QuoteResult struct {
	Quote *Quote `json:"quote,omitempty"`
	Err   string `json:"error,omitempty"`
}

func (r QuoteResult) OK() bool { return r.Err == "" && r.Quote != nil }

type CryptoResult struct {
	Quote *CryptoQuote `json:"quote,omitempty"`
	Err   string       `json:"error,omitempty"`
}

func (r CryptoResult) OK() bool { return r.Err == "" && r.Quote != nil }

type ScrapeResult struct {
	URL     string       `json:"url"`
	Extract *PageExtract `json:"extract,omitempty"`
	Err     string       `json:"error,omitempty"`
}

func (r ScrapeResult) OK() bool { return r.Err == "" && r.Extract != nil }
