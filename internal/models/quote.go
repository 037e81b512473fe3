// internal/models/quote.go
package models

// Quote holds provider-supplied equity quote data.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  float64  `json:"currentPrice"`
	PreviousClose float64  `json:"previousClose"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"changePercent"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Currency      string   `json:"currency"`
	MarketCap     *float64 `json:"marketCap,omitempty"`
	Timestamp     string   `json:"timestamp"`
}

// CryptoQuote holds provider-supplied cryptocurrency quote data.
type CryptoQuote struct {
	Name         string   `json:"name"`
	Symbol       string   `json:"symbol"`
	CurrentPrice float64  `json:"currentPrice"`
	Change24h    float64  `json:"change24h"`
	Change1h     float64  `json:"change1h"`
	Change7d     float64  `json:"change7d"`
	Volume24h    *float64 `json:"volume24h,omitempty"`
	MarketCap    *float64 `json:"marketCap,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// PageExtract holds the outcome of analyzing one webpage against a search
// phrase.
type PageExtract struct {
	URL       string   `json:"url"`
	Relevant  bool     `json:"relevant"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"keyPoints"`
}
