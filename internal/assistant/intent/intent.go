// internal/assistant/intent/intent.go
package intent

// Kind tags the classified category of a user query. Exactly one kind is
// active per query.
type Kind string

const (
	KindStockPrice  Kind = "stock_price"
	KindCryptoPrice Kind = "bitcoin_price"
	KindWebScrape   Kind = "web_scrape"
	KindCombined    Kind = "both"
	KindUnknown     Kind = "unknown"
)

// BitcoinAsset is the single supported cryptocurrency.
const BitcoinAsset = "bitcoin"

// Intent is the structured action plan derived from a query. Every kind
// except KindUnknown carries at least one actionable parameter. For
// KindCombined at most one of Ticker/Asset is set; the stock branch wins
// when a query implies both.
type Intent struct {
	Kind         Kind     `json:"kind"`
	Ticker       string   `json:"ticker,omitempty"`
	Asset        string   `json:"asset,omitempty"`
	URLs         []string `json:"urls,omitempty"`
	SearchPhrase string   `json:"searchPhrase,omitempty"`
	RawQuery     string   `json:"rawQuery"`
}

// HasPriceTarget reports whether the intent requests any price lookup.
func (i Intent) HasPriceTarget() bool {
	return i.Ticker != "" || i.Asset != ""
}

// WantsScraping reports whether the intent carries URLs to analyze.
func (i Intent) WantsScraping() bool {
	return len(i.URLs) > 0
}
