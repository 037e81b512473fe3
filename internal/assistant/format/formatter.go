// internal/assistant/format/formatter.go
package format

import (
	"fmt"
	"strings"

	"finassist/internal/assistant/intent"
	"finassist/internal/assistant/router"
	"finassist/internal/models"
)

const sectionSeparator = "\n\n---\n\n"

const unknownGuidance = `I'm not sure what you're asking for. Please try:
- 'AAPL stock price'
- 'Bitcoin value'
- 'Scrape [URL] for [query]'`

const nothingFound = "I couldn't find any relevant information."

// Formatter renders an aggregated result into the assistant's reply text.
// Sections appear in a fixed order (quote, crypto, pages) joined by a
// visible separator; failed slots render as error lines rather than being
// dropped.
type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render produces the reply for a routed query.
func (f *Formatter) Render(result *router.AggregatedResult) string {
	var sections []string

	if result.Intent.Kind == intent.KindUnknown {
		sections = append(sections, unknownGuidance)
	}

	if result.Quote != nil {
		sections = append(sections, renderQuote(result.Quote))
	}
	if result.Crypto != nil {
		sections = append(sections, renderCrypto(result.Crypto))
	}
	for i := range result.Scrapes {
		sections = append(sections, renderScrape(&result.Scrapes[i]))
	}

	if len(sections) == 0 {
		return nothingFound
	}
	return strings.Join(sections, sectionSeparator)
}

func renderQuote(r *models.QuoteResult) string {
	if !r.OK() {
		return fmt.Sprintf("❌ Error: %s", r.Err)
	}
	q := r.Quote

	sign := ""
	arrow := "📈"
	if q.Change < 0 {
		arrow = "📉"
	} else {
		sign = "+"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s** (%s)\n", arrow, q.Name, q.Symbol)
	fmt.Fprintf(&b, "**Current Price:** $%s %s\n", trimFloat(q.CurrentPrice), q.Currency)
	fmt.Fprintf(&b, "**Change:** %s$%s (%s%.2f%%)\n", sign, trimFloat(q.Change), sign, q.ChangePercent)
	fmt.Fprintf(&b, "**Previous Close:** $%s\n", trimFloat(q.PreviousClose))
	fmt.Fprintf(&b, "**Day Range:** $%s - $%s\n", trimFloat(q.Low), trimFloat(q.High))
	if q.MarketCap != nil {
		fmt.Fprintf(&b, "**Market Cap:** $%.2fB\n", *q.MarketCap/1e9)
	}
	fmt.Fprintf(&b, "\n_Updated: %s_", q.Timestamp)
	return b.String()
}

func renderCrypto(r *models.CryptoResult) string {
	if !r.OK() {
		return fmt.Sprintf("❌ Error: %s", r.Err)
	}
	q := r.Quote

	sign := ""
	arrow := "📈"
	if q.Change24h < 0 {
		arrow = "📉"
	} else {
		sign = "+"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s **%s** (%s)\n", arrow, q.Name, q.Symbol)
	fmt.Fprintf(&b, "**Current Price:** $%s USD\n", groupThousands(q.CurrentPrice))
	fmt.Fprintf(&b, "**24h Change:** %s%.2f%%\n", sign, q.Change24h)
	if q.MarketCap != nil {
		fmt.Fprintf(&b, "**Market Cap:** $%.2fB\n", *q.MarketCap/1e9)
	}
	if q.Volume24h != nil {
		fmt.Fprintf(&b, "**24h Volume:** $%.2fB\n", *q.Volume24h/1e9)
	}
	fmt.Fprintf(&b, "\n_Updated: %s_", q.Timestamp)
	return b.String()
}

func renderScrape(r *models.ScrapeResult) string {
	if !r.OK() {
		return fmt.Sprintf("❌ Error scraping %s: %s", r.URL, r.Err)
	}
	ex := r.Extract

	if !ex.Relevant {
		return fmt.Sprintf("ℹ️ No relevant information found at %s", r.URL)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✅ **Found relevant information from:** %s\n\n", r.URL)
	if ex.Summary != "" {
		fmt.Fprintf(&b, "**Summary:**\n%s\n\n", ex.Summary)
	}
	if len(ex.KeyPoints) > 0 {
		b.WriteString("**Key Points:**\n")
		for _, point := range ex.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", point)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// trimFloat renders without trailing zeros: 192.50 -> "192.5", 190 -> "190".
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// groupThousands renders with comma separators and two decimals.
func groupThousands(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]
	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)
	out := strings.Join(parts, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}
