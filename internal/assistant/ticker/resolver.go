// internal/assistant/ticker/resolver.go
package ticker

import (
	"regexp"
	"sort"
	"strings"

	"finassist/pkg/lookup"
)

var symbolPattern = regexp.MustCompile(`\b[A-Z]{2,5}\b`)

// Resolver maps free text to a stock ticker symbol via a company-name
// dictionary and a symbol-pattern heuristic. It is deterministic,
// side-effect-free, and never fails.
type Resolver struct {
	companies map[string]string
	stop      map[string]bool
	// company names ordered longest-first so a longer, more specific name
	// wins over a shorter substring collision
	ordered []string
}

func NewResolver() *Resolver {
	r := &Resolver{
		companies: make(map[string]string, len(companyLookup)),
		stop:      make(map[string]bool, len(stopWords)),
	}
	for name, symbol := range companyLookup {
		r.companies[name] = symbol
	}
	for w := range stopWords {
		r.stop[w] = true
	}
	r.reorder()
	return r
}

// NewResolverWithTable extends the built-in dictionary with entries from an
// external table. Table entries override built-in ones on name collision.
func NewResolverWithTable(tab *lookup.Table) *Resolver {
	r := NewResolver()
	if tab == nil {
		return r
	}
	for _, c := range tab.Companies {
		if c.Name == "" || c.Ticker == "" {
			continue
		}
		r.companies[strings.ToLower(c.Name)] = strings.ToUpper(c.Ticker)
	}
	for _, w := range tab.StopWords {
		if w != "" {
			r.stop[strings.ToUpper(w)] = true
		}
	}
	r.reorder()
	return r
}

func (r *Resolver) reorder() {
	r.ordered = make([]string, 0, len(r.companies))
	for name := range r.companies {
		r.ordered = append(r.ordered, name)
	}
	sort.Slice(r.ordered, func(i, j int) bool {
		if len(r.ordered[i]) != len(r.ordered[j]) {
			return len(r.ordered[i]) > len(r.ordered[j])
		}
		return r.ordered[i] < r.ordered[j]
	})
}

// Resolve returns the ticker for the first company name found as a
// substring of the lower-cased text, trying longer names first. If no
// company matches it falls back to scanning the original text for 2-5
// letter uppercase tokens, skipping stop words, and returns the first
// survivor in left-to-right order.
func (r *Resolver) Resolve(text string) (string, bool) {
	lower := strings.ToLower(text)

	for _, name := range r.ordered {
		if strings.Contains(lower, name) {
			return r.companies[name], true
		}
	}

	for _, match := range symbolPattern.FindAllString(text, -1) {
		if !r.stop[match] {
			return match, true
		}
	}

	return "", false
}
