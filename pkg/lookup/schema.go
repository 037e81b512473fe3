// pkg/lookup/schema.go
package lookup

// Table is the on-disk form of the company-name lookup data. It lets the
// dictionary be extended without a rebuild.
type Table struct {
	Version   string    `json:"version"`
	Companies []Company `json:"companies"`
	StopWords []string  `json:"stopWords"`
}

type Company struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}
