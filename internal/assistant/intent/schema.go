// internal/assistant/intent/schema.go
package intent

import "github.com/xeipuuv/gojsonschema"

// analysisSchemaJSON constrains the JSON document requested from the
// language model. Anything failing validation is discarded in favor of the
// deterministic rule path.
const analysisSchemaJSON = `{
	"type": "object",
	"properties": {
		"intent": {
			"type": "string",
			"enum": ["stock_price", "bitcoin_price", "web_scrape", "both", "unknown"]
		},
		"ticker":       {"type": ["string", "null"]},
		"company_name": {"type": ["string", "null"]},
		"urls": {
			"type": "array",
			"items": {"type": "string"}
		},
		"search_query": {"type": ["string", "null"]}
	},
	"required": ["intent"]
}`

func compileAnalysisSchema() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisSchemaJSON))
}

// modelAnalysis is the unmarshaled form of a schema-valid model response.
type modelAnalysis struct {
	Intent      string   `json:"intent"`
	Ticker      *string  `json:"ticker"`
	CompanyName *string  `json:"company_name"`
	URLs        []string `json:"urls"`
	SearchQuery *string  `json:"search_query"`
}
