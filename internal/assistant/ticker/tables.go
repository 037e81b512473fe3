// internal/assistant/ticker/tables.go
package ticker

// companyLookup maps lower-cased company names to ticker symbols. Kept as
// data so it can be extended and tested independently of the matching
// algorithm.
var companyLookup = map[string]string{
	"apple": "AAPL", "microsoft": "MSFT", "google": "GOOGL", "alphabet": "GOOGL",
	"amazon": "AMZN", "tesla": "TSLA", "meta": "META", "facebook": "META",
	"netflix": "NFLX", "nvidia": "NVDA", "amd": "AMD", "intel": "INTC",
	"jpmorgan": "JPM", "bank of america": "BAC", "wells fargo": "WFC",
	"goldman sachs": "GS", "morgan stanley": "MS", "berkshire hathaway": "BRK.B",
	"johnson & johnson": "JNJ", "procter & gamble": "PG", "coca cola": "KO",
	"pepsi": "PEP", "walmart": "WMT", "disney": "DIS", "nike": "NKE",
	"mcdonald": "MCD", "mcdonalds": "MCD", "visa": "V", "mastercard": "MA",
	"salesforce": "CRM", "oracle": "ORCL", "cisco": "CSCO", "ibm": "IBM",
	"ge": "GE", "general electric": "GE", "ford": "F", "general motors": "GM",
	"gm": "GM", "boeing": "BA", "caterpillar": "CAT", "home depot": "HD",
	"lowes": "LOW", "target": "TGT", "costco": "COST", "starbucks": "SBUX",
	"ups": "UPS", "fedex": "FDX", "exxon": "XOM", "chevron": "CVX",
	"pfizer": "PFE", "moderna": "MRNA", "abbvie": "ABBV", "zoom": "ZM",
	"spotify": "SPOT", "uber": "UBER", "lyft": "LYFT", "airbnb": "ABNB",
	"snapchat": "SNAP", "paypal": "PYPL", "square": "SQ", "robinhood": "HOOD",
}

// stopWords are common English words that match the uppercase symbol
// pattern but are never tickers.
var stopWords = map[string]bool{
	"I": true, "IS": true, "IT": true, "IN": true, "ON": true, "TO": true,
	"OF": true, "THE": true, "AND": true, "OR": true, "BUT": true,
	"GET": true, "CAN": true, "HOW": true, "YOU": true, "YOUR": true,
}
