package currency

// Pair holds currency pair information. Quote is the asset balances are
// valued in, Base is the asset being traded
type Pair struct {
	Delimiter string `json:"delimiter,omitempty"`
	Base      Code   `json:"base"`
	Quote     Code   `json:"quote"`
}

// DefaultDelimiter is used when rendering pairs without a configured delimiter
const DefaultDelimiter = "-"

var supportedDelimiters = []string{"-", "_", "/", ":"}
