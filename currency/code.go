package currency

import (
	"encoding/json"
	"errors"
	"strings"
)

var (
	// ErrCurrencyCodeEmpty defines an error if the currency code is empty
	ErrCurrencyCodeEmpty = errors.New("currency code is empty")
	// ErrCurrencyPairEmpty defines an error if the currency pair is empty
	ErrCurrencyPairEmpty = errors.New("currency pair is empty")
	// EMPTYCODE is an empty currency code
	EMPTYCODE = Code("")
	// EMPTYPAIR is an empty currency pair
	EMPTYPAIR = Pair{}

	errSameCurrency      = errors.New("base and quote currency cannot match")
	errDelimiterNotFound = errors.New("no supported delimiter found in currency pair string")
	errTooManyDelimiters = errors.New("currency pair string contains more than one delimiter")
)

// Code is an upper case currency or token symbol e.g. BTC
type Code string

// Commonly used codes
const (
	BTC  Code = "BTC"
	ETH  Code = "ETH"
	USDT Code = "USDT"
	USD  Code = "USD"
)

// NewCode returns a normalised currency code
func NewCode(c string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(c)))
}

// String implements the stringer interface
func (c Code) String() string {
	return string(c)
}

// Lower returns the lower case string of the code
func (c Code) Lower() string {
	return strings.ToLower(string(c))
}

// IsEmpty returns true if the code is empty
func (c Code) IsEmpty() bool {
	return c == ""
}

// Equal does a case insensitive check for code equality
func (c Code) Equal(check Code) bool {
	return strings.EqualFold(string(c), string(check))
}

// UnmarshalJSON normalises the incoming code
func (c *Code) UnmarshalJSON(d []byte) error {
	var s string
	if err := json.Unmarshal(d, &s); err != nil {
		return err
	}
	*c = NewCode(s)
	return nil
}
