package currency

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NewPair returns a currency pair from currency codes
func NewPair(base, quote Code) Pair {
	return Pair{
		Base:  base,
		Quote: quote,
	}
}

// NewPairFromStrings returns a currency pair from two strings
func NewPairFromStrings(base, quote string) (Pair, error) {
	p := Pair{
		Base:  NewCode(base),
		Quote: NewCode(quote),
	}
	return p, p.Validate()
}

// NewPairFromString converts a delimited string such as "btc-usdt" into a
// pair. Base is expected on the left
func NewPairFromString(currencyPair string) (Pair, error) {
	var delimiter string
	for _, d := range supportedDelimiters {
		n := strings.Count(currencyPair, d)
		if n == 0 {
			continue
		}
		if n > 1 || delimiter != "" {
			return EMPTYPAIR, fmt.Errorf("%w: %q", errTooManyDelimiters, currencyPair)
		}
		delimiter = d
	}
	if delimiter == "" {
		return EMPTYPAIR, fmt.Errorf("%w: %q", errDelimiterNotFound, currencyPair)
	}
	split := strings.Split(currencyPair, delimiter)
	p, err := NewPairFromStrings(split[0], split[1])
	if err != nil {
		return EMPTYPAIR, err
	}
	p.Delimiter = delimiter
	return p, nil
}

// String returns the pair using its delimiter
func (p Pair) String() string {
	d := p.Delimiter
	if d == "" {
		d = DefaultDelimiter
	}
	return p.Base.String() + d + p.Quote.String()
}

// IsEmpty returns true if both codes are unset
func (p Pair) IsEmpty() bool {
	return p.Base.IsEmpty() && p.Quote.IsEmpty()
}

// Equal checks both codes ignoring the delimiter
func (p Pair) Equal(check Pair) bool {
	return p.Base.Equal(check.Base) && p.Quote.Equal(check.Quote)
}

// Validate ensures both sides are set and differ
func (p Pair) Validate() error {
	if p.IsEmpty() {
		return ErrCurrencyPairEmpty
	}
	if p.Base.IsEmpty() || p.Quote.IsEmpty() {
		return fmt.Errorf("%w for pair %v", ErrCurrencyCodeEmpty, p)
	}
	if p.Base.Equal(p.Quote) {
		return fmt.Errorf("%w: %v", errSameCurrency, p.Base)
	}
	return nil
}

// UnmarshalJSON reads a delimited pair string such as "BTC-USDT"
func (p *Pair) UnmarshalJSON(d []byte) error {
	var pair string
	if err := json.Unmarshal(d, &pair); err != nil {
		return err
	}
	newPair, err := NewPairFromString(pair)
	if err != nil {
		return err
	}
	*p = newPair
	return nil
}

// MarshalJSON conforms type to the marshaler interface
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
