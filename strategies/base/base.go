package base

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/ledger"
)

// SetSizing sets the account and size of every entry
func (s *Strategy) SetSizing(a ledger.Account, amount decimal.Decimal, isPercent bool) {
	s.account = a
	s.amount = amount
	s.isPercent = isPercent
}

// Account returns the account traded on
func (s *Strategy) Account() ledger.Account {
	return s.account
}

// Amount returns the entry size and whether it is a fraction of the quote
// balance
func (s *Strategy) Amount() (decimal.Decimal, bool) {
	return s.amount, s.isPercent
}

// ParseSizingSetting applies a sizing custom setting. It reports false when
// key is not a sizing key so the caller can handle its own settings
func (s *Strategy) ParseSizingSetting(key string, v any) (bool, error) {
	switch key {
	case AccountKey:
		str, ok := v.(string)
		if !ok {
			return true, fmt.Errorf("%w provided %s value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
		}
		a, err := ledger.ParseAccount(str)
		if err != nil {
			return true, fmt.Errorf("%w %w", ErrInvalidCustomSettings, err)
		}
		s.account = a
	case AmountKey:
		f, ok := v.(float64)
		if !ok || f <= 0 {
			return true, fmt.Errorf("%w provided %s value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
		}
		s.amount = decimal.NewFromFloat(f)
	case IsPercentKey:
		b, ok := v.(bool)
		if !ok {
			return true, fmt.Errorf("%w provided %s value could not be parsed: %v", ErrInvalidCustomSettings, key, v)
		}
		s.isPercent = b
	default:
		return false, nil
	}
	return true, nil
}
