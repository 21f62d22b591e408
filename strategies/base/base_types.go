package base

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/papertrader/ledger"
)

const (
	// AccountKey selects the account a strategy trades on
	AccountKey = "account"
	// AmountKey sets the size of every entry
	AmountKey = "amount"
	// IsPercentKey states whether the amount is a fraction of the quote balance
	IsPercentKey = "is-percent"
)

var (
	// ErrCustomSettingsUnsupported used when custom settings are found in the config when they shouldn't be
	ErrCustomSettingsUnsupported = errors.New("custom settings not supported")
	// ErrStrategyNotFound used when the strategy named in the config does not exist
	ErrStrategyNotFound = errors.New("not found. Please ensure the strategy name is spelled properly in your config")
	// ErrInvalidCustomSettings used when bad custom settings are found in the config
	ErrInvalidCustomSettings = errors.New("invalid custom settings in config")
	// ErrTooMuchBadData used when there is too much missing price data
	ErrTooMuchBadData = errors.New("run cannot continue as there is too much invalid data. Please review your dataset")
)

// Strategy holds the order sizing shared by every strategy
type Strategy struct {
	account   ledger.Account
	amount    decimal.Decimal
	isPercent bool
}
