package price

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	errInvalidInput = errors.New("exchange, base and quote must be set")
	errNoPoints     = errors.New("no price points to insert")
)

// Row is a stored price observation
type Row struct {
	Exchange string
	Base     string
	Quote    string
	UnixDate int64
	Datetime time.Time
	Price    decimal.Decimal
}
