package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String returns the account name used in configs and logs
func (a Account) String() string {
	switch a {
	case Spot:
		return "exchange"
	case Margin:
		return "margin"
	}
	return "unknown"
}

// ParseAccount returns the account for its name. "spot" is accepted as an
// alias of "exchange"
func ParseAccount(s string) (Account, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exchange", "spot":
		return Spot, nil
	case "margin":
		return Margin, nil
	}
	return UnknownAccount, fmt.Errorf("%w: %q", ErrUnknownAccount, s)
}

// MarshalJSON writes the account name
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON reads an account name
func (a *Account) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseAccount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func (a Asset) String() string {
	switch a {
	case Quote:
		return "quote"
	case Base:
		return "base"
	case Collateral:
		return "collateral"
	case Debt:
		return "debt"
	}
	return "unknown"
}

func (k Key) String() string {
	return k.Account.String() + "/" + k.Asset.String()
}

// MarshalText lets keys be used as JSON object keys
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
