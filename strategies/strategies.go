package strategies

import (
	"fmt"
	"strings"
	"sync"

	"github.com/thrasher-corp/papertrader/strategies/base"
	"github.com/thrasher-corp/papertrader/strategies/dollarcostaverage"
	"github.com/thrasher-corp/papertrader/strategies/rsi"
)

var (
	m       sync.Mutex
	holders = []func() Handler{
		func() Handler { return new(dollarcostaverage.Strategy) },
		func() Handler { return new(rsi.Strategy) },
	}
)

// LoadStrategyByName returns a fresh strategy with its defaults applied and
// customSettings on top
func LoadStrategyByName(name string, customSettings map[string]any) (Handler, error) {
	strats := GetStrategies()
	for i := range strats {
		if !strings.EqualFold(name, strats[i].Name()) {
			continue
		}
		strats[i].SetDefaults()
		if len(customSettings) > 0 {
			if err := strats[i].SetCustomSettings(customSettings); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		return strats[i], nil
	}
	return nil, fmt.Errorf("strategy '%v' %w", name, base.ErrStrategyNotFound)
}

// GetStrategies returns a new instance of every registered strategy
func GetStrategies() []Handler {
	m.Lock()
	defer m.Unlock()
	resp := make([]Handler, len(holders))
	for i := range holders {
		resp[i] = holders[i]()
	}
	return resp
}

// AddStrategy registers a custom strategy so it can be loaded by name
func AddStrategy(newFn func() Handler) error {
	if newFn == nil {
		return fmt.Errorf("%w: nil constructor", base.ErrInvalidCustomSettings)
	}
	name := newFn().Name()
	m.Lock()
	defer m.Unlock()
	for i := range holders {
		if strings.EqualFold(holders[i]().Name(), name) {
			return fmt.Errorf("'%v' %w", name, ErrStrategyAlreadyExists)
		}
	}
	holders = append(holders, newFn)
	return nil
}
