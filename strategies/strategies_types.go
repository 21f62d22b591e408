package strategies

import (
	"errors"

	"github.com/thrasher-corp/papertrader/runner"
)

// ErrStrategyAlreadyExists is returned when adding a strategy whose name is taken
var ErrStrategyAlreadyExists = errors.New("strategy already exists")

// Handler is a runner strategy that can be configured by name
type Handler interface {
	runner.Strategy
	Description() string
	SetCustomSettings(map[string]any) error
	SetDefaults()
}
