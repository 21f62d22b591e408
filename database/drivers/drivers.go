// Package drivers connects a database instance with the driver its config
// names
package drivers

import (
	"fmt"

	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/database/drivers/postgres"
	sqlite "github.com/thrasher-corp/papertrader/database/drivers/sqlite3"
)

// Connect validates the instance config and opens its connection
func Connect(i *database.Instance) error {
	cfg := i.GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	switch cfg.Driver {
	case database.DBSQLite3:
		return sqlite.Connect(i)
	case database.DBPostgreSQL:
		return postgres.Connect(i)
	}
	return fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, cfg.Driver)
}
