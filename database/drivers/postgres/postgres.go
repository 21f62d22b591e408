package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	// import postgres driver
	_ "github.com/lib/pq"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/log"
)

// DSN returns the connection string for the configured server
func DSN(cfg *database.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode)
}

// Connect opens and pings a connection pool to the configured server
func Connect(i *database.Instance) error {
	cfg := i.GetConfig()
	if cfg.Database == "" {
		return database.ErrNoDatabaseProvided
	}
	if cfg.Driver != database.DBPostgreSQL {
		return fmt.Errorf("%w: %q is not %s", database.ErrUnsupportedDriver, cfg.Driver, database.DBPostgreSQL)
	}
	dbConn, err := sql.Open(database.DBPostgreSQL, DSN(cfg))
	if err != nil {
		return err
	}
	if err = i.SetPostgresConnection(dbConn); err != nil {
		return errors.Join(err, dbConn.Close())
	}
	i.SetConnected(true)
	log.Debugf(log.DatabaseMgr, "connected to postgres database %s on %s:%d", cfg.Database, cfg.Host, cfg.Port)
	return nil
}
