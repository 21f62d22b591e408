package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/thrasher-corp/papertrader/database"
	"github.com/thrasher-corp/papertrader/log"
)

// Connect opens the sqlite database file inside the instance data path
func Connect(i *database.Instance) error {
	cfg := i.GetConfig()
	if cfg.Database == "" {
		return database.ErrNoDatabaseProvided
	}
	if cfg.Driver != database.DBSQLite3 {
		return fmt.Errorf("%w: %q is not %s", database.ErrUnsupportedDriver, cfg.Driver, database.DBSQLite3)
	}
	databaseFullLocation := filepath.Join(i.DataPath, cfg.Database)
	dbConn, err := sql.Open(database.DBSQLite3, databaseFullLocation)
	if err != nil {
		return err
	}
	if err = i.SetSQLiteConnection(dbConn); err != nil {
		return err
	}
	i.SetConnected(true)
	log.Debugf(log.DatabaseMgr, "opened sqlite3 database %s", databaseFullLocation)
	return nil
}
