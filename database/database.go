package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thrasher-corp/papertrader/log"
)

// NewInstance returns an unconnected instance storing sqlite files under
// dataPath
func NewInstance(cfg *Config, dataPath string) (*Instance, error) {
	i := &Instance{DataPath: dataPath}
	if err := i.SetConfig(cfg); err != nil {
		return nil, err
	}
	return i, nil
}

// Validate checks the config can be used to connect
func (c *Config) Validate() error {
	if c == nil {
		return errNilConfig
	}
	if !c.Enabled {
		return ErrDatabaseSupportDisabled
	}
	switch c.Driver {
	case DBSQLite3, DBPostgreSQL:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
	if c.Database == "" {
		return ErrNoDatabaseProvided
	}
	return nil
}

// SetConfig safely sets the database instance's config
func (i *Instance) SetConfig(cfg *Config) error {
	if i == nil {
		return errNilInstance
	}
	if cfg == nil {
		return errNilConfig
	}
	i.m.Lock()
	i.config = cfg
	i.m.Unlock()
	return nil
}

// SetSQLiteConnection safely sets the database instance's connection
// to use SQLite
func (i *Instance) SetSQLiteConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(1)
	return nil
}

// SetPostgresConnection safely sets the database instance's connection
// to use Postgres
func (i *Instance) SetPostgresConnection(con *sql.DB) error {
	if i == nil {
		return errNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	if err := con.Ping(); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToConnect, err)
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(2)
	i.SQL.SetMaxIdleConns(1)
	i.SQL.SetConnMaxLifetime(time.Hour)
	return nil
}

// SetConnected safely sets the database instance's connected status
func (i *Instance) SetConnected(v bool) {
	i.m.Lock()
	i.connected = v
	i.m.Unlock()
}

// CloseConnection safely disconnects the database instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return errNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if i.SQL == nil {
		return errNilSQL
	}
	i.connected = false
	return i.SQL.Close()
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// GetConfig safely returns a copy of the config
func (i *Instance) GetConfig() *Config {
	i.m.RLock()
	defer i.m.RUnlock()
	cpy := *i.config
	return &cpy
}

// Driver returns the configured driver name
func (i *Instance) Driver() string {
	i.m.RLock()
	defer i.m.RUnlock()
	return i.config.Driver
}

// Ping pings the database
func (i *Instance) Ping() error {
	if i == nil {
		return errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return errNilSQL
	}
	return i.SQL.Ping()
}

// GetSQL returns the connection, nil when not connected
func (i *Instance) GetSQL() (*sql.DB, error) {
	if i == nil {
		return nil, errNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if !i.connected || i.SQL == nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToConnect, errNilSQL)
	}
	return i.SQL, nil
}

// Rebind rewrites ? placeholders into the numbered form postgres expects.
// Queries for sqlite are returned unchanged. Verbose configs log the query
func (i *Instance) Rebind(query string) string {
	cfg := i.GetConfig()
	if cfg.Verbose {
		log.Debugf(log.DatabaseMgr, "SQL: %s", query)
	}
	if cfg.Driver != DBPostgreSQL {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	}
	return sb.String()
}
