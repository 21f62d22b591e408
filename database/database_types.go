package database

import (
	"database/sql"
	"errors"
	"sync"
)

// Supported drivers
const (
	DBSQLite3    = "sqlite3"
	DBPostgreSQL = "postgres"
)

var (
	// ErrNoDatabaseProvided is returned when the config names no database
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrDatabaseSupportDisabled is returned when database support is disabled
	ErrDatabaseSupportDisabled = errors.New("database support is disabled")
	// ErrFailedToConnect is returned when a connection cannot be established
	ErrFailedToConnect = errors.New("database failed to connect")
	// ErrUnsupportedDriver is returned for a driver that is neither sqlite3 nor postgres
	ErrUnsupportedDriver = errors.New("unsupported database driver")

	errNilInstance = errors.New("database instance is nil")
	errNilConfig   = errors.New("received nil database config")
	errNilSQL      = errors.New("database SQL connection is nil")
)

// Config holds the database configuration
type Config struct {
	Enabled bool   `json:"enabled"`
	Verbose bool   `json:"verbose"`
	Driver  string `json:"driver"`
	ConnectionDetails
}

// ConnectionDetails holds the connection settings. For sqlite3 Database is
// the file name inside the data directory
type ConnectionDetails struct {
	Host     string `json:"host"`
	Port     uint16 `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslmode"`
}

// Instance holds a database connection. Each run owns its instance
type Instance struct {
	SQL       *sql.DB
	DataPath  string
	config    *Config
	connected bool
	m         sync.RWMutex
}
