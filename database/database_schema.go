package database

import "fmt"

// schema creates the price_series table for each driver. Prices are kept as
// exact decimals
var schema = map[string]string{
	DBSQLite3: `CREATE TABLE IF NOT EXISTS price_series (
		exchange text NOT NULL,
		base text NOT NULL,
		quote text NOT NULL,
		unix_date integer NOT NULL,
		datetime text NOT NULL,
		price text NOT NULL,
		PRIMARY KEY (exchange, base, quote, unix_date)
	);`,
	DBPostgreSQL: `CREATE TABLE IF NOT EXISTS price_series (
		exchange varchar(128) NOT NULL,
		base varchar(30) NOT NULL,
		quote varchar(30) NOT NULL,
		unix_date bigint NOT NULL,
		datetime text NOT NULL,
		price numeric NOT NULL,
		PRIMARY KEY (exchange, base, quote, unix_date)
	);`,
}

// Schema returns the table definitions for a driver
func Schema(driver string) (string, error) {
	s, ok := schema[driver]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return s, nil
}
