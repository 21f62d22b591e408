package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()
	var c *Config
	assert.ErrorIs(t, c.Validate(), errNilConfig)
	c = &Config{}
	assert.ErrorIs(t, c.Validate(), ErrDatabaseSupportDisabled)
	c.Enabled = true
	assert.ErrorIs(t, c.Validate(), ErrUnsupportedDriver)
	c.Driver = DBSQLite3
	assert.ErrorIs(t, c.Validate(), ErrNoDatabaseProvided)
	c.Database = "papertrader.db"
	assert.NoError(t, c.Validate())
}

func TestInstance(t *testing.T) {
	t.Parallel()
	_, err := NewInstance(nil, "")
	assert.ErrorIs(t, err, errNilConfig)

	var nilInstance *Instance
	assert.ErrorIs(t, nilInstance.SetConfig(&Config{}), errNilInstance)
	assert.ErrorIs(t, nilInstance.Ping(), errNilInstance)
	assert.False(t, nilInstance.IsConnected())
	_, err = nilInstance.GetSQL()
	assert.ErrorIs(t, err, errNilInstance)

	i, err := NewInstance(&Config{Driver: DBSQLite3, Verbose: true}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DBSQLite3, i.Driver())
	assert.False(t, i.IsConnected())
	assert.ErrorIs(t, i.Ping(), errNilSQL)
	_, err = i.GetSQL()
	assert.ErrorIs(t, err, ErrFailedToConnect)
	assert.ErrorIs(t, i.CloseConnection(), errNilSQL)
	assert.ErrorIs(t, i.SetSQLiteConnection(nil), errNilSQL)
	assert.ErrorIs(t, i.SetPostgresConnection(nil), errNilSQL)

	cfg := i.GetConfig()
	cfg.Driver = DBPostgreSQL
	assert.Equal(t, DBSQLite3, i.Driver(), "GetConfig should return a copy")
}

func TestRebind(t *testing.T) {
	t.Parallel()
	const query = "SELECT a FROM b WHERE c = ? AND d BETWEEN ? AND ?"
	i, err := NewInstance(&Config{Driver: DBSQLite3}, "")
	require.NoError(t, err)
	assert.Equal(t, query, i.Rebind(query))

	require.NoError(t, i.SetConfig(&Config{Driver: DBPostgreSQL}))
	assert.Equal(t, "SELECT a FROM b WHERE c = $1 AND d BETWEEN $2 AND $3", i.Rebind(query))
}

func TestSchema(t *testing.T) {
	t.Parallel()
	for _, d := range []string{DBSQLite3, DBPostgreSQL} {
		s, err := Schema(d)
		require.NoError(t, err)
		assert.Contains(t, s, "price_series")
	}
	_, err := Schema("mysql")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
