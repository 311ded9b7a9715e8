package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
api:
  port: "9000"
  jwt_signing_key: secret
  timezone: Australia/Sydney
database:
  driver: sqlite
pricing:
  flat_price: "3.50"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.Equal(t, "info", conf.Log.Level)
	assert.Equal(t, "flat", conf.Pricing.Strategy)
	assert.Equal(t, "localhost", conf.Postgres.Host)

	amount, err := conf.Pricing.FlatAmount()
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("3.50")))

	loc, err := conf.API.Location()
	require.NoError(t, err)
	assert.Equal(t, "Australia/Sydney", loc.String())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("COFFEERUN_API_PORT", "7000")

	conf, err := Load(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "7000", conf.API.Port)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"9000\"\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestPricingConfig_InvalidFlatPrice(t *testing.T) {
	c := PricingConfig{FlatPrice: "four dollars"}

	_, err := c.FlatAmount()
	assert.Error(t, err)
}

func TestPostgresConfig_DSN(t *testing.T) {
	c := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", DB: "coffee", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=coffee sslmode=disable", c.DSN())
}

func TestAPIConfig_PublicURL(t *testing.T) {
	tests := []struct {
		base     string
		wantURL  string
		wantHost string
	}{
		{"localhost:8080", "http://localhost:8080", "localhost:8080"},
		{"https://coffee.example.com/", "https://coffee.example.com", "coffee.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			c := APIConfig{BaseURL: tt.base}
			assert.Equal(t, tt.wantURL, c.PublicURL())
			assert.Equal(t, tt.wantHost, c.Host())
		})
	}
}
