package repository

import (
	"testing"

	"github.com/SriGanesh737/employee-api/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.PostgresConfig
	}{
		{
			name: "plain credentials",
			cfg: config.PostgresConfig{
				Host: "db", Port: "5432", User: "admin", Password: "secret", Dbname: "employees", SSLMode: "require",
			},
		},
		{
			name: "credentials with spaces and reserved characters",
			cfg: config.PostgresConfig{
				Host: "db", Port: "5432", User: "ad min", Password: "p@ss word+/:?#%", Dbname: "employees",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			poolConfig, err := pgxpool.ParseConfig(connString(tt.cfg))
			require.NoError(t, err)

			connConfig := poolConfig.ConnConfig
			assert.Equal(t, tt.cfg.Host, connConfig.Host)
			assert.Equal(t, uint16(5432), connConfig.Port)
			assert.Equal(t, tt.cfg.User, connConfig.User)
			assert.Equal(t, tt.cfg.Password, connConfig.Password)
			assert.Equal(t, tt.cfg.Dbname, connConfig.Database)
		})
	}
}

func TestConnString_DefaultSSLMode(t *testing.T) {
	t.Parallel()

	dsn := connString(config.PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Dbname: "d"})

	assert.Contains(t, dsn, "sslmode=disable")
}
