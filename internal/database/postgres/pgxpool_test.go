package postgres

import (
	"testing"
	"time"

	"skill-bridge/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_Defaults(t *testing.T) {
	got := DSN(config.DatabaseConfig{DBHost: " db ", DBUser: "app", DBPassword: "s3cret", DBName: "bridge"})
	assert.Equal(t, "host=db port=5432 user=app password=s3cret dbname=bridge sslmode=disable", got)
}

func TestDSN_Explicit(t *testing.T) {
	got := DSN(config.DatabaseConfig{DBHost: "db", DBPort: "6543", DBUser: "app", DBName: "bridge", DBSSLMode: "require"})
	assert.Equal(t, "host=db port=6543 user=app password= dbname=bridge sslmode=require", got)
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	assert.Error(t, p.Ping(t.Context()))
	assert.NoError(t, p.Close())
	assert.Nil(t, p.SQLDB())
	assert.Error(t, p.QueryRow(t.Context(), "SELECT 1").Scan())
}

func TestApplyPoolTuning_OnlyOverridesSetValues(t *testing.T) {
	pcfg, err := pgxpool.ParseConfig(DSN(config.DatabaseConfig{DBHost: "db", DBUser: "app", DBName: "bridge"}))
	require.NoError(t, err)
	defaultMin := pcfg.MinConns

	applyPoolTuning(pcfg, config.DatabaseConfig{
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        7,
		PoolMaxConnIdleTime: time.Minute,
	})

	assert.Equal(t, 3*time.Second, pcfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, int32(7), pcfg.MaxConns)
	assert.Equal(t, time.Minute, pcfg.MaxConnIdleTime)
	assert.Equal(t, defaultMin, pcfg.MinConns)
}
