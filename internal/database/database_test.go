package database

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig_AppliesOptions(t *testing.T) {
	cfg, err := poolConfig("postgres://nexa:pw@db.internal:5432/agents", DefaultPoolOptions())

	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.Equal(t, int32(1), cfg.MinConns)
	assert.Equal(t, 5*time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, time.Minute, cfg.HealthCheckPeriod)
	assert.Equal(t, ApplicationName, cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_KeepsExplicitApplicationName(t *testing.T) {
	cfg, err := poolConfig("postgres://db.internal/agents?application_name=ops", PoolOptions{})

	require.NoError(t, err)
	assert.Equal(t, "ops", cfg.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_InvalidURL(t *testing.T) {
	_, err := poolConfig("postgres://db.internal:notaport/agents", DefaultPoolOptions())
	assert.Error(t, err)
}

func TestMigrations_Embedded(t *testing.T) {
	files, err := fs.Glob(Migrations(), "*.sql")

	require.NoError(t, err)
	assert.Contains(t, files, "00001_create_agents.sql")
}
