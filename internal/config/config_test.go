package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SENSOR_GATEWAY_URL", "http://sensors.local")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet-id")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mycofarm", cfg.MongoDB.DBName)
	assert.InDelta(t, 0.15, cfg.Costing.OverheadRate, 1e-9)
	assert.InDelta(t, 0.85, cfg.Costing.PackagingCostPerUnit, 1e-9)
	require.Len(t, cfg.Sites, 1)
	assert.Equal(t, "main", cfg.Sites[0].Name)
	assert.Equal(t, "farming", cfg.Sites[0].Kind)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SENSOR_GATEWAY_URL", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_Sites(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SITES", "north:farming, plant:processing")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Len(t, cfg.Sites, 2)
	assert.Equal(t, "processing", cfg.SiteKindFor("plant"))
	assert.Equal(t, "farming", cfg.SiteKindFor("north"))
	assert.Equal(t, "farming", cfg.SiteKindFor("somewhere-else"))
}

func TestLoad_RejectsBadSites(t *testing.T) {
	setRequiredEnv(t)

	t.Run("malformed entry", func(t *testing.T) {
		t.Setenv("SITES", "justaname")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Setenv("SITES", "main:warehouse")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestLoad_RejectsBadOverheadRate(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COSTING_OVERHEAD_RATE", "1.5")

	_, err := Load("")
	assert.Error(t, err)
}
