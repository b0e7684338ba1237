package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		LineChannelToken:     "token",
		LineChannelSecret:    "secret",
		GeocodeDistrictLevel: DistrictLevel3,
		GeocodeTimeout:       5 * time.Second,
		Port:                 "10000",
		LogLevel:             "info",
		ShutdownTimeout:      30 * time.Second,
		WebhookTimeout:       25 * time.Second,
		DataDir:              "./data",
		SessionTTL:           10 * time.Minute,
		RecommendCount:       3,
		Timezone:             "Asia/Taipei",
	}
}

func TestValidateOK(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateMissingLineCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.LineChannelToken = ""
	cfg.LineChannelSecret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINE_CHANNEL_ACCESS_TOKEN")
	assert.Contains(t, err.Error(), "LINE_CHANNEL_SECRET")
}

func TestValidateRecommendCount(t *testing.T) {
	cfg := validConfig()
	cfg.RecommendCount = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RECOMMEND_COUNT")
}

func TestValidateDistrictLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "level 3", level: DistrictLevel3, wantErr: false},
		{name: "level 2", level: DistrictLevel2, wantErr: false},
		{name: "bogus", level: "administrative_area_level_9", wantErr: true},
		{name: "empty", level: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.GeocodeDistrictLevel = tt.level
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, 3, cfg.RecommendCount)
	assert.Equal(t, DistrictLevel3, cfg.GeocodeDistrictLevel)
	assert.Equal(t, "Asia/Taipei", cfg.Timezone)
	assert.Equal(t, 10*time.Minute, cfg.SessionTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LINE_CHANNEL_ACCESS_TOKEN", "token")
	t.Setenv("LINE_CHANNEL_SECRET", "secret")
	t.Setenv("RECOMMEND_COUNT", "5")
	t.Setenv("GEOCODE_DISTRICT_LEVEL", DistrictLevel2)
	t.Setenv("SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RecommendCount)
	assert.Equal(t, DistrictLevel2, cfg.GeocodeDistrictLevel)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestSQLitePath(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "data/stores.db", cfg.SQLitePath())
	assert.Equal(t, "data/stores.json", cfg.SeedPath())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Nope/Nope"
	assert.Equal(t, time.UTC, cfg.Location())
}
