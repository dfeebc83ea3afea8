package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("METRICS_ENABLED", "off")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_TTL")
}

func TestFromEnv_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestParsePlans(t *testing.T) {
	plans, err := ParsePlans(`
[[plan]]
id = "scale"
name = "Scale"
price_monthly = 7999.0
max_properties = -1
trial_days = 14
sort_order = 3
is_active = true

[[plan]]
id = "starter"
name = "Starter"
max_properties = 1
trial_days = 7
sort_order = 1
is_active = true
`)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "starter", plans[0].ID)
	assert.Equal(t, 7, plans[0].TrialDays)
	assert.True(t, plans[1].Unlimited())
}

func TestParsePlans_Invalid(t *testing.T) {
	_, err := ParsePlans(``)
	assert.ErrorContains(t, err, "empty")

	_, err = ParsePlans(`
[[plan]]
id = "a"
name = "A"
max_properties = 1
[[plan]]
id = "a"
name = "B"
max_properties = 2
`)
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParsePlans(`
[[plan]]
id = "a"
name = "A"
`)
	assert.ErrorContains(t, err, "max_properties")
}
