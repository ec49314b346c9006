package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_PORT", "STRIPE_CURRENCY", "REDIS_ADDR", "AMQP_URL", "CORS_ORIGINS", "JWT_TOKEN_TTL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.AMQP.URL)
	assert.Nil(t, cfg.Server.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "UTC", cfg.Booking.DefaultTimezone)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STRIPE_CURRENCY", "USD")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("REDIS_EVENT_TTL", "1h")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, time.Hour, cfg.Redis.EventTTL)
}
