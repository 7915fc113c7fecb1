package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PAYMENT_TIMEOUT", "")
	t.Setenv("PAYMENT_CURRENCY", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "usd", cfg.PaymentCurrency)
	assert.EqualValues(t, 50, cfg.PaymentMinAmount)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("PAYMENT_CURRENCY", "EUR")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, "eur", cfg.PaymentCurrency)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestEnvDurationDefault_Invalid(t *testing.T) {
	t.Setenv("X_TIMEOUT", "soon")
	assert.Equal(t, time.Second, EnvDurationDefault("X_TIMEOUT", time.Second))
}

func TestEnvBoolDefault(t *testing.T) {
	t.Setenv("X_FLAG", "true")
	assert.True(t, EnvBoolDefault("X_FLAG", false))
	t.Setenv("X_FLAG", "maybe")
	assert.False(t, EnvBoolDefault("X_FLAG", false))
}
