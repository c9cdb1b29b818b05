package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/mockshop/config"
)

func TestDurationAcceptsSecondsAndGoSyntax(t *testing.T) {
	config.Set("TEST_DELAY_SECONDS", "3")
	config.Set("TEST_DELAY_GO", "250ms")
	config.Set("TEST_DELAY_BAD", "soon")

	assert.Equal(t, 3*time.Second, config.Duration("TEST_DELAY_SECONDS", 0))
	assert.Equal(t, 250*time.Millisecond, config.Duration("TEST_DELAY_GO", 0))
	assert.Equal(t, time.Minute, config.Duration("TEST_DELAY_BAD", time.Minute))
	assert.Equal(t, time.Hour, config.Duration("TEST_DELAY_MISSING", time.Hour))
}

func TestShopDefaults(t *testing.T) {
	assert.InDelta(t, 9.99, config.ShippingFlatFee(), 0.0001)
	assert.Equal(t, int64(5<<20), config.UploadMaxBytes())
}

func TestUnknownDriverFallsBackToSQLite(t *testing.T) {
	config.Set("DB_DRIVER", "oracle")
	defer config.Set("DB_DRIVER", "sqlite")

	assert.Equal(t, "sqlite", config.DatabaseDriver())
	assert.Equal(t, "mockshop.db", config.DatabaseDSN())
}

func TestGetFallback(t *testing.T) {
	assert.Equal(t, "fallback", config.Get("NOT_A_REAL_KEY_42", "fallback"))
}
