package pricing

import (
	"testing"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.PricingConfig {
	return config.PricingConfig{
		Tier1MaxKg:          5,
		Tier1RateCentsPerKg: 1000,
		Tier2MaxKg:          10,
		Tier2RateCentsPerKg: 1500,
		Tier3RateCentsPerKg: 2000,
		PlatformFeePercent:  10,
	}
}

func TestEngine_Price(t *testing.T) {
	engine, err := NewEngine(testConfig())
	require.NoError(t, err)

	tests := []struct {
		name     string
		weightKg float64
		want     int64
	}{
		{"within tier 1", 3, 3000},
		{"tier 1 ceiling", 5, 5000},
		{"spans tier 2", 7, 8000},
		{"tier 2 ceiling", 10, 12500},
		{"spans tier 3", 12, 16500},
		{"fractional weight", 3.5, 3500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Price(tt.weightKg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Price_rejectsNonPositiveWeight(t *testing.T) {
	engine, err := NewEngine(testConfig())
	require.NoError(t, err)

	for _, w := range []float64{0, -1, -0.5} {
		_, err := engine.Price(w)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestEngine_PlatformFee(t *testing.T) {
	engine, err := NewEngine(testConfig())
	require.NoError(t, err)

	assert.Equal(t, int64(1000), engine.PlatformFee(10000))
	assert.Equal(t, int64(850), engine.PlatformFee(8500))
	assert.Equal(t, int64(0), engine.PlatformFee(0))
}

func TestNewEngine_rejectsBadTiers(t *testing.T) {
	cfg := testConfig()
	cfg.Tier2MaxKg = cfg.Tier1MaxKg
	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrValidation)

	cfg = testConfig()
	cfg.Tier1RateCentsPerKg = 0
	_, err = NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewEngine_rejectsOutOfRangeFee(t *testing.T) {
	cfg := testConfig()
	cfg.PlatformFeePercent = -5
	_, err := NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrValidation)

	cfg = testConfig()
	cfg.PlatformFeePercent = 120
	_, err = NewEngine(cfg)
	assert.ErrorIs(t, err, domain.ErrValidation)

	cfg = testConfig()
	cfg.PlatformFeePercent = 0
	_, err = NewEngine(cfg)
	assert.NoError(t, err)
}
