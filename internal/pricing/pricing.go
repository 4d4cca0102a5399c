package pricing

import (
	"fmt"
	"math"

	"github.com/flyncarry/flyncarry/config"
	"github.com/flyncarry/flyncarry/internal/domain"
)

// Engine computes delivery prices from package weight using three
// ascending weight tiers, each with its own per-kg rate. It is pure:
// the tier table and fee are fixed at construction.
type Engine struct {
	tier1MaxKg float64
	tier1Rate  int64
	tier2MaxKg float64
	tier2Rate  int64
	tier3Rate  int64
	feePercent float64
}

func NewEngine(cfg config.PricingConfig) (*Engine, error) {
	if cfg.Tier1MaxKg <= 0 || cfg.Tier2MaxKg <= cfg.Tier1MaxKg {
		return nil, fmt.Errorf("%w: tier ceilings must be ascending and positive", domain.ErrValidation)
	}
	if cfg.Tier1RateCentsPerKg <= 0 || cfg.Tier2RateCentsPerKg <= 0 || cfg.Tier3RateCentsPerKg <= 0 {
		return nil, fmt.Errorf("%w: tier rates must be positive", domain.ErrValidation)
	}
	// Out-of-range fees would make escrow releases exceed the held
	// amount or go negative.
	if cfg.PlatformFeePercent < 0 || cfg.PlatformFeePercent > 100 {
		return nil, fmt.Errorf("%w: platform fee percent must be between 0 and 100", domain.ErrValidation)
	}
	return &Engine{
		tier1MaxKg: cfg.Tier1MaxKg,
		tier1Rate:  cfg.Tier1RateCentsPerKg,
		tier2MaxKg: cfg.Tier2MaxKg,
		tier2Rate:  cfg.Tier2RateCentsPerKg,
		tier3Rate:  cfg.Tier3RateCentsPerKg,
		feePercent: cfg.PlatformFeePercent,
	}, nil
}

// Price returns the total price in cents for the given weight. Each
// tier charges its rate on the slice of weight that falls inside it;
// weight above the tier-2 ceiling is charged at the tier-3 rate.
func (e *Engine) Price(weightKg float64) (int64, error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("%w: weight must be positive", domain.ErrValidation)
	}

	total := math.Min(weightKg, e.tier1MaxKg) * float64(e.tier1Rate)
	if weightKg > e.tier1MaxKg {
		total += (math.Min(weightKg, e.tier2MaxKg) - e.tier1MaxKg) * float64(e.tier2Rate)
	}
	if weightKg > e.tier2MaxKg {
		total += (weightKg - e.tier2MaxKg) * float64(e.tier3Rate)
	}
	return int64(math.Round(total)), nil
}

// PlatformFee returns the marketplace cut of an amount, in cents.
func (e *Engine) PlatformFee(amountCents int64) int64 {
	return int64(math.Round(float64(amountCents) * e.feePercent / 100))
}
