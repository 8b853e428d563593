package engine

import (
	"math"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/pkg/mathutil"
)

// AcquisitionTaxResult holds the selected rate and the resulting tax.
// TaxAmount is unrounded; rounding is a presentation concern.
type AcquisitionTaxResult struct {
	RatePct   float64
	TaxAmount float64
}

// ComputeAcquisitionTax maps (price, owned-house count, floor-area flag) to
// an acquisition tax rate and amount. ownedHouseCount is the count before
// this purchase. The tier scan takes the first tier whose MaxOwnedHouses
// covers the count, and the breakpoint scan takes the first breakpoint at
// or above the price, so a price exactly at a breakpoint selects the
// lower-rate side.
func ComputeAcquisitionTax(price float64, ownedHouseCount int, largeFloorArea bool, schedule config.RateSchedule) (AcquisitionTaxResult, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return AcquisitionTaxResult{}, err
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return AcquisitionTaxResult{}, invalidInput("price", "must be a non-negative number")
	}
	if ownedHouseCount < 0 {
		return AcquisitionTaxResult{}, invalidInput("ownedHouseCount", "must be a non-negative integer")
	}

	tierIndex := -1
	for i, tier := range schedule.AcquisitionTiers {
		if tier.MaxOwnedHouses >= ownedHouseCount {
			tierIndex = i
			break
		}
	}
	if tierIndex == -1 {
		return AcquisitionTaxResult{}, configError(
			"no acquisition tier covers ownedHouseCount %d", ownedHouseCount)
	}

	tier := schedule.AcquisitionTiers[tierIndex]
	rate := tier.RatePct[len(tier.RatePct)-1]
	for i, breakpoint := range tier.PriceBreakpoints {
		if price <= breakpoint {
			rate = tier.RatePct[i]
			break
		}
	}

	// Dwellings over 85㎡ carry the rural special tax, charged only in the
	// lowest ownership tier and only above the first price breakpoint.
	if largeFloorArea && tierIndex == 0 && len(tier.PriceBreakpoints) > 0 &&
		price > tier.PriceBreakpoints[0] {
		rate += schedule.RuralSurtaxPct
	}

	return AcquisitionTaxResult{
		RatePct:   rate,
		TaxAmount: mathutil.ApplyPercentage(price, rate),
	}, nil
}
