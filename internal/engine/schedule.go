// Package engine implements the affordability and tax calculators. Every
// function is pure and synchronous: immutable inputs, no I/O, no shared
// state, safe for any number of concurrent callers. All monetary values are
// in millions of KRW; mixing units is the one mistake this package cannot
// detect, so callers must convert at the boundary.
package engine

import (
	"github.com/homeready/homeready/internal/config"
)

// ValidateSchedule checks the structural invariants the calculators rely
// on: sorted tiers, breakpoints, brackets, and penalty bands, and sane
// percentage ranges. Every Compute function runs this prologue so that a
// malformed schedule fails before any math, never mid-computation.
func ValidateSchedule(schedule config.RateSchedule) error {
	if schedule.LTVCeilingPct < 0 || schedule.LTVCeilingPct > 100 {
		return configError("ltvCeilingPct %.2f outside [0, 100]", schedule.LTVCeilingPct)
	}
	if schedule.DSRCeilingPct < 0 || schedule.DSRCeilingPct > 100 {
		return configError("dsrCeilingPct %.2f outside [0, 100]", schedule.DSRCeilingPct)
	}

	if len(schedule.AcquisitionTiers) == 0 {
		return configError("no acquisition tiers configured")
	}
	for i, tier := range schedule.AcquisitionTiers {
		if i > 0 && tier.MaxOwnedHouses <= schedule.AcquisitionTiers[i-1].MaxOwnedHouses {
			return configError("acquisition tiers not sorted ascending at index %d", i)
		}
		if len(tier.RatePct) != len(tier.PriceBreakpoints)+1 {
			return configError("acquisition tier %d needs %d rates for %d breakpoints, has %d",
				i, len(tier.PriceBreakpoints)+1, len(tier.PriceBreakpoints), len(tier.RatePct))
		}
		for j, breakpoint := range tier.PriceBreakpoints {
			if breakpoint <= 0 {
				return configError("acquisition tier %d breakpoint %d not positive", i, j)
			}
			if j > 0 && breakpoint <= tier.PriceBreakpoints[j-1] {
				return configError("acquisition tier %d breakpoints not sorted ascending", i)
			}
		}
		for j, rate := range tier.RatePct {
			if rate < 0 {
				return configError("acquisition tier %d rate %d is negative", i, j)
			}
		}
	}

	if len(schedule.TransferBrackets) == 0 {
		return configError("no transfer brackets configured")
	}
	for i, bracket := range schedule.TransferBrackets {
		last := i == len(schedule.TransferBrackets)-1
		if bracket.RatePct < 0 {
			return configError("transfer bracket %d rate is negative", i)
		}
		if bracket.UpperBound <= 0 && !last {
			// Only the final bracket may be open-ended.
			return configError("transfer bracket %d has no upper bound but is not last", i)
		}
		if i > 0 && bracket.UpperBound > 0 &&
			bracket.UpperBound <= schedule.TransferBrackets[i-1].UpperBound {
			return configError("transfer brackets not sorted ascending at index %d", i)
		}
	}

	for i, penalty := range schedule.ShortTermPenalties {
		if penalty.MaxYears <= 0 {
			return configError("short-term penalty %d maxYears not positive", i)
		}
		if i > 0 && penalty.MaxYears <= schedule.ShortTermPenalties[i-1].MaxYears {
			return configError("short-term penalties not sorted ascending at index %d", i)
		}
		if penalty.RatePct < 0 {
			return configError("short-term penalty %d rate is negative", i)
		}
	}

	if schedule.LocalSurtaxMultiplier <= 0 {
		return configError("localSurtaxMultiplier must be positive")
	}
	if schedule.BasicDeductionAmount < 0 {
		return configError("basicDeductionAmount is negative")
	}
	if schedule.LongTermMaxDeductionPct < 0 || schedule.LongTermMaxDeductionPct > 100 {
		return configError("longTermMaxDeductionPct %.2f outside [0, 100]", schedule.LongTermMaxDeductionPct)
	}
	if schedule.LongTermDeductionPerYearPct < 0 {
		return configError("longTermDeductionPerYearPct is negative")
	}
	if schedule.MaxLoanIncomeMultiple < 0 {
		return configError("maxLoanIncomeMultiple is negative")
	}

	return nil
}
