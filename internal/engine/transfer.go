package engine

import (
	"math"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/pkg/mathutil"
)

// Long-term holding deduction accrues only from this many years of holding.
// Holding periods in [2, 3) take the progressive path with no deduction;
// that gap matches the Korean capital-gains practice this schedule encodes,
// so closing it would change real tax amounts.
const longTermDeductionMinYears = 3.0

// TransferTaxResult holds the capital gain, the taxable base after
// deductions, the applied marginal (or flat penalty) rate, and the final
// tax. TaxAmount is zero whenever the gain is zero or negative.
type TransferTaxResult struct {
	Gain            float64
	TaxBase         float64
	MarginalRatePct float64
	TaxAmount       float64
}

// ComputeTransferTax computes the capital-gains tax on a sale. Short
// holding periods take a flat penalty rate on the full gain, bypassing
// every deduction and the bracket search; otherwise the gain net of the
// basic and long-term-holding deductions is taxed through the progressive
// brackets and scaled by the local surtax multiplier.
func ComputeTransferTax(purchasePrice, salePrice, holdingYears float64, schedule config.RateSchedule) (TransferTaxResult, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return TransferTaxResult{}, err
	}
	if purchasePrice < 0 || math.IsNaN(purchasePrice) || math.IsInf(purchasePrice, 0) {
		return TransferTaxResult{}, invalidInput("purchasePrice", "must be a non-negative number")
	}
	if salePrice < 0 || math.IsNaN(salePrice) || math.IsInf(salePrice, 0) {
		return TransferTaxResult{}, invalidInput("salePrice", "must be a non-negative number")
	}
	if holdingYears < 0 || math.IsNaN(holdingYears) {
		return TransferTaxResult{}, invalidInput("holdingYears", "must be a non-negative number")
	}

	gain := salePrice - purchasePrice
	if gain <= 0 {
		return TransferTaxResult{Gain: gain}, nil
	}

	// Flat short-term penalties take precedence over everything else.
	for _, penalty := range schedule.ShortTermPenalties {
		if holdingYears < penalty.MaxYears {
			return TransferTaxResult{
				Gain:            gain,
				TaxBase:         gain,
				MarginalRatePct: penalty.RatePct,
				TaxAmount:       mathutil.ApplyPercentage(gain, penalty.RatePct),
			}, nil
		}
	}

	longTermPct := 0.0
	if holdingYears >= longTermDeductionMinYears {
		longTermPct = mathutil.Min(schedule.LongTermMaxDeductionPct,
			holdingYears*schedule.LongTermDeductionPerYearPct)
	}

	taxBase := gain - schedule.BasicDeductionAmount - mathutil.ApplyPercentage(gain, longTermPct)
	if taxBase <= 0 {
		return TransferTaxResult{Gain: gain}, nil
	}

	bracket := schedule.TransferBrackets[len(schedule.TransferBrackets)-1]
	for _, candidate := range schedule.TransferBrackets {
		if candidate.UpperBound > 0 && candidate.UpperBound >= taxBase {
			bracket = candidate
			break
		}
	}

	tax := mathutil.ApplyPercentage(taxBase, bracket.RatePct) - bracket.CumulativeDeduction
	tax *= schedule.LocalSurtaxMultiplier

	return TransferTaxResult{
		Gain:            gain,
		TaxBase:         taxBase,
		MarginalRatePct: bracket.RatePct,
		TaxAmount:       tax,
	}, nil
}
