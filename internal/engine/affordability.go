package engine

import (
	"math"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/pkg/mathutil"
)

// Score deductions, applied independently of each other.
const (
	// scoreDeductLeverage applies when the loan needed exceeds 40% of the
	// purchase price.
	scoreDeductLeverage = 35
	// scoreDeductIncomeStretch applies when the loan needed exceeds the
	// configured multiple of annual income.
	scoreDeductIncomeStretch = 35

	leverageRatioThreshold = 0.4
)

// AffordabilityResult holds the readiness score, its letter grade, and the
// cash shortfall. RequiredCash assumes no approved loan; composing with a
// computed loan limit is the caller's responsibility.
type AffordabilityResult struct {
	Score        int
	Grade        string
	RequiredCash float64
	GapAmount    float64
}

// ComputeAffordability scores how ready the borrower is to purchase at
// targetPrice, starting from 100 and deducting fixed penalties for high
// leverage and for borrowing beyond the income multiple, clamped to
// [0, 100].
func ComputeAffordability(profile BorrowerProfile, targetPrice float64, schedule config.RateSchedule) (AffordabilityResult, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return AffordabilityResult{}, err
	}
	if err := validateProfile(profile); err != nil {
		return AffordabilityResult{}, err
	}
	if targetPrice <= 0 || math.IsNaN(targetPrice) || math.IsInf(targetPrice, 0) {
		return AffordabilityResult{}, invalidInput("targetPrice", "must be a positive number")
	}

	loanNeeded := targetPrice - profile.LiquidCash
	loanRatio := loanNeeded / targetPrice
	maxLoanByIncome := profile.AnnualIncome * schedule.MaxLoanIncomeMultiple

	score := 100.0
	if loanRatio > leverageRatioThreshold {
		score -= scoreDeductLeverage
	}
	if loanNeeded > maxLoanByIncome {
		score -= scoreDeductIncomeStretch
	}
	score = mathutil.Clamp(score, 0, 100)

	requiredCash := targetPrice
	return AffordabilityResult{
		Score:        int(score),
		Grade:        gradeForScore(int(score)),
		RequiredCash: requiredCash,
		GapAmount:    mathutil.Max(0, requiredCash-profile.LiquidCash),
	}, nil
}

func gradeForScore(score int) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	case score >= 20:
		return "D"
	default:
		return "F"
	}
}
