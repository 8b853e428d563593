package engine

import (
	"math"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/pkg/constants"
	"github.com/homeready/homeready/pkg/mathutil"
)

// Binding constraint labels for LoanLimitResult.
const (
	ConstraintLTV = "LTV"
	ConstraintDSR = "DSR"
)

// BorrowerProfile describes the borrower for one calculation request.
type BorrowerProfile struct {
	AnnualIncome               float64
	LiquidCash                 float64
	ExistingMonthlyDebtPayment float64
}

// LoanRequest describes the loan being sized.
type LoanRequest struct {
	TargetPrice           float64
	AnnualInterestRatePct float64
	TermYears             int
}

// LoanLimitResult holds the two regulatory limits and the binding minimum.
// BindingLimit is min(LTVLimit, DSRLimit); ties resolve to LTV. Note that
// BindingLimit can exceed TargetPrice when DSR capacity is large: the limit
// is borrowing capacity, not an affordability cap, and callers that need a
// cap must clamp to the price themselves.
type LoanLimitResult struct {
	LTVLimit          float64
	DSRLimit          float64
	BindingLimit      float64
	BindingConstraint string
	MonthlyPayment    float64
}

// ComputeLoanLimit computes the LTV-bounded and DSR-bounded loan limits for
// the borrower and returns the binding (smaller) one together with the
// amortizing monthly payment at that limit.
func ComputeLoanLimit(profile BorrowerProfile, request LoanRequest, schedule config.RateSchedule) (LoanLimitResult, error) {
	if err := ValidateSchedule(schedule); err != nil {
		return LoanLimitResult{}, err
	}
	if err := validateProfile(profile); err != nil {
		return LoanLimitResult{}, err
	}
	if request.TargetPrice <= 0 || math.IsNaN(request.TargetPrice) || math.IsInf(request.TargetPrice, 0) {
		return LoanLimitResult{}, invalidInput("targetPrice", "must be a positive number")
	}
	if request.AnnualInterestRatePct < 0 || math.IsNaN(request.AnnualInterestRatePct) {
		return LoanLimitResult{}, invalidInput("annualInterestRatePct", "must be a non-negative number")
	}
	if request.TermYears <= 0 {
		return LoanLimitResult{}, invalidInput("termYears", "must be a positive integer")
	}

	ltvLimit := mathutil.ApplyPercentage(request.TargetPrice, schedule.LTVCeilingPct)

	annualCapacity := mathutil.ApplyPercentage(profile.AnnualIncome, schedule.DSRCeilingPct) -
		profile.ExistingMonthlyDebtPayment*constants.MonthsPerYear
	annualCapacity = mathutil.Max(0, annualCapacity)
	monthlyCapacity := annualCapacity / constants.MonthsPerYear

	monthlyRate := request.AnnualInterestRatePct / (constants.PercentageMultiplier * constants.MonthsPerYear)
	numPayments := request.TermYears * constants.MonthsPerYear

	dsrLimit, err := PrincipalFromPayment(monthlyCapacity, monthlyRate, numPayments)
	if err != nil {
		return LoanLimitResult{}, err
	}

	result := LoanLimitResult{
		LTVLimit: ltvLimit,
		DSRLimit: dsrLimit,
	}

	if ltvLimit <= dsrLimit {
		result.BindingLimit = ltvLimit
		result.BindingConstraint = ConstraintLTV
	} else {
		result.BindingLimit = dsrLimit
		result.BindingConstraint = ConstraintDSR
	}

	result.MonthlyPayment, err = MonthlyPayment(result.BindingLimit, monthlyRate, numPayments)
	if err != nil {
		return LoanLimitResult{}, err
	}

	return result, nil
}

func validateProfile(profile BorrowerProfile) error {
	if profile.AnnualIncome < 0 || math.IsNaN(profile.AnnualIncome) || math.IsInf(profile.AnnualIncome, 0) {
		return invalidInput("annualIncome", "must be a non-negative number")
	}
	if profile.LiquidCash < 0 || math.IsNaN(profile.LiquidCash) || math.IsInf(profile.LiquidCash, 0) {
		return invalidInput("liquidCash", "must be a non-negative number")
	}
	if profile.ExistingMonthlyDebtPayment < 0 || math.IsNaN(profile.ExistingMonthlyDebtPayment) {
		return invalidInput("existingMonthlyDebtPayment", "must be a non-negative number")
	}
	return nil
}
