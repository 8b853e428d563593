package engine

import (
	"math"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/pkg/constants"
	"github.com/homeready/homeready/pkg/mathutil"
)

// Recommendation labels for ScenarioComparison.
const (
	RecommendBuyNow = "buy_now"
	RecommendWait   = "wait"
)

// Projection parameter bounds. WaitYears is capped because compounding
// assumptions degrade quickly past a few years.
const (
	maxWaitYears            = 5
	minPriceAppreciationPct = -10
	maxPriceAppreciationPct = 20
	minIncomeGrowthPct      = -5
	maxIncomeGrowthPct      = 20
	minInterestRateChange   = -3
	maxInterestRateChange   = 3
)

// ScenarioProjection describes how the market and the borrower are assumed
// to move while they wait. Appreciation and growth are annual compounding
// percentages; SavingsRatePct is the share of current annual income saved
// each year; InterestRateChangePct shifts the quoted loan rate for the
// deferred purchase.
type ScenarioProjection struct {
	WaitYears             int
	PriceAppreciationPct  float64
	IncomeGrowthPct       float64
	SavingsRatePct        float64
	InterestRateChangePct float64
}

// ScenarioOutcome holds one scenario's affordability and borrowing picture.
type ScenarioOutcome struct {
	TargetPrice    float64
	Score          int
	Grade          string
	MaxLoan        float64
	MonthlyPayment float64
	CashGap        float64
}

// ScenarioComparison holds the buy-now and buy-later outcomes and the
// projection deltas between them. Recommendation is buy_now whenever the
// current score is at least the projected one.
type ScenarioComparison struct {
	BuyNow         ScenarioOutcome
	BuyLater       ScenarioOutcome
	PriceChange    float64
	IncomeChange   float64
	SavingsGained  float64
	Recommendation string
}

// CompareScenarios evaluates buying at today's terms against deferring the
// purchase by WaitYears. The deferred scenario compounds the price and
// income forward, adds the projected savings to liquid cash, shifts the
// loan rate, and reruns the loan-limit and affordability calculations on
// the projected inputs. Savings accrue from current income, not the grown
// income.
func CompareScenarios(profile BorrowerProfile, request LoanRequest, projection ScenarioProjection, schedule config.RateSchedule) (ScenarioComparison, error) {
	if err := validateProjection(projection); err != nil {
		return ScenarioComparison{}, err
	}

	buyNow, err := scenarioOutcome(profile, request, schedule)
	if err != nil {
		return ScenarioComparison{}, err
	}

	years := float64(projection.WaitYears)
	futurePrice := request.TargetPrice *
		math.Pow(1+projection.PriceAppreciationPct/constants.PercentageMultiplier, years)
	futureIncome := profile.AnnualIncome *
		math.Pow(1+projection.IncomeGrowthPct/constants.PercentageMultiplier, years)
	savingsGained := mathutil.ApplyPercentage(profile.AnnualIncome, projection.SavingsRatePct) * years

	laterProfile := BorrowerProfile{
		AnnualIncome:               futureIncome,
		LiquidCash:                 profile.LiquidCash + savingsGained,
		ExistingMonthlyDebtPayment: profile.ExistingMonthlyDebtPayment,
	}
	laterRequest := LoanRequest{
		TargetPrice:           futurePrice,
		AnnualInterestRatePct: mathutil.Max(0, request.AnnualInterestRatePct+projection.InterestRateChangePct),
		TermYears:             request.TermYears,
	}

	buyLater, err := scenarioOutcome(laterProfile, laterRequest, schedule)
	if err != nil {
		return ScenarioComparison{}, err
	}

	recommendation := RecommendWait
	if buyNow.Score >= buyLater.Score {
		recommendation = RecommendBuyNow
	}

	return ScenarioComparison{
		BuyNow:         buyNow,
		BuyLater:       buyLater,
		PriceChange:    futurePrice - request.TargetPrice,
		IncomeChange:   futureIncome - profile.AnnualIncome,
		SavingsGained:  savingsGained,
		Recommendation: recommendation,
	}, nil
}

func scenarioOutcome(profile BorrowerProfile, request LoanRequest, schedule config.RateSchedule) (ScenarioOutcome, error) {
	loan, err := ComputeLoanLimit(profile, request, schedule)
	if err != nil {
		return ScenarioOutcome{}, err
	}
	afford, err := ComputeAffordability(profile, request.TargetPrice, schedule)
	if err != nil {
		return ScenarioOutcome{}, err
	}

	return ScenarioOutcome{
		TargetPrice:    request.TargetPrice,
		Score:          afford.Score,
		Grade:          afford.Grade,
		MaxLoan:        loan.BindingLimit,
		MonthlyPayment: loan.MonthlyPayment,
		CashGap:        afford.GapAmount,
	}, nil
}

func validateProjection(projection ScenarioProjection) error {
	if projection.WaitYears < 1 || projection.WaitYears > maxWaitYears {
		return invalidInput("waitYears", "must be between 1 and 5")
	}
	if projection.PriceAppreciationPct < minPriceAppreciationPct ||
		projection.PriceAppreciationPct > maxPriceAppreciationPct ||
		math.IsNaN(projection.PriceAppreciationPct) {
		return invalidInput("priceAppreciationPct", "must be between -10 and 20")
	}
	if projection.IncomeGrowthPct < minIncomeGrowthPct ||
		projection.IncomeGrowthPct > maxIncomeGrowthPct ||
		math.IsNaN(projection.IncomeGrowthPct) {
		return invalidInput("incomeGrowthPct", "must be between -5 and 20")
	}
	if projection.SavingsRatePct < 0 || projection.SavingsRatePct > 100 ||
		math.IsNaN(projection.SavingsRatePct) {
		return invalidInput("savingsRatePct", "must be between 0 and 100")
	}
	if projection.InterestRateChangePct < minInterestRateChange ||
		projection.InterestRateChangePct > maxInterestRateChange ||
		math.IsNaN(projection.InterestRateChangePct) {
		return invalidInput("interestRateChangePct", "must be between -3 and 3")
	}
	return nil
}
