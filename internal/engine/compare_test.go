package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/homeready/homeready/pkg/mathutil"
)

func TestCompareScenariosProjection(t *testing.T) {
	schedule := testSchedule()

	profile := BorrowerProfile{AnnualIncome: 80, LiquidCash: 300}
	request := LoanRequest{TargetPrice: 1500, AnnualInterestRatePct: 3.8, TermYears: 30}
	projection := ScenarioProjection{
		WaitYears:            3,
		PriceAppreciationPct: 3,
		IncomeGrowthPct:      2,
		SavingsRatePct:       30,
	}

	result, err := CompareScenarios(profile, request, projection, schedule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BuyNow.Score != 30 || result.BuyNow.Grade != "D" {
		t.Errorf("got buy-now score %d grade %q, expected 30/D", result.BuyNow.Score, result.BuyNow.Grade)
	}

	// 1500 * 1.03^3 and 80 * 1.02^3, compounded annually.
	wantPrice := 1500 * math.Pow(1.03, 3)
	if !mathutil.WithinTolerance(result.BuyLater.TargetPrice, wantPrice, 1e-9) {
		t.Errorf("got future price %v, expected %v", result.BuyLater.TargetPrice, wantPrice)
	}
	wantIncomeChange := 80*math.Pow(1.02, 3) - 80
	if !mathutil.WithinTolerance(result.IncomeChange, wantIncomeChange, 1e-9) {
		t.Errorf("got income change %v, expected %v", result.IncomeChange, wantIncomeChange)
	}

	// Savings accrue from current income: 30% of 80 over 3 years.
	if result.SavingsGained != 72 {
		t.Errorf("got savings gained %v, expected 72", result.SavingsGained)
	}
	if result.BuyLater.CashGap >= result.BuyNow.CashGap+result.PriceChange {
		t.Errorf("savings should narrow the gap net of appreciation: later %v, now %v, price change %v",
			result.BuyLater.CashGap, result.BuyNow.CashGap, result.PriceChange)
	}

	// Both scenarios stay stretched on both deductions, so waiting gains
	// nothing and the tie goes to buying now.
	if result.BuyLater.Score != 30 {
		t.Errorf("got buy-later score %d, expected 30", result.BuyLater.Score)
	}
	if result.Recommendation != RecommendBuyNow {
		t.Errorf("got recommendation %q, expected %q", result.Recommendation, RecommendBuyNow)
	}
}

func TestCompareScenariosWaitWins(t *testing.T) {
	schedule := testSchedule()

	// Aggressive saving against a flat market: five years of saving the
	// full income clears both score deductions.
	profile := BorrowerProfile{AnnualIncome: 100, LiquidCash: 200}
	request := LoanRequest{TargetPrice: 1000, AnnualInterestRatePct: 3.8, TermYears: 30}
	projection := ScenarioProjection{
		WaitYears:      5,
		SavingsRatePct: 100,
	}

	result, err := CompareScenarios(profile, request, projection, schedule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BuyNow.Score != 30 {
		t.Errorf("got buy-now score %d, expected 30", result.BuyNow.Score)
	}
	if result.BuyLater.Score != 100 || result.BuyLater.Grade != "A" {
		t.Errorf("got buy-later score %d grade %q, expected 100/A", result.BuyLater.Score, result.BuyLater.Grade)
	}
	if result.Recommendation != RecommendWait {
		t.Errorf("got recommendation %q, expected %q", result.Recommendation, RecommendWait)
	}
	if result.PriceChange != 0 || result.IncomeChange != 0 {
		t.Errorf("flat projections should not move price or income, got %v / %v",
			result.PriceChange, result.IncomeChange)
	}
	if result.SavingsGained != 500 {
		t.Errorf("got savings gained %v, expected 500", result.SavingsGained)
	}
}

func TestCompareScenariosRateDropToZero(t *testing.T) {
	schedule := testSchedule()

	profile := BorrowerProfile{AnnualIncome: 80, LiquidCash: 300}
	request := LoanRequest{TargetPrice: 1500, AnnualInterestRatePct: 2, TermYears: 30}
	projection := ScenarioProjection{WaitYears: 1, InterestRateChangePct: -3}

	// The shifted rate floors at zero and takes the zero-rate annuity path.
	result, err := CompareScenarios(profile, request, projection, schedule)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantPayment := result.BuyLater.MaxLoan / (30 * 12)
	if !mathutil.WithinTolerance(result.BuyLater.MonthlyPayment, wantPayment, 1e-9) {
		t.Errorf("got monthly payment %v, expected straight division %v",
			result.BuyLater.MonthlyPayment, wantPayment)
	}
}

func TestCompareScenariosInvalidProjection(t *testing.T) {
	schedule := testSchedule()
	profile := BorrowerProfile{AnnualIncome: 80, LiquidCash: 300}
	request := LoanRequest{TargetPrice: 1500, AnnualInterestRatePct: 3.8, TermYears: 30}

	cases := []struct {
		name       string
		projection ScenarioProjection
	}{
		{"zero wait years", ScenarioProjection{WaitYears: 0}},
		{"wait years too long", ScenarioProjection{WaitYears: 6}},
		{"appreciation too high", ScenarioProjection{WaitYears: 2, PriceAppreciationPct: 25}},
		{"appreciation too low", ScenarioProjection{WaitYears: 2, PriceAppreciationPct: -15}},
		{"income growth too high", ScenarioProjection{WaitYears: 2, IncomeGrowthPct: 25}},
		{"negative savings rate", ScenarioProjection{WaitYears: 2, SavingsRatePct: -1}},
		{"savings rate above 100", ScenarioProjection{WaitYears: 2, SavingsRatePct: 101}},
		{"rate change too large", ScenarioProjection{WaitYears: 2, InterestRateChangePct: 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CompareScenarios(profile, request, tc.projection, schedule)
			var inputErr *InvalidInputError
			if !errors.As(err, &inputErr) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
		})
	}
}
