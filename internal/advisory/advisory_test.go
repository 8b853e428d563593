package advisory

import (
	"context"
	"strings"
	"testing"

	"github.com/homeready/homeready/internal/config"
	"github.com/homeready/homeready/internal/engine"
	"go.uber.org/zap"
)

func TestFallbackWhenDisabled(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	generator := New(config.AdvisoryConfig{Enabled: false}, logger)

	advice := generator.LoanLimitAdvice(context.Background(),
		engine.LoanRequest{TargetPrice: 1500, AnnualInterestRatePct: 3.8, TermYears: 30},
		engine.LoanLimitResult{
			LTVLimit:          750,
			DSRLimit:          572,
			BindingLimit:      572,
			BindingConstraint: engine.ConstraintDSR,
			MonthlyPayment:    2.667,
		})

	if advice == "" {
		t.Fatal("expected fallback advice, got empty string")
	}
	if !strings.Contains(advice, "DSR") {
		t.Errorf("fallback should name the binding constraint, got %q", advice)
	}
	if !strings.Contains(advice, "15억") {
		t.Errorf("fallback should include the formatted target price, got %q", advice)
	}
}

func TestFallbackWithoutAPIKey(t *testing.T) {
	// Enabled in config but no ADVISORY_API_KEY in the environment: the
	// generator must stay in fallback mode rather than calling out.
	t.Setenv("ADVISORY_API_KEY", "")
	generator := New(config.AdvisoryConfig{Enabled: true}, nil)

	if generator.enabled {
		t.Error("generator must not enable itself without an API key")
	}

	advice := generator.AffordabilityAdvice(context.Background(), 1500,
		engine.AffordabilityResult{Score: 30, Grade: "D", RequiredCash: 1500, GapAmount: 1200})
	if !strings.Contains(advice, "30") || !strings.Contains(advice, "D") {
		t.Errorf("fallback should include score and grade, got %q", advice)
	}
}
