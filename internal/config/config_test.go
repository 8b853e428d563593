package config

import (
	"testing"
)

func TestLoadConfigurationExample(t *testing.T) {
	conf, err := LoadConfiguration("../../config.yaml.example")
	if err != nil {
		t.Fatalf("failed to load example config: %v", err)
	}

	schedule := conf.Schedule
	if schedule.LTVCeilingPct != 50 {
		t.Errorf("got LTV ceiling %v, expected 50", schedule.LTVCeilingPct)
	}
	if schedule.DSRCeilingPct != 40 {
		t.Errorf("got DSR ceiling %v, expected 40", schedule.DSRCeilingPct)
	}
	if len(schedule.AcquisitionTiers) != 3 {
		t.Fatalf("got %d acquisition tiers, expected 3", len(schedule.AcquisitionTiers))
	}
	first := schedule.AcquisitionTiers[0]
	if first.MaxOwnedHouses != 1 || len(first.PriceBreakpoints) != 2 || len(first.RatePct) != 3 {
		t.Errorf("unexpected first acquisition tier: %+v", first)
	}
	if len(schedule.TransferBrackets) != 8 {
		t.Fatalf("got %d transfer brackets, expected 8", len(schedule.TransferBrackets))
	}
	last := schedule.TransferBrackets[len(schedule.TransferBrackets)-1]
	if last.UpperBound != 0 || last.RatePct != 45 {
		t.Errorf("last bracket should be open-ended at 45%%, got %+v", last)
	}
	if len(schedule.ShortTermPenalties) != 2 {
		t.Errorf("got %d short-term penalties, expected 2", len(schedule.ShortTermPenalties))
	}
	if schedule.BasicDeductionAmount != 2.5 {
		t.Errorf("got basic deduction %v, expected 2.5", schedule.BasicDeductionAmount)
	}
	if schedule.MaxLoanIncomeMultiple != 5 {
		t.Errorf("got income multiple %v, expected 5", schedule.MaxLoanIncomeMultiple)
	}

	if conf.Server.Address != ":8080" {
		t.Errorf("got server address %q, expected :8080", conf.Server.Address)
	}
	if conf.Cache.TTLMinutes != 60 {
		t.Errorf("got cache TTL %d, expected 60", conf.Cache.TTLMinutes)
	}
	if conf.Advisory.Enabled {
		t.Error("advisory should be disabled in the example config")
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration("does-not-exist.yaml"); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
