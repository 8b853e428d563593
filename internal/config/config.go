// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Configuration holds all configuration for homeready. The Schedule section
// is the regulatory rate table consumed by the engine; the remaining
// sections configure the serving process around it.
type Configuration struct {
	Schedule RateSchedule
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`
	Cache    CacheConfig    `yaml:"cache,omitempty"`
	Advisory AdvisoryConfig `yaml:"advisory,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// ServerConfig holds HTTP server configuration options
type ServerConfig struct {
	Address           string `yaml:"address,omitempty"`
	RequestsPerMinute int    `yaml:"requestsPerMinute,omitempty"`
}

// CacheConfig holds result-cache configuration options. An empty
// RedisAddress selects the in-memory cache.
type CacheConfig struct {
	RedisAddress string `yaml:"redisAddress,omitempty"`
	TTLMinutes   int    `yaml:"ttlMinutes,omitempty"`
}

// AdvisoryConfig holds configuration for the external advisory-text
// generator. The API key is read from the environment, never from the file.
type AdvisoryConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// RateSchedule is the immutable regulatory rate table. It is created once
// from configuration, read by every engine, and never mutated. All monetary
// values are in millions of KRW.
type RateSchedule struct {
	// LTVCeilingPct is the maximum loan as a percentage of property price.
	LTVCeilingPct float64 `yaml:"ltvCeilingPct"`
	// DSRCeilingPct is the maximum annual debt service as a percentage of
	// annual income.
	DSRCeilingPct float64 `yaml:"dsrCeilingPct"`
	// AcquisitionTiers maps owned-house counts to price-dependent
	// acquisition tax rates, sorted ascending by MaxOwnedHouses.
	AcquisitionTiers []AcquisitionTier `yaml:"acquisitionTiers"`
	// RuralSurtaxPct is added to the acquisition rate for dwellings over
	// 85 square meters in the lowest ownership tier.
	RuralSurtaxPct float64 `yaml:"ruralSurtaxPct"`
	// TransferBrackets is the progressive capital-gains schedule, sorted
	// ascending by UpperBound. The final bracket may omit UpperBound (zero
	// means unbounded).
	TransferBrackets []TransferBracket `yaml:"transferBrackets"`
	// LongTermMaxDeductionPct caps the long-term holding deduction.
	LongTermMaxDeductionPct float64 `yaml:"longTermMaxDeductionPct"`
	// LongTermDeductionPerYearPct is the per-year long-term holding
	// deduction, applied from three years of holding.
	LongTermDeductionPerYearPct float64 `yaml:"longTermDeductionPerYearPct"`
	// ShortTermPenalties holds the flat rates that replace the progressive
	// schedule for short holding periods, sorted ascending by MaxYears.
	ShortTermPenalties []ShortTermPenalty `yaml:"shortTermPenalties"`
	// LocalSurtaxMultiplier scales the progressive transfer tax for the
	// local income tax portion (e.g. 1.1).
	LocalSurtaxMultiplier float64 `yaml:"localSurtaxMultiplier"`
	// BasicDeductionAmount is subtracted from the gain before the bracket
	// search.
	BasicDeductionAmount float64 `yaml:"basicDeductionAmount"`
	// MaxLoanIncomeMultiple is the income multiple used by the
	// affordability scorer.
	MaxLoanIncomeMultiple float64 `yaml:"maxLoanIncomeMultiple"`
}

// AcquisitionTier holds the acquisition tax rates for one ownership band.
// RatePct has one more entry than PriceBreakpoints: RatePct[i] applies to
// prices at or below PriceBreakpoints[i], and the final rate applies above
// the last breakpoint.
type AcquisitionTier struct {
	MaxOwnedHouses   int       `yaml:"maxOwnedHouses"`
	PriceBreakpoints []float64 `yaml:"priceBreakpoints,omitempty"`
	RatePct          []float64 `yaml:"ratePct"`
}

// TransferBracket holds one progressive capital-gains bracket.
type TransferBracket struct {
	UpperBound          float64 `yaml:"upperBound,omitempty"`
	RatePct             float64 `yaml:"ratePct"`
	CumulativeDeduction float64 `yaml:"cumulativeDeduction"`
}

// ShortTermPenalty holds one flat short-holding rate. The rate applies to
// holding periods strictly below MaxYears.
type ShortTermPenalty struct {
	MaxYears float64 `yaml:"maxYears"`
	RatePct  float64 `yaml:"ratePct"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}
