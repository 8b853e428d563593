// Package constants provides shared constants for the homeready application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for presentation rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// AmountTolerance is the tolerance for comparing monetary amounts.
	// Amounts are denominated in millions of KRW, so this is 10,000 KRW.
	AmountTolerance = 0.01
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultRequestsPerMinute is the default per-client rate limit
	DefaultRequestsPerMinute = 60
)
