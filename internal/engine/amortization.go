package engine

import (
	"math"
)

// MonthlyPayment returns the fixed payment that amortizes principal over
// numPayments periods at the given periodic rate, using the standard
// annuity formula. A zero rate degenerates to straight division.
func MonthlyPayment(principal, monthlyRate float64, numPayments int) (float64, error) {
	if err := validateAnnuityInputs(principal, "principal", monthlyRate, numPayments); err != nil {
		return 0, err
	}

	if monthlyRate == 0 {
		return principal / float64(numPayments), nil
	}

	power := math.Pow(1.00+monthlyRate, float64(numPayments))
	discountFactor := (power - 1.00) / power
	return principal * monthlyRate / discountFactor, nil
}

// PrincipalFromPayment is the algebraic inverse of MonthlyPayment: the
// largest principal a fixed periodic payment can amortize over numPayments
// periods at the given rate.
func PrincipalFromPayment(payment, monthlyRate float64, numPayments int) (float64, error) {
	if err := validateAnnuityInputs(payment, "payment", monthlyRate, numPayments); err != nil {
		return 0, err
	}

	if monthlyRate == 0 {
		return payment * float64(numPayments), nil
	}

	power := math.Pow(1.00+monthlyRate, float64(numPayments))
	discountFactor := (power - 1.00) / power
	return payment * discountFactor / monthlyRate, nil
}

func validateAnnuityInputs(amount float64, amountField string, monthlyRate float64, numPayments int) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return invalidInput(amountField, "must be a non-negative number")
	}
	if math.IsNaN(monthlyRate) || math.IsInf(monthlyRate, 0) || monthlyRate < 0 {
		return invalidInput("monthlyRate", "must be a non-negative number")
	}
	if numPayments <= 0 {
		return invalidInput("numPayments", "must be a positive integer")
	}
	return nil
}
