// internal/credit/amortize/amortize.go
// Package amortize computes level-installment amortization schedules.
package amortize

import (
	"fmt"
	"math"

	"origination-workers/internal/common/errors"
)

// InstallmentLine is one period's row in a schedule.
type InstallmentLine struct {
	Number           int     `json:"number"`
	OpeningBalance   float64 `json:"openingBalance"`
	Installment      float64 `json:"installment"`
	PrincipalPortion float64 `json:"principalPortion"`
	InterestPortion  float64 `json:"interestPortion"`
	ClosingBalance   float64 `json:"closingBalance"`
}

// Schedule is the full amortization table for one financed amount.
type Schedule struct {
	Principal     float64           `json:"principal"`
	AnnualRate    float64           `json:"annualRatePercent"`
	TermMonths    int               `json:"termMonths"`
	Installment   float64           `json:"installment"`
	TotalInterest float64           `json:"totalInterest"`
	TotalPaid     float64           `json:"totalPaid"`
	Lines         []InstallmentLine `json:"lines"`
}

// roundCents rounds a monetary amount to 2 decimals.
func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// PeriodicRate converts an annual nominal percentage to a monthly rate.
func PeriodicRate(annualRatePercent float64) float64 {
	return annualRatePercent / 12 / 100
}

// Installment returns the level annuity payment for the given terms.
// A zero rate degenerates to flat principal repayment.
func Installment(principal, annualRatePercent float64, termMonths int) float64 {
	if annualRatePercent == 0 {
		return principal / float64(termMonths)
	}
	r := PeriodicRate(annualRatePercent)
	n := float64(termMonths)
	return principal * (r / (1 - math.Pow(1+r, -n)))
}

// ComputeSchedule builds the full installment table. It is pure and
// deterministic: same inputs always produce the same schedule.
func ComputeSchedule(principal, annualRatePercent float64, termMonths int) (*Schedule, error) {
	if principal <= 0 {
		return nil, errors.NewInvalidInputError("principal", fmt.Sprintf("must be positive, got %.2f", principal))
	}
	if termMonths <= 0 {
		return nil, errors.NewInvalidInputError("termMonths", fmt.Sprintf("must be positive, got %d", termMonths))
	}
	if annualRatePercent < 0 || annualRatePercent > 100 {
		return nil, errors.NewInvalidInputError("annualRatePercent", fmt.Sprintf("must be in [0,100], got %.4f", annualRatePercent))
	}

	r := PeriodicRate(annualRatePercent)
	installment := roundCents(Installment(principal, annualRatePercent, termMonths))

	lines := make([]InstallmentLine, 0, termMonths)
	opening := roundCents(principal)
	totalInterest := 0.0
	totalPaid := 0.0

	for i := 1; i <= termMonths; i++ {
		interest := roundCents(opening * r)
		principalPortion := roundCents(installment - interest)
		lineInstallment := installment

		if i == termMonths {
			// Last line absorbs residual rounding: principal portion is
			// whatever is left, and the installment is adjusted to match.
			principalPortion = opening
			lineInstallment = roundCents(principalPortion + interest)
		}

		closing := roundCents(opening - principalPortion)
		lines = append(lines, InstallmentLine{
			Number:           i,
			OpeningBalance:   opening,
			Installment:      lineInstallment,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			ClosingBalance:   closing,
		})

		totalInterest = roundCents(totalInterest + interest)
		totalPaid = roundCents(totalPaid + lineInstallment)
		opening = closing
	}

	return &Schedule{
		Principal:     roundCents(principal),
		AnnualRate:    annualRatePercent,
		TermMonths:    termMonths,
		Installment:   installment,
		TotalInterest: totalInterest,
		TotalPaid:     totalPaid,
		Lines:         lines,
	}, nil
}
