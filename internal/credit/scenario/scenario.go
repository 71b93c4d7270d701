// internal/credit/scenario/scenario.go
// Package scenario derives the named financing alternatives offered for
// one loan request.
package scenario

import (
	"fmt"

	"origination-workers/internal/common/errors"
	"origination-workers/internal/credit/amortize"
)

// Canonical scenario names. The console keys its comparison table on
// these so they are part of the external contract.
const (
	NameStandardDownPayment = "standard-down-payment"
	NameZeroDownPayment     = "zero-down-payment"
	NameMaxTerm             = "max-term"
)

// DefaultDownPaymentFraction is used when config does not override it.
const DefaultDownPaymentFraction = 0.20

// Request carries the simulation inputs for one loan request.
type Request struct {
	RequestedAmount float64
	DownPayment     float64
	TermMonths      int
}

// Params holds the rate and the generation knobs shared by all
// scenarios of a batch.
type Params struct {
	VehicleValue        float64
	NominalRatePercent  float64
	MaxTermMonths       int
	DownPaymentFraction float64 // zero means DefaultDownPaymentFraction
}

// Scenario is one fully-specified financing alternative with its own
// schedule and totals.
type Scenario struct {
	Name           string             `json:"name"`
	DownPayment    float64            `json:"downPayment"`
	FinancedAmount float64            `json:"financedAmount"`
	TermMonths     int                `json:"termMonths"`
	Installment    float64            `json:"installment"`
	TotalInterest  float64            `json:"totalInterest"`
	TotalPaid      float64            `json:"totalPaid"`
	Schedule       *amortize.Schedule `json:"schedule"`
}

// Generate builds the three named scenarios for a request. A failure in
// any one scenario fails the whole batch: an incomplete comparison set
// is unsafe for a credit decision.
func Generate(req Request, params Params) ([]Scenario, error) {
	if params.VehicleValue <= 0 {
		return nil, errors.NewInvalidInputError("vehicleValue", fmt.Sprintf("must be positive, got %.2f", params.VehicleValue))
	}
	if params.MaxTermMonths <= 0 {
		return nil, errors.NewInvalidInputError("maxTermMonths", fmt.Sprintf("must be positive, got %d", params.MaxTermMonths))
	}
	if req.TermMonths <= 0 {
		return nil, errors.NewInvalidInputError("termMonths", fmt.Sprintf("must be positive, got %d", req.TermMonths))
	}

	fraction := params.DownPaymentFraction
	if fraction == 0 {
		fraction = DefaultDownPaymentFraction
	}
	if fraction < 0 || fraction >= 1 {
		return nil, errors.NewInvalidInputError("downPaymentFraction", fmt.Sprintf("must be in [0,1), got %.2f", fraction))
	}

	standardDown := params.VehicleValue * fraction

	variants := []struct {
		name        string
		downPayment float64
		financed    float64
		term        int
	}{
		{NameStandardDownPayment, standardDown, params.VehicleValue - standardDown, req.TermMonths},
		{NameZeroDownPayment, 0, params.VehicleValue, req.TermMonths},
		{NameMaxTerm, req.DownPayment, req.RequestedAmount, params.MaxTermMonths},
	}

	scenarios := make([]Scenario, 0, len(variants))
	for _, v := range variants {
		if v.financed <= 0 {
			return nil, errors.NewInvalidInputError("financedAmount",
				fmt.Sprintf("scenario %s derives non-positive financed amount %.2f", v.name, v.financed))
		}
		sched, err := amortize.ComputeSchedule(v.financed, params.NominalRatePercent, v.term)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, Scenario{
			Name:           v.name,
			DownPayment:    v.downPayment,
			FinancedAmount: sched.Principal,
			TermMonths:     v.term,
			Installment:    sched.Installment,
			TotalInterest:  sched.TotalInterest,
			TotalPaid:      sched.TotalPaid,
			Schedule:       sched,
		})
	}
	return scenarios, nil
}

// ByName returns the scenario with the given name, or nil.
func ByName(scenarios []Scenario, name string) *Scenario {
	for i := range scenarios {
		if scenarios[i].Name == name {
			return &scenarios[i]
		}
	}
	return nil
}
