// internal/workers/simulation/simulate-credit/models.go
package simulatecredit

import "origination-workers/internal/credit/amortize"

// Input is the stable simulation request shape consumed from the
// process variables.
type Input struct {
	RequestedAmount     float64 `json:"requestedAmount"`
	TermMonths          int     `json:"termMonths"`
	InterestRatePercent float64 `json:"interestRatePercent"`
	VehicleValue        float64 `json:"vehicleValue"`
	DownPayment         float64 `json:"downPayment"`
	PaymentCapacity     float64 `json:"paymentCapacity"`
	// MaxTermMonths overrides the configured maximum when positive.
	MaxTermMonths int `json:"maxTermMonths,omitempty"`
}

// ScenarioResult is one financing alternative in the comparison set,
// with its advisory per-scenario verdict.
type ScenarioResult struct {
	Name           string                     `json:"name"`
	DownPayment    float64                    `json:"downPayment"`
	FinancedAmount float64                    `json:"financedAmount"`
	TermMonths     int                        `json:"termMonths"`
	Installment    float64                    `json:"installment"`
	TotalInterest  float64                    `json:"totalInterest"`
	TotalPaid      float64                    `json:"totalPaid"`
	Approvable     bool                       `json:"approvable"`
	Reason         string                     `json:"reason,omitempty"`
	Schedule       []amortize.InstallmentLine `json:"schedule"`
}

// Output is the decision bundle for the request.
type Output struct {
	Scenarios       []ScenarioResult `json:"scenarios"`
	Approvable      bool             `json:"approvable"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
}
