// internal/credit/decision/decision.go
// Package decision compares financing scenarios against a borrower's
// payment capacity.
package decision

import (
	"fmt"

	"origination-workers/internal/credit/scenario"
)

// Decision is the approvability verdict for one scenario or request.
type Decision struct {
	Approvable bool   `json:"approvable"`
	Reason     string `json:"reason,omitempty"`
}

// Policy selects which scenarios govern the request-level verdict. The
// external contract exposes a single boolean per request, so the
// governing set is a product decision carried in configuration.
type Policy string

const (
	// PolicyRequestedScenario: only the scenario the borrower actually
	// asked for governs; the derived alternates are advisory.
	PolicyRequestedScenario Policy = "requested-scenario"
	// PolicyAllScenarios: every generated scenario must pass.
	PolicyAllScenarios Policy = "all-scenarios"
)

// Valid reports whether p names a known policy.
func (p Policy) Valid() bool {
	return p == PolicyRequestedScenario || p == PolicyAllScenarios
}

// Decide is pure and total: every scenario/capacity pair yields exactly
// one Decision, never an error.
func Decide(sc scenario.Scenario, paymentCapacity float64) Decision {
	if sc.Installment <= paymentCapacity {
		return Decision{Approvable: true}
	}
	return Decision{
		Approvable: false,
		Reason: fmt.Sprintf(
			"periodic installment %.2f exceeds declared payment capacity %.2f by %.2f",
			sc.Installment, paymentCapacity, sc.Installment-paymentCapacity),
	}
}

// DecideRequest produces the request-level verdict. The requested
// scenario is the one built from the borrower's own amount and term;
// alternates are the generated comparison set.
func DecideRequest(policy Policy, requested scenario.Scenario, alternates []scenario.Scenario, paymentCapacity float64) Decision {
	if policy == PolicyAllScenarios {
		for _, sc := range alternates {
			if d := Decide(sc, paymentCapacity); !d.Approvable {
				return Decision{
					Approvable: false,
					Reason:     fmt.Sprintf("scenario %s: %s", sc.Name, d.Reason),
				}
			}
		}
	}
	return Decide(requested, paymentCapacity)
}
