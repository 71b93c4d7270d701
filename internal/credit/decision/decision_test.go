// internal/credit/decision/decision_test.go
package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"origination-workers/internal/credit/scenario"
)

func sc(name string, installment float64) scenario.Scenario {
	return scenario.Scenario{Name: name, Installment: installment}
}

func TestDecide_Totality(t *testing.T) {
	tests := []struct {
		name        string
		installment float64
		capacity    float64
		approvable  bool
	}{
		{"installment below capacity", 400, 500, true},
		{"installment equals capacity", 500, 500, true},
		{"installment above capacity", 501, 500, false},
		{"zero capacity", 100, 0, false},
		{"zero installment zero capacity", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(sc("test", tt.installment), tt.capacity)
			assert.Equal(t, tt.approvable, d.Approvable)
			if tt.approvable {
				assert.Empty(t, d.Reason)
			} else {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestDecide_ReasonNamesTheShortfall(t *testing.T) {
	d := Decide(sc("test", 550.00), 500.00)
	require.False(t, d.Approvable)
	assert.Contains(t, d.Reason, "550.00")
	assert.Contains(t, d.Reason, "500.00")
	assert.Contains(t, d.Reason, "50.00")
}

func TestDecideRequest_RequestedScenarioPolicy(t *testing.T) {
	requested := sc("requested", 450)
	alternates := []scenario.Scenario{
		sc(scenario.NameStandardDownPayment, 400),
		sc(scenario.NameZeroDownPayment, 600), // fails, but advisory only
		sc(scenario.NameMaxTerm, 350),
	}

	d := DecideRequest(PolicyRequestedScenario, requested, alternates, 500)
	assert.True(t, d.Approvable)
}

func TestDecideRequest_AllScenariosPolicy(t *testing.T) {
	requested := sc("requested", 450)
	alternates := []scenario.Scenario{
		sc(scenario.NameStandardDownPayment, 400),
		sc(scenario.NameZeroDownPayment, 600),
		sc(scenario.NameMaxTerm, 350),
	}

	d := DecideRequest(PolicyAllScenarios, requested, alternates, 500)
	require.False(t, d.Approvable)
	assert.Contains(t, d.Reason, scenario.NameZeroDownPayment)
}

func TestDecideRequest_AllScenariosPassingFallsThroughToRequested(t *testing.T) {
	alternates := []scenario.Scenario{
		sc(scenario.NameStandardDownPayment, 400),
		sc(scenario.NameZeroDownPayment, 480),
	}

	// Alternates all pass but the requested scenario itself fails.
	d := DecideRequest(PolicyAllScenarios, sc("requested", 520), alternates, 500)
	assert.False(t, d.Approvable)
}

func TestPolicy_Valid(t *testing.T) {
	assert.True(t, PolicyRequestedScenario.Valid())
	assert.True(t, PolicyAllScenarios.Valid())
	assert.False(t, Policy("").Valid())
	assert.False(t, Policy("strictest").Valid())
}
