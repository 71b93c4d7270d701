// internal/workers/simulation/simulate-credit/validation.go
package simulatecredit

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"origination-workers/internal/common/errors"
)

// inputSchema is the external simulation request contract.
var inputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"requestedAmount":     map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
		"termMonths":          map[string]interface{}{"type": "integer", "minimum": 1},
		"interestRatePercent": map[string]interface{}{"type": "number", "minimum": 0, "maximum": 100},
		"vehicleValue":        map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
		"downPayment":         map[string]interface{}{"type": "number", "minimum": 0},
		"paymentCapacity":     map[string]interface{}{"type": "number", "minimum": 0},
		"maxTermMonths":       map[string]interface{}{"type": "integer", "minimum": 1},
	},
	"required": []string{
		"requestedAmount", "termMonths", "interestRatePercent",
		"vehicleValue", "paymentCapacity",
	},
}

// validateInput checks the raw job variables against the request
// schema before any numeric work happens.
func validateInput(raw map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(inputSchema)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewInvalidInputError("request", err.Error())
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewInvalidInputError("request", strings.Join(errs, "; "))
	}
	return nil
}
