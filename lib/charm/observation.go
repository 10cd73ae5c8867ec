package charm

import (
	"encoding/json"

	"github.com/nuts-foundation/charm-calculator/lib/coding"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// ComponentsFromObservations flattens FHIR Observations into observation components, preserving order.
// The value of an Observation is paired with each of its codes, followed by its components.
// Observations that were entered in error or cancelled are skipped.
func ComponentsFromObservations(observations []fhir.Observation) []ObservationComponent {
	var result []ObservationComponent
	for _, observation := range observations {
		if !isValid(observation) {
			continue
		}
		integer, quantity := observationValue(observation.ValueInteger, observation.ValueQuantity, observation.ValueBoolean)
		if integer != nil || quantity != nil {
			for _, code := range coding.Codes(observation.Code) {
				result = append(result, ObservationComponent{Code: code, Integer: integer, Quantity: quantity})
			}
		}
		for _, component := range observation.Component {
			integer, quantity := observationValue(component.ValueInteger, component.ValueQuantity, component.ValueBoolean)
			for _, code := range coding.Codes(component.Code) {
				result = append(result, ObservationComponent{Code: code, Integer: integer, Quantity: quantity})
			}
		}
	}
	return result
}

// IsCHARMObservation returns true if the observation (or one of its components) carries a code that contributes to the score.
// Observations that were entered in error or cancelled never contribute.
func IsCHARMObservation(observation fhir.Observation) bool {
	if !isValid(observation) {
		return false
	}
	codables := []fhir.CodeableConcept{observation.Code}
	for _, component := range observation.Component {
		codables = append(codables, component.Code)
	}
	for _, code := range coding.CHARMObservationCodes {
		if coding.CodablesIncludesCode(codables, fhir.Coding{Code: &code}) {
			return true
		}
	}
	return false
}

func isValid(observation fhir.Observation) bool {
	return observation.Status != fhir.ObservationStatusEnteredInError && observation.Status != fhir.ObservationStatusCancelled
}

func observationValue(integer *int, quantity *fhir.Quantity, boolean *bool) (*int, *float64) {
	if integer != nil {
		v := *integer
		return &v, nil
	}
	if quantity != nil && quantity.Value != nil {
		if v, ok := decimal(*quantity.Value); ok {
			return nil, &v
		}
	}
	if boolean != nil {
		v := 0
		if *boolean {
			v = 1
		}
		return &v, nil
	}
	return nil, nil
}

func decimal(n json.Number) (float64, bool) {
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}
