package charm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/nuts-foundation/charm-calculator/lib/coding"
	"github.com/nuts-foundation/charm-calculator/lib/to"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// newRiskAssessment expresses a CHARM result as FHIR RiskAssessment.
// The percentage is converted to a probability (0..1) as required by prediction.probabilityDecimal.
func newRiskAssessment(result charm.Result, subject fhir.Reference, basis []fhir.Reference, now time.Time) fhir.RiskAssessment {
	probability := json.Number(strconv.FormatFloat(result.Mortality/100, 'f', 4, 64))
	method := fhir.CodeableConcept{
		Coding: []fhir.Coding{{
			System:  to.Ptr(coding.CHARMMethodSystem),
			Code:    to.Ptr(coding.CHARMMethodCode),
			Display: to.Ptr("CHARM score"),
		}},
		Text: to.Ptr("CHARM score (Chills, Hypothermia, Anemia, RDW, Malignancy)"),
	}
	return fhir.RiskAssessment{
		Id:                 to.Ptr(uuid.NewString()),
		Status:             fhir.ObservationStatusFinal,
		Method:             &method,
		Subject:            subject,
		OccurrenceDateTime: to.Ptr(now.UTC().Format(time.RFC3339)),
		Basis:              basis,
		Prediction: []fhir.RiskAssessmentPrediction{{
			Outcome:            &fhir.CodeableConcept{Text: to.Ptr("In-hospital mortality")},
			ProbabilityDecimal: &probability,
		}},
		Note: []fhir.Annotation{{
			Text: fmt.Sprintf("CHARM score: %d of %d points, predicted in-hospital mortality %s%%", result.Points, charm.MaxPoints, strconv.FormatFloat(result.Mortality, 'f', -1, 64)),
		}},
	}
}
