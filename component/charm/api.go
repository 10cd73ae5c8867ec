package charm

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/nuts-foundation/charm-calculator/lib/fhirapi"
	"github.com/nuts-foundation/charm-calculator/lib/fhirutil"
	"github.com/nuts-foundation/charm-calculator/lib/to"
	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

const maxScoreRequestSize = 4096

// handleScore scores manually entered risk factors, given as JSON object of booleans.
func (c *Component) handleScore(httpResponse http.ResponseWriter, httpRequest *http.Request) {
	decoder := json.NewDecoder(io.LimitReader(httpRequest.Body, maxScoreRequestSize))
	decoder.DisallowUnknownFields()
	var factors charm.RiskFactors
	if err := decoder.Decode(&factors); err != nil {
		sendJSON(httpResponse, http.StatusBadRequest, map[string]string{"error": "invalid risk factors: " + err.Error()})
		return
	}
	result, err := charm.Evaluate(factors)
	if err != nil {
		log.Ctx(httpRequest.Context()).Error().Err(err).Msg("Failed to score risk factors")
		sendJSON(httpResponse, http.StatusInternalServerError, map[string]string{"error": "failed to calculate score"})
		return
	}
	sendJSON(httpResponse, http.StatusOK, result)
}

func sendJSON(httpResponse http.ResponseWriter, status int, body any) {
	httpResponse.Header().Set("Content-Type", "application/json")
	httpResponse.WriteHeader(status)
	_ = json.NewEncoder(httpResponse).Encode(body)
}

// handleEvaluate derives the risk factors from a Bundle of Observations and returns the outcome as RiskAssessment.
// The subject is taken from the "subject" query parameter, or else from the first Observation that has one.
func (c *Component) handleEvaluate(httpResponse http.ResponseWriter, httpRequest *http.Request) {
	ctx := httpRequest.Context()
	fhirRequest, err := fhirapi.ReadRequest[fhir.Bundle](httpRequest)
	if err != nil {
		fhirapi.SendErrorResponse(ctx, httpResponse, err)
		return
	}
	if len(fhirRequest.Resource.Entry) > c.config.MaxBundleEntries {
		fhirapi.SendErrorResponse(ctx, httpResponse, fhirapi.UnprocessableError("Bundle contains too many entries", nil))
		return
	}
	observations, infos, err := fhirutil.ResourcesInBundle[fhir.Observation](fhirRequest.Resource, "Observation")
	if err != nil {
		fhirapi.SendErrorResponse(ctx, httpResponse, fhirapi.BadRequestError("Bundle contains an invalid Observation", err))
		return
	}

	subject, err := evaluationSubject(httpRequest.URL.Query().Get("subject"), observations)
	if err != nil {
		fhirapi.SendErrorResponse(ctx, httpResponse, err)
		return
	}
	var basis []fhir.Reference
	for i, observation := range observations {
		if ref := infos[i].Reference(); ref != "" && charm.IsCHARMObservation(observation) {
			basis = append(basis, fhir.Reference{Reference: to.Ptr(ref)})
		}
	}

	result, err := charm.Evaluate(charm.Extract(charm.ComponentsFromObservations(observations)))
	if err != nil {
		fhirapi.SendErrorResponse(ctx, httpResponse, err)
		return
	}
	log.Ctx(ctx).Debug().Msgf("Evaluated CHARM score of %s from %d observation(s): %d point(s)", to.Value(subject.Reference), len(observations), result.Points)
	fhirapi.SendResponse(ctx, httpResponse, http.StatusOK, newRiskAssessment(result, *subject, basis, time.Now()))
}

func evaluationSubject(explicit string, observations []fhir.Observation) (*fhir.Reference, error) {
	if explicit != "" {
		return &fhir.Reference{Reference: to.Ptr(explicit)}, nil
	}
	for _, observation := range observations {
		if observation.Subject != nil && (observation.Subject.Reference != nil || observation.Subject.Identifier != nil) {
			return observation.Subject, nil
		}
	}
	return nil, fhirapi.BadRequestError("subject of the RiskAssessment can't be determined, specify the 'subject' query parameter", errors.New("no Observation has a subject"))
}
