package fhirapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nuts-foundation/charm-calculator/lib/to"
	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// statusByIssueType maps OperationOutcome issue types to HTTP status codes. Unlisted types result in 500.
var statusByIssueType = map[fhir.IssueType]int{
	fhir.IssueTypeInvalid:   http.StatusBadRequest,
	fhir.IssueTypeStructure: http.StatusBadRequest,
	fhir.IssueTypeRequired:  http.StatusBadRequest,
	fhir.IssueTypeValue:     http.StatusBadRequest,
	fhir.IssueTypeInvariant: http.StatusBadRequest,
	fhir.IssueTypeNotFound:  http.StatusNotFound,
	fhir.IssueTypeTooCostly: http.StatusUnprocessableEntity,
	fhir.IssueTypeTransient: http.StatusServiceUnavailable,
	fhir.IssueTypeLockError: http.StatusServiceUnavailable,
	fhir.IssueTypeNoStore:   http.StatusServiceUnavailable,
	fhir.IssueTypeException: http.StatusServiceUnavailable,
	fhir.IssueTypeTimeout:   http.StatusServiceUnavailable,
	fhir.IssueTypeThrottled: http.StatusServiceUnavailable,
}

// SendErrorResponse sends the error as OperationOutcome. Errors other than Error are reported
// as generic internal error, so internals don't leak to the client.
func SendErrorResponse(ctx context.Context, httpResponse http.ResponseWriter, err error) {
	var fhirError *Error
	if !errors.As(err, &fhirError) {
		log.Ctx(ctx).Error().Err(err).Msg("FHIR API internal error")
		SendResponse(ctx, httpResponse, http.StatusInternalServerError, fhir.OperationOutcome{
			Issue: []fhir.OperationOutcomeIssue{{
				Severity:    fhir.IssueSeverityError,
				Code:        fhir.IssueTypeProcessing,
				Diagnostics: to.Ptr("An internal server error occurred"),
			}},
		})
		return
	}
	statusCode, ok := statusByIssueType[fhirError.IssueType]
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	if statusCode < http.StatusInternalServerError {
		log.Ctx(ctx).Debug().Err(err).Msgf("FHIR API request rejected (status=%d)", statusCode)
	} else {
		log.Ctx(ctx).Warn().Err(err).Msgf("FHIR API request failed (status=%d)", statusCode)
	}
	SendResponse(ctx, httpResponse, statusCode, fhirError.OperationOutcome())
}

// SendResponse writes the resource as FHIR JSON with the given status.
func SendResponse(ctx context.Context, httpResponse http.ResponseWriter, httpStatus int, resource any) {
	data, err := json.MarshalIndent(resource, "", "  ")
	if err != nil {
		log.Ctx(ctx).Err(err).Msg("Failed to marshal response")
		httpStatus = http.StatusInternalServerError
		data = []byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"processing","diagnostics":"Failed to marshal response"}]}`)
	}
	httpResponse.Header().Set("Content-Type", JSONMimeType)
	httpResponse.Header().Set("Content-Length", strconv.Itoa(len(data)))
	httpResponse.WriteHeader(httpStatus)
	if _, err := httpResponse.Write(data); err != nil {
		log.Ctx(ctx).Err(err).Msg("Failed to write FHIR response")
	}
}
