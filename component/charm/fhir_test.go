package charm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const patientJSON = `{"resourceType":"Patient","id":"p1","name":[{"family":"Chen","given":["Mei"]}]}`

// observationsSearchSet is ordered newest first, as requested with _sort=-date.
const observationsSearchSet = `{
  "resourceType": "Bundle",
  "type": "searchset",
  "entry": [
    {"resource": {"resourceType": "Observation", "id": "temp-2", "status": "final", "subject": {"reference": "Patient/p1"},
      "code": {"coding": [{"system": "http://loinc.org", "code": "8310-5"}]}, "valueQuantity": {"value": 35.4, "unit": "Cel"}}},
    {"resource": {"resourceType": "Observation", "id": "temp-1", "status": "final", "subject": {"reference": "Patient/p1"},
      "code": {"coding": [{"system": "http://loinc.org", "code": "8310-5"}]}, "valueQuantity": {"value": 37.0, "unit": "Cel"}}},
    {"resource": {"resourceType": "Observation", "id": "rbc", "status": "final", "subject": {"reference": "Patient/p1"},
      "code": {"coding": [{"system": "http://loinc.org", "code": "789-8"}]}, "valueQuantity": {"value": 3.2}}},
    {"resource": {"resourceType": "Observation", "id": "glucose", "status": "final", "subject": {"reference": "Patient/p1"},
      "code": {"coding": [{"system": "http://loinc.org", "code": "2345-7"}]}, "valueQuantity": {"value": 5.2}}},
    {"resource": {"resourceType": "Observation", "id": "flags", "status": "final", "subject": {"reference": "Patient/p1"},
      "code": {"text": "CHARM history"},
      "component": [
        {"code": {"coding": [{"system": "urn:charm:factor", "code": "malignancy"}]}, "valueInteger": 1}
      ]}}
  ]
}`

type fhirRequest struct {
	Path          string
	Authorization string
	Query         map[string][]string
}

// stubFHIRServer serves a Patient and an Observation searchset, recording all requests.
type stubFHIRServer struct {
	*httptest.Server
	mux      sync.Mutex
	requests []fhirRequest
	status   int
}

func newStubFHIRServer(t *testing.T) *stubFHIRServer {
	s := &stubFHIRServer{status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *stubFHIRServer) handle(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	s.mux.Lock()
	s.requests = append(s.requests, fhirRequest{Path: r.URL.Path, Authorization: r.Header.Get("Authorization"), Query: r.Form})
	status := s.status
	s.mux.Unlock()

	w.Header().Set("Content-Type", "application/fhir+json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resourceType": "OperationOutcome",
			"issue":        []map[string]string{{"severity": "error", "code": "forbidden"}},
		})
		return
	}
	switch {
	case strings.HasSuffix(r.URL.Path, "/Patient/p1"):
		_, _ = w.Write([]byte(patientJSON))
	case strings.HasSuffix(r.URL.Path, "/Observation") || strings.HasSuffix(r.URL.Path, "/Observation/_search"):
		_, _ = w.Write([]byte(observationsSearchSet))
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found"}]}`))
	}
}

func (s *stubFHIRServer) Requests() []fhirRequest {
	s.mux.Lock()
	defer s.mux.Unlock()
	return append([]fhirRequest(nil), s.requests...)
}
