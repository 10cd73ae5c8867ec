package charm

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFhirFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		server := newStubFHIRServer(t)
		baseURL, _ := url.Parse(server.URL + "/fhir")
		fetcher := fhirFetcher{transport: http.DefaultTransport, timeout: time.Second, maxObservations: 50}

		data, err := fetcher.Fetch(ctx, baseURL, Launch{Token: "launch-token", PatientID: "p1", FHIRBaseURL: baseURL.String()})

		require.NoError(t, err)
		assert.JSONEq(t, patientJSON, string(data.Patient))
		require.Len(t, data.Observations, 4)
		assert.Equal(t, []string{"Observation/flags", "Observation/rbc", "Observation/temp-1", "Observation/temp-2"}, data.References)
		assert.Equal(t, charm.RiskFactors{Hypothermia: true, Anemia: true, Malignancy: true}, charm.Extract(data.Components()))

		requests := server.Requests()
		require.Len(t, requests, 2)
		for _, request := range requests {
			assert.Equal(t, "Bearer launch-token", request.Authorization)
		}
		search := requests[1]
		assert.Equal(t, []string{"p1"}, search.Query["patient"])
		assert.Equal(t, []string{"chills,malignancy,789-8,788-0,8310-5"}, search.Query["code"])
		assert.Equal(t, []string{"-date"}, search.Query["_sort"])
		assert.Equal(t, []string{"50"}, search.Query["_count"])
	})
	t.Run("FHIR server returns error", func(t *testing.T) {
		server := newStubFHIRServer(t)
		server.status = http.StatusForbidden
		baseURL, _ := url.Parse(server.URL)
		fetcher := fhirFetcher{transport: http.DefaultTransport, maxObservations: 50}

		data, err := fetcher.Fetch(ctx, baseURL, Launch{Token: "expired", PatientID: "p1", FHIRBaseURL: server.URL})

		assert.ErrorContains(t, err, "FHIR request failed: read Patient")
		assert.Nil(t, data)
	})
	t.Run("unknown patient", func(t *testing.T) {
		server := newStubFHIRServer(t)
		baseURL, _ := url.Parse(server.URL)
		fetcher := fhirFetcher{transport: http.DefaultTransport, maxObservations: 50}

		_, err := fetcher.Fetch(ctx, baseURL, Launch{Token: "t", PatientID: "p2", FHIRBaseURL: server.URL})

		assert.Error(t, err)
	})
	t.Run("no token and no server credentials", func(t *testing.T) {
		fetcher := fhirFetcher{transport: http.DefaultTransport}
		baseURL, _ := url.Parse("https://fhir.example.com")

		_, err := fetcher.Fetch(ctx, baseURL, Launch{PatientID: "p1", FHIRBaseURL: baseURL.String()})

		assert.Error(t, err)
	})
	t.Run("no token, uses server credentials", func(t *testing.T) {
		server := newStubFHIRServer(t)
		baseURL, _ := url.Parse(server.URL)
		serverClient := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			r.Header.Set("Authorization", "Bearer server-token")
			return http.DefaultTransport.RoundTrip(r)
		})}
		fetcher := fhirFetcher{transport: http.DefaultTransport, serverClient: serverClient, maxObservations: 10}

		_, err := fetcher.Fetch(ctx, baseURL, Launch{PatientID: "p1", FHIRBaseURL: server.URL})

		require.NoError(t, err)
		assert.Equal(t, "Bearer server-token", server.Requests()[0].Authorization)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
