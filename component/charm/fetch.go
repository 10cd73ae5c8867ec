package charm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	fhirclient "github.com/SanteonNL/go-fhir-client"
	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/nuts-foundation/charm-calculator/lib/coding"
	"github.com/nuts-foundation/charm-calculator/lib/fhirutil"
	"github.com/nuts-foundation/charm-calculator/lib/httpauth"
	"github.com/rs/zerolog/log"
	"github.com/zorgbijjou/golang-fhir-models/fhir-models/fhir"
)

// PatientData is what was fetched from the FHIR server for a launch.
type PatientData struct {
	// Patient is the Patient resource as returned by the FHIR server.
	Patient json.RawMessage
	// Observations contains the observations relevant to the score, oldest first.
	Observations []fhir.Observation
	// References contains the literal references of Observations, in the same order.
	References []string
}

// Components returns the observation components to extract risk factors from.
func (d PatientData) Components() []charm.ObservationComponent {
	return charm.ComponentsFromObservations(d.Observations)
}

// Fetcher retrieves the patient data needed to pre-populate the risk factors.
type Fetcher interface {
	Fetch(ctx context.Context, baseURL *url.URL, launch Launch) (*PatientData, error)
}

var _ Fetcher = (*fhirFetcher)(nil)

type fhirFetcher struct {
	// transport is used for all requests made with the launch's bearer token.
	transport http.RoundTripper
	// serverClient authenticates with the calculator's own credentials, used when the launch has no token. Might be nil.
	serverClient    *http.Client
	timeout         time.Duration
	maxObservations int
}

func (f fhirFetcher) httpClient(launch Launch) (*http.Client, error) {
	if launch.Token == "" && f.serverClient != nil {
		return f.serverClient, nil
	}
	return httpauth.NewBearerTokenHTTPClient(launch.Token, f.transport)
}

func (f fhirFetcher) Fetch(ctx context.Context, baseURL *url.URL, launch Launch) (*PatientData, error) {
	httpClient, err := f.httpClient(launch)
	if err != nil {
		return nil, err
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}
	client := fhirclient.New(baseURL, httpClient, fhirutil.ClientConfig())

	result := &PatientData{}
	if err := client.ReadWithContext(ctx, "Patient/"+url.PathEscape(launch.PatientID), &result.Patient); err != nil {
		return nil, fmt.Errorf("FHIR request failed: read Patient: %w", err)
	}

	// Newest first, so the page holds the most recent values if there are more than fit.
	query := url.Values{
		"patient": {launch.PatientID},
		"code":    {strings.Join(coding.CHARMObservationCodes, ",")},
		"_sort":   {"-date"},
		"_count":  {strconv.Itoa(f.maxObservations)},
	}
	var searchSet fhir.Bundle
	if err := client.SearchWithContext(ctx, "Observation", query, &searchSet); err != nil {
		return nil, fmt.Errorf("FHIR request failed: search Observations: %w", err)
	}
	if fhirutil.HasNextLink(searchSet) {
		log.Ctx(ctx).Warn().Msgf("FHIR server returned more than %d observations, only the most recent are used", f.maxObservations)
	}
	observations, infos, err := fhirutil.ResourcesInBundle[fhir.Observation](searchSet, "Observation")
	if err != nil {
		return nil, fmt.Errorf("FHIR request failed: invalid Observation search result: %w", err)
	}
	// Extraction lets the last value win, so the most recent observation must come last.
	slices.Reverse(observations)
	slices.Reverse(infos)
	for i, observation := range observations {
		if !charm.IsCHARMObservation(observation) {
			continue
		}
		result.Observations = append(result.Observations, observation)
		result.References = append(result.References, infos[i].Reference())
	}
	return result, nil
}
