package fhirutil

import (
	"net/http"

	"github.com/SanteonNL/go-fhir-client"
	"github.com/rs/zerolog/log"
)

const FHIRJSONMimeType = "application/fhir+json"

func ClientConfig() *fhirclient.Config {
	config := fhirclient.DefaultConfig()
	config.DefaultOptions = []fhirclient.Option{
		fhirclient.RequestHeaders(map[string][]string{
			"Accept":        {FHIRJSONMimeType},
			"Cache-Control": {"no-cache"},
		}),
	}
	config.Non2xxStatusHandler = func(response *http.Response, responseBody []byte) {
		// Don't log the request URL's query, it may contain patient identifiers.
		log.Debug().Msgf("Non-2xx status code from FHIR server (%s %s%s, status=%d), content: %s", response.Request.Method, response.Request.URL.Host, response.Request.URL.Path, response.StatusCode, string(responseBody))
	}
	return &config
}
