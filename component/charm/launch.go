package charm

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMissingLaunchContext is returned when the page was opened without token, patient or FHIR server.
var ErrMissingLaunchContext = errors.New("missing token / pid / fhir")

// ErrUntrustedFHIRServer is returned when the FHIR server of the launch isn't allowed.
var ErrUntrustedFHIRServer = errors.New("untrusted FHIR server")

// Launch is the context an EHR passes when opening the calculator for a specific patient.
type Launch struct {
	Token       string
	PatientID   string
	FHIRBaseURL string
}

// LaunchFromValues reads the launch context from query parameters or form fields.
func LaunchFromValues(values url.Values) Launch {
	return Launch{
		Token:       strings.TrimSpace(values.Get("token")),
		PatientID:   strings.TrimSpace(values.Get("pid")),
		FHIRBaseURL: strings.TrimSpace(values.Get("fhir")),
	}
}

// IsZero returns true if no launch context was given at all, meaning the form is used for manual entry only.
func (l Launch) IsZero() bool {
	return l.Token == "" && l.PatientID == "" && l.FHIRBaseURL == ""
}

// launchPolicy decides which launches may be used to fetch patient data.
type launchPolicy struct {
	strictMode bool
	// allowedServers contains URL prefixes of trusted FHIR servers. If empty, any server is allowed.
	allowedServers []string
	// serverCredentials is true if the calculator can authenticate itself when the launch carries no token.
	serverCredentials bool
}

func (p launchPolicy) validate(launch Launch) (*url.URL, error) {
	if launch.PatientID == "" || launch.FHIRBaseURL == "" || (launch.Token == "" && !p.serverCredentials) {
		return nil, ErrMissingLaunchContext
	}
	baseURL, err := url.Parse(launch.FHIRBaseURL)
	if err != nil || baseURL.Host == "" || (baseURL.Scheme != "http" && baseURL.Scheme != "https") {
		return nil, fmt.Errorf("%w: invalid URL", ErrUntrustedFHIRServer)
	}
	if p.strictMode && baseURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: only https is allowed in strict mode", ErrUntrustedFHIRServer)
	}
	if len(p.allowedServers) == 0 {
		return baseURL, nil
	}
	normalized := strings.TrimSuffix(baseURL.String(), "/") + "/"
	for _, allowed := range p.allowedServers {
		if strings.HasPrefix(normalized, strings.TrimSuffix(allowed, "/")+"/") {
			return baseURL, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is not in the list of allowed FHIR servers", ErrUntrustedFHIRServer, baseURL.Host)
}
