package charm

import (
	"context"
	"net/url"
)

// StubFetcher returns fixed patient data, or an error.
type StubFetcher struct {
	Data  *PatientData
	Error error
	// Launches records the launches for which data was fetched.
	Launches []Launch
}

func (s *StubFetcher) Fetch(_ context.Context, _ *url.URL, launch Launch) (*PatientData, error) {
	s.Launches = append(s.Launches, launch)
	if s.Error != nil {
		return nil, s.Error
	}
	return s.Data, nil
}
