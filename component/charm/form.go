package charm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/nuts-foundation/charm-calculator/component/charm/templates"
	"github.com/nuts-foundation/charm-calculator/lib/charm"
	"github.com/nuts-foundation/charm-calculator/lib/fhirutil"
	"github.com/nuts-foundation/charm-calculator/lib/logging"
	"github.com/rs/zerolog/log"
)

const pageTitle = "Predict In-hospital Mortality by CHARM score in Patients with Suspected Sepsis"

const referenceURL = "https://www.ncbi.nlm.nih.gov/pubmed/?term=27832977"

type factorView struct {
	Key             string
	Label           string
	Present         bool
	FromObservation bool
}

type formPage struct {
	Title        string
	ReferenceURL string
	Launch       Launch
	Factors      []factorView
	Points       int
	Mortality    string
	// PatientData is the fetched Patient resource, or the error that occurred fetching it, as indented JSON.
	PatientData string
}

func (c *Component) handleForm(httpResponse http.ResponseWriter, httpRequest *http.Request) {
	launch := LaunchFromValues(httpRequest.URL.Query())
	c.renderForm(httpResponse, httpRequest, launch, nil)
}

func (c *Component) handleFormPost(httpResponse http.ResponseWriter, httpRequest *http.Request) {
	if err := httpRequest.ParseForm(); err != nil {
		log.Ctx(httpRequest.Context()).Debug().Err(err).Msg("Failed to parse form input")
		http.Error(httpResponse, "invalid form input", http.StatusBadRequest)
		return
	}
	launch := LaunchFromValues(httpRequest.PostForm)
	c.renderForm(httpResponse, httpRequest, launch, overridesFromForm(httpRequest))
}

func overridesFromForm(httpRequest *http.Request) charm.Overrides {
	overrides := charm.Overrides{}
	for _, factor := range charm.Factors {
		if present, ok := charm.ParsePresence(httpRequest.PostForm.Get(factor.Key())); ok {
			overrides[factor] = &present
		}
	}
	return overrides
}

func (c *Component) renderForm(httpResponse http.ResponseWriter, httpRequest *http.Request, launch Launch, overrides charm.Overrides) {
	ctx := httpRequest.Context()
	extracted, patientData := c.prefill(ctx, launch)
	factors := extracted.Override(overrides)
	result, err := charm.Evaluate(factors)
	if err != nil {
		// Unreachable for RiskFactors, but don't show a made-up number if it happens anyway.
		log.Ctx(ctx).Error().Err(err).Msg("Failed to score risk factors")
		http.Error(httpResponse, "failed to calculate score", http.StatusInternalServerError)
		return
	}

	page := formPage{
		Title:        pageTitle,
		ReferenceURL: referenceURL,
		Launch:       launch,
		Points:       result.Points,
		Mortality:    strconv.FormatFloat(result.Mortality, 'f', -1, 64),
		PatientData:  patientData,
	}
	for _, factor := range charm.Factors {
		_, overridden := overrides[factor]
		page.Factors = append(page.Factors, factorView{
			Key:             factor.Key(),
			Label:           factor.Label(),
			Present:         factors.Get(factor),
			FromObservation: extracted.Get(factor) && !overridden,
		})
	}

	httpResponse.Header().Set("Content-Type", "text/html; charset=utf-8")
	httpResponse.Header().Set("Cache-Control", "no-store")
	httpResponse.Header().Set("Referrer-Policy", "no-referrer")
	httpResponse.WriteHeader(http.StatusOK)
	if err := templates.RenderWithBase(httpResponse, "charm.html", page); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to render CHARM form")
	}
}

// prefill fetches the patient's data for the launch and extracts the risk factors from it.
// Fetch failures are shown to the user and result in all factors being absent.
func (c *Component) prefill(ctx context.Context, launch Launch) (charm.RiskFactors, string) {
	baseURL, err := c.policy.validate(launch)
	if err != nil {
		if !errors.Is(err, ErrMissingLaunchContext) || !launch.IsZero() {
			log.Ctx(ctx).Info().Err(err).Msg("Not fetching patient data")
		}
		return charm.RiskFactors{}, errorJSON(err)
	}
	patientData, err := c.fetcher.Fetch(ctx, baseURL, launch)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("fhir_server", logging.RedactURL(launch.FHIRBaseURL)).Msg("Failed to fetch patient data")
		return charm.RiskFactors{}, errorJSON(err)
	}
	factors := charm.Extract(patientData.Components())
	log.Ctx(ctx).Debug().Msgf("Pre-populated %d risk factor(s) from %d observation(s)", factors.Count(), len(patientData.Observations))
	return factors, fhirutil.Indent(patientData.Patient)
}

func errorJSON(err error) string {
	data, _ := json.MarshalIndent(map[string]string{"error": err.Error()}, "", "  ")
	return string(data)
}
