package charm

import (
	"math"

	"github.com/nuts-foundation/charm-calculator/lib/coding"
)

// Thresholds of the numeric risk factors. All comparisons are strict.
const (
	AnemiaRBCThreshold       = 4.0  // RBC count (10^6/uL) below which anemia is present
	RDWThreshold             = 14.5 // RDW (%) above which RDW is elevated
	HypothermiaTempThreshold = 36.0 // body temperature (Cel) below which hypothermia is present
)

// ObservationComponent is a single coded value taken from a clinical observation.
// Integer is set for coded flags (e.g. chills), Quantity for measurements (e.g. RBC count).
type ObservationComponent struct {
	Code     string   `json:"code"`
	Integer  *int     `json:"integer,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
}

// Extract derives the risk factors from the given observation components.
// Components with unknown codes are ignored. When a code occurs more than once, the last component wins.
// Components with a missing or malformed value leave the factor untouched, so extraction never fails.
func Extract(components []ObservationComponent) RiskFactors {
	var result RiskFactors
	for _, component := range components {
		switch component.Code {
		case coding.ChillsCode:
			if flag, ok := component.flag(); ok {
				result.Chills = flag
			}
		case coding.MalignancyCode:
			if flag, ok := component.flag(); ok {
				result.Malignancy = flag
			}
		case coding.RBCCountCode:
			if value, ok := component.numeric(); ok {
				result.Anemia = value < AnemiaRBCThreshold
			}
		case coding.RDWCode:
			if value, ok := component.numeric(); ok {
				result.RDW = value > RDWThreshold
			}
		case coding.BodyTemperatureCode:
			if value, ok := component.numeric(); ok {
				result.Hypothermia = value < HypothermiaTempThreshold
			}
		}
	}
	return result
}

// flag interprets the component as a coded yes/no value, where 1 means present.
func (c ObservationComponent) flag() (bool, bool) {
	if c.Integer != nil {
		return *c.Integer == 1, true
	}
	if c.Quantity != nil && isFinite(*c.Quantity) && *c.Quantity == math.Trunc(*c.Quantity) {
		return *c.Quantity == 1, true
	}
	return false, false
}

func (c ObservationComponent) numeric() (float64, bool) {
	if c.Quantity != nil && isFinite(*c.Quantity) {
		return *c.Quantity, true
	}
	if c.Integer != nil {
		return float64(*c.Integer), true
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
