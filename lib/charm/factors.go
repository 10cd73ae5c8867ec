// Package charm implements the CHARM score (Chills, Hypothermia, Anemia, RDW, Malignancy),
// which predicts in-hospital mortality of patients with suspected sepsis.
// See https://www.ncbi.nlm.nih.gov/pubmed/?term=27832977
package charm

import (
	"fmt"
	"strings"
)

// Factor identifies one of the five CHARM risk factors.
type Factor int

const (
	Chills Factor = iota
	Hypothermia
	Anemia
	RDW
	Malignancy
)

// Factors lists all risk factors in display order.
var Factors = []Factor{Chills, Hypothermia, Anemia, RDW, Malignancy}

var factorKeys = [...]string{"chills", "hypothermia", "anemia", "rdw", "malignancy"}

var factorLabels = [...]string{
	"noChills (absence of Chills)",
	"Hypothermia (temperature < 36 degrees Celsius)",
	"Anemia (RBC counts < 4 million per uL)",
	"RDW (RDW > 14.5%)",
	"Malignancy (History of malignancy)",
}

// Key returns the form and JSON key of the factor.
func (f Factor) Key() string {
	if f < Chills || f > Malignancy {
		return fmt.Sprintf("factor(%d)", int(f))
	}
	return factorKeys[f]
}

// Label returns the human-readable description shown next to the factor on the form.
func (f Factor) Label() string {
	if f < Chills || f > Malignancy {
		return f.Key()
	}
	return factorLabels[f]
}

func (f Factor) String() string {
	return f.Key()
}

// ParseFactor returns the factor for the given key, e.g. "rdw".
func ParseFactor(key string) (Factor, bool) {
	for i, k := range factorKeys {
		if strings.EqualFold(k, key) {
			return Factor(i), true
		}
	}
	return 0, false
}

// RiskFactors holds the presence of each CHARM risk factor. The zero value means all factors are absent.
type RiskFactors struct {
	Chills      bool `json:"chills" yaml:"chills"`
	Hypothermia bool `json:"hypothermia" yaml:"hypothermia"`
	Anemia      bool `json:"anemia" yaml:"anemia"`
	RDW         bool `json:"rdw" yaml:"rdw"`
	Malignancy  bool `json:"malignancy" yaml:"malignancy"`
}

// Get returns whether the given factor is present.
func (r RiskFactors) Get(f Factor) bool {
	switch f {
	case Chills:
		return r.Chills
	case Hypothermia:
		return r.Hypothermia
	case Anemia:
		return r.Anemia
	case RDW:
		return r.RDW
	case Malignancy:
		return r.Malignancy
	}
	return false
}

// Set returns a copy of r with the given factor set to present.
func (r RiskFactors) Set(f Factor, present bool) RiskFactors {
	switch f {
	case Chills:
		r.Chills = present
	case Hypothermia:
		r.Hypothermia = present
	case Anemia:
		r.Anemia = present
	case RDW:
		r.RDW = present
	case Malignancy:
		r.Malignancy = present
	}
	return r
}

// Count returns the number of present factors, which is the CHARM score in points.
func (r RiskFactors) Count() int {
	n := 0
	for _, f := range Factors {
		if r.Get(f) {
			n++
		}
	}
	return n
}

// Overrides holds factor values that were explicitly entered by a user.
// A nil entry means the user didn't enter a value for that factor.
type Overrides map[Factor]*bool

// Override returns a copy of r in which every entered value in o replaces the value in r.
// User-entered values always win over values derived from observations.
func (r RiskFactors) Override(o Overrides) RiskFactors {
	for f, present := range o {
		if present != nil {
			r = r.Set(f, *present)
		}
	}
	return r
}

// ParsePresence parses the Yes/No answers of the form. Anything that isn't a recognized answer is
// reported as not ok, so the caller can decide to leave the factor untouched.
func ParsePresence(value string) (present bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1":
		return true, true
	case "no", "false", "0":
		return false, true
	}
	return false, false
}
