package charm

import (
	"math"
	"testing"

	"github.com/nuts-foundation/charm-calculator/lib/to"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func integer(code string, v int) ObservationComponent {
	return ObservationComponent{Code: code, Integer: to.Ptr(v)}
}

func quantity(code string, v float64) ObservationComponent {
	return ObservationComponent{Code: code, Quantity: to.Ptr(v)}
}

func TestExtract(t *testing.T) {
	testCases := []struct {
		name       string
		components []ObservationComponent
		expected   RiskFactors
	}{
		{name: "no components", components: nil, expected: RiskFactors{}},
		{name: "chills", components: []ObservationComponent{integer("chills", 1)}, expected: RiskFactors{Chills: true}},
		{name: "no chills", components: []ObservationComponent{integer("chills", 0)}, expected: RiskFactors{}},
		{name: "malignancy", components: []ObservationComponent{integer("malignancy", 1)}, expected: RiskFactors{Malignancy: true}},
		{name: "malignancy coded as 2", components: []ObservationComponent{integer("malignancy", 2)}, expected: RiskFactors{}},
		{name: "RBC below threshold", components: []ObservationComponent{quantity("789-8", 3.9)}, expected: RiskFactors{Anemia: true}},
		{name: "RBC at threshold", components: []ObservationComponent{quantity("789-8", 4.0)}, expected: RiskFactors{}},
		{name: "RDW at threshold", components: []ObservationComponent{quantity("788-0", 14.5)}, expected: RiskFactors{}},
		{name: "RDW above threshold", components: []ObservationComponent{quantity("788-0", 14.6)}, expected: RiskFactors{RDW: true}},
		{name: "temperature at threshold", components: []ObservationComponent{quantity("8310-5", 36.0)}, expected: RiskFactors{}},
		{name: "temperature below threshold", components: []ObservationComponent{quantity("8310-5", 35.9)}, expected: RiskFactors{Hypothermia: true}},
		{name: "temperature as integer", components: []ObservationComponent{integer("8310-5", 35)}, expected: RiskFactors{Hypothermia: true}},
		{name: "chills as quantity", components: []ObservationComponent{quantity("chills", 1)}, expected: RiskFactors{Chills: true}},
		{name: "chills as fractional quantity", components: []ObservationComponent{quantity("chills", 0.5)}, expected: RiskFactors{}},
		{name: "unknown code", components: []ObservationComponent{integer("fever", 1), quantity("2345-7", 1)}, expected: RiskFactors{}},
		{name: "missing value", components: []ObservationComponent{{Code: "789-8"}, {Code: "chills"}}, expected: RiskFactors{}},
		{name: "NaN value", components: []ObservationComponent{quantity("789-8", math.NaN())}, expected: RiskFactors{}},
		{
			name:       "duplicate code, last wins",
			components: []ObservationComponent{integer("chills", 0), integer("chills", 1)},
			expected:   RiskFactors{Chills: true},
		},
		{
			name:       "duplicate code, last wins over present",
			components: []ObservationComponent{quantity("788-0", 20), quantity("788-0", 13)},
			expected:   RiskFactors{},
		},
		{
			name:       "malformed value keeps previous value",
			components: []ObservationComponent{quantity("789-8", 3.0), {Code: "789-8"}},
			expected:   RiskFactors{Anemia: true},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.components))
		})
	}
}

func TestExtract_AllFactorsPresent(t *testing.T) {
	components := []ObservationComponent{
		integer("chills", 1),
		integer("malignancy", 1),
		quantity("789-8", 3.5),
		quantity("788-0", 20),
		quantity("8310-5", 35),
	}

	mortality, err := Score(Extract(components))

	require.NoError(t, err)
	assert.Equal(t, 34.15, mortality)
}
