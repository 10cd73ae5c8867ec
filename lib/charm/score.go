package charm

import (
	"errors"
	"fmt"
)

// ErrInvalidScore is returned when a score outside of 0..5 points is looked up.
// It can only happen when a caller bypasses RiskFactors.
var ErrInvalidScore = errors.New("invalid CHARM score")

// MaxPoints is the highest possible CHARM score.
const MaxPoints = 5

// scoreTable maps the CHARM score in points to the predicted in-hospital mortality (%).
var scoreTable = [MaxPoints + 1]float64{0.36, 1.89, 5.79, 12.97, 23.58, 34.15}

// Lookup returns the predicted in-hospital mortality (%) for the given number of points.
func Lookup(points int) (float64, error) {
	if points < 0 || points > MaxPoints {
		return 0, fmt.Errorf("%w: %d points (expected 0-%d)", ErrInvalidScore, points, MaxPoints)
	}
	return scoreTable[points], nil
}

// Score returns the predicted in-hospital mortality (%) for the given risk factors.
func Score(factors RiskFactors) (float64, error) {
	return Lookup(factors.Count())
}

// Result is a scored set of risk factors.
type Result struct {
	Factors   RiskFactors `json:"factors" yaml:"factors"`
	Points    int         `json:"points" yaml:"points"`
	Mortality float64     `json:"mortality" yaml:"mortality"`
}

// Evaluate scores the given factors and returns the complete result.
func Evaluate(factors RiskFactors) (Result, error) {
	mortality, err := Score(factors)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Factors:   factors,
		Points:    factors.Count(),
		Mortality: mortality,
	}, nil
}
