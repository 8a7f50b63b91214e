// Package slopefit fits least-squares lines to log-log spectra.
package slopefit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fit is the least-squares line through one window's log-amplitude spectrum.
type Fit struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	RSquared  float64   `json:"rsq"`
	Residuals []float64 `json:"residuals"` // y - (slope·x + intercept), one per frequency bin
}

// FitLogLog regresses y (log10 amplitudes) on x (log10 frequencies) by
// ordinary least squares. RSquared is 1 - SSresid/SStotal with
// SStotal = (n-1)·sampleVariance(y); a zero-variance y yields RSquared NaN
// rather than an error, so degenerate windows stay visible downstream
// without aborting the surrounding sweep.
func FitLogLog(x, y []float64) (*Fit, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("length mismatch: %d x values, %d y values", len(x), len(y))
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(x))
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)

	residuals := make([]float64, len(x))
	var ssResid float64
	for i := range x {
		residuals[i] = y[i] - (alpha + beta*x[i])
		ssResid += residuals[i] * residuals[i]
	}
	ssTotal := float64(len(y)-1) * stat.Variance(y, nil)

	rsq := math.NaN()
	if ssTotal != 0 {
		rsq = 1 - ssResid/ssTotal
	}

	return &Fit{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  rsq,
		Residuals: residuals,
	}, nil
}
