// Package gaze fits a linear map from pupil/glint offsets and head position
// to screen coordinates.
//
// A Model is not safe for concurrent use. Hosts that share one across
// goroutines must guard it with their own lock.
package gaze

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/matrix"
	"github.com/CK6170/GazeCal-go/models"
)

var (
	// ErrInsufficientSamples means fewer than models.FeatureCount samples were collected.
	ErrInsufficientSamples = errors.New("not enough calibration samples")
	// ErrSingular means the samples do not span the feature space.
	ErrSingular = matrix.ErrSingular
)

// Config tunes the fit. The zero value is plain least squares.
type Config struct {
	// Ridge is added to the diagonal of the normal matrix before solving.
	Ridge float64
}

// Model accumulates samples and, once calibrated, predicts screen points.
type Model struct {
	cfg        Config
	samples    []models.Sample
	weightsX   matrix.Vec
	weightsY   matrix.Vec
	calibrated bool
	report     Report
}

// NewModel returns an empty, uncalibrated model.
func NewModel(cfg Config) *Model {
	return &Model{cfg: cfg}
}

// AddSample appends s. Any previous calibration is no longer valid.
func (m *Model) AddSample(s models.Sample) {
	m.samples = append(m.samples, s)
	m.calibrated = false
}

// Calibrate fits both screen axes over every sample collected so far.
// On failure the model is left uncalibrated and the previous weights are kept
// but not served.
func (m *Model) Calibrate() error {
	m.calibrated = false
	if len(m.samples) < models.FeatureCount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientSamples, len(m.samples), models.FeatureCount)
	}

	ne := buildNormalEquations(m.samples)
	a := ne.a.AddRidge(m.cfg.Ridge)

	wX, err := matrix.Solve(a, ne.bX)
	if err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	wY, err := matrix.Solve(a, ne.bY)
	if err != nil {
		return fmt.Errorf("y axis: %w", err)
	}

	m.weightsX = wX
	m.weightsY = wY
	m.report = buildReport(m.samples, a, wX, wY)
	m.calibrated = true
	return nil
}

// Predict maps an observation to a screen point. An uncalibrated model
// returns the origin.
func (m *Model) Predict(pupil, glint r2.Point, head r3.Vector) r2.Point {
	if !m.calibrated {
		return r2.Point{}
	}
	f := models.Features(pupil, glint, head)
	return r2.Point{X: matrix.Dot(m.weightsX, f), Y: matrix.Dot(m.weightsY, f)}
}

// IsCalibrated reports whether Predict is serving fitted weights.
func (m *Model) IsCalibrated() bool { return m.calibrated }

// Len returns the number of collected samples.
func (m *Model) Len() int { return len(m.samples) }

// Samples returns a copy of the collected samples.
func (m *Model) Samples() []models.Sample {
	out := make([]models.Sample, len(m.samples))
	copy(out, m.samples)
	return out
}

// Weights returns the fitted coefficients in feature order. ok is false when
// the model is not calibrated.
func (m *Model) Weights() (x, y matrix.Vec, ok bool) {
	if !m.calibrated {
		return matrix.Vec{}, matrix.Vec{}, false
	}
	return m.weightsX, m.weightsY, true
}

// Report returns fit diagnostics from the last successful calibration.
func (m *Model) Report() (Report, bool) {
	if !m.calibrated {
		return Report{}, false
	}
	return m.report, true
}

// Reset drops all samples and weights.
func (m *Model) Reset() {
	*m = Model{cfg: m.cfg}
}

type normalEquations struct {
	a      matrix.Mat
	bX, bY matrix.Vec
}

// buildNormalEquations accumulates xᵗx and xᵗy for both axes in one pass.
func buildNormalEquations(samples []models.Sample) normalEquations {
	var ne normalEquations
	for _, s := range samples {
		f := s.Features()
		for row := 0; row < models.FeatureCount; row++ {
			ne.bX[row] += f[row] * s.Screen.X
			ne.bY[row] += f[row] * s.Screen.Y
			for col := 0; col < models.FeatureCount; col++ {
				ne.a[row][col] += f[row] * f[col]
			}
		}
	}
	return ne
}
