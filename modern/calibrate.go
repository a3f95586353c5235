package modern

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
)

type CalStep struct {
	Index  int // 0..GRID*GRID-1, row-major
	GX, GY int
	Target r2.Point // normalized screen coordinate
	Label  string   // e.g. [0001]
	Prompt string
}

// BuildCalibrationPlan lays out GRID x GRID targets covering the unit square.
func BuildCalibrationPlan(p *models.PARAMETERS) ([]CalStep, error) {
	if err := ValidateParameters(p); err != nil {
		return nil, err
	}
	n := p.GRID
	span := float64(n - 1)
	steps := make([]CalStep, 0, n*n)
	for gy := 0; gy < n; gy++ {
		for gx := 0; gx < n; gx++ {
			i := gy*n + gx
			target := r2.Point{X: float64(gx) / span, Y: float64(gy) / span}
			steps = append(steps, CalStep{
				Index:  i,
				GX:     gx,
				GY:     gy,
				Target: target,
				Label:  fmt.Sprintf("[%04d]", i+1),
				Prompt: fmt.Sprintf("Look at the target at (%.2f, %.2f), then press Enter.", target.X, target.Y),
			})
		}
	}
	return steps, nil
}

// SampleSource produces one observation per calibration step.
type SampleSource interface {
	Sample(step CalStep) models.Sample
}

// RunCalibration feeds one sample per step into m and calibrates.
func RunCalibration(m *gaze.Model, steps []CalStep, src SampleSource) error {
	if m == nil {
		return fmt.Errorf("model nil")
	}
	for _, st := range steps {
		m.AddSample(src.Sample(st))
	}
	return m.Calibrate()
}

// FailureReason maps a calibration error to a short machine-readable code.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gaze.ErrInsufficientSamples):
		return "insufficient_samples"
	case errors.Is(err, gaze.ErrSingular):
		return "singular"
	default:
		return "unknown"
	}
}
