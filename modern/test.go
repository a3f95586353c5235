package modern

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
)

// ProbeSample builds the observation of a user looking at the screen center
// while the head sits at head. Only the head shift moves the pupil.
func ProbeSample(p *models.PARAMETERS, head r3.Vector) models.Sample {
	glint := p.GLINT.R2()
	return models.Sample{
		Pupil:  glint.Add(r2.Point{X: head.X * p.HEADGAIN, Y: head.Y * p.HEADGAIN}),
		Glint:  glint,
		Head:   head,
		Screen: r2.Point{X: 0.5, Y: 0.5},
	}
}

// DefaultProbeHead is the head position used by the demo prediction: moved up
// and to the right of the calibration center.
var DefaultProbeHead = r3.Vector{X: 0.04, Y: 0.04, Z: 0.21}

type ProbeSnapshot struct {
	Input      models.Sample
	Predicted  r2.Point
	Error      float64 // distance from the expected target
	Calibrated bool
}

// Probe predicts s with m and compares the result to s.Screen.
func Probe(m *gaze.Model, s models.Sample) ProbeSnapshot {
	pred := m.Predict(s.Pupil, s.Glint, s.Head)
	return ProbeSnapshot{
		Input:      s,
		Predicted:  pred,
		Error:      pred.Sub(s.Screen).Norm(),
		Calibrated: m.IsCalibrated(),
	}
}
