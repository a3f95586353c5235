package modern

import (
	"fmt"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
)

// Session ties one parameters set to a model and a sample source.
type Session struct {
	Params *models.PARAMETERS
	Model  *gaze.Model
	Plan   []CalStep
	Source SampleSource
}

// Connect validates p and builds a session backed by a seeded simulator.
func Connect(p *models.PARAMETERS) (*Session, error) {
	plan, err := BuildCalibrationPlan(p)
	if err != nil {
		return nil, err
	}
	return &Session{
		Params: p,
		Model:  gaze.NewModel(gaze.Config{Ridge: p.RIDGE}),
		Plan:   plan,
		Source: NewSimulator(p),
	}, nil
}

// Recalibrate discards the model's samples and runs the whole plan again.
func (s *Session) Recalibrate() error {
	if s == nil || s.Model == nil {
		return fmt.Errorf("session not connected")
	}
	s.Model.Reset()
	return RunCalibration(s.Model, s.Plan, s.Source)
}
