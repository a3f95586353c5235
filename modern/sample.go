package modern

import (
	"math/rand"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/models"
)

// Simulator synthesizes dark-pupil observations for a calibration plan.
//
// The ideal pupil-glint vector is linear in the grid position, the head drifts
// with the target and shifts the pupil by HEADGAIN, and every head coordinate
// gets uniform jitter in [-JITTER/2, JITTER/2] from the injected source.
type Simulator struct {
	Params *models.PARAMETERS
	Rand   *rand.Rand
}

// NewSimulator seeds its own source from p.SEED.
func NewSimulator(p *models.PARAMETERS) *Simulator {
	return &Simulator{Params: p, Rand: rand.New(rand.NewSource(p.SEED))}
}

// Sample implements SampleSource.
func (s *Simulator) Sample(step CalStep) models.Sample {
	p := s.Params
	c := float64(p.GRID-1) / 2
	ox := float64(step.GX) - c
	oy := float64(step.GY) - c

	ideal := r2.Point{X: ox * p.SCALE.X, Y: oy * p.SCALE.Y}
	head := r3.Vector{X: 0.05 * ox, Y: 0.05 * oy, Z: 0.2 + 0.01*float64(step.GX+step.GY)}
	observed := ideal.Add(r2.Point{X: head.X * p.HEADGAIN, Y: head.Y * p.HEADGAIN})

	glint := p.GLINT.R2()
	return models.Sample{
		Pupil:  glint.Add(observed),
		Glint:  glint,
		Head:   head.Add(s.jitter()),
		Screen: step.Target,
	}
}

func (s *Simulator) jitter() r3.Vector {
	j := s.Params.JITTER
	if j == 0 || s.Rand == nil {
		return r3.Vector{}
	}
	return r3.Vector{
		X: j*0.5 - j*s.Rand.Float64(),
		Y: j*0.5 - j*s.Rand.Float64(),
		Z: j*0.5 - j*s.Rand.Float64(),
	}
}
