// Package models holds the shared data types: calibration samples and the
// JSON parameters file.
package models

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Point is the JSON form of a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector3 is the JSON form of a 3-D position.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point) R2() r2.Point { return r2.Point{X: p.X, Y: p.Y} }

func (v Vector3) R3() r3.Vector { return r3.Vector{X: v.X, Y: v.Y, Z: v.Z} }

func PointOf(p r2.Point) Point { return Point{X: p.X, Y: p.Y} }

func Vector3Of(v r3.Vector) Vector3 { return Vector3{X: v.X, Y: v.Y, Z: v.Z} }

// SampleJSON is the wire form of a Sample.
type SampleJSON struct {
	Pupil  Point   `json:"pupil"`
	Glint  Point   `json:"glint"`
	Head   Vector3 `json:"head"`
	Screen Point   `json:"screen"`
}

func (s SampleJSON) Sample() Sample {
	return Sample{
		Pupil:  s.Pupil.R2(),
		Glint:  s.Glint.R2(),
		Head:   s.Head.R3(),
		Screen: s.Screen.R2(),
	}
}

func SampleJSONOf(s Sample) SampleJSON {
	return SampleJSON{
		Pupil:  PointOf(s.Pupil),
		Glint:  PointOf(s.Glint),
		Head:   Vector3Of(s.Head),
		Screen: PointOf(s.Screen),
	}
}

// PARAMETERS is the calibration run configuration loaded from JSON.
type PARAMETERS struct {
	GRID     int     `json:"GRID"`     // targets per screen axis
	JITTER   float64 `json:"JITTER"`   // simulated head jitter amplitude
	SEED     int64   `json:"SEED"`     // simulator seed
	RIDGE    float64 `json:"RIDGE"`    // diagonal regularization, 0 = plain least squares
	GLINT    *Point  `json:"GLINT"`    // fixed glint position, pixels
	SCALE    *Point  `json:"SCALE"`    // pupil offset per grid step, pixels
	HEADGAIN float64 `json:"HEADGAIN"` // pupil shift per unit of head motion
	ADDR     string  `json:"ADDR"`     // server listen address
	DEBUG    bool    `json:"DEBUG"`
}

// DefaultParameters returns the 9-point demo setup.
func DefaultParameters() *PARAMETERS {
	return &PARAMETERS{
		GRID:     3,
		JITTER:   0.08,
		SEED:     1,
		GLINT:    &Point{X: 320, Y: 240},
		SCALE:    &Point{X: 20, Y: 16},
		HEADGAIN: 30,
		ADDR:     "127.0.0.1:8080",
	}
}
