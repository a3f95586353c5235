package models

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/matrix"
)

// FeatureCount is the length of a gaze feature vector.
const FeatureCount = matrix.Dim

// Sample is one calibration observation: what the camera saw and where the
// user was looking.
type Sample struct {
	Pupil  r2.Point  // pupil center, pixels
	Glint  r2.Point  // corneal reflection, pixels
	Head   r3.Vector // head position, caller units
	Screen r2.Point  // target on screen
}

// Features builds [dx, dy, headX, headY, headZ, 1] where d = pupil - glint.
func Features(pupil, glint r2.Point, head r3.Vector) matrix.Vec {
	d := pupil.Sub(glint)
	return matrix.Vec{d.X, d.Y, head.X, head.Y, head.Z, 1}
}

// Features returns the feature vector of the sample's observation.
func (s Sample) Features() matrix.Vec {
	return Features(s.Pupil, s.Glint, s.Head)
}
