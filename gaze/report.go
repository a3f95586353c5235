package gaze

import (
	"math"

	"github.com/CK6170/GazeCal-go/matrix"
	"github.com/CK6170/GazeCal-go/models"
)

// Report summarizes how well the last calibration fits its own samples.
type Report struct {
	Samples int     `json:"samples"`
	RSSX    float64 `json:"rss_x"`
	RSSY    float64 `json:"rss_y"`
	RMSE    float64 `json:"rmse"`    // euclidean, screen units
	MaxErr  float64 `json:"max_err"` // worst single sample, screen units
	DetA    float64 `json:"det_A"`   // determinant of the solved normal matrix
	CondA   float64 `json:"cond_A"`  // 2-norm condition number of the same
}

func buildReport(samples []models.Sample, a matrix.Mat, wX, wY matrix.Vec) Report {
	r := Report{
		Samples: len(samples),
		DetA:    matrix.Det(a),
		CondA:   matrix.Cond(a),
	}
	if math.IsInf(r.CondA, 1) {
		r.CondA = math.MaxFloat64
	}
	for _, s := range samples {
		f := s.Features()
		ex := matrix.Dot(wX, f) - s.Screen.X
		ey := matrix.Dot(wY, f) - s.Screen.Y
		r.RSSX += ex * ex
		r.RSSY += ey * ey
		if e := math.Hypot(ex, ey); e > r.MaxErr {
			r.MaxErr = e
		}
	}
	if len(samples) > 0 {
		r.RMSE = math.Sqrt((r.RSSX + r.RSSY) / float64(len(samples)))
	}
	return r
}
