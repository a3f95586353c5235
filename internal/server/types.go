package server

import (
	"time"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
)

type APIError struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	OK        bool      `json:"ok"`
	Timestamp time.Time `json:"timestamp"`
	Sessions  int       `json:"sessions"`
}

// CreateSessionRequest overrides the server defaults for one session.
type CreateSessionRequest struct {
	Ridge  *float64 `json:"ridge,omitempty"`
	Grid   *int     `json:"grid,omitempty"`
	Jitter *float64 `json:"jitter,omitempty"`
}

type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

type SessionStatus struct {
	SessionID  string `json:"sessionId"`
	Samples    int    `json:"samples"`
	Calibrated bool   `json:"calibrated"`
}

type AddSampleRequest struct {
	SessionID string            `json:"sessionId"`
	Sample    models.SampleJSON `json:"sample"`
}

type SimulateRequest struct {
	SessionID string   `json:"sessionId"`
	Seed      int64    `json:"seed"`
	Jitter    *float64 `json:"jitter,omitempty"`
}

type CalibrateResponse struct {
	OK       bool         `json:"ok"`
	Error    string       `json:"error,omitempty"`
	Reason   string       `json:"reason,omitempty"`
	Samples  int          `json:"samples"`
	WeightsX []float64    `json:"weightsX,omitempty"`
	WeightsY []float64    `json:"weightsY,omitempty"`
	Report   *gaze.Report `json:"report,omitempty"`
}

// WSHello is sent once to every new WebSocket client.
type WSHello struct {
	Sessions int            `json:"sessions"`
	Session  *SessionStatus `json:"session,omitempty"`
}

type PredictRequest struct {
	SessionID string         `json:"sessionId"`
	Pupil     models.Point   `json:"pupil"`
	Glint     models.Point   `json:"glint"`
	Head      models.Vector3 `json:"head"`
}

type PredictResponse struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Calibrated bool    `json:"calibrated"`
}
