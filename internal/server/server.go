package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
	"github.com/CK6170/GazeCal-go/modern"
)

type Server struct {
	mux *http.ServeMux

	defaults *models.PARAMETERS
	store    *SessionStore

	// WebSocket hub for calibration events
	wsCal *WSHub
}

// New builds a server whose sessions start from defaults.
func New(defaults *models.PARAMETERS) *Server {
	if defaults == nil {
		defaults = models.DefaultParameters()
	}
	s := &Server{
		mux:      http.NewServeMux(),
		defaults: defaults,
		store:    NewSessionStore(),
		wsCal:    NewWSHub(),
	}

	// API
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("/api/sessions/status", s.handleStatus)
	s.mux.HandleFunc("/api/sessions/delete", s.handleDeleteSession)
	s.mux.HandleFunc("/api/samples", s.handleAddSample)
	s.mux.HandleFunc("/api/simulate", s.handleSimulate)
	s.mux.HandleFunc("/api/calibrate", s.handleCalibrate)
	s.mux.HandleFunc("/api/predict", s.handlePredict)
	s.mux.HandleFunc("/api/reset", s.handleReset)

	// WS
	s.mux.HandleFunc("/ws/calibration", s.handleWSCal)

	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// writeJSON encodes v before touching w, so a value that cannot be encoded
// (NaN or Inf from a degenerate fit) becomes a 500 with a JSON error body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode %T response: %v", v, err)
		status = http.StatusInternalServerError
		b, _ = json.Marshal(APIError{Error: "response not encodable: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}

func (s *Server) readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	b, err := io.ReadAll(io.LimitReader(r.Body, 2<<20))
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

// session resolves id or writes a 404.
func (s *Server) session(w http.ResponseWriter, id string) (*Session, bool) {
	if id == "" {
		s.writeJSON(w, 400, APIError{Error: "missing sessionId"})
		return nil, false
	}
	sess, ok := s.store.Get(id)
	if !ok {
		s.writeJSON(w, 404, APIError{Error: "session not found"})
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, 200, HealthResponse{OK: true, Timestamp: time.Now(), Sessions: s.store.Len()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req CreateSessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	p := *s.defaults
	if req.Ridge != nil {
		p.RIDGE = *req.Ridge
	}
	if req.Grid != nil {
		p.GRID = *req.Grid
	}
	if req.Jitter != nil {
		p.JITTER = *req.Jitter
	}
	sess, err := s.store.Create(&p)
	if err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	log.Printf("session %s created (grid=%d ridge=%g)", sess.ID, p.GRID, p.RIDGE)
	s.writeJSON(w, 200, SessionStatus{SessionID: sess.ID})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sess, ok := s.session(w, r.URL.Query().Get("id"))
	if !ok {
		return
	}
	s.writeJSON(w, 200, s.status(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req SessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	if !s.store.Delete(req.SessionID) {
		s.writeJSON(w, 404, APIError{Error: "session not found"})
		return
	}
	s.writeJSON(w, 200, map[string]bool{"ok": true})
}

func (s *Server) status(sess *Session) SessionStatus {
	st := SessionStatus{SessionID: sess.ID}
	sess.With(func(m *gaze.Model) {
		st.Samples = m.Len()
		st.Calibrated = m.IsCalibrated()
	})
	return st
}

func (s *Server) handleAddSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req AddSampleRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}
	sess.With(func(m *gaze.Model) {
		m.AddSample(req.Sample.Sample())
	})
	st := s.status(sess)
	s.wsCal.Broadcast(WSMessage{Type: "sampleAdded", Data: st})
	s.writeJSON(w, 200, st)
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req SimulateRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}
	p := *sess.Params
	if req.Jitter != nil {
		if *req.Jitter < 0 {
			s.writeJSON(w, 400, APIError{Error: "jitter must be >= 0"})
			return
		}
		p.JITTER = *req.Jitter
	}
	plan, err := modern.BuildCalibrationPlan(&p)
	if err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sim := &modern.Simulator{Params: &p, Rand: rand.New(rand.NewSource(req.Seed))}
	sess.With(func(m *gaze.Model) {
		for _, st := range plan {
			m.AddSample(sim.Sample(st))
		}
	})
	st := s.status(sess)
	s.wsCal.Broadcast(WSMessage{Type: "sampleAdded", Data: st})
	s.writeJSON(w, 200, st)
}

func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req SessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}

	var resp CalibrateResponse
	sess.With(func(m *gaze.Model) {
		err := m.Calibrate()
		resp.Samples = m.Len()
		if err != nil {
			resp.Error = err.Error()
			resp.Reason = modern.FailureReason(err)
			return
		}
		resp.OK = true
		wx, wy, _ := m.Weights()
		resp.WeightsX = wx[:]
		resp.WeightsY = wy[:]
		if rep, ok := m.Report(); ok {
			resp.Report = &rep
		}
	})

	if resp.OK {
		log.Printf("session %s calibrated over %d samples", sess.ID, resp.Samples)
		s.wsCal.Broadcast(WSMessage{Type: "calibrated", Data: map[string]interface{}{
			"sessionId": sess.ID,
			"samples":   resp.Samples,
		}})
	} else {
		log.Printf("session %s calibration failed: %s", sess.ID, resp.Error)
		s.wsCal.Broadcast(WSMessage{Type: "calibrationFailed", Data: map[string]interface{}{
			"sessionId": sess.ID,
			"reason":    resp.Reason,
			"error":     resp.Error,
		}})
	}
	// a failed fit is an expected outcome, not a bad request
	s.writeJSON(w, 200, resp)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req PredictRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}
	var resp PredictResponse
	sess.With(func(m *gaze.Model) {
		p := m.Predict(req.Pupil.R2(), req.Glint.R2(), req.Head.R3())
		resp = PredictResponse{X: p.X, Y: p.Y, Calibrated: m.IsCalibrated()}
	})
	s.writeJSON(w, 200, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req SessionRequest
	if err := s.readJSON(r, &req); err != nil {
		s.writeJSON(w, 400, APIError{Error: err.Error()})
		return
	}
	sess, ok := s.session(w, req.SessionID)
	if !ok {
		return
	}
	sess.With(func(m *gaze.Model) { m.Reset() })
	s.wsCal.Broadcast(WSMessage{Type: "reset", Data: map[string]string{"sessionId": sess.ID}})
	s.writeJSON(w, 200, s.status(sess))
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return nil
}
