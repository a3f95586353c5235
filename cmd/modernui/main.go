package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/r3"

	"github.com/CK6170/GazeCal-go/gaze"
	"github.com/CK6170/GazeCal-go/models"
	"github.com/CK6170/GazeCal-go/modern"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenEntry screen = iota
	screenCalibration
	screenResult
)

type modeStatus int

const (
	statusIdle modeStatus = iota
	statusRunning
	statusDone
	statusError
)

// sampleDelay stands in for the time a real tracker needs to settle on a target.
const sampleDelay = 150 * time.Millisecond

type model struct {
	scr screen

	// entry
	seedInput textinput.Model
	params    *models.PARAMETERS

	// session; the gaze model is only touched from Update
	sess     *modern.Session
	lastErr  error
	infoLine string

	// calibration state
	calStepIdx int
	calStatus  modeStatus
	calRunID   int

	// result state
	probes []modern.ProbeSnapshot
	probeN int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	gridStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func initialModel(p *models.PARAMETERS) model {
	in := textinput.New()
	in.Placeholder = "Simulator seed"
	in.Focus()
	in.CharLimit = 20
	in.Width = 24
	in.SetValue(strconv.FormatInt(p.SEED, 10))
	in.CursorEnd()

	return model{
		scr:       screenEntry,
		seedInput: in,
		params:    p,
	}
}

type errMsg struct{ err error }

type calStepDoneMsg struct {
	runID  int
	idx    int
	sample models.Sample
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		switch m.scr {
		case screenEntry:
			return m.updateEntryKey(msg)
		case screenCalibration:
			return m.updateCalibrationKey(msg)
		case screenResult:
			return m.updateResultKey(msg)
		}

	case errMsg:
		m.lastErr = msg.err
		if m.scr == screenCalibration {
			m.calStatus = statusError
		}
		return m, nil

	case calStepDoneMsg:
		if msg.runID != m.calRunID || m.sess == nil {
			return m, nil
		}
		m.sess.Model.AddSample(msg.sample)
		m.calStepIdx++
		if m.calStepIdx < len(m.sess.Plan) {
			m.calStatus = statusIdle
			return m, nil
		}
		return m.finishCalibration(), nil
	}

	if m.scr == screenEntry {
		var cmd tea.Cmd
		m.seedInput, cmd = m.seedInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) finishCalibration() model {
	err := m.sess.Model.Calibrate()
	switch {
	case err == nil:
		m.calStatus = statusDone
		m.lastErr = nil
		m.infoLine = fmt.Sprintf("Calibration succeeded over %d samples.", m.sess.Model.Len())
		m.scr = screenResult
		m.probes = nil
		m.probeN = 0
	case errors.Is(err, gaze.ErrSingular):
		m.calStatus = statusError
		m.lastErr = fmt.Errorf("%w (vary gaze and head position, then retry)", err)
	default:
		m.calStatus = statusError
		m.lastErr = err
	}
	return m
}

func (m model) updateEntryKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "enter":
		raw := strings.TrimSpace(m.seedInput.Value())
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return m, func() tea.Msg { return errMsg{err: fmt.Errorf("seed %q is not an integer", raw)} }
		}
		p := *m.params
		p.SEED = seed
		sess, err := modern.Connect(&p)
		if err != nil {
			return m, func() tea.Msg { return errMsg{err: err} }
		}
		m.sess = sess
		m.lastErr = nil
		m.infoLine = fmt.Sprintf("Session ready (grid=%d seed=%d ridge=%g)", p.GRID, p.SEED, p.RIDGE)
		m.scr = screenCalibration
		m.calRunID++
		m.calStepIdx = 0
		m.calStatus = statusIdle
		return m, nil
	}

	var cmd tea.Cmd
	m.seedInput, cmd = m.seedInput.Update(k)
	return m, cmd
}

func (m model) updateCalibrationKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "b":
		m.calRunID++
		m.scr = screenEntry
		m.calStatus = statusIdle
		return m, nil
	case "r":
		if m.calStatus == statusRunning {
			return m, nil
		}
		// start over with a clean model
		m.sess.Model.Reset()
		m.calRunID++
		m.calStepIdx = 0
		m.calStatus = statusIdle
		m.lastErr = nil
		return m, nil
	case "enter":
		if m.calStatus == statusRunning || m.sess == nil {
			return m, nil
		}
		if m.calStepIdx >= len(m.sess.Plan) {
			// every step collected but the fit failed; retry the solve
			return m.finishCalibration(), nil
		}
		m.calStatus = statusRunning
		return m, m.runCalibrationStepCmd(m.calRunID, m.sess.Plan[m.calStepIdx])
	}
	return m, nil
}

func (m model) updateResultKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch k.String() {
	case "b":
		m.scr = screenEntry
		return m, nil
	case "c":
		m.sess.Model.Reset()
		m.calRunID++
		m.calStepIdx = 0
		m.calStatus = statusIdle
		m.scr = screenCalibration
		return m, nil
	case "p":
		// walk the head outward from the demo probe position
		m.probeN++
		step := 0.01 * float64(m.probeN-1)
		head := modern.DefaultProbeHead.Add(r3.Vector{X: step, Y: -step})
		snap := modern.Probe(m.sess.Model, modern.ProbeSample(m.sess.Params, head))
		m.probes = append(m.probes, snap)
		if len(m.probes) > 8 {
			m.probes = m.probes[len(m.probes)-8:]
		}
		return m, nil
	}
	return m, nil
}

func (m model) runCalibrationStepCmd(runID int, step modern.CalStep) tea.Cmd {
	src := m.sess.Source
	return tea.Tick(sampleDelay, func(time.Time) tea.Msg {
		return calStepDoneMsg{runID: runID, idx: step.Index, sample: src.Sample(step)}
	})
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Gaze Calibration") + "\n")
	b.WriteString(helpStyle.Render("Ctrl+C to quit. 'b' to go back from a mode.") + "\n\n")
	if m.infoLine != "" {
		b.WriteString(okStyle.Render(m.infoLine) + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(errStyle.Render("Error: "+m.lastErr.Error()) + "\n")
	}
	b.WriteString("\n")

	switch m.scr {
	case screenEntry:
		b.WriteString(m.viewEntry())
	case screenCalibration:
		b.WriteString(m.viewCalibration())
	case screenResult:
		b.WriteString(m.viewResult())
	}
	return b.String()
}

func (m model) viewEntry() string {
	var b strings.Builder
	b.WriteString("Seed:\n")
	b.WriteString(m.seedInput.View() + "\n\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("Press Enter to start a %dx%d calibration.", m.params.GRID, m.params.GRID)) + "\n")
	return b.String()
}

func (m model) viewCalibration() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Calibration") + "\n\n")
	if m.sess == nil {
		b.WriteString(errStyle.Render("No session.") + "\n")
		return b.String()
	}
	b.WriteString(gridStyle.Render(m.viewGrid()) + "\n\n")
	if m.calStepIdx >= len(m.sess.Plan) {
		b.WriteString(helpStyle.Render("All points collected. Enter retries the fit, r starts over.") + "\n")
		return b.String()
	}
	step := m.sess.Plan[m.calStepIdx]
	b.WriteString(step.Label + " " + step.Prompt + "\n\n")
	if m.calStatus == statusRunning {
		b.WriteString("Sampling...\n")
	} else {
		b.WriteString(helpStyle.Render("Press Enter to sample this point. r restarts, b goes back.") + "\n")
	}
	return b.String()
}

// viewGrid marks collected points with x and the current target with o.
func (m model) viewGrid() string {
	n := m.sess.Params.GRID
	var b strings.Builder
	for gy := 0; gy < n; gy++ {
		for gx := 0; gx < n; gx++ {
			i := gy*n + gx
			switch {
			case i < m.calStepIdx:
				b.WriteString(" x ")
			case i == m.calStepIdx:
				b.WriteString(" o ")
			default:
				b.WriteString(" . ")
			}
		}
		if gy < n-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var featureNames = [models.FeatureCount]string{"dx", "dy", "headX", "headY", "headZ", "bias"}

func (m model) viewResult() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Result") + "\n\n")
	wx, wy, ok := m.sess.Model.Weights()
	if !ok {
		b.WriteString(errStyle.Render("Not calibrated.") + "\n")
		return b.String()
	}
	for i, name := range featureNames {
		b.WriteString(fmt.Sprintf("  %-6s x=% .6g  y=% .6g\n", name, wx[i], wy[i]))
	}
	if rep, ok := m.sess.Model.Report(); ok {
		b.WriteString(fmt.Sprintf("\nrmse=%.3g  max=%.3g  cond(A)=%.3g\n", rep.RMSE, rep.MaxErr, rep.CondA))
	}
	if len(m.probes) > 0 {
		b.WriteString("\nProbes (looking at center):\n")
		for _, p := range m.probes {
			h := p.Input.Head
			b.WriteString(fmt.Sprintf("  head=(%.3f, %.3f, %.3f) -> (%.3f, %.3f)  err=%.3f\n",
				h.X, h.Y, h.Z, p.Predicted.X, p.Predicted.Y, p.Error))
		}
	}
	b.WriteString("\n" + helpStyle.Render("Press p to probe a prediction, c to recalibrate, b to go back.") + "\n")
	return b.String()
}

func main() {
	p := models.DefaultParameters()
	// support passing a parameters path as arg
	if len(os.Args) > 1 && strings.TrimSpace(os.Args[1]) != "" {
		loaded, err := modern.LoadParameters(os.Args[1])
		if err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		p = loaded
	}
	prog := tea.NewProgram(initialModel(p), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
