package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CK6170/GazeCal-go/models"
)

func press(t *testing.T, m model, k tea.KeyMsg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return mm, cmd
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWalkCalibrationPlan(t *testing.T) {
	m := initialModel(models.DefaultParameters())
	m, _ = press(t, m, key("enter"))
	if m.scr != screenCalibration || m.sess == nil {
		t.Fatalf("expected calibration screen, got %v (err %v)", m.scr, m.lastErr)
	}

	for i := range m.sess.Plan {
		var cmd tea.Cmd
		m, cmd = press(t, m, key("enter"))
		if cmd == nil || m.calStatus != statusRunning {
			t.Fatalf("step %d: expected a sampling command", i)
		}
		// deliver the sample without waiting on the tick
		st := m.sess.Plan[i]
		next, _ := m.Update(calStepDoneMsg{runID: m.calRunID, idx: i, sample: m.sess.Source.Sample(st)})
		m = next.(model)
	}

	if m.scr != screenResult || !m.sess.Model.IsCalibrated() {
		t.Fatalf("expected calibrated result screen, got %v (err %v)", m.scr, m.lastErr)
	}
	if !strings.Contains(m.View(), "bias") {
		t.Fatal("result view should list the weights")
	}

	m, _ = press(t, m, key("p"))
	if len(m.probes) != 1 || !m.probes[0].Calibrated {
		t.Fatalf("expected one calibrated probe, got %+v", m.probes)
	}
}

func TestStaleStepIgnored(t *testing.T) {
	m := initialModel(models.DefaultParameters())
	m, _ = press(t, m, key("enter"))
	old := m.calRunID
	m, _ = press(t, m, key("r"))

	next, _ := m.Update(calStepDoneMsg{runID: old, sample: m.sess.Source.Sample(m.sess.Plan[0])})
	m = next.(model)
	if m.sess.Model.Len() != 0 || m.calStepIdx != 0 {
		t.Fatal("sample from a previous run was accepted")
	}
}

func TestBadSeed(t *testing.T) {
	m := initialModel(models.DefaultParameters())
	m.seedInput.SetValue("abc")
	m, cmd := press(t, m, key("enter"))
	if m.scr != screenEntry || cmd == nil {
		t.Fatal("expected to stay on entry with an error command")
	}
	next, _ := m.Update(cmd())
	if next.(model).lastErr == nil {
		t.Fatal("expected error to be recorded")
	}
}
