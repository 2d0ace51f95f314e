package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ravlen/nervescope/internal/nerve"
)

func TestScoreBar(t *testing.T) {
	if got := scoreBar(0, 10); got != "["+strings.Repeat("░", 10)+"]" {
		t.Errorf("empty bar: %q", got)
	}
	if got := scoreBar(1, 10); got != "["+strings.Repeat("█", 10)+"]" {
		t.Errorf("full bar: %q", got)
	}
	if got := scoreBar(2.5, 10); got != scoreBar(1, 10) {
		t.Error("overdrive should clamp to full")
	}
	half := scoreBar(0.5, 10)
	if strings.Count(half, "█") != 5 {
		t.Errorf("half bar: %q", half)
	}
}

func TestModelTickGrowsHistory(t *testing.T) {
	m := NewModel(nerve.New(nil))
	var model tea.Model = m
	for i := 0; i < 5; i++ {
		model, _ = model.Update(TickMsg(time.Now()))
	}
	got := model.(Model)
	if len(got.history) != 5 {
		t.Errorf("history len %d, want 5", len(got.history))
	}
}

func TestModelHistoryBounded(t *testing.T) {
	m := NewModel(nerve.New(nil))
	m.history = make([]float64, historyCapacity)
	var model tea.Model = m
	model, _ = model.Update(TickMsg(time.Now()))
	if n := len(model.(Model).history); n != historyCapacity {
		t.Errorf("history len %d, want capped at %d", n, historyCapacity)
	}
}

func TestModelPauseFreezesHistory(t *testing.T) {
	m := NewModel(nerve.New(nil))
	var model tea.Model = m
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'p'}})
	model, _ = model.Update(TickMsg(time.Now()))
	if n := len(model.(Model).history); n != 0 {
		t.Errorf("paused model recorded %d samples", n)
	}
}
