package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/slhttpd/internal/discovery"
)

func staticScan(devices []*discovery.Device, err error) ScanFunc {
	return func(context.Context) ([]*discovery.Device, error) {
		return devices, err
	}
}

func TestScanModelCompletes(t *testing.T) {
	found := []*discovery.Device{{Instance: "sensor", IP: "192.168.4.16", Port: 80}}
	m := NewScanModel(context.Background(), 5*time.Second, staticScan(found, nil))

	if m.Init() == nil {
		t.Fatal("Init() returned nil command")
	}

	msg := m.runScan()
	updated, cmd := m.Update(msg)
	sm := updated.(ScanModel)

	if !sm.Done || sm.Canceled {
		t.Errorf("Done = %v, Canceled = %v, want true, false", sm.Done, sm.Canceled)
	}
	if len(sm.Devices) != 1 || sm.Devices[0].Instance != "sensor" {
		t.Errorf("Devices = %v", sm.Devices)
	}
	if cmd == nil {
		t.Fatal("Update(scanCompleteMsg) returned nil command, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Update(scanCompleteMsg) command = %T, want tea.QuitMsg", cmd())
	}
	if v := sm.View(); v != "" {
		t.Errorf("View() after completion = %q, want empty", v)
	}
}

func TestScanModelError(t *testing.T) {
	wantErr := errors.New("no multicast interface")
	m := NewScanModel(context.Background(), time.Second, staticScan(nil, wantErr))

	updated, _ := m.Update(m.runScan())
	if err := updated.(ScanModel).Err; !errors.Is(err, wantErr) {
		t.Errorf("Err = %v, want %v", err, wantErr)
	}
}

func TestScanModelCancelKey(t *testing.T) {
	m := NewScanModel(context.Background(), time.Second, staticScan(nil, nil))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !updated.(ScanModel).Canceled {
		t.Error("Canceled = false after q")
	}
	if cmd == nil {
		t.Fatal("cancel key returned nil command, want quit")
	}

	updated, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if updated.(ScanModel).Canceled || cmd != nil {
		t.Error("unbound key changed state")
	}
}

func TestScanModelView(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	m := NewScanModel(context.Background(), 4*time.Second, staticScan(nil, nil))
	m.now = func() time.Time { return now }

	updated, _ := m.Update(spinner.TickMsg{ID: m.Spinner.ID()})
	now = start.Add(time.Second)
	updated, _ = updated.(ScanModel).Update(spinner.TickMsg{ID: m.Spinner.ID()})
	sm := updated.(ScanModel)

	if sm.Elapsed != time.Second {
		t.Errorf("Elapsed = %v, want 1s", sm.Elapsed)
	}
	if f := sm.fraction(); f != 0.25 {
		t.Errorf("fraction() = %v, want 0.25", f)
	}

	view := sm.View()
	for _, want := range []string{"Scanning for HTTP servers (timeout: 4s)", "stop scan"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestScanModelFractionClamped(t *testing.T) {
	m := NewScanModel(context.Background(), time.Second, staticScan(nil, nil))
	m.Elapsed = 3 * time.Second
	if f := m.fraction(); f != 1 {
		t.Errorf("fraction() = %v, want 1", f)
	}

	m.Timeout = 0
	if f := m.fraction(); f != 0 {
		t.Errorf("fraction() with no timeout = %v, want 0", f)
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true")
	}
}
