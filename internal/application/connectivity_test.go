package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMonitorCheck(t *testing.T) {
	var failing bool
	m := NewMonitor(time.Minute, 50*time.Millisecond, nil,
		Probe{Name: "postgres", Check: func(context.Context) error { return nil }},
		Probe{Name: "redis", Check: func(context.Context) error {
			if failing {
				return errors.New("dial tcp: refused")
			}
			return nil
		}},
	)

	if m.IsOffline() {
		t.Fatal("should start online")
	}
	if st := m.Check(context.Background()); st.Offline {
		t.Fatalf("status = %+v", st)
	}

	failing = true
	st := m.Check(context.Background())
	if !st.Offline || len(st.Failing) != 1 || st.Failing[0] != "redis" {
		t.Fatalf("status = %+v", st)
	}
	if !m.IsOffline() {
		t.Fatal("IsOffline should follow the last round")
	}

	m.SetOffline(false)
	if m.IsOffline() {
		t.Fatal("SetOffline(false) not applied")
	}
}

func TestNilMonitorIsOnline(t *testing.T) {
	var m *Monitor
	if m.IsOffline() {
		t.Fatal("nil monitor should report online")
	}
}
