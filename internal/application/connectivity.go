package application

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/cryptopal/pkg/helpers"
)

// OfflineChecker reports whether the backing services are reachable.
type OfflineChecker interface {
	IsOffline() bool
}

// Probe checks one dependency.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ConnectivityStatus is the last probe round.
type ConnectivityStatus struct {
	Offline   bool      `json:"offline"`
	Failing   []string  `json:"failing,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Monitor probes dependencies periodically and flips into offline mode
// when any of them fails. Safe for concurrent use.
type Monitor struct {
	probes   []Probe
	interval time.Duration
	timeout  time.Duration
	logger   *logrus.Logger

	mu     sync.RWMutex
	status ConnectivityStatus
}

func NewMonitor(interval, timeout time.Duration, logger *logrus.Logger, probes ...Probe) *Monitor {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Monitor{probes: probes, interval: interval, timeout: timeout, logger: logger}
}

// IsOffline reports the result of the last probe round (false before the first).
func (m *Monitor) IsOffline() bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Offline
}

// Status returns a copy of the last probe round.
func (m *Monitor) Status() ConnectivityStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := m.status
	st.Failing = append([]string(nil), m.status.Failing...)
	return st
}

// SetOffline overrides the state until the next probe round.
func (m *Monitor) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Offline = offline
	m.status.CheckedAt = time.Now()
}

// Check runs every probe once and records the result.
func (m *Monitor) Check(ctx context.Context) ConnectivityStatus {
	var failing []string
	for _, p := range m.probes {
		c, cancel := context.WithTimeout(ctx, m.timeout)
		err := p.Check(c)
		cancel()
		if err != nil {
			failing = append(failing, p.Name)
			m.logger.WithError(err).WithField("probe", p.Name).Debug("connectivity probe failed")
		}
	}

	m.mu.Lock()
	was := m.status.Offline
	m.status = ConnectivityStatus{Offline: len(failing) > 0, Failing: failing, CheckedAt: time.Now()}
	st := m.status
	m.mu.Unlock()

	if st.Offline != was {
		if st.Offline {
			m.logger.WithField("failing", failing).Warn("backing services unreachable, entering offline mode")
		} else {
			m.logger.Info("backing services reachable again")
		}
	}
	return st
}

// Run probes immediately and then every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}
