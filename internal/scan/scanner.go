// Package scan tracks scanner sessions for the mobile QR flow. A session
// walks idle → starting → scanning → scanned; error is reachable while the
// camera is starting. Only the first decode of a session counts, a fixed
// settle delay lets the client paint the scanned state before resolution,
// and a per-user monotonic navigation counter discards results that arrive
// after that user has moved on to another page.
package scan

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session states.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateScanning State = "scanning"
	StateScanned  State = "scanned"
	StateError    State = "error"
)

// Camera error categories and their user-facing reasons.
type ErrorCategory string

const (
	ErrPermissionDenied ErrorCategory = "permission_denied"
	ErrNoDevice         ErrorCategory = "no_device"
	ErrDeviceBusy       ErrorCategory = "device_busy"
	ErrOther            ErrorCategory = "other"
)

// Reason maps a camera error category to a human-readable message.
func (c ErrorCategory) Reason() string {
	switch c {
	case ErrPermissionDenied:
		return "camera permission denied"
	case ErrNoDevice:
		return "no camera device found"
	case ErrDeviceBusy:
		return "camera is in use by another application"
	default:
		return "camera failed to start"
	}
}

var (
	ErrNotFound       = errors.New("scan: session not found")
	ErrBadTransition  = errors.New("scan: invalid state transition")
	ErrAlreadyScanned = errors.New("scan: decode already consumed")
	ErrStale          = errors.New("scan: result discarded, session superseded")
)

// Result is a resolved decode. Token is the navigation counter value
// captured when the session was armed.
type Result struct {
	SessionID string
	Text      string
	Token     uint64
}

// Snapshot is a read-only view of a session for status endpoints.
type Snapshot struct {
	ID      string `json:"id"`
	State   State  `json:"state"`
	Token   uint64 `json:"token"`
	Scanned bool   `json:"scanned"`
	Reason  string `json:"reason,omitempty"`
}

type session struct {
	id      string
	owner   uint64 // staff ID whose navigation counter gates this session
	state   State
	token   uint64 // owner's navigation counter at Start
	epoch   uint64 // bumped by Stop to cancel a pending settle
	scanned bool   // first-decode latch
	reason  string
	started time.Time
}

// Manager owns every live scanner session plus a navigation counter per
// staff member, so one user changing pages never discards another user's
// armed session. All state lives behind one mutex; the settle wait happens
// outside it.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*session
	counters map[uint64]uint64 // staff ID -> navigation counter
	settle   time.Duration
}

// DefaultSettle is the pause between a decode and its resolution.
const DefaultSettle = 350 * time.Millisecond

// Stale sessions are pruned lazily on Start.
const sessionTTL = 10 * time.Minute

// NewManager returns a Manager with the given settle delay; settle <= 0
// selects DefaultSettle.
func NewManager(settle time.Duration) *Manager {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Manager{
		sessions: make(map[string]*session),
		counters: make(map[uint64]uint64),
		settle:   settle,
	}
}

// Start arms a new scanner session in the starting state and captures the
// owning staff member's current navigation token.
func (m *Manager) Start(owner uint64) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	s := &session{
		id:      uuid.NewString(),
		owner:   owner,
		state:   StateStarting,
		token:   m.counters[owner],
		started: time.Now(),
	}
	m.sessions[s.id] = s
	return snapshot(s)
}

// Attach marks the camera stream as attached and the decoder armed.
func (m *Manager) Attach(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if s.state != StateStarting {
		return Snapshot{}, ErrBadTransition
	}
	s.state = StateScanning
	return snapshot(s), nil
}

// Decode consumes a decoded payload. The first decode of a session wins and
// moves it to scanned; later decodes return ErrAlreadyScanned without any
// other effect. After the settle delay the captured token is compared
// against the owner's current navigation counter and a stale result is
// discarded with ErrStale. Stopping the session during the settle also
// discards it.
func (m *Manager) Decode(ctx context.Context, id, text string) (Result, error) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return Result{}, ErrNotFound
	}
	if s.scanned {
		m.mu.Unlock()
		return Result{}, ErrAlreadyScanned
	}
	if s.state != StateScanning {
		m.mu.Unlock()
		return Result{}, ErrBadTransition
	}
	s.scanned = true
	s.state = StateScanned
	owner := s.owner
	token := s.token
	epoch := s.epoch
	m.mu.Unlock()

	select {
	case <-time.After(m.settle):
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.sessions[id]; !ok || cur.epoch != epoch {
		return Result{}, ErrStale
	}
	if token != m.counters[owner] {
		return Result{}, ErrStale
	}
	return Result{SessionID: id, Text: text, Token: token}, nil
}

// Fail records a camera failure while the session was starting.
func (m *Manager) Fail(id string, cat ErrorCategory) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	if s.state != StateStarting {
		return Snapshot{}, ErrBadTransition
	}
	s.state = StateError
	s.reason = cat.Reason()
	return snapshot(s), nil
}

// Stop resets a session to idle: the first-decode latch is cleared and any
// decode still waiting out its settle delay is discarded.
func (m *Manager) Stop(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	s.state = StateIdle
	s.scanned = false
	s.reason = ""
	s.epoch++
	return snapshot(s), nil
}

// Navigate increments the navigation counter of one staff member and
// returns the new value. That member's results captured under an older
// value resolve as stale; other members' sessions are untouched.
func (m *Manager) Navigate(owner uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[owner]++
	return m.counters[owner]
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return snapshot(s), nil
}

func (m *Manager) pruneLocked() {
	cutoff := time.Now().Add(-sessionTTL)
	for id, s := range m.sessions {
		if s.started.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}

func snapshot(s *session) Snapshot {
	return Snapshot{ID: s.id, State: s.state, Token: s.token, Scanned: s.scanned, Reason: s.reason}
}
