package intakesession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dentalpm/dentalpm/internal/domain/treatment"
	"github.com/dentalpm/dentalpm/internal/intake"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("intake session not found")
	// ErrSubmitInFlight rejects a second submit while the first is on the wire.
	ErrSubmitInFlight = errors.New("submission already in progress")
)

const sweepInterval = time.Minute

// Session is one operator's intake workflow held server-side. All access goes
// through Do so that the single-operator form never sees concurrent mutation.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	wf         *intake.Workflow
	lastActive time.Time
	submitting bool
}

// Do runs fn with the session locked. Every handler mutation funnels through
// here.
func (s *Session) Do(fn func(wf *intake.Workflow) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
	return fn(s.wf)
}

// Submit forwards to the workflow with single-flight protection: the session
// lock is not held during the network call, so a concurrent submit is refused
// rather than queued.
func (s *Session) Submit(ctx context.Context) (*treatment.Treatment, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	s.submitting = true
	s.lastActive = time.Now()
	wf := s.wf
	s.mu.Unlock()

	t, err := wf.Submit(ctx)

	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()
	return t, err
}

// Manager owns the live sessions and expires idle ones.
type Manager struct {
	log zerolog.Logger
	api intake.Collaborator
	ttl time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(log zerolog.Logger, api intake.Collaborator, ttl time.Duration) *Manager {
	return &Manager{
		log:      log,
		api:      api,
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new-intake session.
func (m *Manager) Create(ctx context.Context) *Session {
	return m.register(intake.New(ctx, m.log, m.api))
}

// CreateForEdit starts a session pre-populated from an existing treatment.
func (m *Manager) CreateForEdit(ctx context.Context, treatmentID uuid.UUID) *Session {
	return m.register(intake.NewForEdit(ctx, m.log, m.api, treatmentID))
}

func (m *Manager) register(wf *intake.Workflow) *Session {
	s := &Session{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		wf:         wf,
		lastActive: time.Now(),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	m.log.Info().Str("session_id", s.ID.String()).Bool("edit", wf.IsEdit()).Msg("intake session started")
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete discards a session and its form. Used for operator cancellation and
// after successful submission.
func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run sweeps idle sessions until the context is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastActive.Before(cutoff) && !s.submitting
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			m.log.Info().Str("session_id", id.String()).Msg("intake session expired")
		}
	}
}
