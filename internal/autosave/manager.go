// Package autosave debounces draft edits per (user, category) and persists
// them with at most one save in flight per key.
package autosave

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

const (
	DefaultWindow      = 1500 * time.Millisecond
	defaultSaveTimeout = 10 * time.Second
)

var ErrShutdown = errors.New("autosave manager is shut down")

type State string

const (
	StateIdle        State = "idle"
	StatePendingSave State = "pending_save"
	StateSaving      State = "saving"
	StateSubmitting  State = "submitting"
)

type Key struct {
	UserID     uint
	CategoryID string
}

// Store persists drafts. LoadDraft returns nil, nil when no draft exists.
type Store interface {
	LoadDraft(ctx context.Context, key Key) (*nomination.Draft, error)
	SaveDraft(ctx context.Context, key Key, responses nomination.Responses, at time.Time) error
}

type Status struct {
	State       State      `json:"state"`
	Dirty       bool       `json:"dirty"`
	Loading     bool       `json:"loading"`
	LastSavedAt *time.Time `json:"lastSavedAt,omitempty"`
	LastError   string     `json:"lastError,omitempty"`
}

type Snapshot struct {
	Responses nomination.Responses
	Status    Status
}

type session struct {
	open    bool
	loading bool
	loaded  chan struct{}

	responses nomination.Responses
	dirty     bool
	version   uint64

	timer    clock.Timer
	gen      uint64
	deferred bool

	saving   bool
	saveDone chan struct{}

	committing bool
	commitDone chan struct{}

	lastSaved  time.Time
	lastErr    error
	lastActive time.Time
}

func (s *session) state() State {
	switch {
	case s.committing:
		return StateSubmitting
	case s.saving:
		return StateSaving
	case s.timer != nil || s.deferred:
		return StatePendingSave
	default:
		return StateIdle
	}
}

func (s *session) status() Status {
	st := Status{State: s.state(), Dirty: s.dirty, Loading: s.loading}
	if !s.lastSaved.IsZero() {
		t := s.lastSaved
		st.LastSavedAt = &t
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

func (s *session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.deferred = false
}

type Options struct {
	Window      time.Duration
	SaveTimeout time.Duration
	Clock       clock.WithDelayedExecution
}

type Manager struct {
	store       Store
	clock       clock.WithDelayedExecution
	window      time.Duration
	saveTimeout time.Duration
	logger      *zap.Logger

	mu       sync.Mutex
	sessions map[Key]*session
	closed   bool
}

func NewManager(store Store, opts Options, logger *zap.Logger) *Manager {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = defaultSaveTimeout
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:       store,
		clock:       opts.Clock,
		window:      opts.Window,
		saveTimeout: opts.SaveTimeout,
		logger:      logger.Named("autosave"),
		sessions:    make(map[Key]*session),
	}
}

// Open attaches a view to the session for key, loading the persisted draft
// the first time. Edits that arrive while the load runs are kept and take
// precedence over the loaded responses.
func (m *Manager) Open(ctx context.Context, key Key) (Snapshot, error) {
	m.mu.Lock()
	if err := m.waitCommitLocked(ctx, key); err != nil {
		m.mu.Unlock()
		return Snapshot{}, err
	}
	if m.closed {
		m.mu.Unlock()
		return Snapshot{}, ErrShutdown
	}
	if s, ok := m.sessions[key]; ok {
		s.open = true
		s.lastActive = m.clock.Now()
		if !s.loading {
			snap := Snapshot{Responses: s.responses.Clone(), Status: s.status()}
			m.mu.Unlock()
			return snap, nil
		}
		loaded := s.loaded
		m.mu.Unlock()
		select {
		case <-loaded:
		case <-ctx.Done():
			return Snapshot{}, ctx.Err()
		}
		return m.snapshot(key), nil
	}

	s := &session{open: true, loading: true, loaded: make(chan struct{}), lastActive: m.clock.Now()}
	m.sessions[key] = s
	m.mu.Unlock()

	draft, err := m.store.LoadDraft(ctx, key)

	m.mu.Lock()
	s.loading = false
	close(s.loaded)
	if err != nil {
		switch {
		case s.committing || m.sessions[key] != s:
		case s.dirty && s.open:
			m.scheduleLocked(key, s)
		default:
			delete(m.sessions, key)
		}
		m.mu.Unlock()
		return Snapshot{}, err
	}
	if draft != nil {
		s.lastSaved = draft.LastSavedAt
		if s.version == 0 {
			s.responses = draft.Responses.Data().Clone()
		}
	}
	switch {
	case s.committing || m.sessions[key] != s:
	case s.dirty && s.open:
		m.scheduleLocked(key, s)
	case !s.open:
		delete(m.sessions, key)
	}
	snap := Snapshot{Responses: s.responses.Clone(), Status: s.status()}
	m.mu.Unlock()
	return snap, nil
}

// Edit captures the latest responses and restarts the debounce window.
// While the key is committing the edit is held without a timer.
func (m *Manager) Edit(key Key, responses nomination.Responses) (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Status{}, ErrShutdown
	}

	s, ok := m.sessions[key]
	if !ok {
		s = &session{open: true}
		m.sessions[key] = s
	}
	s.open = true
	s.responses = responses.Clone()
	s.version++
	s.dirty = true
	s.lastActive = m.clock.Now()

	if !s.loading && !s.committing {
		m.scheduleLocked(key, s)
	}
	return s.status(), nil
}

func (m *Manager) scheduleLocked(key Key, s *session) {
	s.stopTimer()
	gen := s.gen
	// The callback may run while the clock holds its own lock.
	s.timer = m.clock.AfterFunc(m.window, func() { go m.fire(key, gen) })
}

func (m *Manager) fire(key Key, gen uint64) {
	m.mu.Lock()
	s, ok := m.sessions[key]
	if !ok || s.gen != gen || s.committing || m.closed {
		m.mu.Unlock()
		return
	}
	s.timer = nil
	if s.saving {
		s.deferred = true
		m.mu.Unlock()
		return
	}
	if !s.dirty {
		m.mu.Unlock()
		return
	}
	m.runSaves(key, s)
}

// runSaves is entered with m.mu held and returns with it released. It keeps
// saving while a firing was deferred behind the previous save.
func (m *Manager) runSaves(key Key, s *session) {
	s.saving = true
	s.saveDone = make(chan struct{})
	for {
		responses := s.responses.Clone()
		version := s.version
		m.mu.Unlock()

		at := m.clock.Now()
		ctx, cancel := context.WithTimeout(context.Background(), m.saveTimeout)
		err := m.store.SaveDraft(ctx, key, responses, at)
		cancel()

		m.mu.Lock()
		if err != nil {
			s.lastErr = err
			m.logger.Warn("draft save failed, will retry on next edit",
				zap.Uint("user_id", key.UserID),
				zap.String("category_id", key.CategoryID),
				zap.Error(err))
		} else {
			s.lastErr = nil
			s.lastSaved = at
			if s.version == version {
				s.dirty = false
			}
		}

		if !s.deferred || !s.dirty || s.committing || m.closed {
			break
		}
		s.deferred = false
	}
	s.saving = false
	s.deferred = false
	close(s.saveDone)
	s.saveDone = nil
	if !s.open && !s.committing && s.timer == nil && m.sessions[key] == s {
		delete(m.sessions, key)
	}
	m.mu.Unlock()
}

func (m *Manager) Status(key Key) (Status, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return Status{State: StateIdle}, false
	}
	return s.status(), true
}

func (m *Manager) snapshot(key Key) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return Snapshot{Status: Status{State: StateIdle}}
	}
	return Snapshot{Responses: s.responses.Clone(), Status: s.status()}
}

// Close detaches the view. A save that has not fired yet is dropped; one
// already in flight completes.
func (m *Manager) Close(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok {
		return
	}
	s.stopTimer()
	s.open = false
	if !s.saving && !s.loading && !s.committing {
		delete(m.sessions, key)
	}
}

// BeginCommit reserves key for a submission. It cancels any pending save,
// waits for an in-flight one and holds later edits until EndCommit, so no
// draft save can land while the submission is written. A second commit for
// the same key waits for the first to end.
func (m *Manager) BeginCommit(ctx context.Context, key Key) error {
	m.mu.Lock()
	if err := m.waitCommitLocked(ctx, key); err != nil {
		m.mu.Unlock()
		return err
	}
	s, ok := m.sessions[key]
	if !ok {
		s = &session{lastActive: m.clock.Now()}
		m.sessions[key] = s
	}
	s.stopTimer()
	s.committing = true
	s.commitDone = make(chan struct{})
	done := s.saveDone
	m.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			m.EndCommit(key, false)
			return ctx.Err()
		}
	}
	return nil
}

// EndCommit releases key. After a committed submission the session and any
// edits held meanwhile are dropped, since the draft is gone. Otherwise the
// session resumes and unsaved edits are scheduled again.
func (m *Manager) EndCommit(key Key, committed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	if !ok || !s.committing {
		return
	}
	s.committing = false
	close(s.commitDone)
	s.commitDone = nil

	switch {
	case committed:
		delete(m.sessions, key)
	case s.dirty && s.open && !s.loading && !m.closed:
		m.scheduleLocked(key, s)
	case !s.open && !s.loading && !s.saving:
		delete(m.sessions, key)
	}
}

// waitCommitLocked blocks, with m.mu held on entry and on return, until no
// commit is running for key.
func (m *Manager) waitCommitLocked(ctx context.Context, key Key) error {
	for {
		s, ok := m.sessions[key]
		if !ok || !s.committing {
			return nil
		}
		done := s.commitDone
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			m.mu.Lock()
			return ctx.Err()
		}
		m.mu.Lock()
	}
}

// Sweep forgets clean idle sessions whose last activity is older than idle.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.clock.Now().Add(-idle)
	n := 0
	for key, s := range m.sessions {
		if s.state() == StateIdle && !s.dirty && !s.loading && s.lastActive.Before(cutoff) {
			delete(m.sessions, key)
			n++
		}
	}
	return n
}

// Shutdown stops all timers, dropping pending saves, and waits for
// in-flight saves.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	var waits []chan struct{}
	for _, s := range m.sessions {
		s.stopTimer()
		if s.saveDone != nil {
			waits = append(waits, s.saveDone)
		}
	}
	m.mu.Unlock()

	for _, done := range waits {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
