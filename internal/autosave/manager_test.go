package autosave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linskybing/nominate-go/internal/domain/nomination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	clocktesting "k8s.io/utils/clock/testing"
)

const window = 1500 * time.Millisecond

var start = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type savedDraft struct {
	key       Key
	responses nomination.Responses
	at        time.Time
}

type fakeStore struct {
	mu          sync.Mutex
	draft       *nomination.Draft
	loadErr     error
	saveErr     error
	loadGate    chan struct{}
	saveGate    chan struct{}
	attempts    int
	saves       []savedDraft
	inFlight    int
	maxInFlight int
}

func (f *fakeStore) LoadDraft(ctx context.Context, key Key) (*nomination.Draft, error) {
	if f.loadGate != nil {
		select {
		case <-f.loadGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft, f.loadErr
}

func (f *fakeStore) SaveDraft(ctx context.Context, key Key, responses nomination.Responses, at time.Time) error {
	f.mu.Lock()
	f.attempts++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate := f.saveGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, savedDraft{key: key, responses: responses, at: at})
	return nil
}

func (f *fakeStore) savedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakeStore) attemptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeStore) lastSave() savedDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves[len(f.saves)-1]
}

func newTestManager(t *testing.T, store *fakeStore) (*Manager, *clocktesting.FakeClock) {
	t.Helper()
	fc := clocktesting.NewFakeClock(start)
	m := NewManager(store, Options{Window: window, Clock: fc}, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, m.Shutdown(ctx))
	})
	return m, fc
}

func answers(v string) nomination.Responses {
	return nomination.Responses{"q1": nomination.Text(v)}
}

func (m *Manager) deferredFor(key Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return ok && s.deferred
}

func TestEdit_CoalescesRapidEdits(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 1, CategoryID: "obstetrician_of_the_year"}

	st, err := m.Edit(key, answers("Dr"))
	require.NoError(t, err)
	assert.Equal(t, StatePendingSave, st.State)
	assert.True(t, st.Dirty)

	fc.Step(500 * time.Millisecond)
	_, err = m.Edit(key, answers("Dr. Singh"))
	require.NoError(t, err)

	fc.Step(1499 * time.Millisecond)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	fc.Step(time.Millisecond)
	require.Eventually(t, func() bool { return store.savedCount() == 1 }, time.Second, 5*time.Millisecond)

	saved := store.lastSave()
	assert.Equal(t, "Dr. Singh", saved.responses["q1"].Text)
	assert.False(t, saved.at.Before(start.Add(2000*time.Millisecond)))

	require.Eventually(t, func() bool {
		st, _ := m.Status(key)
		return st.State == StateIdle && !st.Dirty
	}, time.Second, 5*time.Millisecond)
	st, _ = m.Status(key)
	require.NotNil(t, st.LastSavedAt)
	assert.Equal(t, saved.at, *st.LastSavedAt)
	assert.Equal(t, 1, store.attemptCount())
}

func TestEdit_SingleFlightDefersFiring(t *testing.T) {
	store := &fakeStore{saveGate: make(chan struct{})}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 1, CategoryID: "cat"}

	_, err := m.Edit(key, answers("first"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool {
		st, _ := m.Status(key)
		return st.State == StateSaving
	}, time.Second, 5*time.Millisecond)

	_, err = m.Edit(key, answers("second"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool { return m.deferredFor(key) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, store.attemptCount())

	close(store.saveGate)
	require.Eventually(t, func() bool { return store.savedCount() == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "second", store.lastSave().responses["q1"].Text)
	assert.Equal(t, 1, store.maxInFlight)
}

func TestEdit_FailedSaveKeepsDirty(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("permission denied")}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 2, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool {
		st, _ := m.Status(key)
		return store.attemptCount() == 1 && st.State == StateIdle
	}, time.Second, 5*time.Millisecond)

	st, _ := m.Status(key)
	assert.True(t, st.Dirty)
	assert.Contains(t, st.LastError, "permission denied")
	assert.Nil(t, st.LastSavedAt)
	assert.False(t, fc.HasWaiters())

	store.mu.Lock()
	store.saveErr = nil
	store.mu.Unlock()

	_, err = m.Edit(key, answers("ab"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool {
		st, _ := m.Status(key)
		return store.savedCount() == 1 && !st.Dirty
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ab", store.lastSave().responses["q1"].Text)
}

func TestOpen_LoadsDraftWithoutSaving(t *testing.T) {
	savedAt := start.Add(-time.Hour)
	store := &fakeStore{draft: &nomination.Draft{
		UserID:      3,
		CategoryID:  "cat",
		Responses:   datatypes.NewJSONType(answers("persisted")),
		LastSavedAt: savedAt,
	}}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 3, CategoryID: "cat"}

	snap, err := m.Open(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "persisted", snap.Responses["q1"].Text)
	assert.Equal(t, StateIdle, snap.Status.State)
	require.NotNil(t, snap.Status.LastSavedAt)
	assert.Equal(t, savedAt, *snap.Status.LastSavedAt)

	assert.False(t, fc.HasWaiters())
	fc.Step(2 * window)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestOpen_EditsDuringLoadWaitForLoad(t *testing.T) {
	store := &fakeStore{
		loadGate: make(chan struct{}),
		draft:    &nomination.Draft{Responses: datatypes.NewJSONType(answers("persisted"))},
	}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 4, CategoryID: "cat"}

	opened := make(chan Snapshot, 1)
	go func() {
		snap, err := m.Open(context.Background(), key)
		assert.NoError(t, err)
		opened <- snap
	}()
	require.Eventually(t, func() bool {
		st, ok := m.Status(key)
		return ok && st.Loading
	}, time.Second, 5*time.Millisecond)

	st, err := m.Edit(key, answers("typed"))
	require.NoError(t, err)
	assert.True(t, st.Loading)
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, fc.HasWaiters())

	close(store.loadGate)
	snap := <-opened
	assert.Equal(t, "typed", snap.Responses["q1"].Text)
	assert.True(t, fc.HasWaiters())

	fc.Step(window)
	require.Eventually(t, func() bool { return store.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "typed", store.lastSave().responses["q1"].Text)
}

func TestOpen_LoadError(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("unavailable")}
	m, _ := newTestManager(t, store)
	key := Key{UserID: 5, CategoryID: "cat"}

	_, err := m.Open(context.Background(), key)
	require.Error(t, err)
	_, ok := m.Status(key)
	assert.False(t, ok)
}

func TestClose_DropsPendingSave(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 6, CategoryID: "cat"}

	_, err := m.Edit(key, answers("unsaved"))
	require.NoError(t, err)
	m.Close(key)

	assert.False(t, fc.HasWaiters())
	fc.Step(window)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	_, ok := m.Status(key)
	assert.False(t, ok)
}

func TestBeginCommit_WaitsForInFlightSave(t *testing.T) {
	store := &fakeStore{saveGate: make(chan struct{})}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 7, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool { return store.attemptCount() == 1 }, time.Second, 5*time.Millisecond)

	begun := make(chan error, 1)
	go func() { begun <- m.BeginCommit(context.Background(), key) }()

	select {
	case <-begun:
		t.Fatal("commit began while a save was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.saveGate)
	require.NoError(t, <-begun)
	st, _ := m.Status(key)
	assert.Equal(t, StateSubmitting, st.State)

	m.EndCommit(key, true)
	_, ok := m.Status(key)
	assert.False(t, ok)
	assert.Equal(t, 1, store.savedCount())
}

func TestBeginCommit_HoldsEditsUntilCommitted(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 8, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	require.NoError(t, m.BeginCommit(context.Background(), key))

	st, err := m.Edit(key, answers("ab"))
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, st.State)
	assert.True(t, st.Dirty)
	assert.False(t, fc.HasWaiters())

	fc.Step(2 * window)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)

	m.EndCommit(key, true)
	assert.False(t, fc.HasWaiters())
	fc.Step(window)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
	_, ok := m.Status(key)
	assert.False(t, ok)
}

func TestEndCommit_FailureReschedulesUnsavedEdits(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 12, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	require.NoError(t, m.BeginCommit(context.Background(), key))
	_, err = m.Edit(key, answers("ab"))
	require.NoError(t, err)

	m.EndCommit(key, false)
	st, _ := m.Status(key)
	assert.Equal(t, StatePendingSave, st.State)
	assert.True(t, st.Dirty)

	fc.Step(window)
	require.Eventually(t, func() bool { return store.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "ab", store.lastSave().responses["q1"].Text)
}

func TestEndCommit_FailureWithoutSessionForgetsKey(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 13, CategoryID: "cat"}

	require.NoError(t, m.BeginCommit(context.Background(), key))
	m.EndCommit(key, false)

	_, ok := m.Status(key)
	assert.False(t, ok)
	assert.False(t, fc.HasWaiters())
}

func TestClose_DuringCommitKeepsHold(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 14, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	require.NoError(t, m.BeginCommit(context.Background(), key))
	m.Close(key)

	_, err = m.Edit(key, answers("ab"))
	require.NoError(t, err)
	assert.False(t, fc.HasWaiters())

	m.EndCommit(key, true)
	fc.Step(window)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestOpen_WaitsForCommit(t *testing.T) {
	store := &fakeStore{}
	m, _ := newTestManager(t, store)
	key := Key{UserID: 15, CategoryID: "cat"}

	require.NoError(t, m.BeginCommit(context.Background(), key))

	opened := make(chan error, 1)
	go func() {
		_, err := m.Open(context.Background(), key)
		opened <- err
	}()
	select {
	case <-opened:
		t.Fatal("open returned while a commit was running")
	case <-time.After(50 * time.Millisecond):
	}

	m.EndCommit(key, true)
	require.NoError(t, <-opened)
	st, ok := m.Status(key)
	assert.True(t, ok)
	assert.Equal(t, StateIdle, st.State)
}

func TestBeginCommit_ContextExpires(t *testing.T) {
	store := &fakeStore{saveGate: make(chan struct{})}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 9, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	fc.Step(window)
	require.Eventually(t, func() bool { return store.attemptCount() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.BeginCommit(ctx, key), context.DeadlineExceeded)

	st, _ := m.Status(key)
	assert.NotEqual(t, StateSubmitting, st.State)
	close(store.saveGate)
}

func TestSweep_ForgetsIdleSessions(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)

	_, err := m.Open(context.Background(), Key{UserID: 10, CategoryID: "idle"})
	require.NoError(t, err)
	_, err = m.Edit(Key{UserID: 10, CategoryID: "dirty"}, answers("a"))
	require.NoError(t, err)

	fc.SetTime(start.Add(time.Minute))
	require.Eventually(t, func() bool { return store.savedCount() == 1 }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		st, _ := m.Status(Key{UserID: 10, CategoryID: "dirty"})
		return st.State == StateIdle && !st.Dirty
	}, time.Second, 5*time.Millisecond)

	fc.SetTime(start.Add(time.Hour))
	assert.Equal(t, 2, m.Sweep(30*time.Minute))
	_, ok := m.Status(Key{UserID: 10, CategoryID: "idle"})
	assert.False(t, ok)
}

func TestShutdown_RejectsNewWork(t *testing.T) {
	store := &fakeStore{}
	m, fc := newTestManager(t, store)
	key := Key{UserID: 11, CategoryID: "cat"}

	_, err := m.Edit(key, answers("a"))
	require.NoError(t, err)
	require.NoError(t, m.Shutdown(context.Background()))

	fc.Step(window)
	_, err = m.Edit(key, answers("b"))
	assert.ErrorIs(t, err, ErrShutdown)
	_, err = m.Open(context.Background(), key)
	assert.ErrorIs(t, err, ErrShutdown)
	require.Never(t, func() bool { return store.attemptCount() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}
