package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/HerbHall/toolhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(ttl, testutil.Logger())
	m.now = clock.Now
	return m, clock
}

func TestManager_CreateAndGet(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)

	created := m.Create("u1")
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)

	got, err := m.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, 1, m.Len())
}

func TestManager_UniqueIDs(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	a := m.Create("u1")
	b := m.Create("u1")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestManager_UnknownSession(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)

	_, err := m.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, _, err = m.Query("missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.True(t, errors.Is(m.Delete("missing"), ErrNotFound))
}

func TestManager_Update(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	id := m.Create("u1").ID

	snap, err := m.Update(id, func(s *State) {
		s.SetCategory("Video")
		s.Expand()
	})
	require.NoError(t, err)
	assert.Equal(t, "Video", snap.Selector)
	assert.Equal(t, []string{"Video"}, snap.Expanded)

	userID, q, err := m.Query(id)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "Video", q.Selector)
	assert.True(t, q.Expanded.Has("Video"))
}

func TestManager_Delete(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	id := m.Create("u1").ID

	require.NoError(t, m.Delete(id))
	_, err := m.Get(id)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestManager_SweepExpiresIdleSessions(t *testing.T) {
	m, clock := newTestManager(t, 10*time.Minute)

	idle := m.Create("u1").ID
	clock.Advance(6 * time.Minute)
	active := m.Create("u2").ID
	clock.Advance(5 * time.Minute)

	removed := m.Sweep(clock.Now())
	assert.Equal(t, 1, removed)

	_, err := m.Get(idle)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = m.Get(active)
	assert.NoError(t, err)
}

func TestManager_AccessRefreshesIdleTimer(t *testing.T) {
	m, clock := newTestManager(t, 10*time.Minute)
	id := m.Create("u1").ID

	clock.Advance(8 * time.Minute)
	_, err := m.Get(id)
	require.NoError(t, err)
	clock.Advance(8 * time.Minute)

	assert.Equal(t, 0, m.Sweep(clock.Now()))
}

func TestManager_RunStopsOnCancel(t *testing.T) {
	m := NewManager(time.Minute, testutil.Logger())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, 10*time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	id := m.Create("u1").ID

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Update(id, func(s *State) { s.Expand() })
		}()
	}
	wg.Wait()

	snap, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"all"}, snap.Expanded)
}
