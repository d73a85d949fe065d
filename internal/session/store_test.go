package session

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vancomm/minefield/internal/mines"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	log := logrus.New()
	log.SetOutput(io.Discard)
	s := NewStore(ttl,
		WithClock(c.Now),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }),
		WithLogger(log),
	)
	return s, c
}

func TestCreate(t *testing.T) {
	s, c := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 4, Height: 3, MineCount: 2})
	require.NoError(t, err)

	assert.Len(t, snap.ID, 22)
	assert.Equal(t, mines.Unstarted, snap.State)
	assert.Equal(t, c.Now(), snap.StartedAt)
	assert.Nil(t, snap.EndedAt)
	require.Len(t, snap.Grid, 12)
	for _, cs := range snap.Grid {
		assert.Equal(t, mines.Unknown, cs)
	}
	assert.Equal(t, 1, s.Len())

	other, err := s.Create(mines.GameParams{Width: 4, Height: 3, MineCount: 2})
	require.NoError(t, err)
	assert.NotEqual(t, snap.ID, other.ID)
}

func TestCreateInvalid(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	_, err := s.Create(mines.GameParams{Width: 2, Height: 2, MineCount: 5})
	var cfgErr mines.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 5, cfgErr.MineCount)
	assert.Zero(t, s.Len())
}

func TestNotFound(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Do("nope", func(m *mines.Minefield) error { return m.Open(0, 0) })
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete("nope"), ErrNotFound)
}

func TestDoWinRecordsHighscore(t *testing.T) {
	s, c := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 2, Height: 1, MineCount: 1})
	require.NoError(t, err)

	c.Advance(3 * time.Second)
	snap, err = s.Do(snap.ID, func(m *mines.Minefield) error { return m.Open(0, 0) })
	require.NoError(t, err)
	assert.Equal(t, mines.Active, snap.State)
	assert.Equal(t, 1, snap.Revealed)

	c.Advance(2 * time.Second)
	snap, err = s.Do(snap.ID, func(m *mines.Minefield) error { return m.ToggleFlag(1, 0) })
	require.NoError(t, err)
	assert.Equal(t, mines.Won, snap.State)
	require.NotNil(t, snap.EndedAt)
	assert.Equal(t, c.Now(), *snap.EndedAt)

	scores := s.Highscores(HighscoreFilter{})
	require.Len(t, scores, 1)
	assert.Equal(t, Highscore{
		GameSessionId: snap.ID,
		Width:         2,
		Height:        1,
		MineCount:     1,
		SafeZone:      "neighborhood",
		PlaytimeMs:    5000,
		EndedAt:       c.Now().UnixMilli(),
	}, scores[0])

	// commands on a finished game change nothing
	c.Advance(time.Second)
	again, err := s.Do(snap.ID, func(m *mines.Minefield) error { return m.ToggleFlag(1, 0) })
	require.NoError(t, err)
	assert.Equal(t, snap.EndedAt, again.EndedAt)
	assert.Equal(t, snap.Grid, again.Grid)
	assert.Len(t, s.Highscores(HighscoreFilter{}), 1)
}

func TestDoLoss(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 1, Height: 1, MineCount: 1})
	require.NoError(t, err)

	snap, err = s.Do(snap.ID, func(m *mines.Minefield) error { return m.Open(0, 0) })
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, snap.State)
	assert.NotNil(t, snap.EndedAt)
	assert.Equal(t, mines.Grid{mines.ExplodedMine}, snap.Grid)
	assert.Empty(t, s.Highscores(HighscoreFilter{}))
}

func TestDoForfeit(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)

	snap, err = s.Do(snap.ID, func(m *mines.Minefield) error { m.Forfeit(); return nil })
	require.NoError(t, err)
	assert.Equal(t, mines.Lost, snap.State)
	assert.NotNil(t, snap.EndedAt)
}

func TestDoReturnsSnapshotOnError(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	created, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)

	snap, err := s.Do(created.ID, func(m *mines.Minefield) error { return m.Open(3, 0) })
	var idxErr mines.IndexError
	require.ErrorAs(t, err, &idxErr)
	assert.Equal(t, created, snap)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)

	require.NoError(t, s.Delete(snap.ID))
	_, err = s.Get(snap.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweep(t *testing.T) {
	s, c := newTestStore(t, 30*time.Minute)

	idle, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)
	busy, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)

	c.Advance(20 * time.Minute)
	_, err = s.Get(busy.ID)
	require.NoError(t, err)
	assert.Zero(t, s.Sweep())

	c.Advance(15 * time.Minute)
	assert.Equal(t, 1, s.Sweep())

	_, err = s.Get(idle.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(busy.ID)
	assert.NoError(t, err)
}

func TestRun(t *testing.T) {
	s, c := newTestStore(t, time.Minute)

	_, err := s.Create(mines.GameParams{Width: 3, Height: 3, MineCount: 1})
	require.NoError(t, err)
	c.Advance(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()

	require.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDoIsExclusive(t *testing.T) {
	s, _ := newTestStore(t, time.Hour)

	snap, err := s.Create(mines.GameParams{Width: 4, Height: 4, MineCount: 3})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Do(snap.ID, func(m *mines.Minefield) error {
				return m.ToggleFlag(i%4, 0)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err = s.Get(snap.ID)
	require.NoError(t, err)
	assert.Zero(t, snap.Flags)
}
