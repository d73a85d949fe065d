package session

import (
	"context"
	"encoding/base64"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minefield/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

type session struct {
	id        string
	startedAt time.Time
	lastSeen  atomic.Int64 /* unix nanoseconds */

	mu      sync.Mutex
	field   *mines.Minefield
	endedAt *time.Time
}

// Snapshot is a copy of a game session taken while holding its lock.
type Snapshot struct {
	ID        string
	Params    mines.GameParams
	Grid      mines.Grid
	State     mines.State
	Revealed  int
	Flags     int
	StartedAt time.Time
	EndedAt   *time.Time
}

func (s *session) snapshot() Snapshot {
	snap := Snapshot{
		ID:        s.id,
		Params:    s.field.GameParams,
		Grid:      s.field.PlayerGrid(),
		State:     s.field.State(),
		Revealed:  s.field.Revealed(),
		Flags:     s.field.Flags(),
		StartedAt: s.startedAt,
	}
	if s.endedAt != nil {
		e := *s.endedAt
		snap.EndedAt = &e
	}
	return snap
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func newID() string {
	id := uuid.New()
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Store keeps live game sessions in memory. Sessions idle for longer than the
// ttl are dropped by [Store.Sweep].
type Store struct {
	ttl     time.Duration
	now     func() time.Time
	newRand func() *rand.Rand
	log     logrus.FieldLogger

	mu       sync.RWMutex
	sessions map[string]*session

	scores highscores
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRand sets the source of generators for new minefields. Each session
// gets its own generator.
func WithRand(newRand func() *rand.Rand) Option {
	return func(s *Store) { s.newRand = newRand }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

func WithMaxHighscores(n int) Option {
	return func(s *Store) { s.scores.max = n }
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl:      ttl,
		now:      time.Now,
		newRand:  createRand,
		log:      logrus.StandardLogger(),
		sessions: make(map[string]*session),
		scores:   highscores{max: defaultMaxHighscores},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts an unstarted game session. It fails with [mines.ConfigError]
// on invalid params.
func (s *Store) Create(params mines.GameParams) (Snapshot, error) {
	field, err := mines.New(params, s.newRand())
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now()
	sess := &session{
		id:        newID(),
		startedAt: now,
		field:     field,
	}
	sess.lastSeen.Store(now.UnixNano())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"session": sess.id,
		"params":  params.Seed(),
	}).Debug("created game session")

	return sess.snapshot(), nil
}

func (s *Store) lookup(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) Get(id string) (Snapshot, error) {
	return s.Do(id, nil)
}

// Do runs fn with exclusive access to the session's minefield and returns
// the state fn left behind. The snapshot is valid even when fn fails.
func (s *Store) Do(id string, fn func(*mines.Minefield) error) (Snapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	wasOver := sess.endedAt != nil
	if fn != nil {
		err = fn(sess.field)
	}

	now := s.now()
	sess.lastSeen.Store(now.UnixNano())

	if !wasOver && !sess.field.Active() {
		sess.endedAt = &now
		s.log.WithFields(logrus.Fields{
			"session": sess.id,
			"state":   sess.field.State().String(),
		}).Debug("game session ended")
		if sess.field.Won() {
			s.scores.add(newHighscore(sess))
		}
	}

	return sess.snapshot(), err
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the ttl and reports how many were
// dropped.
func (s *Store) Sweep() int {
	deadline := s.now().Add(-s.ttl).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Load() < deadline {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.log.WithFields(logrus.Fields{
					"expired": n,
					"live":    s.Len(),
				}).Debug("swept idle game sessions")
			}
		}
	}
}

func (s *Store) Highscores(filter HighscoreFilter) []Highscore {
	return s.scores.list(filter)
}
