// Package session keeps per-visitor question/response history in memory.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Pair is one completed turn.
type Pair struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// Session is the state of one visitor. Pairs are append-only.
type Session struct {
	ID string

	turn    sync.Mutex
	mu      sync.Mutex
	pairs   []Pair
	seen    time.Time
	limiter *rate.Limiter
}

// Append records a turn. Whitespace-only questions are ignored and false is returned.
func (s *Session) Append(question, response string) bool {
	if strings.TrimSpace(question) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = append(s.pairs, Pair{Question: question, Response: response})
	return true
}

// Pairs returns a copy of the history in submission order.
func (s *Session) Pairs() []Pair {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Pair, len(s.pairs))
	copy(out, s.pairs)
	return out
}

// Len returns the number of recorded turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pairs)
}

// Allow reports whether another turn may start now.
func (s *Session) Allow() bool {
	if s.limiter == nil {
		return true
	}
	return s.limiter.Allow()
}

// Turn runs fn while holding the session's turn lock so that turns of one
// session never overlap.
func (s *Session) Turn(fn func() error) error {
	s.turn.Lock()
	defer s.turn.Unlock()
	return fn()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.seen = now
	s.mu.Unlock()
}

func (s *Session) lastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

type StoreOption func(*Store)

// WithRateLimit gives every new session its own token bucket.
func WithRateLimit(perSecond float64, burst int) StoreOption {
	return func(st *Store) {
		if perSecond > 0 && burst > 0 {
			st.limit = rate.Limit(perSecond)
			st.burst = burst
		}
	}
}

// WithIdleTTL sets how long an untouched session is kept.
func WithIdleTTL(ttl time.Duration) StoreOption {
	return func(st *Store) {
		st.ttl = ttl
	}
}

func withClock(now func() time.Time) StoreOption {
	return func(st *Store) {
		st.now = now
	}
}

// Store is a concurrency-safe in-memory session map.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewStore(opts ...StoreOption) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Get returns the session for id, creating a fresh one when id is unknown.
// The returned session's ID may differ from id.
func (st *Store) Get(id string) *Session {
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		s.touch(now)
		return s
	}

	s := &Session{ID: uuid.NewString(), seen: now}
	if st.burst > 0 {
		s.limiter = rate.NewLimiter(st.limit, st.burst)
	}
	st.sessions[s.ID] = s
	return s
}

// Delete discards a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Prune removes sessions idle for longer than the TTL and returns how many were removed.
func (st *Store) Prune() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.lastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// Sweep prunes on every interval until ctx is done.
func (st *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Prune()
		}
	}
}
