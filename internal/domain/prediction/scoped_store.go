package prediction

import (
	"sync"

	"github.com/riskibarqy/prode/internal/domain/competition"
)

// Guess is a possibly incomplete predicted score.
type Guess struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func (g Guess) clone() Guess {
	out := Guess{}
	if g.Home != nil {
		v := *g.Home
		out.Home = &v
	}
	if g.Away != nil {
		v := *g.Away
		out.Away = &v
	}
	return out
}

type slotKey struct {
	round string
	scope string
}

// ScopedStore keeps guesses per (round, scope) and fixture id.
// It is a single-process, non-durable cache; the prediction repository is the system of record.
type ScopedStore struct {
	mu    sync.RWMutex
	slots map[slotKey]map[string]Guess
}

func NewScopedStore() *ScopedStore {
	return &ScopedStore{slots: make(map[slotKey]map[string]Guess)}
}

// EnsureDefault seeds the entry only when it does not exist yet.
func (s *ScopedStore) EnsureDefault(round string, scope competition.Scope, fixtureID string, initial Guess) {
	key := slotKey{round: round, scope: scope.Key()}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[key]
	if !ok {
		slot = make(map[string]Guess)
		s.slots[key] = slot
	}
	if _, exists := slot[fixtureID]; exists {
		return
	}
	slot[fixtureID] = initial.clone()
}

// Set overwrites the entry. Last write wins.
func (s *ScopedStore) Set(round string, scope competition.Scope, fixtureID string, value Guess) {
	key := slotKey{round: round, scope: scope.Key()}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[key]
	if !ok {
		slot = make(map[string]Guess)
		s.slots[key] = slot
	}
	slot[fixtureID] = value.clone()
}

func (s *ScopedStore) Get(round string, scope competition.Scope, fixtureID string) (Guess, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	guess, ok := s.slots[slotKey{round: round, scope: scope.Key()}][fixtureID]
	if !ok {
		return Guess{}, false
	}
	return guess.clone(), true
}

// Snapshot returns a deep copy of every guess stored for the round and scope.
func (s *ScopedStore) Snapshot(round string, scope competition.Scope) map[string]Guess {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot := s.slots[slotKey{round: round, scope: scope.Key()}]
	out := make(map[string]Guess, len(slot))
	for fixtureID, guess := range slot {
		out[fixtureID] = guess.clone()
	}
	return out
}
