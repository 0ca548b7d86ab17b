package pokemon

import "sync"

// ownedStore keeps each user's collection in insertion order.
type ownedStore struct {
	mu     sync.RWMutex
	byUser map[string][]OwnedPokemon
}

func newOwnedStore() *ownedStore {
	return &ownedStore{byUser: make(map[string][]OwnedPokemon)}
}

func (s *ownedStore) add(p OwnedPokemon) {
	s.mu.Lock()
	s.byUser[p.OwnerID] = append(s.byUser[p.OwnerID], p)
	s.mu.Unlock()
}

func (s *ownedStore) list(userID string) []OwnedPokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]OwnedPokemon(nil), s.byUser[userID]...)
}

func (s *ownedStore) get(userID, id string) (OwnedPokemon, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.byUser[userID] {
		if p.ID == id {
			return p, true
		}
	}
	return OwnedPokemon{}, false
}

func (s *ownedStore) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, ps := range s.byUser {
		n += len(ps)
	}
	return n
}
