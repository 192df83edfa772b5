// Package state keeps a client-side mirror of the server's data: one
// value-typed State advanced by pure reducers, one slice per concern.
package state

import "sync"

// State is the full mirror. It is copied out by value; holders never
// observe later dispatches through an old copy.
type State struct {
	Auth       AuthSlice
	Profile    ProfileSlice
	Posts      PostsSlice
	PostDetail PostDetailSlice
}

// Store owns the state and serializes dispatches. Construct one
// explicitly and pass it where needed; there is no package-level
// instance.
type Store struct {
	mu    sync.RWMutex
	state State

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(State))}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch runs every slice reducer against the action and notifies
// subscribers with the resulting state. Actions with unknown kinds
// leave the state unchanged but still notify.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = State{
		Auth:       reduceAuth(s.state.Auth, a),
		Profile:    reduceProfile(s.state.Profile, a),
		Posts:      reducePosts(s.state.Posts, a),
		PostDetail: reducePostDetail(s.state.PostDetail, a),
	}
	next := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	for _, fn := range s.subs {
		fn(next)
	}
	s.subMu.Unlock()
}

// Subscribe registers fn to run after each dispatch. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}
