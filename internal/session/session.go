// Package session holds the signed-in identity shared by the client components.
package session

import (
	"strings"
	"sync"
)

// Roles.
const (
	RoleAdmin  = "admin"
	RoleClient = "cliente"
	RoleGuest  = "guest"
)

// Identity is who is using the client.
type Identity struct {
	User  string
	Role  string
	Token string
}

// IsAdmin reports whether the identity has the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Store holds the current identity and notifies subscribers when it changes.
type Store struct {
	mu       sync.RWMutex
	current  Identity
	nextID   int
	watchers map[int]func(Identity)
}

// NewStore creates a Store signed out as guest.
func NewStore() *Store {
	return &Store{
		current:  Identity{Role: RoleGuest},
		watchers: make(map[int]func(Identity)),
	}
}

// Current returns the current identity.
func (s *Store) Current() Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Role returns the current role.
func (s *Store) Role() string { return s.Current().Role }

// Token returns the current bearer token. Store satisfies bookingapi.TokenSource.
func (s *Store) Token() string { return s.Current().Token }

// SignIn replaces the identity. An empty role means a client.
func (s *Store) SignIn(user, role, token string) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleClient
	}
	s.set(Identity{User: strings.TrimSpace(user), Role: role, Token: token})
}

// SignOut reverts to the guest identity.
func (s *Store) SignOut() {
	s.set(Identity{Role: RoleGuest})
}

// Subscribe registers fn for identity changes and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Identity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) set(id Identity) {
	s.mu.Lock()
	if s.current == id {
		s.mu.Unlock()
		return
	}
	s.current = id
	watchers := make([]func(Identity), 0, len(s.watchers))
	for _, fn := range s.watchers {
		watchers = append(watchers, fn)
	}
	s.mu.Unlock()

	for _, fn := range watchers {
		fn(id)
	}
}
