// Package session holds the per-conversation wizard state. The store is the
// only mutable shared resource in the process; every read-modify-write runs
// as one critical section so concurrent updates for the same chat cannot
// interleave.
package session

import (
	"sync"
)

// Step is the wizard position within a conversation. Transitions happen only
// through the flow controller; the zero value is StepLogin.
type Step int

const (
	StepLogin Step = iota
	StepLoginSecret
	StepAsset
	StepTitle
	StepSymbol
	StepDescription
	StepRecipient
	StepConfirm
)

// String returns a stable label used in logs.
func (s Step) String() string {
	switch s {
	case StepLogin:
		return "login"
	case StepLoginSecret:
		return "login_secret"
	case StepAsset:
		return "asset"
	case StepTitle:
		return "title"
	case StepSymbol:
		return "symbol"
	case StepDescription:
		return "description"
	case StepRecipient:
		return "recipient"
	case StepConfirm:
		return "confirm"
	default:
		return "unknown"
	}
}

// State is one in-flight mint wizard. It is ephemeral: process restart
// discards it and the user starts over.
type State struct {
	SessionKey       string
	InitiatingUserID string

	Step Step

	// IdentityUsername is only a login candidate; IdentityAccount is the
	// resolved account id after a successful authentication. The raw secret
	// is never stored here.
	IdentityUsername string
	IdentityAccount  string

	AssetURL         string
	AssetContentType string

	Title       string
	Symbol      string
	Description string

	// MetadataURI is set on the import path and short-circuits the metadata
	// re-upload during orchestration.
	MetadataURI string

	RecipientAddress string

	ExtraAttributes map[string]string
}

// Store maps a session key (chat id) to its State.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*State)}
}

// Begin creates a fresh State for key, replacing any existing one wholesale.
func (s *Store) Begin(key, userID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &State{
		SessionKey:       key,
		InitiatingUserID: userID,
		Step:             StepLogin,
		ExtraAttributes:  map[string]string{},
	}
	s.sessions[key] = state
	return *state
}

// Get returns a snapshot copy of the state for key.
func (s *Store) Get(key string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[key]
	if !ok {
		return State{}, false
	}
	return *state, true
}

// Update applies fn to the state for key inside the store lock. It returns
// the resulting snapshot, or false when no session exists. fn must not
// block; network calls belong outside the critical section.
func (s *Store) Update(key string, fn func(*State)) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[key]
	if !ok {
		return State{}, false
	}
	fn(state)
	return *state, true
}

// Take atomically removes and returns the state for key. Exactly one caller
// wins when several race for the same key; the rest observe no session. The
// confirm step relies on this to keep duplicate confirmations from minting
// twice.
func (s *Store) Take(key string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[key]
	if !ok {
		return State{}, false
	}
	delete(s.sessions, key)
	return *state, true
}

// Cancel deletes the state for key and reports whether one existed.
func (s *Store) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[key]
	delete(s.sessions, key)
	return ok
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
