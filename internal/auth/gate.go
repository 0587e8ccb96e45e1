// Package auth holds the single credential attached to every store call.
package auth

import (
	"encoding/base64"
	"sync"

	"github.com/meltforce/liftlog/internal/models"
)

// State is the persisted view of the gate.
type State struct {
	User       string
	Credential string
}

// Gate owns the current credential. It is safe for concurrent use.
// The zero value is an unauthenticated gate.
type Gate struct {
	mu         sync.RWMutex
	user       string
	credential string
	onChange   []func(State)
}

// New returns an unauthenticated gate.
func New() *Gate {
	return &Gate{}
}

// Login stores "Basic base64(user:pass)" as the credential. The store is
// not contacted; a bad credential is discovered on the first rejected call.
func (g *Gate) Login(user, pass string) error {
	if user == "" || pass == "" {
		return models.Invalid("username and password are required")
	}
	g.set(State{User: user, Credential: BasicCredential(user, pass)})
	return nil
}

// Restore installs a previously persisted state without notifying observers.
func (g *Gate) Restore(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.user = s.User
	g.credential = s.Credential
}

// Logout clears the credential.
func (g *Gate) Logout() {
	g.set(State{})
}

// Revoke clears the credential after the store rejected it.
func (g *Gate) Revoke() {
	g.mu.RLock()
	had := g.credential != ""
	g.mu.RUnlock()
	if had {
		g.set(State{})
	}
}

// Credential returns the Authorization header value, or "" when logged out.
func (g *Gate) Credential() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.credential
}

// User returns the logged in user name.
func (g *Gate) User() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user
}

// Authenticated reports whether a credential is present.
func (g *Gate) Authenticated() bool {
	return g.Credential() != ""
}

// OnChange registers fn to be called after every login, logout or revoke.
func (g *Gate) OnChange(fn func(State)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onChange = append(g.onChange, fn)
}

func (g *Gate) set(s State) {
	g.mu.Lock()
	g.user = s.User
	g.credential = s.Credential
	observers := append([]func(State){}, g.onChange...)
	g.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}

// BasicCredential builds an HTTP Basic Authorization header value.
func BasicCredential(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}
