package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/meltforce/liftlog/internal/models"
)

func TestLogin(t *testing.T) {
	g := New()
	if g.Authenticated() {
		t.Fatal("new gate should be unauthenticated")
	}
	if err := g.Login("alice", "secret"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	// base64("alice:secret")
	if got, want := g.Credential(), "Basic YWxpY2U6c2VjcmV0"; got != want {
		t.Errorf("Credential = %q, want %q", got, want)
	}
	if g.User() != "alice" {
		t.Errorf("User = %q", g.User())
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	g := New()
	for _, tc := range [][2]string{{"", "x"}, {"x", ""}, {"", ""}} {
		if err := g.Login(tc[0], tc[1]); !errors.Is(err, models.ErrInvalidInput) {
			t.Errorf("Login(%q, %q) = %v, want ErrInvalidInput", tc[0], tc[1], err)
		}
	}
	if g.Authenticated() {
		t.Error("failed login must not authenticate")
	}
}

func TestRevokeNotifiesOnce(t *testing.T) {
	g := New()
	var mu sync.Mutex
	var states []State
	g.OnChange(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	})

	g.Login("alice", "secret")
	g.Revoke()
	g.Revoke()

	if g.Authenticated() || g.User() != "" {
		t.Error("revoke should clear the credential")
	}
	if len(states) != 2 {
		t.Fatalf("observer called %d times, want 2", len(states))
	}
	if states[1] != (State{}) {
		t.Errorf("revoke state = %+v, want empty", states[1])
	}
}

func TestRestoreIsSilent(t *testing.T) {
	g := New()
	called := false
	g.OnChange(func(State) { called = true })
	g.Restore(State{User: "bob", Credential: BasicCredential("bob", "pw")})

	if !g.Authenticated() || g.User() != "bob" {
		t.Error("restore should install the credential")
	}
	if called {
		t.Error("restore should not notify observers")
	}
	g.Logout()
	if !called || g.Authenticated() {
		t.Error("logout should clear and notify")
	}
}
