package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

func TestLogoutSelf(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	tok, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := e.svc.Logout(ctx, tok.Token, tok.SessionID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	sess, err := e.sessions.GetByID(ctx, tok.SessionID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if sess.IsActive {
		t.Fatal("session still active")
	}
	// La sesión queda registrada como su propia terminadora.
	if sess.DeactivatedBySessionID == nil || *sess.DeactivatedBySessionID != tok.SessionID {
		t.Fatalf("deactivated by = %v", sess.DeactivatedBySessionID)
	}
	if sess.DeactivatedAt == nil {
		t.Fatal("deactivated at not set")
	}
	if e.registry.IsActive(ctx, tok.Token) {
		t.Fatal("token still in registry")
	}
	if !e.sink.has(repository.NotificationLogout) {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}
}

// Repetir el logout con el mismo token falla en el guard del registro: el
// token ya no figura como activo.
func TestLogoutTwice(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	tok, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := e.svc.Logout(ctx, tok.Token, tok.SessionID); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := e.svc.Logout(ctx, tok.Token, tok.SessionID); !errors.Is(err, auth.ErrSessionExpired) {
		t.Fatalf("second logout: %v", err)
	}
}

func TestLogoutBySessionID(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	victim, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := e.svc.LogoutBySessionID(ctx, victim.SessionID, "admin-session"); err != nil {
		t.Fatalf("logout by id: %v", err)
	}

	sess, _ := e.sessions.GetByID(ctx, victim.SessionID)
	if sess.IsActive {
		t.Fatal("session still active")
	}
	if sess.DeactivatedBySessionID == nil || *sess.DeactivatedBySessionID != "admin-session" {
		t.Fatalf("deactivated by = %v", sess.DeactivatedBySessionID)
	}
	if e.registry.IsActive(ctx, victim.Token) {
		t.Fatal("token still in registry")
	}

	// Repetirlo sobre una sesión ya cerrada.
	if err := e.svc.LogoutBySessionID(ctx, victim.SessionID, "admin-session"); !errors.Is(err, auth.ErrSessionExpired) {
		t.Fatalf("repeat: %v", err)
	}
	// Sesión inexistente.
	if err := e.svc.LogoutBySessionID(ctx, "no-such-session", ""); !errors.Is(err, auth.ErrSessionNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestLogoutAll(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	var tokens []string
	for i := 0; i < 3; i++ {
		tok, err := e.svc.Login(ctx, loginInput("correct horse"))
		if err != nil {
			t.Fatalf("login %d: %v", i, err)
		}
		tokens = append(tokens, tok.Token)
	}
	before := len(e.sink.kinds())

	if err := e.svc.LogoutAll(ctx, "user-alice", tokens[0]); err != nil {
		t.Fatalf("logout-all: %v", err)
	}

	active, _ := e.svc.ListActiveSessions(ctx, "user-alice")
	if len(active) != 0 {
		t.Fatalf("active = %d, want 0", len(active))
	}
	for _, tk := range tokens {
		if e.registry.IsActive(ctx, tk) {
			t.Fatal("token survived logout-all")
		}
	}
	if e.registry.len() != 0 {
		t.Fatalf("registry = %d entries", e.registry.len())
	}

	// Una sola notificación para todo el batch.
	kinds := e.sink.kinds()[before:]
	if len(kinds) != 1 || kinds[0] != repository.NotificationLogoutAll {
		t.Fatalf("batch notifications = %v", kinds)
	}
}

// Logout-all sin sesiones activas es un no-op exitoso y silencioso.
func TestLogoutAllNoSessions(t *testing.T) {
	e := newEnv(t, aliceUser(t))

	if err := e.svc.LogoutAll(context.Background(), "user-alice", ""); err != nil {
		t.Fatalf("logout-all: %v", err)
	}
	if len(e.sink.kinds()) != 0 {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}
}
