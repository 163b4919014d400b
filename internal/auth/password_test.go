package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/security/password"
)

func TestChangePassword(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	if err := e.svc.ChangePassword(ctx, "user-alice", "correct horse", "battery staple"); err != nil {
		t.Fatalf("change: %v", err)
	}

	after := e.users.get("user-alice")
	if !password.Verify("battery staple", after.PasswordHash) {
		t.Fatal("new password does not verify")
	}
	if password.Verify("correct horse", after.PasswordHash) {
		t.Fatal("old password still verifies")
	}
	if !e.sink.has(repository.NotificationPasswordChanged) {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}
}

// El password viejo tiene que coincidir con el digest almacenado; si no, la
// operación se rechaza sin tocar nada.
func TestChangePasswordWrongOld(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	err := e.svc.ChangePassword(ctx, "user-alice", "wrong", "battery staple")
	if !errors.Is(err, auth.ErrInvalidPassword) {
		t.Fatalf("got %v", err)
	}
	if !password.Verify("correct horse", e.users.get("user-alice").PasswordHash) {
		t.Fatal("hash was modified")
	}
}

func TestChangePasswordSameAsOld(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	err := e.svc.ChangePassword(context.Background(), "user-alice", "correct horse", "correct horse")
	if !errors.Is(err, auth.ErrSamePassword) {
		t.Fatalf("got %v", err)
	}
}

func TestChangePasswordUnknownUser(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	err := e.svc.ChangePassword(context.Background(), "ghost", "a", "b")
	if !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("got %v", err)
	}
}

// Cambiar el password no revoca las sesiones existentes.
func TestChangePasswordKeepsSessions(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	tok, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := e.svc.ChangePassword(ctx, "user-alice", "correct horse", "battery staple"); err != nil {
		t.Fatalf("change: %v", err)
	}

	sess, _ := e.sessions.GetByID(ctx, tok.SessionID)
	if !sess.IsActive {
		t.Fatal("session revoked by password change")
	}
	if !e.registry.IsActive(ctx, tok.Token) {
		t.Fatal("token dropped from registry")
	}
}
