package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/security/password"
)

// Params livianos para que los tests no paguen el costo del perfil de
// producción.
var testParams = password.Params{Memory: 16 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.Hash(testParams, plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func aliceUser(t *testing.T) *repository.User {
	t.Helper()
	return &repository.User{
		ID:             "user-alice",
		Login:          "alice@example.com",
		PasswordHash:   hashOf(t, "correct horse"),
		LockoutEnabled: true,
	}
}

func TestLoginSuccess(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	tok, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.Token == "" || tok.SessionID == "" {
		t.Fatalf("incomplete token: %+v", tok)
	}
	if tok.UserID != "user-alice" {
		t.Fatalf("user id = %q", tok.UserID)
	}

	// La sesión quedó activa, completa y ligada al token emitido.
	sess, err := e.sessions.GetByID(ctx, tok.SessionID)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !sess.IsActive || sess.Token != tok.Token {
		t.Fatalf("session state: active=%v token match=%v", sess.IsActive, sess.Token == tok.Token)
	}
	if sess.App.Name != "Portal" {
		t.Fatalf("app snapshot = %+v", sess.App)
	}
	if sess.Client.Browser != "Chrome" || sess.Client.OS != "Windows" {
		t.Fatalf("client info = %+v", sess.Client)
	}

	// El token entró al registro y se emitió la notificación de login.
	if !e.registry.IsActive(ctx, tok.Token) {
		t.Fatal("token not registered")
	}
	if !e.sink.has(repository.NotificationLogin) {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}

	// El claim parsea con el issuer y apunta a la sesión.
	claims, err := e.issuer.ParseSession(tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != tok.SessionID || claims.UserID != "user-alice" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginAppValidation(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	in := loginInput("correct horse")
	in.AppSecret = "wrong"
	if _, err := e.svc.Login(ctx, in); !errors.Is(err, auth.ErrAppNotFound) {
		t.Fatalf("wrong secret: %v", err)
	}

	e.apps.apps[0].IsActive = false
	if _, err := e.svc.Login(ctx, loginInput("correct horse")); !errors.Is(err, auth.ErrAppInactive) {
		t.Fatalf("inactive app: %v", err)
	}
	e.apps.apps[0].IsActive = true

	past := e.now.Add(-time.Hour)
	e.apps.apps[0].ActiveTo = &past
	if _, err := e.svc.Login(ctx, loginInput("correct horse")); !errors.Is(err, auth.ErrAppExpired) {
		t.Fatalf("expired app: %v", err)
	}
}

func TestLoginUserNotFound(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	in := loginInput("correct horse")
	in.Login = "nobody@example.com"
	if _, err := e.svc.Login(context.Background(), in); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLoginWrongPasswordIncrementsCounter(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if _, err := e.svc.Login(ctx, loginInput("nope")); !errors.Is(err, auth.ErrInvalidPassword) {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if got := e.users.get("user-alice").AccessFailedCount; got != i {
			t.Fatalf("attempt %d: counter = %d", i, got)
		}
	}
	if !e.sink.has(repository.NotificationLoginAttempt) {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}
}

// El quinto fallo consecutivo dispara la transición: contador a cero,
// ventana de una hora y error de cuenta bloqueada en el mismo intento.
func TestLoginFifthFailureLocksAccount(t *testing.T) {
	u := aliceUser(t)
	u.AccessFailedCount = 4
	e := newEnv(t, u)
	ctx := context.Background()

	_, err := e.svc.Login(ctx, loginInput("nope"))
	locked, ok := auth.AsLocked(err)
	if !ok {
		t.Fatalf("want LockedError, got %v", err)
	}
	wantUntil := e.now.Add(time.Hour)
	if !locked.Until.Equal(wantUntil) {
		t.Fatalf("until = %v, want %v", locked.Until, wantUntil)
	}

	after := e.users.get("user-alice")
	if after.AccessFailedCount != 0 {
		t.Fatalf("counter = %d, want 0", after.AccessFailedCount)
	}
	if after.LockoutEnd == nil || !after.LockoutEnd.Equal(wantUntil) {
		t.Fatalf("lockout end = %v", after.LockoutEnd)
	}
	if !e.sink.has(repository.NotificationAccountLocked) {
		t.Fatalf("notifications = %v", e.sink.kinds())
	}
}

// Una cuenta dentro de su ventana se rechaza antes de verificar el password:
// ni el password correcto entra, y el contador no se mueve.
func TestLoginLockedRejectsBeforePasswordCheck(t *testing.T) {
	u := aliceUser(t)
	until := time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)
	u.LockoutEnd = &until
	e := newEnv(t, u)

	_, err := e.svc.Login(context.Background(), loginInput("correct horse"))
	locked, ok := auth.AsLocked(err)
	if !ok {
		t.Fatalf("want LockedError, got %v", err)
	}
	if !locked.Until.Equal(until) {
		t.Fatalf("until = %v", locked.Until)
	}
	if got := e.users.get("user-alice").AccessFailedCount; got != 0 {
		t.Fatalf("counter moved: %d", got)
	}
}

// Contador heredado en el umbral sin transición aplicada: el login la aplica
// antes de verificar el password, incluso si el password es correcto.
func TestLoginStaleCounterAtThresholdLocks(t *testing.T) {
	u := aliceUser(t)
	u.AccessFailedCount = 5
	e := newEnv(t, u)

	_, err := e.svc.Login(context.Background(), loginInput("correct horse"))
	if _, ok := auth.AsLocked(err); !ok {
		t.Fatalf("want LockedError, got %v", err)
	}
	after := e.users.get("user-alice")
	if after.AccessFailedCount != 0 || after.LockoutEnd == nil {
		t.Fatalf("transition not applied: %+v", after)
	}
}

// Pasada la ventana, el login vuelve a operar normalmente.
func TestLoginAfterWindowExpires(t *testing.T) {
	u := aliceUser(t)
	past := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC) // antes de e.now
	u.LockoutEnd = &past
	e := newEnv(t, u)

	if _, err := e.svc.Login(context.Background(), loginInput("correct horse")); err != nil {
		t.Fatalf("login after window: %v", err)
	}
}

// Con lockout deshabilitado los fallos no cuentan y la cuenta nunca se
// bloquea.
func TestLoginLockoutDisabled(t *testing.T) {
	u := aliceUser(t)
	u.LockoutEnabled = false
	u.AccessFailedCount = 99
	e := newEnv(t, u)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := e.svc.Login(ctx, loginInput("nope")); !errors.Is(err, auth.ErrInvalidPassword) {
			t.Fatalf("attempt %d: %v", i, err)
		}
	}
	if got := e.users.get("user-alice").AccessFailedCount; got != 99 {
		t.Fatalf("counter moved: %d", got)
	}
	if _, err := e.svc.Login(ctx, loginInput("correct horse")); err != nil {
		t.Fatalf("login: %v", err)
	}
}

// Un login exitoso resetea una racha previa de fallos.
func TestLoginSuccessResetsCounter(t *testing.T) {
	u := aliceUser(t)
	u.AccessFailedCount = 3
	e := newEnv(t, u)

	if _, err := e.svc.Login(context.Background(), loginInput("correct horse")); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := e.users.get("user-alice").AccessFailedCount; got != 0 {
		t.Fatalf("counter = %d, want 0", got)
	}
}

// Cada login emite una sesión independiente: multisesión por diseño.
func TestLoginConcurrentSessionsCoexist(t *testing.T) {
	e := newEnv(t, aliceUser(t))
	ctx := context.Background()

	tok1, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login 1: %v", err)
	}
	tok2, err := e.svc.Login(ctx, loginInput("correct horse"))
	if err != nil {
		t.Fatalf("login 2: %v", err)
	}
	if tok1.SessionID == tok2.SessionID || tok1.Token == tok2.Token {
		t.Fatal("sessions not independent")
	}

	active, err := e.svc.ListActiveSessions(ctx, "user-alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("active = %d, want 2", len(active))
	}
}
