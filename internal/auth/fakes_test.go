package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/dropDatabas3/sessiond/internal/auth"
	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
)

// fakeUsers es un UserRepository en memoria con la misma semántica
// condicional de RecordFailedLogin que la implementación de Postgres.
type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]*repository.User
}

func newFakeUsers(users ...*repository.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*repository.User{}}
	for _, u := range users {
		cp := *u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) get(id string) *repository.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*repository.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) RecordFailedLogin(_ context.Context, id string, threshold int, until time.Time) (*repository.FailedLoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if u.LockoutEnabled && u.AccessFailedCount+1 >= threshold {
		u.AccessFailedCount = 0
		t := until
		u.LockoutEnd = &t
	} else {
		u.AccessFailedCount++
	}
	res := &repository.FailedLoginResult{
		Locked:            u.AccessFailedCount == 0,
		AccessFailedCount: u.AccessFailedCount,
	}
	if u.LockoutEnd != nil {
		t := *u.LockoutEnd
		res.LockoutEnd = &t
	}
	return res, nil
}

func (f *fakeUsers) ApplyLockout(_ context.Context, id string, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AccessFailedCount = 0
	t := until
	u.LockoutEnd = &t
	return nil
}

func (f *fakeUsers) ResetAccessFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AccessFailedCount = 0
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, id, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = newHash
	return nil
}

type fakeApps struct {
	apps []*repository.Application
}

func (f *fakeApps) GetByCredentials(_ context.Context, appID, appSecret string) (*repository.Application, error) {
	for _, a := range f.apps {
		if a.AppID == appID && a.AppSecret == appSecret {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// fakeSessions replica la semántica de Deactivate sobre filas activas.
type fakeSessions struct {
	mu   sync.Mutex
	byID map[string]*repository.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]*repository.Session{}}
}

func (f *fakeSessions) Create(_ context.Context, in repository.CreateSessionInput) (*repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &repository.Session{
		ID:        in.ID,
		UserID:    in.UserID,
		IsActive:  true,
		Token:     in.Token,
		App:       in.App,
		Client:    in.Client,
		Location:  in.Location,
		CreatedAt: time.Now().UTC(),
	}
	f.byID[s.ID] = s
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) GetByID(_ context.Context, id string) (*repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessions) Deactivate(_ context.Context, id, byID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	if !ok || !s.IsActive {
		return repository.ErrNotFound
	}
	s.IsActive = false
	t := at
	s.DeactivatedAt = &t
	if byID != "" {
		b := byID
		s.DeactivatedBySessionID = &b
	}
	return nil
}

func (f *fakeSessions) DeactivateAllByUser(_ context.Context, userID, byID string, at time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tokens []string
	for _, s := range f.byID {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		s.IsActive = false
		t := at
		s.DeactivatedAt = &t
		if byID != "" {
			b := byID
			s.DeactivatedBySessionID = &b
		}
		tokens = append(tokens, s.Token)
	}
	return tokens, nil
}

func (f *fakeSessions) ListActiveByUser(_ context.Context, userID string) ([]repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []repository.Session
	for _, s := range f.byID {
		if s.UserID == userID && s.IsActive {
			out = append(out, *s)
		}
	}
	return out, nil
}

// fakeRegistry es un registro en memoria sin TTL real.
type fakeRegistry struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{tokens: map[string]struct{}{}}
}

func (f *fakeRegistry) Add(_ context.Context, token string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = struct{}{}
	return nil
}

func (f *fakeRegistry) Remove(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeRegistry) RemoveBatch(_ context.Context, tokens []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range tokens {
		delete(f.tokens, t)
	}
	return nil
}

func (f *fakeRegistry) IsActive(_ context.Context, token string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok
}

func (f *fakeRegistry) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]struct{}{}
	return nil
}

func (f *fakeRegistry) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

// recorderSink captura las notificaciones emitidas.
type recorderSink struct {
	mu    sync.Mutex
	items []repository.Notification
}

func (r *recorderSink) Enqueue(_ context.Context, n repository.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	return nil
}

func (r *recorderSink) kinds() []repository.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.NotificationKind, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Kind)
	}
	return out
}

func (r *recorderSink) has(kind repository.NotificationKind) bool {
	for _, k := range r.kinds() {
		if k == kind {
			return true
		}
	}
	return false
}

// env arma un service con todos los fakes y un reloj fijo.
type env struct {
	users    *fakeUsers
	apps     *fakeApps
	sessions *fakeSessions
	registry *fakeRegistry
	sink     *recorderSink
	issuer   *jwtx.Issuer
	now      time.Time
	svc      auth.Service
}

func newEnv(t testingT, users ...*repository.User) *env {
	kp, err := jwtx.LoadOrGenerate("")
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	e := &env{
		users:    newFakeUsers(users...),
		apps:     &fakeApps{apps: []*repository.Application{defaultApp()}},
		sessions: newFakeSessions(),
		registry: newFakeRegistry(),
		sink:     &recorderSink{},
		issuer:   jwtx.NewIssuer("sessiond-test", kp, time.Hour),
		now:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
	}
	e.svc = auth.NewService(auth.Deps{
		Users:    e.users,
		Apps:     e.apps,
		Sessions: e.sessions,
		Registry: e.registry,
		Issuer:   e.issuer,
		Notifier: e.sink,
		Lockout:  auth.LockoutPolicy{Threshold: 5, Window: time.Hour},
		Now:      func() time.Time { return e.now },
	})
	return e
}

type testingT interface {
	Fatalf(format string, args ...any)
}

func defaultApp() *repository.Application {
	return &repository.Application{
		ID:        "app-row-1",
		AppID:     "portal",
		AppSecret: "portal-secret",
		Name:      "Portal",
		IsActive:  true,
	}
}

func loginInput(password string) auth.LoginInput {
	return auth.LoginInput{
		AppID:     "portal",
		AppSecret: "portal-secret",
		Login:     "alice@example.com",
		Password:  password,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0",
		SourceIP:  "203.0.113.10",
	}
}
