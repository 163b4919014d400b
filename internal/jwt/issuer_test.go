package jwt_test

import (
	"errors"
	"testing"
	"time"

	jwtx "github.com/dropDatabas3/sessiond/internal/jwt"
)

func newIssuer(t *testing.T, iss string) *jwtx.Issuer {
	t.Helper()
	kp, err := jwtx.LoadOrGenerate("")
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	return jwtx.NewIssuer(iss, kp, time.Hour)
}

func TestIssueAndParseSession(t *testing.T) {
	i := newIssuer(t, "sessiond-test")

	tok, err := i.IssueSession("user-1", "sess-1", "password")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	if got := time.Until(tok.ExpiresAt); got < 59*time.Minute || got > time.Hour {
		t.Fatalf("expiry drift: %v", got)
	}

	claims, err := i.ParseSession(tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sess-1" || claims.Method != "password" {
		t.Fatalf("claims = %+v", claims)
	}
}

// Un token firmado por otra clave no verifica, aunque el issuer coincida.
func TestParseRejectsForeignKey(t *testing.T) {
	a := newIssuer(t, "sessiond-test")
	b := newIssuer(t, "sessiond-test")

	tok, err := a.IssueSession("user-1", "sess-1", "password")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.ParseSession(tok.Token); !errors.Is(err, jwtx.ErrInvalidToken) {
		t.Fatalf("got %v", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	kp, err := jwtx.LoadOrGenerate("")
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	a := jwtx.NewIssuer("service-a", kp, time.Hour)
	b := jwtx.NewIssuer("service-b", kp, time.Hour)

	tok, err := a.IssueSession("user-1", "sess-1", "password")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := b.ParseSession(tok.Token); !errors.Is(err, jwtx.ErrInvalidToken) {
		t.Fatalf("got %v", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	i := newIssuer(t, "sessiond-test")
	for _, tk := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := i.ParseSession(tk); err == nil {
			t.Fatalf("accepted %q", tk)
		}
	}
}

func TestIssuerDefaultTTL(t *testing.T) {
	kp, err := jwtx.LoadOrGenerate("")
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	i := jwtx.NewIssuer("sessiond", kp, 0)
	if i.AccessTTL != 12*time.Hour {
		t.Fatalf("ttl = %v", i.AccessTTL)
	}
}
