// Package jwt emite y verifica los tokens bearer ligados a sesiones.
package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer firma tokens de sesión con la clave ed25519 activa.
type Issuer struct {
	Iss       string
	Keys      *Keypair
	AccessTTL time.Duration // TTL por defecto (ej: 12h)
}

func NewIssuer(iss string, kp *Keypair, accessTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 12 * time.Hour
	}
	return &Issuer{Iss: iss, Keys: kp, AccessTTL: accessTTL}
}

// IssuedToken es el resultado de una emisión: el JWT firmado más su
// metadata.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	SessionID string
	UserID    string
}

// SessionClaims es la vista parseada de un token de sesión.
type SessionClaims struct {
	UserID    string
	SessionID string
	Method    string
	ExpiresAt time.Time
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoSessionID  = errors.New("token has no session id")
)

// IssueSession emite el token de una sesión. El session id viene
// pre-generado por el caller: así la fila de sesión puede insertarse
// completa después de la emisión, sin ventana de token placeholder.
func (i *Issuer) IssueSession(userID, sessionID, method string) (*IssuedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	claims := jwtv5.MapClaims{
		"iss": i.Iss,
		"sub": userID,
		"sid": sessionID,
		"amr": []string{method},
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": exp.Unix(),
	}
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, claims)
	tk.Header["kid"] = i.Keys.KID
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(i.Keys.Priv)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &IssuedToken{
		Token:     signed,
		ExpiresAt: exp,
		SessionID: sessionID,
		UserID:    userID,
	}, nil
}

// Keyfunc devuelve un jwt.Keyfunc para verificar tokens emitidos por este
// issuer.
func (i *Issuer) Keyfunc() jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ed25519.PublicKey(i.Keys.Pub), nil
	}
}

// ParseSession verifica firma y expiración y extrae los claims de sesión.
func (i *Issuer) ParseSession(token string) (*SessionClaims, error) {
	parsed, err := jwtv5.Parse(token, i.Keyfunc(),
		jwtv5.WithIssuer(i.Iss),
		jwtv5.WithValidMethods([]string{"EdDSA"}),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, ErrNoSessionID
	}

	var method string
	if amr, ok := claims["amr"].([]any); ok && len(amr) > 0 {
		method, _ = amr[0].(string)
	}

	var exp time.Time
	if e, err := claims.GetExpirationTime(); err == nil && e != nil {
		exp = e.Time
	}

	return &SessionClaims{
		UserID:    sub,
		SessionID: sid,
		Method:    method,
		ExpiresAt: exp,
	}, nil
}
