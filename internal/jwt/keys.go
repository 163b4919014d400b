package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Keypair agrupa la clave ed25519 de firma con su KID.
type Keypair struct {
	KID  string
	Priv ed25519.PrivateKey
	Pub  ed25519.PublicKey
}

// LoadOrGenerate carga la clave de firma desde un PEM en path. Si el
// archivo no existe, genera una clave nueva y la escribe (0600). Con path
// vacío genera una clave efímera (solo dev: los tokens mueren con el
// proceso).
func LoadOrGenerate(path string) (*Keypair, error) {
	if path == "" {
		return generate()
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		kp, err := generate()
		if err != nil {
			return nil, err
		}
		if err := writePEM(path, kp.Priv); err != nil {
			return nil, err
		}
		return kp, nil
	}
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("jwt: %s: no PEM block", path)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse key: %w", err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("jwt: %s: not an ed25519 key", path)
	}
	return fromPriv(priv), nil
}

func generate() (*Keypair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return fromPriv(priv), nil
}

func fromPriv(priv ed25519.PrivateKey) *Keypair {
	pub := priv.Public().(ed25519.PublicKey)
	sum := sha256.Sum256(pub)
	return &Keypair{
		KID:  hex.EncodeToString(sum[:8]),
		Priv: priv,
		Pub:  pub,
	}
}

func writePEM(path string, priv ed25519.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	b := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	return os.WriteFile(path, b, 0o600)
}
