package repository

import (
	"context"
	"time"
)

// ClientInfo describe el cliente/dispositivo que originó una sesión.
type ClientInfo struct {
	Type    string `json:"type,omitempty"` // desktop, mobile, tablet, bot, unknown
	Browser string `json:"browser,omitempty"`
	OS      string `json:"os,omitempty"`
	Raw     string `json:"raw,omitempty"` // User-Agent original
}

// Location es la ubicación resuelta a partir de la IP de origen.
// Puede quedar vacía: la resolución es best-effort.
type Location struct {
	IP          string `json:"ip,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
	Country     string `json:"country,omitempty"`
	Region      string `json:"region,omitempty"`
	City        string `json:"city,omitempty"`
}

// Session representa una instancia de login autenticada, ligada a un único
// token emitido. El registro de sesiones activas es un cache derivado; la
// fila de sesión es la fuente de verdad.
type Session struct {
	ID       string
	UserID   string
	IsActive bool
	Token    string

	// Contexto descriptivo capturado al crear la sesión.
	App      AppSnapshot
	Client   ClientInfo
	Location Location

	CreatedAt time.Time

	// Historial de desactivación. DeactivatedBySessionID puede ser la
	// propia sesión (logout de sí misma). Una sesión terminal nunca se
	// reactiva.
	DeactivatedAt          *time.Time
	DeactivatedBySessionID *string
}

// CreateSessionInput contiene los datos para crear una sesión. El ID se
// genera del lado del caller (no por el store) porque el token ya lo
// referencia al momento del insert.
type CreateSessionInput struct {
	ID       string
	UserID   string
	Token    string
	App      AppSnapshot
	Client   ClientInfo
	Location Location
}

// SessionRepository define operaciones para gestionar sesiones.
type SessionRepository interface {
	// Create inserta una sesión nueva, completamente formada y activa.
	Create(ctx context.Context, input CreateSessionInput) (*Session, error)

	// GetByID obtiene una sesión por su ID.
	// Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, sessionID string) (*Session, error)

	// Deactivate marca una sesión activa como terminada. Solo afecta filas
	// con is_active = true: una segunda invocación retorna ErrNotFound.
	Deactivate(ctx context.Context, sessionID, bySessionID string, at time.Time) error

	// DeactivateAllByUser desactiva en un solo batch todas las sesiones
	// activas del usuario y retorna los tokens afectados. Un usuario sin
	// sesiones activas retorna un slice vacío sin error.
	DeactivateAllByUser(ctx context.Context, userID, bySessionID string, at time.Time) ([]string, error)

	// ListActiveByUser retorna las sesiones activas de un usuario,
	// ordenadas por fecha de creación descendente.
	ListActiveByUser(ctx context.Context, userID string) ([]Session, error)
}
