package repository

import (
	"context"
	"time"
)

// Application representa un cliente registrado de la API, identificado por
// un par app_id/app_secret independiente de los usuarios finales.
type Application struct {
	ID          string
	AppID       string
	AppSecret   string
	Name        string
	ShortName   string
	Description string
	Image       string

	IsActive bool

	// Ventana de actividad opcional. nil = sin límite.
	ActiveFrom *time.Time
	ActiveTo   *time.Time

	CreatedAt time.Time
}

// ActiveByTime indica si la aplicación está dentro de su ventana de
// actividad en el instante dado.
func (a *Application) ActiveByTime(now time.Time) bool {
	if a.ActiveFrom != nil && now.Before(*a.ActiveFrom) {
		return false
	}
	if a.ActiveTo != nil && now.After(*a.ActiveTo) {
		return false
	}
	return true
}

// Snapshot devuelve la vista inmutable de la aplicación que se captura en
// la sesión al momento del login.
func (a *Application) Snapshot() AppSnapshot {
	return AppSnapshot{
		ID:          a.ID,
		Name:        a.Name,
		ShortName:   a.ShortName,
		Description: a.Description,
		Image:       a.Image,
	}
}

// AppSnapshot es la copia descriptiva de una aplicación embebida en una
// sesión. Nunca se revisita después de creada la sesión.
type AppSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"short_name,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// ApplicationRepository define la búsqueda de aplicaciones.
type ApplicationRepository interface {
	// GetByCredentials busca una aplicación por el par app_id/app_secret.
	// Retorna ErrNotFound si el par no coincide.
	GetByCredentials(ctx context.Context, appID, appSecret string) (*Application, error)
}
