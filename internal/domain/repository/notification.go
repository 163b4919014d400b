package repository

import (
	"context"
	"time"
)

// NotificationKind clasifica las notificaciones de dominio.
type NotificationKind string

const (
	NotificationLogin           NotificationKind = "login"
	NotificationLoginAttempt    NotificationKind = "login_attempt"
	NotificationAccountLocked   NotificationKind = "account_locked"
	NotificationLogout          NotificationKind = "logout"
	NotificationLogoutAll       NotificationKind = "logout_all"
	NotificationPasswordChanged NotificationKind = "password_changed"
)

// Notification es un evento de dominio dirigido a un usuario. La emisión
// es fire-and-forget: nunca está en el camino crítico de la operación.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Content   string
	CreatedAt time.Time
}

// NotificationRepository persiste notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n Notification) error
}
