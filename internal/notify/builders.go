package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
)

// Builders de las notificaciones del ciclo de vida de sesiones. El título y
// el cuerpo son texto plano; el front decide la presentación.

func Login(userID string, s *repository.Session) repository.Notification {
	content := fmt.Sprintf("New login from %s (%s, %s).",
		orUnknown(s.App.Name), orUnknown(s.Client.Browser), orUnknown(s.Client.OS))
	if s.Location.City != "" {
		content += " Location: " + s.Location.City
		if s.Location.Country != "" {
			content += ", " + s.Location.Country
		}
		content += "."
	}
	return build(userID, repository.NotificationLogin, "New login", content)
}

func LoginAttempt(userID, ip string) repository.Notification {
	content := "Failed login attempt on your account."
	if ip != "" {
		content = fmt.Sprintf("Failed login attempt on your account from %s.", ip)
	}
	return build(userID, repository.NotificationLoginAttempt, "Failed login attempt", content)
}

func AccountLocked(userID string, until time.Time) repository.Notification {
	return build(userID, repository.NotificationAccountLocked,
		"Account locked",
		fmt.Sprintf("Your account has been locked until %s after repeated failed login attempts.",
			until.Format("15:04 (02.01.2006)")))
}

func Logout(userID string, s *repository.Session) repository.Notification {
	return build(userID, repository.NotificationLogout,
		"Logout",
		fmt.Sprintf("Session on %s (%s) was closed.",
			orUnknown(s.Client.Browser), orUnknown(s.Client.OS)))
}

func LogoutAll(userID string, count int) repository.Notification {
	return build(userID, repository.NotificationLogoutAll,
		"Logged out everywhere",
		fmt.Sprintf("All your active sessions (%d) were closed.", count))
}

func PasswordChanged(userID string) repository.Notification {
	return build(userID, repository.NotificationPasswordChanged,
		"Password changed",
		"Your password was changed. If this wasn't you, contact support immediately.")
}

func build(userID string, kind repository.NotificationKind, title, content string) repository.Notification {
	return repository.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
