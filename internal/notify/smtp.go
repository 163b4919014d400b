package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	mail "github.com/go-mail/mail"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
)

// SMTPSink manda por email las notificaciones relevantes a seguridad
// (cuenta bloqueada, intento fallido, password cambiado). El resto se
// ignora: ya queda en el store.
type SMTPSink struct {
	Host    string
	Port    int
	From    string
	User    string
	Pass    string
	TLSMode string // "auto" | "starttls" | "ssl" | "none"

	Users repository.UserRepository
}

var securityKinds = map[repository.NotificationKind]struct{}{
	repository.NotificationAccountLocked:   {},
	repository.NotificationLoginAttempt:    {},
	repository.NotificationPasswordChanged: {},
}

func (s *SMTPSink) Enqueue(ctx context.Context, n repository.Notification) error {
	if _, ok := securityKinds[n.Kind]; !ok {
		return nil
	}

	u, err := s.Users.GetByID(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("smtp sink: resolve user: %w", err)
	}
	// El login hace de dirección solo cuando tiene forma de email.
	if !strings.Contains(u.Login, "@") {
		return nil
	}

	log := logger.From(ctx).With(
		logger.Component("notify.smtp"),
		logger.String("kind", string(n.Kind)),
	)

	m := mail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", u.Login)
	m.SetHeader("Subject", n.Title)
	m.SetBody("text/plain", n.Content)

	d := mail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	d.TLSConfig = &tls.Config{ServerName: s.Host}
	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		d.TLSConfig = &tls.Config{}
	default:
		// "auto"/"starttls": go-mail negocia STARTTLS si corresponde
	}

	if err := d.DialAndSend(m); err != nil {
		log.Error("smtp send failed", logger.Err(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	log.Debug("security email sent")
	return nil
}
