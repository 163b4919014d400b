package auth

import (
	"context"
	"fmt"

	"github.com/dropDatabas3/sessiond/internal/domain/repository"
	"github.com/dropDatabas3/sessiond/internal/notify"
	"github.com/dropDatabas3/sessiond/internal/observability/logger"
	"github.com/dropDatabas3/sessiond/internal/security/password"
)

// ChangePassword reemplaza el digest del usuario. El password viejo tiene
// que coincidir con el digest almacenado para continuar (Verify retorna
// true cuando coincide). Las sesiones existentes no se revocan.
func (s *service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("ChangePassword"),
		logger.UserID(userID),
	)

	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if !password.Verify(oldPassword, user.PasswordHash) {
		log.Debug("old password mismatch")
		return ErrInvalidPassword
	}
	if oldPassword == newPassword {
		log.Debug("new password equals old")
		return ErrSamePassword
	}

	newHash, err := password.Hash(password.Default, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.deps.Users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	s.notify(ctx, notify.PasswordChanged(userID))
	log.Info("password changed")
	return nil
}
