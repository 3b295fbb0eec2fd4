package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// Authenticate verifies a username/password pair and returns the matching
// user. It deliberately returns the same ErrInvalidCredentials for an
// unknown username and a wrong password.
func (s *Service) Authenticate(username, password string) (*models.Usuario, error) {
	var user models.Usuario

	err := s.db.Where("username = ?", username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		log.Error().Err(err).Str("username", username).Msg("user lookup failed")
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if !user.Ativo {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// LookupUser loads an active user by username, for token validation.
func (s *Service) LookupUser(username string) (*models.Usuario, error) {
	var user models.Usuario

	err := s.db.Where("username = ? AND ativo = ?", username, true).First(&user).Error
	if err != nil {
		return nil, ErrUnknownSubject
	}

	return &user, nil
}
