package models

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// Superuser role tags. Any user whose NivelAcesso matches one of these
// (case-insensitive) bypasses permission checks and client scoping.
const (
	NivelAdmin    = "admin"
	NivelWillians = "willians"
)

// Usuario represents a user account in the system.
// Effective rights of non-superuser accounts derive entirely from the
// linked GrupoUsuario; there are no per-user permission overrides.
type Usuario struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// HashedPassword is the Argon2id hashed password.
	HashedPassword string `gorm:"size:255;not null" json:"-"`
	// Nome is the user's display name.
	Nome string `gorm:"size:255;not null" json:"nome"`
	// Email is the user's email address.
	Email string `gorm:"size:255" json:"email"`
	// NivelAcesso is the free-text role tag (admin, willians, manutencao, visualizacao).
	NivelAcesso string `gorm:"size:50;not null;default:'visualizacao'" json:"nivel_acesso"`
	// Ativo indicates whether the account can log in.
	Ativo bool `gorm:"default:true" json:"ativo"`
	// GrupoID is the optional reference to the user's group.
	GrupoID *uint `gorm:"column:grupo_id" json:"grupo_id"`
}

// TableName specifies the database table name for the Usuario model.
func (Usuario) TableName() string {
	return "usuarios"
}

// IsSuperuser reports whether the role tag grants the unconditional bypass.
func (u *Usuario) IsSuperuser() bool {
	switch strings.ToLower(u.NivelAcesso) {
	case NivelAdmin, NivelWillians:
		return true
	}

	return false
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This replaces the unsalted fast hash the legacy system used; legacy
// hashes are only accepted as one-time migration input elsewhere.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the stored hash.
// It uses constant-time comparison to prevent timing attacks.
func (u *Usuario) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.HashedPassword)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
