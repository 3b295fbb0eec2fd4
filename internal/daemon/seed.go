package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
)

// seed creates the initial superuser account when the user table is
// empty, so a fresh install can be logged into.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64
	db.Model(&models.Usuario{}).Count(&count)

	if count != 0 {
		return
	}

	admin := models.Usuario{
		Username:       "admin",
		Nome:           "Administrador",
		HashedPassword: models.HashPassword("changeme"),
		NivelAcesso:    "admin",
		Ativo:          true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed default admin user")
		return
	}

	log.Info().Msg("seeded default admin user (username: admin)")
}
