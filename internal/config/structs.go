package config

import (
	"time"

	"github.com/gestao-obras/gestao-obras/internal/logger"
)

// Auth holds token issuance settings.
type Auth struct {
	JWTSecret string        `toml:"jwtSecret"` // signing key for bearer tokens
	TokenTTL  time.Duration `toml:"tokenTTL"`  // token lifetime, defaults to 12h when zero
}

// Uploads holds upload storage settings.
type Uploads struct {
	Dir string `toml:"dir"` // base directory for uploaded media files
}

// Backup holds backup worker settings.
type Backup struct {
	Dir           string `toml:"dir"`           // directory where zip archives are written
	SourceRoot    string `toml:"sourceRoot"`    // tree to archive
	Keep          int    `toml:"keep"`          // number of archives to retain
	IntervalHours int    `toml:"intervalHours"` // minimum hours between scheduled backups
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Auth      Auth
	Uploads   Uploads
	Backup    Backup
	Webserver Webserver
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool     // use clean path middleware to allow multi slash requests
	DisableRecover bool     // disable recover middleware
	Domain         string   // domain name for the webserver
	Port           int      // listening port for the webserver
	ShutDownTime   int      // wait time for shutdown
	URL            string   // base url for the webserver
	AllowOrigins   []string // CORS origins allowed to call the API
}
