package daemon

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/backup"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/db/dsn"
	"github.com/gestao-obras/gestao-obras/internal/db/models"
	"github.com/gestao-obras/gestao-obras/internal/upload"
	"github.com/gestao-obras/gestao-obras/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
	cron       *cron.Cron
}

// Start starts the scheduler and the web service, then waits for a
// shutdown signal.
func (d *Daemon) Start() error {
	d.cron.Start()
	defer d.cron.Stop()

	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Usuario{},
		&models.GrupoUsuario{},
		&models.PermissaoSistema{},
		&models.PermissaoGrupo{},
		&models.Cliente{},
		&models.ClienteGrupo{},
		&models.Loja{},
		&models.LojaGrupo{},
		&models.Fornecedor{},
		&models.Contrato{},
		&models.ArquivoImportado{},
		&models.OrcamentoObra{},
		&models.Despesa{},
		&models.ValorMaterial{},
		&models.ResumoMensal{},
		&models.TesteLoja{},
		&models.TesteArCondicionado{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	auth.EnsureCatalog(db, auth.DefaultCatalog())
	seed(cfg, db)

	uploads, err := upload.NewStore(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create upload store")
	}

	worker, err := backup.NewWorker(cfg.Backup)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create backup worker")
	}

	scheduler := cron.New()
	if err := worker.Schedule(scheduler); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule backups")
	}

	return &Daemon{
		webService: web.New(cfg, db, uploads, worker),
		cfg:        cfg,
		cron:       scheduler,
	}
}
