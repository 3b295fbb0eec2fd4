// Package web assembles the fiber application: global middleware, the
// public endpoints, the bearer-token gate and every resource handler.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/backup"
	"github.com/gestao-obras/gestao-obras/internal/config"
	accesslog "github.com/gestao-obras/gestao-obras/internal/logger/adapter/fiber"
	"github.com/gestao-obras/gestao-obras/internal/upload"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/admin/backuphandler"
	admingrupo "github.com/gestao-obras/gestao-obras/internal/web/handler/admin/grupo"
	adminloja "github.com/gestao-obras/gestao-obras/internal/web/handler/admin/loja"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/admin/permissao"
	adminusuario "github.com/gestao-obras/gestao-obras/internal/web/handler/admin/usuario"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/cliente"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/contrato"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/despesa"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/fornecedor"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/health"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/login"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/material"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/orcamento"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/resumo"
	"github.com/gestao-obras/gestao-obras/internal/web/handler/testes"
)

// UploadsPath is the public prefix for stored media files.
const UploadsPath = "/uploads"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: flag not-alive first so the
	// LB drains this instance before the listener stops.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: waiting %d seconds before stopping the listener",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration and wires
// every handler.
func New(cfg *config.Config, db *gorm.DB, uploads *upload.Store, worker *backup.Worker) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(cfg),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: false,
	}))

	app.Use(compress.New())

	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: health.Path,
	}))

	// stored media is public read-only, served by filename
	app.Static(UploadsPath, uploads.Dir())

	authService := auth.NewService(db)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	// unauthenticated endpoints first
	initHandler(health.Handler.Init(app, cfg, db, authService))
	initHandler(login.Handler.Init(app, cfg, db, authService))

	// everything below requires a bearer token
	app.Use(auth.Middleware(authService, cfg.Auth.JWTSecret))

	initHandler(cliente.Handler.Init(app, cfg, db, authService))
	initHandler(fornecedor.Handler.Init(app, cfg, db, authService))
	initHandler(contrato.Handler.Init(app, cfg, db, authService))
	initHandler(orcamento.Handler.Init(app, cfg, db, authService))
	initHandler(despesa.Handler.Init(app, cfg, db, authService))
	initHandler(material.Handler.Init(app, cfg, db, authService))
	initHandler(resumo.Handler.Init(app, cfg, db, authService))

	testes.Handler.SetUploadStore(uploads)
	initHandler(testes.Handler.Init(app, cfg, db, authService))

	initHandler(adminusuario.Handler.Init(app, cfg, db, authService))
	initHandler(admingrupo.Handler.Init(app, cfg, db, authService))
	initHandler(permissao.Handler.Init(app, cfg, db, authService))
	initHandler(adminloja.Handler.Init(app, cfg, db, authService))

	backuphandler.Handler.SetWorker(worker)
	initHandler(backuphandler.Handler.Init(app, cfg, db, authService))

	// unknown routes get the uniform JSON error body
	app.Use(func(c *fiber.Ctx) error {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	})

	return service
}

func initHandler(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("handler initialization failed")
	}
}

func corsOrigins(cfg *config.Config) string {
	if len(cfg.Webserver.AllowOrigins) == 0 {
		return "*"
	}

	origins := cfg.Webserver.AllowOrigins[0]
	for _, origin := range cfg.Webserver.AllowOrigins[1:] {
		origins += ", " + origin
	}

	return origins
}
