// Package backuphandler serves the superuser-only backup control surface:
// status, on-demand runs, archive listing, download, deletion, progress
// polling and cancellation.
package backuphandler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gestao-obras/gestao-obras/internal/auth"
	"github.com/gestao-obras/gestao-obras/internal/backup"
	"github.com/gestao-obras/gestao-obras/internal/config"
	"github.com/gestao-obras/gestao-obras/internal/web/handler"
)

const (
	// Path is the backup control resource path.
	Path = "/admin/backup"

	statusPath   = "/status"
	runPath      = "/run"
	filesPath    = "/files"
	filePath     = "/files/:name"
	progressPath = "/progress"
	cancelPath   = "/cancel"
)

// Service is the backup control handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	worker *backup.Worker
}

// Handler is the backup control handler.
var Handler = Service{}

// SetWorker wires the backup worker. Must be called before Init.
func (s *Service) SetWorker(worker *backup.Worker) {
	s.worker = worker
}

// Init initializes the backup control handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || authService == nil || s.worker == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Use(auth.RequireSuperuser())
		router.Get(statusPath, s.GetStatus)
		router.Post(runPath, s.PostRun)
		router.Get(filesPath, s.ListFiles)
		router.Get(filePath, s.Download)
		router.Delete(filePath, s.Delete)
		router.Get(progressPath, s.GetProgress)
		router.Post(cancelPath, s.PostCancel)
	})

	return nil
}

// GetStatus reports last run time and whether a run is active.
func (s *Service) GetStatus(c *fiber.Ctx) error {
	state, progress, running := s.worker.Status()

	return c.JSON(fiber.Map{
		"last_backup_at": state.LastBackupAt,
		"running":        running,
		"progress":       progress,
	})
}

// PostRun starts a background archive run.
func (s *Service) PostRun(c *fiber.Ctx) error {
	name, err := s.worker.RunAsync()
	if err != nil {
		if errors.Is(err, backup.ErrBackupInProgress) {
			return handler.Detail(c, fiber.StatusConflict, "backup já em andamento")
		}

		log.Error().Err(err).Msg("failed to start backup")

		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"file": name})
}

// ListFiles returns finished archives, newest first.
func (s *Service) ListFiles(c *fiber.Ctx) error {
	archives, err := s.worker.List()
	if err != nil {
		log.Error().Err(err).Msg("failed to list backup archives")
		return handler.Detail(c, fiber.StatusInternalServerError, handler.MsgInternal)
	}

	return c.JSON(archives)
}

// Download streams one archive.
func (s *Service) Download(c *fiber.Ctx) error {
	path, err := s.worker.Path(c.Params("name"))
	if err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.Download(path)
}

// Delete removes one archive.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.worker.Remove(c.Params("name")); err != nil {
		return handler.Detail(c, fiber.StatusNotFound, handler.MsgNotFound)
	}

	return c.JSON(fiber.Map{"ok": true})
}

// GetProgress returns the latest progress snapshot.
func (s *Service) GetProgress(c *fiber.Ctx) error {
	_, progress, running := s.worker.Status()
	if progress == nil {
		progress = &backup.Progress{}
	}

	progress.Running = running

	return c.JSON(progress)
}

// PostCancel requests cancellation of the active run.
func (s *Service) PostCancel(c *fiber.Ctx) error {
	s.worker.Cancel()

	return c.JSON(fiber.Map{"ok": true})
}
