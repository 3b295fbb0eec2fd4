// Package backup produces rotated ZIP snapshots of the application tree.
// A snapshot excludes VCS metadata, build output and the backup directory
// itself, writes through an .inprogress guard so concurrent runs are
// rejected, and records progress so the admin UI can poll and cancel.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/gestao-obras/gestao-obras/internal/config"
)

const (
	archivePrefix    = "backup_"
	archiveSuffix    = ".zip"
	inProgressSuffix = ".inprogress"
	stampLayout      = "2006-01-02_15-04-05"

	// progressEvery is the file interval between progress.json rewrites.
	progressEvery = 20

	defaultKeep          = 7
	defaultIntervalHours = 24
)

// excludedDirs are skipped wholesale wherever they appear in the tree.
var excludedDirs = map[string]bool{
	".git":          true,
	"node_modules":  true,
	"__pycache__":   true,
	".venv":         true,
	".cache":        true,
	".parcel-cache": true,
	"dist":          true,
	"build":         true,
	".next":         true,
	"backups":       true,
}

// excludedSuffixes are file endings never worth archiving.
var excludedSuffixes = []string{".pyc", ".pyo", ".log", inProgressSuffix}

// ArchiveInfo describes one finished archive on disk.
type ArchiveInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Created time.Time `json:"created"`
}

// Worker owns the backup directory. All operations are safe for
// concurrent use; at most one archive run is active at a time.
type Worker struct {
	dir        string
	sourceRoot string
	keep       int
	interval   time.Duration

	mu      sync.Mutex
	running bool
}

// NewWorker creates the backup directory when missing and returns the
// worker configured from cfg, with rotation and interval defaults applied.
func NewWorker(cfg config.Backup) (*Worker, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	keep := cfg.Keep
	if keep <= 0 {
		keep = defaultKeep
	}

	hours := cfg.IntervalHours
	if hours <= 0 {
		hours = defaultIntervalHours
	}

	sourceRoot, err := filepath.Abs(cfg.SourceRoot)
	if err != nil {
		return nil, errors.Wrap(err, "resolving backup source root")
	}

	return &Worker{
		dir:        cfg.Dir,
		sourceRoot: sourceRoot,
		keep:       keep,
		interval:   time.Duration(hours) * time.Hour,
	}, nil
}

// Schedule registers the periodic run on the given cron instance.
func (w *Worker) Schedule(c *cron.Cron) error {
	_, err := c.AddFunc(fmt.Sprintf("@every %s", w.interval), func() {
		if _, err := w.Run(); err != nil && !errors.Is(err, ErrBackupInProgress) {
			log.Error().Err(err).Msg("scheduled backup failed")
		}
	})

	return errors.Wrap(err, "scheduling backup")
}

// Running reports whether an archive run is currently active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.running
}

// Status summarizes the worker for the admin endpoint.
func (w *Worker) Status() (State, *Progress, bool) {
	return w.loadState(), w.loadProgress(), w.Running()
}

// Run builds a new archive synchronously and returns its filename. It
// fails with ErrBackupInProgress when another run is active.
func (w *Worker) Run() (string, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return "", ErrBackupInProgress
	}

	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	return w.archive()
}

// RunAsync starts an archive run in the background and returns the name
// the archive will have. Progress is observable via Status.
func (w *Worker) RunAsync() (string, error) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return "", ErrBackupInProgress
	}

	w.running = true
	w.mu.Unlock()

	name := archivePrefix + time.Now().Format(stampLayout) + archiveSuffix

	go func() {
		defer func() {
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
		}()

		if _, err := w.archiveNamed(name); err != nil {
			log.Error().Err(err).Str("archive", name).Msg("background backup failed")
		}
	}()

	return name, nil
}

// Cancel requests cancellation of the active run. A canceled run removes
// its partial archive. Calling Cancel with no active run is a no-op.
func (w *Worker) Cancel() {
	if w.Running() {
		w.requestCancel()
	}
}

// List returns finished archives, newest first.
func (w *Worker) List() ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading backup directory")
	}

	archives := make([]ArchiveInfo, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), archiveSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		archives = append(archives, ArchiveInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			Created: info.ModTime(),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].Created.After(archives[j].Created)
	})

	return archives, nil
}

// Path resolves an archive name to its path for download. Names with path
// separators or without the archive suffix are rejected.
func (w *Worker) Path(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasSuffix(strings.ToLower(name), archiveSuffix) {
		return "", ErrInvalidArchiveName
	}

	path := filepath.Join(w.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", ErrArchiveNotFound
	}

	return path, nil
}

// Remove deletes one archive by name.
func (w *Worker) Remove(name string) error {
	path, err := w.Path(name)
	if err != nil {
		return err
	}

	return errors.Wrap(os.Remove(path), "removing backup archive")
}

// Rotate deletes the oldest archives beyond the retention count.
func (w *Worker) Rotate() {
	archives, err := w.List()
	if err != nil {
		log.Error().Err(err).Msg("backup rotation failed to list archives")
		return
	}

	for _, old := range archives[min(w.keep, len(archives)):] {
		if err := os.Remove(filepath.Join(w.dir, old.Name)); err != nil {
			log.Warn().Err(err).Str("archive", old.Name).Msg("backup rotation failed to remove archive")
		}
	}
}

func (w *Worker) archive() (string, error) {
	return w.archiveNamed(archivePrefix + time.Now().Format(stampLayout) + archiveSuffix)
}

// archiveNamed walks the source tree and writes the archive under an
// .inprogress guard. The caller holds the running flag.
func (w *Worker) archiveNamed(name string) (string, error) {
	zipPath := filepath.Join(w.dir, name)
	guardPath := zipPath + inProgressSuffix

	guard, err := os.OpenFile(guardPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if os.IsExist(err) {
			return "", ErrBackupInProgress
		}

		return "", errors.Wrap(err, "creating backup guard file")
	}

	_ = guard.Close()

	defer func() {
		_ = os.Remove(guardPath)
		w.clearCancel()
	}()

	files, err := w.collectCandidates()
	if err != nil {
		return "", err
	}

	canceled, err := w.writeArchive(zipPath, name, files)
	if err != nil {
		_ = os.Remove(zipPath)
		return "", err
	}

	if canceled {
		_ = os.Remove(zipPath)

		p := w.loadProgress()
		if p == nil {
			p = &Progress{}
		}

		w.saveProgress(Progress{
			Percent:   p.Percent,
			Processed: p.Processed,
			Total:     p.Total,
			File:      name,
			Canceled:  true,
		})

		log.Info().Str("archive", name).Msg("backup canceled")

		return "", nil
	}

	now := time.Now()
	w.saveState(State{LastBackupAt: &now})
	w.saveProgress(Progress{
		Percent:   100,
		Processed: len(files),
		Total:     len(files),
		File:      name,
	})
	w.Rotate()

	log.Info().Str("archive", name).Int("files", len(files)).Msg("backup completed")

	return name, nil
}

func (w *Worker) writeArchive(zipPath, name string, files []string) (bool, error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return false, errors.Wrap(err, "creating backup archive")
	}
	defer func() { _ = out.Close() }()

	zw := zip.NewWriter(out)
	defer func() { _ = zw.Close() }()

	w.saveProgress(Progress{Running: true, Total: len(files), File: name})

	for i, rel := range files {
		if w.cancelRequested() {
			return true, nil
		}

		if err := w.addFile(zw, rel); err != nil {
			// Skip unreadable files; a backup with gaps beats no backup.
			log.Warn().Err(err).Str("file", rel).Msg("skipping file in backup")
		}

		if (i+1)%progressEvery == 0 || i+1 == len(files) {
			percent := float64(i+1) * 100 / float64(len(files))

			w.saveProgress(Progress{
				Running:   true,
				Percent:   percent,
				Processed: i + 1,
				Total:     len(files),
				Current:   rel,
				File:      name,
			})
		}
	}

	if err := zw.Close(); err != nil {
		return false, errors.Wrap(err, "finalizing backup archive")
	}

	return false, errors.Wrap(out.Close(), "closing backup archive")
}

func (w *Worker) addFile(zw *zip.Writer, rel string) error {
	abs := filepath.Join(w.sourceRoot, rel)

	// Keep the archive inside the source root even if a walk entry was
	// symlinked elsewhere.
	if resolved, err := filepath.Abs(abs); err != nil || !strings.HasPrefix(resolved, w.sourceRoot) {
		return errors.New("file escapes source root")
	}

	src, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := zw.Create(filepath.ToSlash(rel))
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)

	return err
}

// collectCandidates walks the source root applying the exclusion rules
// and returns relative paths.
func (w *Worker) collectCandidates() ([]string, error) {
	var files []string

	err := filepath.WalkDir(w.sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtree: skip it, keep archiving the rest.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		if d.IsDir() {
			if path != w.sourceRoot && excludedDirs[d.Name()] {
				return filepath.SkipDir
			}

			return nil
		}

		rel, err := filepath.Rel(w.sourceRoot, path)
		if err != nil {
			return nil
		}

		if excludedFile(rel) {
			return nil
		}

		files = append(files, rel)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking backup source root")
	}

	return files, nil
}

func excludedFile(rel string) bool {
	lower := strings.ToLower(rel)
	for _, suffix := range excludedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}

	return false
}
