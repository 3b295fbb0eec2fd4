package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	stateFile    = "state.json"
	progressFile = "progress.json"
	cancelFile   = "cancel.flag"
)

// State is the persisted worker state, surviving restarts.
type State struct {
	LastBackupAt *time.Time `json:"last_backup_at"`
}

// Progress is the persisted snapshot of a running or finished archive run.
type Progress struct {
	Running   bool    `json:"running"`
	Percent   float64 `json:"percent"`
	Processed int     `json:"processed"`
	Total     int     `json:"total"`
	Current   string  `json:"current,omitempty"`
	File      string  `json:"file,omitempty"`
	Canceled  bool    `json:"canceled"`
}

// loadState reads state.json. A missing or corrupt file yields the zero
// state; backups must never fail because of bookkeeping.
func (w *Worker) loadState() State {
	var state State

	data, err := os.ReadFile(filepath.Join(w.dir, stateFile))
	if err != nil {
		return state
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return State{}
	}

	return state
}

func (w *Worker) saveState(state State) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return
	}

	_ = os.WriteFile(filepath.Join(w.dir, stateFile), data, 0o640)
}

// loadProgress returns the last persisted progress, or nil when no run has
// happened yet.
func (w *Worker) loadProgress() *Progress {
	data, err := os.ReadFile(filepath.Join(w.dir, progressFile))
	if err != nil {
		return nil
	}

	var p Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}

	return &p
}

func (w *Worker) saveProgress(p Progress) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}

	_ = os.WriteFile(filepath.Join(w.dir, progressFile), data, 0o640)
}

// requestCancel drops the cancel flag file; the running archive loop polls
// for it between files.
func (w *Worker) requestCancel() {
	f, err := os.Create(filepath.Join(w.dir, cancelFile))
	if err != nil {
		return
	}

	_ = f.Close()
}

func (w *Worker) clearCancel() {
	_ = os.Remove(filepath.Join(w.dir, cancelFile))
}

func (w *Worker) cancelRequested() bool {
	_, err := os.Stat(filepath.Join(w.dir, cancelFile))
	return err == nil
}
