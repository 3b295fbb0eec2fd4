package backup

import "github.com/pkg/errors"

// Errors returned by the backup worker.
var (
	ErrBackupInProgress   = errors.New("backup already in progress")
	ErrArchiveNotFound    = errors.New("backup archive not found")
	ErrInvalidArchiveName = errors.New("invalid backup archive name")
)
