// Package vault implements the storage side of the autocrop pipeline:
// reading and writing image bytes by path and preserving pristine backups
// under the _originals convention.
package vault

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BackupDirName is the folder, one level under an image's parent directory,
// where pristine originals are preserved. Paths under it are excluded from
// processing.
const BackupDirName = "_originals"

// Vault performs file operations for the autocrop pipeline.
type Vault struct{}

// New creates a vault.
func New() *Vault {
	return &Vault{}
}

// Read returns the current bytes of an image file.
func (v *Vault) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write replaces the bytes of an image file. The file keeps its permissions
// if it exists; a new file is created 0644.
func (v *Vault) Write(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// BackupPath derives the backup identity for an image:
// <parent>/_originals/<filename>.
func (v *Vault) BackupPath(path string) string {
	return filepath.Join(filepath.Dir(path), BackupDirName, filepath.Base(path))
}

// EnsureBackup copies an image to its backup path before first processing.
//
// The copy is skipped without touching the existing file when a backup is
// already present, even if the source has changed since the backup was
// taken: the backup always preserves the oldest known original. Returns true
// when a new backup was created.
func (v *Vault) EnsureBackup(path string) (bool, error) {
	backup := v.BackupPath(path)
	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read original: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(backup), 0o755); err != nil {
		return false, fmt.Errorf("create backup folder: %w", err)
	}
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// IsBackupPath reports whether a path lies inside a _originals folder at any
// level.
func (v *Vault) IsBackupPath(path string) bool {
	return IsBackupPath(path)
}

// IsBackupPath reports whether a path lies inside a _originals folder at any
// level.
func IsBackupPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == BackupDirName {
			return true
		}
	}
	return false
}
