package renom

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	stateDirName  = ".renom"
	backupDirName = "backup"
)

// contentDigest is the backup name for content: its hex SHA-256.
func contentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// BackupFile stores the current content of path in backupDir under the hex
// SHA-256 of that content and returns the backup path. Identical content
// always maps to the same file, so repeated backups are no-ops in effect.
func BackupFile(path, backupDir string, log zerolog.Logger) (string, error) {
	log = log.With().Str("category", "backup").Logger()
	log.Debug().Str("path", path).Msg("creating backup")

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	hash := contentDigest(content)
	dest := filepath.Join(backupDir, hash)
	log.Debug().Str("hash", hash).Str("backup", dest).Msg("backup target")

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}
	if err := os.WriteFile(dest, content, 0644); err != nil {
		return "", fmt.Errorf("backup %s: %w", path, err)
	}

	log.Debug().Msg("backup created")
	return dest, nil
}

// CreateBackupDir prepares <root>/.renom/backup.
func CreateBackupDir(root string, log zerolog.Logger) (string, error) {
	dir := filepath.Join(root, stateDirName, backupDirName)
	log.Debug().Str("category", "backup").Str("dir", dir).Msg("creating backup directory")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create backup directory '%s': %w", dir, err)
	}
	return dir, nil
}
