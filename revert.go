package renom

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// Revert undoes one applied Change. It holds only paths, so it can be run
// long after the Change that produced it is gone.
type Revert interface {
	fmt.Stringer
	Run(log zerolog.Logger) error
}

// RenameBack moves To back to From.
type RenameBack struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RestoreFromBackup overwrites Target with the bytes stored at Backup.
type RestoreFromBackup struct {
	Backup string `json:"backup"`
	Target string `json:"target"`
}

func (r RenameBack) Run(log zerolog.Logger) error {
	log.Debug().Str("category", "revert").Str("from", r.To).Str("to", r.From).Msg("renaming back")
	return os.Rename(r.To, r.From)
}

func (r RenameBack) String() string {
	return fmt.Sprintf("rename %s -> %s", r.To, r.From)
}

func (r RestoreFromBackup) Run(log zerolog.Logger) error {
	log.Debug().Str("category", "revert").Str("backup", r.Backup).Str("target", r.Target).Msg("restoring from backup")
	content, err := os.ReadFile(r.Backup)
	if err != nil {
		return fmt.Errorf("restore %s: %w", r.Target, err)
	}
	if err := os.WriteFile(r.Target, content, filePerm(r.Target)); err != nil {
		return fmt.Errorf("restore %s: %w", r.Target, err)
	}
	return nil
}

func (r RestoreFromBackup) String() string {
	return fmt.Sprintf("restore %s from %s", r.Target, r.Backup)
}
