package renom

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidPattern = errors.New("invalid pattern")
	ErrUnknownChange  = errors.New("unknown change")
)

// Change describes one filesystem mutation. The set of variants is closed:
// RenameFile, ReplaceInFile, SetIniEntry and AppendIniEntry.
type Change interface {
	fmt.Stringer
	change()
}

type RenameFile struct {
	From string
	To   string
}

type ReplaceInFile struct {
	Path        string
	Pattern     string
	Replacement string
}

type SetIniEntry struct {
	Path    string
	Section string
	Key     string
	Value   string
}

type AppendIniEntry struct {
	Path    string
	Section string
	Key     string
	Value   string
}

func (RenameFile) change()     {}
func (ReplaceInFile) change()  {}
func (SetIniEntry) change()    {}
func (AppendIniEntry) change() {}

func NewRenameFile(from, to string) RenameFile {
	return RenameFile{From: from, To: to}
}

// NewReplaceInFile validates pattern up front so that a bad changeset is
// rejected before anything on disk is touched.
func NewReplaceInFile(path, pattern, replacement string) (ReplaceInFile, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return ReplaceInFile{}, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
	}
	return ReplaceInFile{Path: path, Pattern: pattern, Replacement: replacement}, nil
}

// MustReplaceInFile is like NewReplaceInFile but panics on an invalid pattern.
// Use it only with patterns built from escaped literals.
func MustReplaceInFile(path, pattern, replacement string) ReplaceInFile {
	c, err := NewReplaceInFile(path, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return c
}

func NewSetIniEntry(path, section, key, value string) SetIniEntry {
	return SetIniEntry{Path: path, Section: section, Key: key, Value: value}
}

func NewAppendIniEntry(path, section, key, value string) AppendIniEntry {
	return AppendIniEntry{Path: path, Section: section, Key: key, Value: value}
}

func (c RenameFile) String() string {
	return fmt.Sprintf("rename %s -> %s", c.From, c.To)
}

func (c ReplaceInFile) String() string {
	return fmt.Sprintf("replace /%s/ with %q in %s", c.Pattern, c.Replacement, c.Path)
}

func (c SetIniEntry) String() string {
	return fmt.Sprintf("set [%s] %s=%s in %s", c.Section, c.Key, c.Value, c.Path)
}

func (c AppendIniEntry) String() string {
	return fmt.Sprintf("append [%s] %s=%s to %s", c.Section, c.Key, c.Value, c.Path)
}

// ApplyChange performs c and returns the action that undoes it. Every variant
// except RenameFile backs up the target into backupDir before writing it.
func ApplyChange(c Change, backupDir string, log zerolog.Logger) (Revert, error) {
	switch c := c.(type) {
	case RenameFile:
		return renameFile(c, log)
	case ReplaceInFile:
		return replaceInFile(c, backupDir, log)
	case SetIniEntry:
		return setIniEntry(c, backupDir, log)
	case AppendIniEntry:
		return appendIniEntry(c, backupDir, log)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownChange, c)
	}
}

func renameFile(c RenameFile, log zerolog.Logger) (Revert, error) {
	clog := log.With().Str("category", "rename_file").Logger()
	clog.Debug().Str("from", c.From).Str("to", c.To).Msg("renaming")

	// os.Rename silently replaces an existing regular file on unix.
	if _, err := os.Lstat(c.To); err == nil {
		return nil, fmt.Errorf("rename %s -> %s: %w", c.From, c.To, os.ErrExist)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("rename %s -> %s: %w", c.From, c.To, err)
	}
	if err := os.Rename(c.From, c.To); err != nil {
		return nil, err
	}

	clog.Debug().Msg("file renamed")
	return RenameBack{From: c.From, To: c.To}, nil
}

func replaceInFile(c ReplaceInFile, backupDir string, log zerolog.Logger) (Revert, error) {
	clog := log.With().Str("category", "replace_in_file").Logger()
	clog.Debug().Str("path", c.Path).Str("pattern", c.Pattern).Str("replacement", c.Replacement).Msg("processing file")

	re, err := regexp.Compile(c.Pattern)
	if err != nil {
		return nil, fmt.Errorf("replace in %s: %w %q: %v", c.Path, ErrInvalidPattern, c.Pattern, err)
	}

	backup, err := BackupFile(c.Path, backupDir, log)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, err
	}
	clog.Debug().Int("size", len(content)).Msg("read file")

	matches := len(re.FindAllIndex(content, -1))
	replaced := re.ReplaceAll(content, []byte(c.Replacement))
	clog.Debug().Int("matches", matches).Int("delta", abs(len(replaced)-len(content))).Msg("replacements made")

	if err := os.WriteFile(c.Path, replaced, filePerm(c.Path)); err != nil {
		return nil, err
	}

	clog.Debug().Msg("file replacement completed")
	return RestoreFromBackup{Backup: backup, Target: c.Path}, nil
}

func setIniEntry(c SetIniEntry, backupDir string, log zerolog.Logger) (Revert, error) {
	clog := log.With().Str("category", "set_ini_entry").Logger()
	clog.Debug().Str("path", c.Path).Str("section", c.Section).Str("key", c.Key).Str("value", c.Value).Msg("processing ini file")

	backup, err := BackupFile(c.Path, backupDir, log)
	if err != nil {
		return nil, err
	}

	err = editIni(c.Path, func(doc *iniDocument) error {
		return doc.Set(c.Section, c.Key, c.Value)
	})
	if err != nil {
		return nil, err
	}

	clog.Debug().Msg("ini entry set")
	return RestoreFromBackup{Backup: backup, Target: c.Path}, nil
}

func appendIniEntry(c AppendIniEntry, backupDir string, log zerolog.Logger) (Revert, error) {
	clog := log.With().Str("category", "append_ini_entry").Logger()
	clog.Debug().Str("path", c.Path).Str("section", c.Section).Str("key", c.Key).Str("value", c.Value).Msg("processing ini file")

	backup, err := BackupFile(c.Path, backupDir, log)
	if err != nil {
		return nil, err
	}

	err = editIni(c.Path, func(doc *iniDocument) error {
		return doc.Append(c.Section, c.Key, c.Value)
	})
	if err != nil {
		return nil, err
	}

	clog.Debug().Msg("ini entry appended")
	return RestoreFromBackup{Backup: backup, Target: c.Path}, nil
}

func filePerm(path string) os.FileMode {
	if fi, err := os.Stat(path); err == nil {
		return fi.Mode().Perm()
	}
	return 0644
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
