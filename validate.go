package renom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const maxNameLength = 30

var identifierRegex = regexp.MustCompile(`^[_[:alnum:]]*$`)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func validateProjectRoot(root string) error {
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return invalid("project root must be a directory")
	}
	if _, err := DetectProjectName(root); err != nil {
		return invalid("project root must contain a project descriptor")
	}
	return nil
}

func validateSourceDir(root string) error {
	fi, err := os.Stat(filepath.Join(root, sourceDir))
	if err != nil || !fi.IsDir() {
		return invalid("project root must contain a Source folder")
	}
	return nil
}

func validateFileExists(path, what string) error {
	if _, err := os.Stat(path); err != nil {
		return invalid("project must contain %s", what)
	}
	return nil
}

// validateNewName applies the naming rules shared by every workflow. taken
// holds the names of the existing items of the same kind.
func validateNewName(newName, current, kind string, taken []string) error {
	if strings.TrimSpace(newName) == "" {
		return invalid("new name must not be empty")
	}
	if len(newName) > maxNameLength {
		return invalid("new name must not be longer than %d characters", maxNameLength)
	}
	if newName == current {
		return invalid("new name must be different from the current name")
	}
	for _, t := range taken {
		if t == newName {
			return invalid("new name must not conflict with another %s", kind)
		}
	}
	if !identifierRegex.MatchString(newName) {
		return invalid("new name must be comprised of alphanumeric characters and underscores only")
	}
	return nil
}
