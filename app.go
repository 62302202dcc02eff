package renom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// ErrRolledBack is returned by a workflow whose changes failed and were all
// reverted.
var ErrRolledBack = errors.New("all applied changes were reverted")

type Config struct {
	In      io.Reader
	Out     io.Writer
	Verbose bool
}

type App struct {
	cfg     *Config
	printer *Printer
	log     zerolog.Logger
}

type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string { return e.Err.Error() }

func (e *DetailedError) Unwrap() error { return e.Err }

func NewApp(cfg *Config) *App {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	return &App{
		cfg:     cfg,
		printer: NewPrinter(cfg.Out),
		log:     NewLogger(cfg.Out, cfg.Verbose),
	}
}

func (a *App) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{Err: fmt.Errorf("panic: %v", r), Stack: debug.Stack()}
		}
	}()
	return fn()
}

// apply runs the changeset for a workflow. When execution fails, the applied
// changes are reverted before returning.
func (a *App) apply(root string, changes []Change, success, failure string) error {
	backupDir, err := CreateBackupDir(root, a.log)
	if err != nil {
		return err
	}

	engine := NewEngine(a.log)
	engine.SetStepCallback(func(process string, c Change) { a.printer.Step(process, c) })

	a.printer.Header("Applying changes")
	a.printer.Basic(fmt.Sprintf("%d changes, backups in %s", len(changes), backupDir))
	err = ApplyOrRevert(engine, changes, backupDir)
	if err == nil {
		a.printer.Success(success)
		return nil
	}

	var xe *ExecuteError
	if !errors.As(err, &xe) {
		return err
	}
	a.printer.Error(xe.Err.Error())
	if xe.RevertErr != nil {
		a.printer.Error(fmt.Sprintf("Revert failed, project left partially modified: %v", xe.RevertErr))
		return err
	}
	a.printer.Error(failure)
	return fmt.Errorf("%s: %w", failure, ErrRolledBack)
}
