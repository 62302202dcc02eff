package renom

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var ErrReverting = errors.New("engine is reverting; no further changes can be executed")

type State int

const (
	StateIdle State = iota
	StateAllApplied
	StateHaltedOnApplyError
	StateFullyReverted
	StateHaltedOnRevertError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAllApplied:
		return "all-applied"
	case StateHaltedOnApplyError:
		return "halted-on-apply-error"
	case StateFullyReverted:
		return "fully-reverted"
	case StateHaltedOnRevertError:
		return "halted-on-revert-error"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Entry pairs an applied change with the action that undoes it.
type Entry struct {
	Change Change
	Revert Revert
}

// StepFunc is called before each change is applied ("apply") or reverted
// ("revert").
type StepFunc func(process string, c Change)

// Engine applies changesets in order and keeps a history that can be
// unwound in reverse.
type Engine struct {
	history   []Entry
	state     State
	reverting bool
	log       zerolog.Logger
	onStep    StepFunc
}

func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log}
}

func (e *Engine) SetStepCallback(cb StepFunc) { e.onStep = cb }

// Execute applies changes in order. It stops at the first failure and
// returns that error unchanged; only the changes applied before it are in
// the history. Execute never reverts on its own.
func (e *Engine) Execute(changes []Change, backupDir string) error {
	if e.reverting {
		return ErrReverting
	}

	log := e.log.With().Str("category", "engine").Logger()
	log.Debug().Int("changes", len(changes)).Str("backup_dir", backupDir).Msg("starting execution")

	for i, c := range changes {
		log.Debug().Int("index", i+1).Stringer("change", c).Msg("executing change")
		e.step("apply", c)

		revert, err := ApplyChange(c, backupDir, e.log)
		if err != nil {
			e.state = StateHaltedOnApplyError
			return err
		}
		e.history = append(e.history, Entry{Change: c, Revert: revert})
		log.Debug().Int("index", i+1).Msg("change completed")
	}

	e.state = StateAllApplied
	log.Debug().Msg("all changes executed")
	return nil
}

// Revert unwinds the history most recent first. On the first failure it
// stops; the failing entry and everything before it stay in the history.
func (e *Engine) Revert() error {
	e.reverting = true

	log := e.log.With().Str("category", "revert").Logger()
	log.Debug().Int("changes", len(e.history)).Msg("starting revert")

	count := 0
	for len(e.history) > 0 {
		last := e.history[len(e.history)-1]
		count++
		log.Debug().Int("index", count).Stringer("change", last.Change).Msg("reverting change")
		e.step("revert", last.Change)

		if err := last.Revert.Run(e.log); err != nil {
			e.state = StateHaltedOnRevertError
			return err
		}
		e.history = e.history[:len(e.history)-1]
		log.Debug().Int("index", count).Msg("change reverted")
	}

	e.state = StateFullyReverted
	log.Debug().Msg("all changes reverted")
	return nil
}

func (e *Engine) History() []Entry {
	return append([]Entry(nil), e.history...)
}

func (e *Engine) Len() int { return len(e.history) }

func (e *Engine) State() State { return e.state }

func (e *Engine) step(process string, c Change) {
	if e.onStep != nil {
		e.onStep(process, c)
	}
}

// ExecuteError reports a failed Execute together with the outcome of the
// rollback that followed it.
type ExecuteError struct {
	Err       error
	RevertErr error
}

func (e *ExecuteError) Error() string {
	if e.RevertErr != nil {
		return fmt.Sprintf("%v (revert failed: %v)", e.Err, e.RevertErr)
	}
	return e.Err.Error()
}

func (e *ExecuteError) Unwrap() []error {
	if e.RevertErr != nil {
		return []error{e.Err, e.RevertErr}
	}
	return []error{e.Err}
}

// ApplyOrRevert executes changes and, if that fails, reverts everything that
// was applied. A nil RevertErr in the returned *ExecuteError means the tree
// was fully restored. An engine that has already started reverting is left
// alone and ErrReverting is returned as is.
func ApplyOrRevert(e *Engine, changes []Change, backupDir string) error {
	err := e.Execute(changes, backupDir)
	if err == nil || errors.Is(err, ErrReverting) {
		return err
	}
	return &ExecuteError{Err: err, RevertErr: e.Revert()}
}
