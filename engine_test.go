package renom

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	dir       string
	backupDir string
	a, b, c   string
}

func newEngineFixture(t *testing.T) engineFixture {
	t.Helper()
	dir := t.TempDir()
	f := engineFixture{
		dir:       dir,
		backupDir: filepath.Join(dir, "backup"),
		a:         filepath.Join(dir, "a.cpp"),
		b:         filepath.Join(dir, "b.ini"),
		c:         filepath.Join(dir, "c.txt"),
	}
	writeFile(t, f.a, "OldName::Init()\n")
	writeFile(t, f.b, "[URL]\nGameName=Old\n")
	writeFile(t, f.c, "plain\n")
	return f
}

func (f engineFixture) changes() []Change {
	return []Change{
		MustReplaceInFile(f.a, "OldName", "NewName"),
		NewSetIniEntry(f.b, "URL", "GameName", "New"),
		NewRenameFile(f.c, filepath.Join(f.dir, "d.txt")),
	}
}

func TestEngine_ExecuteRecordsHistoryInOrder(t *testing.T) {
	f := newEngineFixture(t)
	changes := f.changes()
	e := NewEngine(zerolog.Nop())

	require.NoError(t, e.Execute(changes, f.backupDir))
	assert.Equal(t, StateAllApplied, e.State())

	history := e.History()
	require.Len(t, history, len(changes))
	for i, entry := range history {
		assert.Equal(t, changes[i], entry.Change)
	}
	assert.Equal(t, RenameBack{From: f.c, To: filepath.Join(f.dir, "d.txt")}, history[2].Revert)
}

func TestEngine_ExecuteStopsAtFirstFailure(t *testing.T) {
	f := newEngineFixture(t)
	later := filepath.Join(f.dir, "later.txt")
	changes := []Change{
		MustReplaceInFile(f.a, "OldName", "NewName"),
		NewSetIniEntry(filepath.Join(f.dir, "missing.ini"), "URL", "GameName", "New"),
		NewRenameFile(f.c, later),
	}
	e := NewEngine(zerolog.Nop())

	err := e.Execute(changes, f.backupDir)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, StateHaltedOnApplyError, e.State())
	assert.Equal(t, 1, e.Len())
	assert.FileExists(t, f.c)
	assert.NoFileExists(t, later)
}

func TestEngine_RevertRestoresEverything(t *testing.T) {
	f := newEngineFixture(t)
	e := NewEngine(zerolog.Nop())
	require.NoError(t, e.Execute(f.changes(), f.backupDir))

	require.NoError(t, e.Revert())
	assert.Equal(t, StateFullyReverted, e.State())
	assert.Zero(t, e.Len())
	assert.Equal(t, "OldName::Init()\n", readFile(t, f.a))
	assert.Equal(t, "[URL]\nGameName=Old\n", readFile(t, f.b))
	assert.Equal(t, "plain\n", readFile(t, f.c))
	assert.NoFileExists(t, filepath.Join(f.dir, "d.txt"))
}

func TestEngine_RevertIsLIFO(t *testing.T) {
	f := newEngineFixture(t)
	changes := f.changes()
	e := NewEngine(zerolog.Nop())

	var steps []string
	e.SetStepCallback(func(process string, c Change) { steps = append(steps, process+": "+c.String()) })

	require.NoError(t, e.Execute(changes, f.backupDir))
	require.NoError(t, e.Revert())

	assert.Equal(t, []string{
		"apply: " + changes[0].String(),
		"apply: " + changes[1].String(),
		"apply: " + changes[2].String(),
		"revert: " + changes[2].String(),
		"revert: " + changes[1].String(),
		"revert: " + changes[0].String(),
	}, steps)
}

func TestEngine_RevertHaltsOnFirstFailure(t *testing.T) {
	f := newEngineFixture(t)
	changes := f.changes()
	e := NewEngine(zerolog.Nop())
	require.NoError(t, e.Execute(changes, f.backupDir))

	// Break the second change's revert by removing its backup.
	backup := e.History()[1].Revert.(RestoreFromBackup).Backup
	require.NoError(t, os.Remove(backup))

	var reverted []Change
	e.SetStepCallback(func(process string, c Change) { reverted = append(reverted, c) })

	err := e.Revert()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, StateHaltedOnRevertError, e.State())

	assert.Equal(t, []Change{changes[2], changes[1]}, reverted)
	assert.Equal(t, 2, e.Len())
	assert.Equal(t, "plain\n", readFile(t, f.c), "third change already undone")
	assert.Equal(t, "NewName::Init()\n", readFile(t, f.a), "first change never attempted")
}

func TestEngine_RevertAfterPartialExecute(t *testing.T) {
	f := newEngineFixture(t)
	changes := []Change{
		MustReplaceInFile(f.a, "OldName", "NewName"),
		NewSetIniEntry(f.b, "URL", "GameName", "New"),
		NewRenameFile(filepath.Join(f.dir, "missing.txt"), filepath.Join(f.dir, "x.txt")),
	}
	e := NewEngine(zerolog.Nop())

	require.Error(t, e.Execute(changes, f.backupDir))
	require.Equal(t, 2, e.Len())

	require.NoError(t, e.Revert())
	assert.Equal(t, "OldName::Init()\n", readFile(t, f.a))
	assert.Equal(t, "[URL]\nGameName=Old\n", readFile(t, f.b))
}

func TestEngine_SameFileTouchedTwice(t *testing.T) {
	f := newEngineFixture(t)
	changes := []Change{
		MustReplaceInFile(f.a, "OldName", "MidName"),
		MustReplaceInFile(f.a, "MidName", "NewName"),
	}
	e := NewEngine(zerolog.Nop())

	require.NoError(t, e.Execute(changes, f.backupDir))
	assert.Equal(t, "NewName::Init()\n", readFile(t, f.a))

	require.NoError(t, e.Revert())
	assert.Equal(t, "OldName::Init()\n", readFile(t, f.a))
}

func TestEngine_NoExecuteAfterRevert(t *testing.T) {
	f := newEngineFixture(t)
	e := NewEngine(zerolog.Nop())
	require.NoError(t, e.Execute(f.changes()[:1], f.backupDir))
	require.NoError(t, e.Revert())

	assert.ErrorIs(t, e.Execute(f.changes(), f.backupDir), ErrReverting)
	assert.Equal(t, "OldName::Init()\n", readFile(t, f.a))
}

func TestApplyOrRevert(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newEngineFixture(t)
		e := NewEngine(zerolog.Nop())

		require.NoError(t, ApplyOrRevert(e, f.changes(), f.backupDir))
		assert.Equal(t, 3, e.Len())
	})

	t.Run("failure is reverted", func(t *testing.T) {
		f := newEngineFixture(t)
		changes := append(f.changes(), NewRenameFile(filepath.Join(f.dir, "missing"), filepath.Join(f.dir, "x")))
		e := NewEngine(zerolog.Nop())

		err := ApplyOrRevert(e, changes, f.backupDir)
		var xe *ExecuteError
		require.ErrorAs(t, err, &xe)
		assert.NoError(t, xe.RevertErr)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Zero(t, e.Len())
		assert.Equal(t, "OldName::Init()\n", readFile(t, f.a))
		assert.Equal(t, "plain\n", readFile(t, f.c))
	})

	t.Run("reverting engine is not reverted again", func(t *testing.T) {
		f := newEngineFixture(t)
		e := NewEngine(zerolog.Nop())
		require.NoError(t, e.Execute(f.changes(), f.backupDir))

		backup := e.History()[1].Revert.(RestoreFromBackup).Backup
		require.NoError(t, os.Remove(backup))
		require.Error(t, e.Revert())
		require.Equal(t, 2, e.Len())

		var steps []string
		e.SetStepCallback(func(process string, c Change) { steps = append(steps, process) })

		err := ApplyOrRevert(e, f.changes(), f.backupDir)
		assert.ErrorIs(t, err, ErrReverting)
		var xe *ExecuteError
		assert.False(t, errors.As(err, &xe))
		assert.Empty(t, steps)
		assert.Equal(t, 2, e.Len())
		assert.Equal(t, StateHaltedOnRevertError, e.State())
	})
}
