package renom

import (
	"path/filepath"
	"regexp"
	"strings"
)

type TargetParams struct {
	ProjectRoot string
	Target      string
	NewName     string
}

type targetContext struct {
	root    string
	target  Target
	newName string
}

func (a *App) RenameTarget(p TargetParams) error {
	return a.guard(func() error {
		ctx, err := a.targetContext(p)
		if err != nil {
			return err
		}
		return a.apply(
			ctx.root,
			TargetChangeset(ctx.root, ctx.target, ctx.newName),
			"Successfully renamed target "+ctx.target.Name+" to "+ctx.newName+".",
			"Failed to rename target "+ctx.target.Name+" to "+ctx.newName+".",
		)
	})
}

func (a *App) targetContext(p TargetParams) (*targetContext, error) {
	log := a.log.With().Str("category", "validation").Logger()
	log.Debug().Str("root", p.ProjectRoot).Str("target", p.Target).Msg("validating target rename")

	root, err := filepath.Abs(p.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if err := validateProjectRoot(root); err != nil {
		return nil, err
	}
	if err := validateSourceDir(root); err != nil {
		return nil, err
	}

	targets, err := DetectTargets(root)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("targets", len(targets)).Msg("targets detected")

	target, ok := findTarget(targets, p.Target)
	if !ok {
		return nil, invalid("target must be part of project")
	}

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	if err := validateNewName(p.NewName, target.Name, "target", names); err != nil {
		return nil, err
	}

	return &targetContext{root: root, target: target, newName: p.NewName}, nil
}

func findTarget(targets []Target, name string) (Target, bool) {
	for _, t := range targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// TargetChangeset renames the target file and the target class it declares.
func TargetChangeset(root string, target Target, newName string) []Change {
	newPath := filepath.Join(root, sourceDir, newName+targetSuffix)
	return []Change{
		NewRenameFile(target.Path, newPath),
		MustReplaceInFile(newPath, wordPattern(target.Name+"Target"), literal(newName+"Target")),
	}
}

func wordPattern(word string) string {
	return `\b` + regexp.QuoteMeta(word) + `\b`
}

// literal escapes s for use as a replacement template.
func literal(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
