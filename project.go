package renom

import (
	"path/filepath"
)

const (
	gameNameSection    = "URL"
	gameNameKey        = "GameName"
	projectNameSection = "/Script/EngineSettings.GeneralProjectSettings"
	projectNameKey     = "ProjectName"
)

type ProjectParams struct {
	ProjectRoot string
	NewName     string
}

type projectContext struct {
	root    string
	name    string
	newName string
}

func (a *App) RenameProject(p ProjectParams) error {
	return a.guard(func() error {
		ctx, err := a.projectContext(p)
		if err != nil {
			return err
		}
		return a.apply(
			ctx.root,
			ProjectChangeset(ctx.root, ctx.name, ctx.newName),
			"Successfully renamed project "+ctx.name+" to "+ctx.newName+".",
			"Failed to rename project "+ctx.name+" to "+ctx.newName+".",
		)
	})
}

func (a *App) projectContext(p ProjectParams) (*projectContext, error) {
	log := a.log.With().Str("category", "validation").Logger()
	log.Debug().Str("root", p.ProjectRoot).Msg("validating project rename")

	root, err := filepath.Abs(p.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if err := validateProjectRoot(root); err != nil {
		return nil, err
	}
	name, err := DetectProjectName(root)
	if err != nil {
		return nil, err
	}

	var taken []string
	if exists(filepath.Join(filepath.Dir(root), p.NewName)) {
		taken = append(taken, p.NewName)
	}
	if err := validateNewName(p.NewName, name, "directory next to the project", taken); err != nil {
		return nil, err
	}

	log.Debug().Str("project", name).Str("new_name", p.NewName).Msg("project context gathered")
	return &projectContext{root: root, name: name, newName: p.NewName}, nil
}

// ProjectChangeset renames the descriptor and the project directory and
// records the new name in the engine and game config.
func ProjectChangeset(root, oldName, newName string) []Change {
	return []Change{
		NewSetIniEntry(engineConfig(root), gameNameSection, gameNameKey, newName),
		NewSetIniEntry(gameConfig(root), projectNameSection, projectNameKey, newName),
		NewRenameFile(projectDescriptor(root, oldName), projectDescriptor(root, newName)),
		NewRenameFile(root, filepath.Join(filepath.Dir(root), newName)),
	}
}
