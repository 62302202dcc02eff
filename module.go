package renom

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type ModuleParams struct {
	ProjectRoot string
	Module      string
	NewName     string
}

type moduleContext struct {
	root        string
	projectName string
	module      Module
	targets     []Target
	headers     []string
	newName     string
}

func (a *App) RenameModule(p ModuleParams) error {
	return a.guard(func() error {
		ctx, err := a.moduleContext(p)
		if err != nil {
			return err
		}
		return a.apply(
			ctx.root,
			ModuleChangeset(ctx.root, ctx.projectName, ctx.module, ctx.targets, ctx.headers, ctx.newName),
			"Successfully renamed module "+ctx.module.Name+" to "+ctx.newName+".",
			"Failed to rename module "+ctx.module.Name+" to "+ctx.newName+".",
		)
	})
}

func (a *App) moduleContext(p ModuleParams) (*moduleContext, error) {
	log := a.log.With().Str("category", "validation").Logger()
	log.Debug().Str("root", p.ProjectRoot).Str("module", p.Module).Msg("validating module rename")

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
	projectName, err := DetectProjectName(root)
	if err != nil {
		return nil, err
	}
	if err := validateFileExists(engineConfig(root), "Config/DefaultEngine.ini"); err != nil {
		return nil, err
	}

	modules, err := DetectModules(root)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("modules", len(modules)).Msg("modules detected")

	var module Module
	names := make([]string, 0, len(modules))
	for _, m := range modules {
		names = append(names, m.Name)
		if m.Name == p.Module {
			module = m
		}
	}
	if module.Name == "" {
		return nil, invalid("module must be part of project")
	}
	if err := validateNewName(p.NewName, module.Name, "module", names); err != nil {
		return nil, err
	}

	targets, err := DetectTargets(root)
	if err != nil {
		return nil, err
	}
	headers, err := headersUsingMacro(module, apiMacro(module.Name))
	if err != nil {
		return nil, err
	}
	log.Debug().Int("targets", len(targets)).Int("headers", len(headers)).Msg("module context gathered")

	return &moduleContext{
		root:        root,
		projectName: projectName,
		module:      module,
		targets:     targets,
		headers:     headers,
		newName:     p.NewName,
	}, nil
}

func apiMacro(module string) string {
	return strings.ToUpper(module) + "_API"
}

func headersUsingMacro(m Module, macro string) ([]string, error) {
	all, err := moduleHeaders(m)
	if err != nil {
		return nil, err
	}

	var headers []string
	for _, h := range all {
		content, err := os.ReadFile(h)
		if err != nil {
			return nil, err
		}
		if bytes.Contains(content, []byte(macro)) {
			headers = append(headers, h)
		}
	}
	return headers, nil
}

// ModuleChangeset edits every file that names the module while paths are
// still the old ones, then renames the build file and the module directory.
func ModuleChangeset(root, projectName string, module Module, targets []Target, headers []string, newName string) []Change {
	changes := []Change{
		MustReplaceInFile(module.BuildFile(), wordPattern(module.Name), literal(newName)),
		MustReplaceInFile(projectDescriptor(root, projectName), jsonArrayFieldPattern("Modules", "Name", module.Name), jsonFieldReplacement(newName)),
	}
	for _, t := range targets {
		changes = append(changes, MustReplaceInFile(t.Path, `"`+regexp.QuoteMeta(module.Name)+`"`, literal(`"`+newName+`"`)))
	}
	for _, h := range headers {
		changes = append(changes, MustReplaceInFile(h, wordPattern(apiMacro(module.Name)), literal(apiMacro(newName))))
	}
	return append(changes,
		NewAppendIniEntry(engineConfig(root), redirectsSection, packageRedirectKey,
			fmt.Sprintf(`(OldName="/Script/%s",NewName="/Script/%s")`, module.Name, newName)),
		NewRenameFile(module.BuildFile(), filepath.Join(module.Root, newName+buildSuffix)),
		NewRenameFile(module.Root, filepath.Join(root, sourceDir, newName)),
	)
}
