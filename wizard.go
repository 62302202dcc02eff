package renom

import (
	"errors"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

const (
	workflowProject = "project"
	workflowPlugin  = "plugin"
	workflowTarget  = "target"
	workflowModule  = "module"
)

var ErrNotInteractive = errors.New("wizard requires an interactive terminal")

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RunWizard asks for the workflow and its parameters, then runs it.
func (a *App) RunWizard() error {
	if !isTerminal(a.cfg.In) {
		return ErrNotInteractive
	}

	var workflow, root string
	err := a.form(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What would you like to rename?").
			Options(workflowOptions()...).
			Value(&workflow),
		huh.NewInput().
			Title("Project root").
			Value(&root).
			Validate(func(s string) error {
				abs, err := filepath.Abs(s)
				if err != nil {
					return err
				}
				return validateProjectRoot(abs)
			}),
	)).Run()
	if err != nil {
		return err
	}

	if workflow == workflowProject {
		newName, err := a.askNewName("New project name")
		if err != nil {
			return err
		}
		return a.RenameProject(ProjectParams{ProjectRoot: root, NewName: newName})
	}

	items, err := wizardItems(root, workflow)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return invalid("project has no %ss", workflow)
	}

	var item string
	if err := a.form(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Which " + workflow + "?").
			Options(huh.NewOptions(items...)...).
			Value(&item),
	)).Run(); err != nil {
		return err
	}

	newName, err := a.askNewName("New " + workflow + " name")
	if err != nil {
		return err
	}

	switch workflow {
	case workflowPlugin:
		return a.RenamePlugin(PluginParams{ProjectRoot: root, Plugin: item, NewName: newName})
	case workflowTarget:
		return a.RenameTarget(TargetParams{ProjectRoot: root, Target: item, NewName: newName})
	default:
		return a.RenameModule(ModuleParams{ProjectRoot: root, Module: item, NewName: newName})
	}
}

func (a *App) askNewName(title string) (string, error) {
	var name string
	err := a.form(huh.NewGroup(
		huh.NewInput().
			Title(title).
			Value(&name).
			Validate(func(s string) error { return validateNewName(s, "", "item", nil) }),
	)).Run()
	return name, err
}

func (a *App) form(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithProgramOptions(tea.WithInput(a.cfg.In), tea.WithOutput(a.cfg.Out))
}

func workflowOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Project", workflowProject),
		huh.NewOption("Plugin", workflowPlugin),
		huh.NewOption("Target", workflowTarget),
		huh.NewOption("Module", workflowModule),
	}
}

// wizardItems lists the names a workflow can pick from.
func wizardItems(root, workflow string) ([]string, error) {
	var names []string
	switch workflow {
	case workflowPlugin:
		plugins, err := DetectPlugins(root)
		if err != nil {
			return nil, err
		}
		for _, p := range plugins {
			names = append(names, p.Name)
		}
	case workflowTarget:
		targets, err := DetectTargets(root)
		if err != nil {
			return nil, err
		}
		for _, t := range targets {
			names = append(names, t.Name)
		}
	case workflowModule:
		modules, err := DetectModules(root)
		if err != nil {
			return nil, err
		}
		for _, m := range modules {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
