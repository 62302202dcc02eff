package renom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	projectExt   = ".uproject"
	pluginExt    = ".uplugin"
	targetSuffix = ".Target.cs"
	buildSuffix  = ".Build.cs"
	sourceDir    = "Source"
	pluginsDir   = "Plugins"
	configDir    = "Config"
)

// Target is a build target declared by Source/<Name>.Target.cs.
type Target struct {
	Name string
	Path string
}

// Module is a code module rooted at Source/<Name> with a <Name>.Build.cs.
type Module struct {
	Name string
	Root string
}

// Plugin is a project plugin rooted at Plugins/<Name> with a <Name>.uplugin.
type Plugin struct {
	Name string
	Root string
}

func (m Module) BuildFile() string { return filepath.Join(m.Root, m.Name+buildSuffix) }

func (p Plugin) Descriptor() string { return filepath.Join(p.Root, p.Name+pluginExt) }

func engineConfig(root string) string {
	return filepath.Join(root, configDir, "DefaultEngine.ini")
}

func gameConfig(root string) string {
	return filepath.Join(root, configDir, "DefaultGame.ini")
}

func projectDescriptor(root, name string) string {
	return filepath.Join(root, name+projectExt)
}

// DetectProjectName returns the base name of the single .uproject in root.
func DetectProjectName(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != projectExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), projectExt))
	}

	switch len(names) {
	case 0:
		return "", fmt.Errorf("no project descriptor found in %s", root)
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("multiple project descriptors found in %s: %s", root, strings.Join(names, ", "))
	}
}

func DetectTargets(root string) ([]Target, error) {
	dir := filepath.Join(root, sourceDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var targets []Target
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), targetSuffix)
		if e.IsDir() || !ok {
			continue
		}
		targets = append(targets, Target{Name: name, Path: filepath.Join(dir, e.Name())})
	}
	return targets, nil
}

func DetectModules(root string) ([]Module, error) {
	dir := filepath.Join(root, sourceDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var modules []Module
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := Module{Name: e.Name(), Root: filepath.Join(dir, e.Name())}
		if _, err := os.Stat(m.BuildFile()); err != nil {
			continue
		}
		modules = append(modules, m)
	}
	return modules, nil
}

func DetectPlugins(root string) ([]Plugin, error) {
	dir := filepath.Join(root, pluginsDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var plugins []Plugin
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p := Plugin{Name: e.Name(), Root: filepath.Join(dir, e.Name())}
		if _, err := os.Stat(p.Descriptor()); err != nil {
			continue
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// moduleHeaders lists the .h files below a module root.
func moduleHeaders(m Module) ([]string, error) {
	var headers []string
	err := filepath.WalkDir(m.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".h" {
			headers = append(headers, path)
		}
		return nil
	})
	return headers, err
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
