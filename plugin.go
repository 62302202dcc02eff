package renom

import (
	"fmt"
	"path/filepath"
	"regexp"
)

const (
	redirectsSection   = "CoreRedirects"
	packageRedirectKey = "+PackageRedirects"
)

type PluginParams struct {
	ProjectRoot string
	Plugin      string
	NewName     string
}

type pluginContext struct {
	root        string
	projectName string
	plugin      Plugin
	newName     string
}

func (a *App) RenamePlugin(p PluginParams) error {
	return a.guard(func() error {
		ctx, err := a.pluginContext(p)
		if err != nil {
			return err
		}
		return a.apply(
			ctx.root,
			PluginChangeset(ctx.root, ctx.projectName, ctx.plugin, ctx.newName),
			"Successfully renamed plugin "+ctx.plugin.Name+" to "+ctx.newName+".",
			"Failed to rename plugin "+ctx.plugin.Name+" to "+ctx.newName+".",
		)
	})
}

func (a *App) pluginContext(p PluginParams) (*pluginContext, error) {
	log := a.log.With().Str("category", "validation").Logger()
	log.Debug().Str("root", p.ProjectRoot).Str("plugin", p.Plugin).Msg("validating plugin rename")

	root, err := filepath.Abs(p.ProjectRoot)
	if err != nil {
		return nil, err
	}
	if err := validateProjectRoot(root); err != nil {
		return nil, err
	}
	projectName, err := DetectProjectName(root)
	if err != nil {
		return nil, err
	}
	if err := validateFileExists(engineConfig(root), "Config/DefaultEngine.ini"); err != nil {
		return nil, err
	}

	plugins, err := DetectPlugins(root)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("plugins", len(plugins)).Msg("plugins detected")

	var plugin Plugin
	names := make([]string, 0, len(plugins))
	for _, pl := range plugins {
		names = append(names, pl.Name)
		if pl.Name == p.Plugin {
			plugin = pl
		}
	}
	if plugin.Name == "" {
		return nil, invalid("plugin must be part of project")
	}
	if err := validateNewName(p.NewName, plugin.Name, "plugin", names); err != nil {
		return nil, err
	}

	return &pluginContext{root: root, projectName: projectName, plugin: plugin, newName: p.NewName}, nil
}

// PluginChangeset updates references to the plugin, adds a package redirect
// so existing assets resolve, then renames the descriptor and directory.
func PluginChangeset(root, projectName string, plugin Plugin, newName string) []Change {
	return []Change{
		MustReplaceInFile(projectDescriptor(root, projectName), jsonArrayFieldPattern("Plugins", "Name", plugin.Name), jsonFieldReplacement(newName)),
		NewAppendIniEntry(engineConfig(root), redirectsSection, packageRedirectKey,
			fmt.Sprintf(`(OldName="/%s/",NewName="/%s/",MatchSubstring=true)`, plugin.Name, newName)),
		MustReplaceInFile(plugin.Descriptor(), jsonFieldPattern("FriendlyName", plugin.Name), jsonFieldReplacement(newName)),
		NewRenameFile(plugin.Descriptor(), filepath.Join(plugin.Root, newName+pluginExt)),
		NewRenameFile(plugin.Root, filepath.Join(root, pluginsDir, newName)),
	}
}

// jsonFieldPattern matches "field": "value" in a descriptor, capturing
// everything before the value in group 1 and the closing quote in group 2.
func jsonFieldPattern(field, value string) string {
	return `("` + regexp.QuoteMeta(field) + `"\s*:\s*")` + regexp.QuoteMeta(value) + `(")`
}

// jsonArrayFieldPattern is jsonFieldPattern restricted to the objects of the
// top-level array named array. Entries may hold arrays of their own, one level
// deep.
func jsonArrayFieldPattern(array, field, value string) string {
	return `("` + regexp.QuoteMeta(array) + `"\s*:\s*\[(?:[^\[\]]|\[[^\[\]]*\])*?"` +
		regexp.QuoteMeta(field) + `"\s*:\s*")` + regexp.QuoteMeta(value) + `(")`
}

func jsonFieldReplacement(value string) string {
	return "${1}" + literal(value) + "${2}"
}
