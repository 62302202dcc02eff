package renom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	fixtureProject = `{
	"FileVersion": 3,
	"EngineAssociation": "5.3",
	"Modules": [
		{
			"Name": "MyGame",
			"Type": "Runtime",
			"LoadingPhase": "Default"
		}
	],
	"Plugins": [
		{
			"Name": "Tools",
			"Enabled": true
		}
	]
}
`
	fixtureEngineIni = `[URL]
GameName=MyGame

[/Script/EngineSettings.GameMapsSettings]
GameDefaultMap=/Game/Maps/Entry.Entry
+ActiveGameNameRedirects=(OldGameName="TP_Blank",NewGameName="/Script/MyGame")
`
	fixtureGameIni = `[/Script/EngineSettings.GeneralProjectSettings]
ProjectID=ABC123
`
	fixtureGameTarget = `using UnrealBuildTool;

public class MyGameTarget : TargetRules
{
	public MyGameTarget(TargetInfo Target) : base(Target)
	{
		Type = TargetType.Game;
		ExtraModuleNames.Add("MyGame");
	}
}
`
	fixtureEditorTarget = `using UnrealBuildTool;

public class MyGameEditorTarget : TargetRules
{
	public MyGameEditorTarget(TargetInfo Target) : base(Target)
	{
		Type = TargetType.Editor;
		ExtraModuleNames.Add("MyGame");
	}
}
`
	fixtureBuild = `using UnrealBuildTool;

public class MyGame : ModuleRules
{
	public MyGame(ReadOnlyTargetRules Target) : base(Target)
	{
		PublicDependencyModuleNames.AddRange(new string[] { "Core", "CoreUObject", "Engine" });
	}
}
`
	fixtureHeader = `#pragma once

class MYGAME_API UMyGameSubsystem
{
};
`
	fixturePrivateHeader = `#pragma once

struct FHelper {};
`
	fixturePlugin = `{
	"FileVersion": 3,
	"FriendlyName": "Tools",
	"Modules": [
		{
			"Name": "ToolsRuntime",
			"Type": "Runtime"
		}
	]
}
`
)

// newTestProject lays out a minimal MyGame project inside a temp dir and
// returns its root.
func newTestProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "MyGame")

	files := map[string]string{
		"MyGame.uproject":                 fixtureProject,
		"Config/DefaultEngine.ini":        fixtureEngineIni,
		"Config/DefaultGame.ini":          fixtureGameIni,
		"Source/MyGame.Target.cs":         fixtureGameTarget,
		"Source/MyGameEditor.Target.cs":   fixtureEditorTarget,
		"Source/MyGame/MyGame.Build.cs":   fixtureBuild,
		"Source/MyGame/Public/MyGame.h":   fixtureHeader,
		"Source/MyGame/Private/Helpers.h": fixturePrivateHeader,
		"Plugins/Tools/Tools.uplugin":     fixturePlugin,
	}
	for rel, content := range files {
		writeFile(t, filepath.Join(root, rel), content)
	}
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func newTestApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return NewApp(&Config{In: bytes.NewReader(nil), Out: &out, Verbose: true}), &out
}
