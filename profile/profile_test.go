package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uku3lig/uklient/java"
	"github.com/uku3lig/uklient/structs"
)

func testMeta() structs.ModpackMeta {
	return structs.ModpackMeta{
		Name:        "Uku PvP Pack",
		Loader:      "quilt",
		GameVersion: "1.19.3",
		LoaderVersion: structs.LoaderVersion{
			Id:          "0.18.3",
			Stable:      true,
			ManifestUrl: "https://meta.quiltmc.org/v3/versions/loader/1.19.3/0.18.3/profile/json",
		},
	}
}

func TestBuildReplacesSpacesInPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Build(testMeta(), java.Settings{Path: "/usr/bin/java", Version: 17}, structs.MemorySettings{Maximum: 4096}, structs.WindowSize{Width: 1280, Height: 720})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".uklient", "Uku_PvP_Pack"), p.Path)
	assert.Equal(t, "Uku PvP Pack", p.Name)
	assert.Equal(t, "0.18.3", p.LoaderVersion)
	assert.Equal(t, 4096, p.Memory.Maximum)
	assert.Equal(t, 1280, p.Resolution.Width)
}

func TestBuildIsPure(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Build(testMeta(), java.Settings{}, structs.MemorySettings{}, structs.WindowSize{})
	require.NoError(t, err)

	_, statErr := os.Stat(p.Path)
	assert.True(t, os.IsNotExist(statErr), "Build must not create the profile directory")
}

func TestAddRegistersProfile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Build(testMeta(), java.Settings{Path: "/usr/bin/java", Version: 17}, structs.MemorySettings{Maximum: 4096}, structs.WindowSize{Width: 1280, Height: 720})
	require.NoError(t, err)
	require.NoError(t, Add(p))

	assert.DirExists(t, p.Path)

	data, err := os.ReadFile(filepath.Join(home, ".uklient", "profiles.json"))
	require.NoError(t, err)

	var registry map[string]structs.Profile
	require.NoError(t, json.Unmarshal(data, &registry))
	require.Contains(t, registry, "Uku PvP Pack")
	assert.Equal(t, "0.18.3", registry["Uku PvP Pack"].LoaderVersion)
}

func TestAddOverwritesPreviousEntry(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Build(testMeta(), java.Settings{}, structs.MemorySettings{}, structs.WindowSize{})
	require.NoError(t, err)
	require.NoError(t, Add(p))

	p.LoaderVersion = "0.19.0"
	require.NoError(t, Add(p))

	data, err := os.ReadFile(filepath.Join(home, ".uklient", "profiles.json"))
	require.NoError(t, err)

	var registry map[string]structs.Profile
	require.NoError(t, json.Unmarshal(data, &registry))
	require.Len(t, registry, 1)
	assert.Equal(t, "0.19.0", registry["Uku PvP Pack"].LoaderVersion)
}

func TestMavenPath(t *testing.T) {
	var tests = []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"fabric loader", "net.fabricmc:fabric-loader:0.17.2", "net/fabricmc/fabric-loader/0.17.2/fabric-loader-0.17.2.jar", false},
		{"quilt loader", "org.quiltmc:quilt-loader:0.18.3", "org/quiltmc/quilt-loader/0.18.3/quilt-loader-0.18.3.jar", false},
		{"missing version", "org.quiltmc:quilt-loader", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mavenPath(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
