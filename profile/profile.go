package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/java"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

const registryName = "profiles.json"

// Build constructs the in-memory profile record. No I/O happens here; the
// directory is created and the record persisted by Add.
func Build(meta structs.ModpackMeta, javaSettings java.Settings, memory structs.MemorySettings, resolution structs.WindowSize) (structs.Profile, error) {
	profilesDir, err := util.ProfilesDir()
	if err != nil {
		return structs.Profile{}, err
	}

	fixedName := strings.ReplaceAll(meta.Name, " ", "_")

	return structs.Profile{
		Path:           filepath.Join(profilesDir, fixedName),
		Name:           meta.Name,
		Loader:         meta.Loader,
		LoaderVersion:  meta.LoaderVersion.Id,
		LoaderManifest: meta.LoaderVersion.ManifestUrl,
		GameVersion:    meta.GameVersion,
		JavaPath:       javaSettings.Path,
		JavaVersion:    javaSettings.Version,
		Memory:         memory,
		Resolution:     resolution,
	}, nil
}

// Add registers the profile: it creates the profile directory and writes
// the record into the profile registry, replacing any previous entry with
// the same name.
func Add(p structs.Profile) error {
	if err := os.MkdirAll(p.Path, 0755); err != nil {
		return fmt.Errorf("unable to create profile directory: %w", err)
	}

	profilesDir, err := util.ProfilesDir()
	if err != nil {
		return err
	}
	registryPath := filepath.Join(profilesDir, registryName)

	profiles := map[string]structs.Profile{}
	if data, err := os.ReadFile(registryPath); err == nil {
		if err := json.Unmarshal(data, &profiles); err != nil {
			pterm.Warning.Printfln("Ignoring unreadable profile registry: %s", err.Error())
			profiles = map[string]structs.Profile{}
		}
	}
	profiles[p.Name] = p

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal profile registry: %w", err)
	}
	if err := os.WriteFile(registryPath, data, 0644); err != nil {
		return fmt.Errorf("unable to write profile registry: %w", err)
	}

	pterm.Debug.Printfln("Registered profile %s at %s", p.Name, p.Path)
	return nil
}
