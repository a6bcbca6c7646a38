package profile

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/auth"
	"github.com/uku3lig/uklient/meta"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

// loaderProfile is the launch description served at the loader meta's
// /profile/json endpoint.
type loaderProfile struct {
	Id        string `json:"id"`
	MainClass string `json:"mainClass"`
	Libraries []struct {
		Name string `json:"name"`
		Url  string `json:"url"`
	} `json:"libraries"`
}

// Run spawns the game process for an installed profile. Loader libraries
// and the vanilla client jar are fetched into a shared libraries directory
// on first launch, then java is started with the assembled classpath. The
// caller owns the returned process.
func Run(p structs.Profile, creds auth.Credentials, rest *resty.Client, mojang *meta.Mojang) (*exec.Cmd, error) {
	var loader loaderProfile
	resp, err := rest.R().SetResult(&loader).Get(p.LoaderManifest)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("loader profile returned %s", resp.Status())
	}

	profilesDir, err := util.ProfilesDir()
	if err != nil {
		return nil, err
	}
	librariesDir := filepath.Join(profilesDir, "libraries")

	var classpath []string
	for _, lib := range loader.Libraries {
		relPath, err := mavenPath(lib.Name)
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(librariesDir, filepath.FromSlash(relPath))

		if exists, _ := util.PathExists(dest); !exists {
			base := strings.TrimSuffix(lib.Url, "/")
			dl := util.NewDownload(nil, dest, base+"/"+relPath)
			if err := dl.Do(); err != nil {
				return nil, fmt.Errorf("failed to download library %s: %w", lib.Name, err)
			}
			pterm.Debug.Printfln("Downloaded library %s", lib.Name)
		}
		classpath = append(classpath, dest)
	}

	clientJar := filepath.Join(librariesDir, "com", "mojang", "minecraft", p.GameVersion, fmt.Sprintf("minecraft-%s-client.jar", p.GameVersion))
	if exists, _ := util.PathExists(clientJar); !exists {
		download, err := mojang.ClientDownload(p.GameVersion)
		if err != nil {
			return nil, err
		}
		dl := util.NewDownload(nil, clientJar, download.Url)
		if err := dl.Do(); err != nil {
			return nil, fmt.Errorf("failed to download client jar: %w", err)
		}
		pterm.Info.Printfln("Downloaded minecraft %s client (%d bytes)", p.GameVersion, download.Size)
	}
	classpath = append(classpath, clientJar)

	args := []string{
		fmt.Sprintf("-Xmx%dM", p.Memory.Maximum),
		"-cp", strings.Join(classpath, string(os.PathListSeparator)),
		loader.MainClass,
		"--username", creds.Username,
		"--uuid", creds.Id,
		"--accessToken", creds.AccessToken,
		"--version", loader.Id,
		"--gameDir", p.Path,
		"--width", strconv.Itoa(p.Resolution.Width),
		"--height", strconv.Itoa(p.Resolution.Height),
	}

	cmd := exec.Command(p.JavaPath, args...)
	cmd.Dir = p.Path
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("error launching game: %w", err)
	}
	return cmd, nil
}

// mavenPath turns a maven coordinate ("net.fabricmc:fabric-loader:0.17.2")
// into its repository-relative path.
func mavenPath(coordinate string) (string, error) {
	parts := strings.Split(coordinate, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid maven coordinate '%s'", coordinate)
	}
	group, artifact, version := parts[0], parts[1], parts[2]
	groupPath := strings.ReplaceAll(group, ".", "/")
	return fmt.Sprintf("%s/%s/%s/%s-%s.jar", groupPath, artifact, version, artifact, version), nil
}
