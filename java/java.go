package java

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/codeclysm/extract/v3"
	"github.com/go-resty/resty/v2"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

const adoptiumApiUrl = "https://api.adoptium.net"

// ErrJavaNotFound is returned when no runtime could be located and the
// Adoptium download was skipped or failed.
var ErrJavaNotFound = errors.New("java not found")

// Settings is the runtime handed to the profile and launcher.
type Settings struct {
	Path    string
	Version int
}

// Get locates a usable Java runtime for the requested major version. An
// installed runtime is preferred unless forceDownload is set, in which
// case a JRE is fetched from Adoptium into the config directory.
func Get(rest *resty.Client, version int, forceDownload bool) (Settings, error) {
	if !forceDownload {
		if path, err := locate(); err == nil {
			pterm.Debug.Printfln("Using system java at %s", path)
			return Settings{Path: path, Version: version}, nil
		}
		pterm.Info.Println("No system java found, downloading one")
	}

	path, err := download(rest, version)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Path: path, Version: version}, nil
}

func locate() (string, error) {
	if home := os.Getenv("JAVA_HOME"); home != "" {
		binary := filepath.Join(home, "bin", javaExecutable())
		if exists, _ := util.PathExists(binary); exists {
			return binary, nil
		}
	}
	if path, err := exec.LookPath("java"); err == nil {
		return path, nil
	}
	return "", ErrJavaNotFound
}

func download(rest *resty.Client, version int) (string, error) {
	configDir, err := util.ConfigDir()
	if err != nil {
		return "", err
	}
	jreDir := filepath.Join(configDir, "java", strconv.Itoa(version))
	binary := installedBinary(jreDir)

	if exists, _ := util.PathExists(binary); exists {
		pterm.Debug.Printfln("Reusing downloaded java at %s", binary)
		return binary, nil
	}

	adoptiumUrl, err := makeAdoptiumUrl(version)
	if err != nil {
		return "", err
	}

	var assets structs.Adoptium
	resp, err := rest.R().SetResult(&assets).Get(adoptiumUrl)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("adoptium returned %s", resp.Status())
	}
	if len(assets) == 0 {
		return "", ErrJavaNotFound
	}

	pkg := assets[0].Binary.Package

	archivePath := filepath.Join(configDir, "java", pkg.Name)
	dl := util.NewDownload(nil, archivePath, pkg.Link)
	if hexHash, err := hex.DecodeString(pkg.Checksum); err == nil {
		dl.SetChecksum(sha256.New(), hexHash, true)
	}
	if err := dl.Do(); err != nil {
		return "", err
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	// Strip the top-level release directory from every archive path.
	var shift = func(path string) string {
		sep := filepath.Separator
		if len(strings.Split(path, "\\")) > 1 {
			sep = '\\'
		} else if len(strings.Split(path, "/")) > 1 {
			sep = '/'
		}

		parts := strings.Split(path, string(sep))
		parts = parts[1:]
		return strings.Join(parts, string(sep))
	}
	if err := extract.Archive(context.TODO(), bufio.NewReader(archive), jreDir, shift); err != nil {
		return "", fmt.Errorf("error extracting java archive: %w", err)
	}
	_ = os.Remove(archivePath)

	pterm.Info.Printfln("Downloaded java %d to %s", version, jreDir)
	return installedBinary(jreDir), nil
}

func javaExecutable() string {
	if runtime.GOOS == "windows" {
		return "java.exe"
	}
	return "java"
}

func installedBinary(jreDir string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(jreDir, "Contents", "Home", "bin", javaExecutable())
	}
	return filepath.Join(jreDir, "bin", javaExecutable())
}

func makeAdoptiumUrl(version int) (string, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/v3/assets/latest/%d/hotspot", adoptiumApiUrl, version))
	if err != nil {
		return "", err
	}

	q := parsedUrl.Query()
	q.Add("image_type", "jre")
	q.Add("vendor", "eclipse")
	if runtime.GOOS == "windows" {
		q.Add("os", "windows")
	}
	if runtime.GOOS == "darwin" {
		q.Add("os", "mac")
	}
	if runtime.GOOS == "linux" {
		if _, err := os.Stat("/etc/alpine-release"); !os.IsNotExist(err) {
			q.Add("os", "alpine-linux")
		} else {
			q.Add("os", "linux")
		}
	}

	arch, err := validJavaArch()
	if err != nil {
		return "", err
	}
	q.Add("architecture", arch)

	parsedUrl.RawQuery = q.Encode()

	return parsedUrl.String(), nil
}

func validJavaArch() (string, error) {
	switch runtime.GOARCH {
	case "amd64":
		return "x64", nil
	case "386":
		return "x86", nil
	case "arm64":
		if runtime.GOOS == "windows" {
			return "x64", nil
		}
		return "aarch64", nil
	case "arm":
		return "arm", nil
	}
	return "", errors.New("unsupported architecture")
}
