package install

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/grab/v3"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

// UnknownTypeError reports an override entry that is neither a regular
// file nor a directory, e.g. a broken symlink.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %q", e.Name)
}

// Installer populates a profile directory from a modpack index plus its
// overrides tree. Work is sequential; the first failing entry aborts the
// whole install and already-written entries stay on disk.
type Installer struct {
	grab *grab.Client
}

func New(userAgent string) *Installer {
	client := grab.NewClient()
	client.UserAgent = userAgent
	return &Installer{grab: client}
}

func (i *Installer) Install(outputDir string, index structs.Index, overridesDir string) error {
	for _, file := range index.Files {
		if err := i.downloadFile(outputDir, file); err != nil {
			return err
		}
	}

	return i.applyOverrides(outputDir, overridesDir)
}

// downloadFile fetches one index entry, trying each declared download URL
// in order. Existing files with the same name are overwritten.
func (i *Installer) downloadFile(outputDir string, file structs.IndexFile) error {
	dest := filepath.Join(outputDir, filepath.FromSlash(file.Path))

	if len(file.Downloads) == 0 {
		return fmt.Errorf("no download urls for %s", file.Path)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	var lastErr error
	for attempt, u := range file.Downloads {
		pterm.Debug.Printfln("Downloading file: %s from %s | attempt: %d | Urls %d", file.Path, u, attempt+1, len(file.Downloads))

		req, err := grab.NewRequest(dest, u)
		if err != nil {
			lastErr = err
			continue
		}
		req.NoResume = true

		if sum, ok := file.Hashes["sha1"]; ok {
			if hexHash, err := hex.DecodeString(sum); err == nil {
				req.SetChecksum(sha1.New(), hexHash, true)
			}
		}

		resp := i.grab.Do(req)
		if err := resp.Err(); err != nil {
			_ = os.Remove(dest)
			lastErr = err
			continue
		}

		pterm.Info.Printfln("Downloaded %s (%d bytes)", filepath.Base(dest), file.FileSize)
		return nil
	}

	return fmt.Errorf("failed to download %s: %w", file.Path, lastErr)
}

// applyOverrides copies every entry of the overrides tree into outputDir,
// overwriting whatever is already there. A missing overrides directory is
// treated as empty.
func (i *Installer) applyOverrides(outputDir, overridesDir string) error {
	entries, err := os.ReadDir(overridesDir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		src := filepath.Join(overridesDir, entry.Name())
		dst := filepath.Join(outputDir, entry.Name())

		switch {
		case entry.Type().IsRegular():
			if err := util.CopyFile(src, dst); err != nil {
				return err
			}
		case entry.IsDir():
			if err := util.CopyDir(src, dst); err != nil {
				return err
			}
		default:
			return &UnknownTypeError{Name: entry.Name()}
		}

		pterm.Info.Printfln("Installed override %s", entry.Name())
	}

	return nil
}
