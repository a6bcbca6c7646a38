package cache

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/grab/v3"
	"github.com/codeclysm/extract/v3"
	"github.com/pterm/pterm"
	"github.com/uku3lig/uklient/structs"
	"github.com/uku3lig/uklient/util"
)

const IndexName = "modrinth.index.json"

// ErrZip is returned for any malformed modpack archive. No further detail
// is retained.
var ErrZip = errors.New("zip error")

// Cache stores downloaded modpack archives keyed by filename and extracts
// them into per-modpack scratch directories. A cached archive is never
// re-validated against the remote size or hash once it exists on disk.
type Cache struct {
	Dir    string
	TmpDir string
	grab   *grab.Client
}

func New(userAgent string) (*Cache, error) {
	configDir, err := util.ConfigDir()
	if err != nil {
		return nil, err
	}
	return NewAt(filepath.Join(configDir, ".cache"), filepath.Join(configDir, ".tmp"), userAgent)
}

func NewAt(dir, tmpDir, userAgent string) (*Cache, error) {
	c := &Cache{
		Dir:    dir,
		TmpDir: tmpDir,
		grab:   grab.NewClient(),
	}
	c.grab.UserAgent = userAgent

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.TmpDir, 0755); err != nil {
		return nil, err
	}
	return c, nil
}

// EnsureCached returns the local path of the archive, downloading it only
// when no file with that name is cached yet.
func (c *Cache) EnsureCached(file structs.ModrinthFile) (string, error) {
	dest := filepath.Join(c.Dir, file.Filename)

	exists, err := util.PathExists(dest)
	if err != nil {
		return "", err
	}
	if exists {
		pterm.Debug.Printfln("Cache hit for %s", file.Filename)
		return dest, nil
	}

	req, err := grab.NewRequest(dest, file.Url)
	if err != nil {
		return "", err
	}
	req.NoResume = true
	if sum, ok := file.Hashes["sha1"]; ok {
		if hexHash, err := hex.DecodeString(sum); err == nil {
			req.SetChecksum(sha1.New(), hexHash, true)
		}
	}

	resp := c.grab.Do(req)
	if err := resp.Err(); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("failed to download %s: %w", file.Filename, err)
	}

	pterm.Info.Printfln("Downloaded modpack archive %s (%d bytes)", file.Filename, file.Size)
	return dest, nil
}

// Extract wipes and recreates the scratch directory for the modpack, then
// unpacks the archive into it.
func (c *Cache) Extract(ctx context.Context, archivePath, modpackName string) (string, error) {
	scratch := filepath.Join(c.TmpDir, modpackName)

	if err := os.RemoveAll(scratch); err != nil {
		return "", err
	}
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return "", err
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := extract.Zip(ctx, bufio.NewReader(f), scratch, nil); err != nil {
		return "", ErrZip
	}
	return scratch, nil
}

// ReadIndex parses the manifest embedded in an extracted modpack.
func ReadIndex(dir string) (structs.Index, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexName))
	if err != nil {
		return structs.Index{}, err
	}

	var index structs.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return structs.Index{}, err
	}
	return index, nil
}
