package util

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"unicode"
)

const AppName = "uklient"

var (
	ReleaseVersion string
	GitCommit      string
	UserAgent      string
	LogMw          io.Writer
)

// ConfigDir returns <home>/.config/uklient, creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// ProfilesDir returns <home>/.uklient, creating it if needed.
func ProfilesDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, "."+AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CopyDir copies src into dst recursively, overwriting files that already
// exist. A destination path that exists but is not a directory is removed
// first so the directory can take its place.
func CopyDir(src string, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			info, err := os.Stat(dstPath)
			if err == nil && !info.IsDir() {
				if err := os.RemoveAll(dstPath); err != nil {
					return err
				}
			}
			if _, err := os.Stat(dstPath); os.IsNotExist(err) {
				if err := os.MkdirAll(dstPath, 0755); err != nil {
					return err
				}
			}
		} else {
			if err := CopyFile(path, dstPath); err != nil {
				return err
			}
		}
		return nil
	})
}

func CopyFile(src string, dst string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, file); err != nil {
		return err
	}

	return nil
}

// CustomWriter to strip ascii characters
type CustomWriter struct {
	writer io.Writer
}

// NewCustomWriter creates a new CustomWriter.
func NewCustomWriter(writer io.Writer) *CustomWriter {
	return &CustomWriter{writer: writer}
}

// Write implements the io.Writer interface.
func (cw *CustomWriter) Write(p []byte) (n int, err error) {

	re := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	stripped := re.ReplaceAll(p, []byte{})

	filtered := make([]byte, 0, len(stripped))
	for _, b := range stripped {
		if b == '\n' || (unicode.IsPrint(rune(b)) || b < 0x20 || b > 0x7E) {
			filtered = append(filtered, b)
		}
	}
	return cw.writer.Write(filtered)
}
