// Package assets finds, expands, decodes and plays phase assets.
package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	AudioExts = []string{".wav", ".mp3", ".ogg"}
	ImageExts = []string{".png", ".jpg", ".jpeg"}
)

var ErrNotFound = errors.New("assets: not found")

// ListFiles returns path itself when it is a file, otherwise the files in the
// directory (and below it when recursive) whose extension is one of exts, or
// all files when exts is empty. The result is sorted.
func ListFiles(path string, recursive bool, exts ...string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "%s: %v", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExt(p, exts) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", path)
	}

	sort.Strings(files)
	return files, nil
}

func hasExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Catalog resolves configuration asset names against the asset directory of
// one configuration and the shared common directory.
type Catalog struct {
	entries []string
}

// NewCatalog indexes every file and directory under root/dir and root/common.
// The configuration directory must exist; the common one is optional.
func NewCatalog(root, dir string) (*Catalog, error) {
	own := filepath.Join(root, dir)
	if _, err := os.Stat(own); err != nil {
		return nil, errors.Wrapf(ErrNotFound, "asset dir %s", own)
	}

	bases := []string{own}
	if common := filepath.Join(root, "common"); dirExists(common) {
		bases = append(bases, common)
	}

	c := &Catalog{}
	for _, base := range bases {
		entries, err := walkAll(base)
		if err != nil {
			return nil, errors.Wrapf(err, "index %s", base)
		}
		c.entries = append(c.entries, entries...)
	}
	return c, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func walkAll(base string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p != base {
			out = append(out, p)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// Resolve finds the first indexed path ending with asset on a path element
// boundary, so "rain/" matches ".../storm/rain" but "ain" does not.
func (c *Catalog) Resolve(asset string) (string, error) {
	want := cleanAssetPath(asset)
	if want == "" {
		return "", errors.Wrap(ErrNotFound, "empty asset name")
	}
	for _, entry := range c.entries {
		got := cleanAssetPath(entry)
		if got == want || strings.HasSuffix(got, "/"+want) {
			return entry, nil
		}
	}
	return "", errors.Wrapf(ErrNotFound, "asset %q", asset)
}

func cleanAssetPath(path string) string {
	s := strings.ReplaceAll(path, "\\", "/")
	return strings.TrimRight(s, "/")
}
