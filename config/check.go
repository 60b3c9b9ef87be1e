package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/cockroachdb/errors"
)

var assetNamePattern = regexp.MustCompile(`^[a-z0-9_.]+$`)

// CheckAssetNames returns every file under root whose name is not lowercase
// letters, digits, underscores and dots.
func CheckAssetNames(root string) ([]string, error) {
	var bad []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !assetNamePattern.MatchString(d.Name()) {
			bad = append(bad, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	sort.Strings(bad)
	return bad, nil
}

// CheckClashes returns, per top level directory of root, the files whose base
// name already appeared elsewhere in that directory tree. Asset names are
// resolved by suffix, so a clash makes the lookup ambiguous.
func CheckClashes(root string) (map[string][]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", root)
	}

	clashes := make(map[string][]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		seen := make(map[string]bool)
		var paths []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", dir)
		}
		sort.Strings(paths)
		for _, path := range paths {
			name := filepath.Base(path)
			if seen[name] {
				clashes[dir] = append(clashes[dir], path)
			}
			seen[name] = true
		}
	}
	return clashes, nil
}
