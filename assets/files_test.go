package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "calm", "b.png"))
	touch(t, filepath.Join(root, "calm", "a.PNG"))
	touch(t, filepath.Join(root, "calm", "notes.txt"))
	touch(t, filepath.Join(root, "calm", "night", "c.png"))

	tests := []struct {
		name      string
		path      string
		recursive bool
		exts      []string
		want      []string
	}{
		{
			name: "file yields itself",
			path: filepath.Join(root, "calm", "notes.txt"),
			exts: ImageExts,
			want: []string{filepath.Join(root, "calm", "notes.txt")},
		},
		{
			name: "flat with extension filter",
			path: filepath.Join(root, "calm"),
			exts: ImageExts,
			want: []string{filepath.Join(root, "calm", "a.PNG"), filepath.Join(root, "calm", "b.png")},
		},
		{
			name:      "recursive",
			path:      filepath.Join(root, "calm"),
			recursive: true,
			exts:      ImageExts,
			want: []string{
				filepath.Join(root, "calm", "a.PNG"),
				filepath.Join(root, "calm", "b.png"),
				filepath.Join(root, "calm", "night", "c.png"),
			},
		},
		{
			name: "no filter",
			path: filepath.Join(root, "calm"),
			want: []string{
				filepath.Join(root, "calm", "a.PNG"),
				filepath.Join(root, "calm", "b.png"),
				filepath.Join(root, "calm", "notes.txt"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListFiles(tt.path, tt.recursive, tt.exts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ListFiles(filepath.Join(root, "missing"), false)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCatalog_Resolve(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "blood_rage", "phases", "storm", "rain.wav"))
	touch(t, filepath.Join(root, "blood_rage", "sfx", "woof.mp3"))
	touch(t, filepath.Join(root, "common", "fonts", "serif.ttf"))
	touch(t, filepath.Join(root, "common", "sfx", "bigwoof.mp3"))

	c, err := NewCatalog(root, "blood_rage")
	require.NoError(t, err)

	tests := []struct {
		asset string
		want  string
	}{
		{"woof.mp3", filepath.Join(root, "blood_rage", "sfx", "woof.mp3")},
		{"phases/storm/", filepath.Join(root, "blood_rage", "phases", "storm")},
		{"storm", filepath.Join(root, "blood_rage", "phases", "storm")},
		{"fonts/serif.ttf", filepath.Join(root, "common", "fonts", "serif.ttf")},
		{"bigwoof.mp3", filepath.Join(root, "common", "sfx", "bigwoof.mp3")},
	}
	for _, tt := range tests {
		got, err := c.Resolve(tt.asset)
		require.NoError(t, err, tt.asset)
		assert.Equal(t, tt.want, got, tt.asset)
	}

	for _, missing := range []string{"idontexist", "oof.mp3", ""} {
		_, err := c.Resolve(missing)
		assert.True(t, errors.Is(err, ErrNotFound), missing)
	}

	_, err = NewCatalog(root, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}
