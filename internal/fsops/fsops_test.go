package fsops

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	fs := afero.NewMemMapFs()

	path := "/test/nested/dir"
	require.NoError(t, EnsureDir(fs, path, 0755))
	assert.True(t, IsDir(fs, path))

	// idempotent
	require.NoError(t, EnsureDir(fs, path, 0755))
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/test.txt", []byte("test"), 0644))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", "/test.txt", true},
		{"non-existing file", "/nonexistent.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exists(fs, tt.path))
		})
	}
}

func TestCheckWritable(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, CheckWritable(afero.NewOsFs(), dir))
	assert.Error(t, CheckWritable(afero.NewReadOnlyFs(afero.NewOsFs()), dir))
}

func TestCopyFile(t *testing.T) {
	fs := afero.NewMemMapFs()

	srcContent := []byte("test content")
	require.NoError(t, afero.WriteFile(fs, "/src.txt", srcContent, 0644))

	require.NoError(t, CopyFile(fs, "/src.txt", "/dst.txt"))

	dstContent, err := afero.ReadFile(fs, "/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, srcContent, dstContent)
}

func TestCopyFile_TruncatesLongerDestination(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src.txt", []byte("new"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/dst.txt", []byte("much older content"), 0644))

	require.NoError(t, CopyFile(fs, "/src.txt", "/dst.txt"))

	got, err := afero.ReadFile(fs, "/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCopyFile_MissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := CopyFile(fs, "/missing", "/dst")
	assert.Error(t, err)
	assert.False(t, Exists(fs, "/dst"))
}

type fakeInfo struct {
	os.FileInfo
	size  int64
	mtime time.Time
	mode  os.FileMode
}

func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) ModTime() time.Time { return f.mtime }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }

func TestUpToDate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		src  fakeInfo
		dst  fakeInfo
		want bool
	}{
		{"same size newer dst", fakeInfo{size: 10, mtime: now}, fakeInfo{size: 10, mtime: now.Add(time.Second)}, true},
		{"same size equal mtime", fakeInfo{size: 10, mtime: now}, fakeInfo{size: 10, mtime: now}, true},
		{"same size older dst", fakeInfo{size: 10, mtime: now}, fakeInfo{size: 10, mtime: now.Add(-time.Second)}, false},
		{"size differs newer dst", fakeInfo{size: 10, mtime: now}, fakeInfo{size: 11, mtime: now.Add(time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UpToDate(tt.src, tt.dst))
		})
	}

	assert.False(t, UpToDate(nil, fakeInfo{}))
}

func TestIsReadOnly(t *testing.T) {
	assert.True(t, IsReadOnly(fakeInfo{mode: 0444}))
	assert.True(t, IsReadOnly(fakeInfo{mode: 0555}))
	assert.False(t, IsReadOnly(fakeInfo{mode: 0644}))
	// other write bits alone do not make the file writable for the owner
	assert.True(t, IsReadOnly(fakeInfo{mode: 0466}))
}

func TestClearReadOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/ro.jar", []byte("x"), 0444))
	require.NoError(t, fs.Chmod("/ro.jar", 0444))

	require.NoError(t, ClearReadOnly(fs, "/ro.jar"))

	info, err := fs.Stat("/ro.jar")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// already writable: untouched
	require.NoError(t, ClearReadOnly(fs, "/ro.jar"))
	assert.Error(t, ClearReadOnly(fs, "/missing"))
}
