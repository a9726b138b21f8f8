package analysis

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	serr "declutter/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeByExtension(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image/jpeg"},
		{"photo.JPG", "image/jpeg"},
		{"notes.txt", "text/plain"},
		{"clip.mp4", "video/mp4"},
		{"archive.unknownext", ""},
		{"noextension", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, MimeByExtension(tt.path))
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := []byte("some notes")
	require.NoError(t, os.WriteFile(path, content, 0644))

	engine := New()
	info, err := engine.Scan(path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Path)
	assert.Equal(t, "text/plain", info.ContentType)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, strconv.Itoa(len(content)), info.Metadata["size"])
	assert.NotEmpty(t, info.Metadata["modified"])
}

func TestScanMissingFile(t *testing.T) {
	engine := New()
	_, err := engine.Scan(filepath.Join(t.TempDir(), "no-such-file.txt"))
	require.Error(t, err)
	assert.True(t, serr.IsFileNotFound(err))
}

func TestMetadataNonImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0644))

	engine := New()
	meta, err := engine.Metadata(path)
	require.NoError(t, err)

	// Stat-derived keys are always present; no EXIF keys for a PDF
	assert.Contains(t, meta, "size")
	assert.Contains(t, meta, "modified")
	for key := range meta {
		assert.NotContains(t, key, "EXIF:")
	}
}

func TestAnalyzeImageWithoutExif(t *testing.T) {
	// A .jpg extension routes through the image analyzer; a file with
	// no EXIF payload must still analyze cleanly.
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not a real jpeg"), 0644))

	engine := New()
	info, err := engine.Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", info.ContentType)
	assert.Contains(t, info.Metadata, "size")
}
