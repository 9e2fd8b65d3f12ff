package export

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string][]byte)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = content
	}
	return files
}

func TestArchiveLayout(t *testing.T) {
	var buf bytes.Buffer
	a, err := NewArchive(&buf, flate.BestCompression, time.Now())
	require.NoError(t, err)

	require.NoError(t, a.AddMarkdown("# Goals Export\n"))
	require.NoError(t, a.AddImage("1-0-abcd1234.jpg", []byte{0xff, 0xd8, 0xff}))
	require.NoError(t, a.Close())

	files := readZip(t, buf.Bytes())
	assert.Len(t, files, 2)
	assert.Equal(t, "# Goals Export\n", string(files["goals-export.md"]))
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, files["images/1-0-abcd1234.jpg"])
}

func TestArchiveCompressionLevel(t *testing.T) {
	payload := bytes.Repeat([]byte("progress "), 4000)

	size := func(level int) int {
		var buf bytes.Buffer
		a, err := NewArchive(&buf, level, time.Now())
		require.NoError(t, err)
		require.NoError(t, a.Add("data.txt", payload))
		require.NoError(t, a.Close())
		return buf.Len()
	}

	assert.Less(t, size(flate.BestCompression), size(flate.NoCompression))

	_, err := NewArchive(io.Discard, 42, time.Now())
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.October, 19, 14, 5, 9, 0, time.FixedZone("CEST", 2*60*60))
	assert.Equal(t, "goals-export-2026-10-19T12-05-09.md", Filename(now, ".md"))
	assert.Equal(t, "goals-export-2026-10-19T12-05-09.zip", Filename(now, ".zip"))
}
