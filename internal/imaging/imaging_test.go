package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: uint8(y % 255), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// oversizedPNG returns a valid PNG whose header claims width x height.
func oversizedPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	data := pngBytes(t, 1, 1)
	// IHDR data follows the 8 byte signature, 4 byte length and 4 byte type.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestDeriveBoundsBothVariants(t *testing.T) {
	p := NewProcessor(Variant{MaxWidth: 200, Quality: 85}, Variant{MaxWidth: 50, Quality: 80})

	derived, err := p.Derive(pngBytes(t, 400, 100))
	require.NoError(t, err)

	w, h := decodedSize(t, derived.Display)
	assert.Equal(t, 200, w)
	assert.Equal(t, 50, h)

	w, h = decodedSize(t, derived.Thumbnail)
	assert.Equal(t, 50, w)
	assert.Equal(t, 12, h)
}

func TestDeriveDoesNotUpscale(t *testing.T) {
	p := NewProcessor(Variant{MaxWidth: 1920, Quality: 85}, Variant{MaxWidth: 400, Quality: 80})

	derived, err := p.Derive(pngBytes(t, 120, 80))
	require.NoError(t, err)

	w, h := decodedSize(t, derived.Display)
	assert.Equal(t, 120, w)
	assert.Equal(t, 80, h)

	w, _ = decodedSize(t, derived.Thumbnail)
	assert.Equal(t, 120, w)
}

func TestDeriveRejectsGarbage(t *testing.T) {
	p := NewProcessor(Variant{MaxWidth: 100, Quality: 85}, Variant{MaxWidth: 50, Quality: 80})

	_, err := p.Derive([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestDeriveRejectsOversizedHeader(t *testing.T) {
	p := NewProcessor(Variant{MaxWidth: 200, Quality: 85}, Variant{MaxWidth: 50, Quality: 80})

	data := oversizedPNG(t, 30000, 30000)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 30000, cfg.Width)

	_, err = p.Derive(data)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestResizeKeepsMinimumHeight(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1000, 1))
	dst := Resize(src, 10)
	assert.Equal(t, 10, dst.Bounds().Dx())
	assert.Equal(t, 1, dst.Bounds().Dy())
}
