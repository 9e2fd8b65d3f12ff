package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MimeType is the format every derived variant is encoded to.
const MimeType = "image/jpeg"

// Extension matches MimeType.
const Extension = ".jpg"

// MaxPixels caps width*height of an accepted upload. Decoding allocates the
// full canvas, so the header is checked before any pixel data is read.
const MaxPixels = 40_000_000

var ErrTooLarge = errors.New("image dimensions exceed the pixel limit")

// Variant bounds one derived image.
type Variant struct {
	MaxWidth int
	Quality  int
}

// Processor turns an uploaded image into its display and thumbnail variants.
type Processor struct {
	Display   Variant
	Thumbnail Variant
}

func NewProcessor(display, thumbnail Variant) *Processor {
	return &Processor{Display: display, Thumbnail: thumbnail}
}

// Derived holds the two payloads produced from one upload.
type Derived struct {
	Display   []byte
	Thumbnail []byte
}

// Derive decodes raw once and encodes both variants from the decoded image.
// The original bytes are not retained.
func (p *Processor) Derive(raw []byte) (*Derived, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	display, err := Encode(Resize(src, p.Display.MaxWidth), p.Display.Quality)
	if err != nil {
		return nil, err
	}

	thumbnail, err := Encode(Resize(src, p.Thumbnail.MaxWidth), p.Thumbnail.Quality)
	if err != nil {
		return nil, err
	}

	return &Derived{Display: display, Thumbnail: thumbnail}, nil
}

// Resize scales src down to maxWidth keeping the aspect ratio. Images that
// are already narrow enough are returned as is.
func Resize(src image.Image, maxWidth int) image.Image {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || width <= maxWidth {
		return src
	}

	newHeight := height * maxWidth / width
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// Encode writes img as JPEG at the given quality (1-100).
func Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
