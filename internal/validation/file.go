package validation

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FileConstraints defines validation rules for uploads
type FileConstraints struct {
	AllowedMimeTypes  map[string]bool
	AllowedExtensions map[string]bool
	MaxSize           int64
}

// ImageConstraints returns the rules for progress images with the given
// size limit.
func ImageConstraints(maxSize int64) FileConstraints {
	return FileConstraints{
		AllowedMimeTypes: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/gif":  true,
			"image/webp": true,
		},
		AllowedExtensions: map[string]bool{
			".jpg":  true,
			".jpeg": true,
			".png":  true,
			".gif":  true,
			".webp": true,
		},
		MaxSize: maxSize,
	}
}

// ValidateFile checks an upload's size, its content type detected from the
// magic numbers, and its extension. An empty filename skips the extension
// check.
func ValidateFile(filename string, data []byte, constraints FileConstraints) error {
	if int64(len(data)) > constraints.MaxSize {
		maxMB := constraints.MaxSize / (1 << 20)
		return fmt.Errorf("file too large: maximum size is %d MB", maxMB)
	}
	if len(data) == 0 {
		return fmt.Errorf("file is empty")
	}

	// http.DetectContentType reads at most 512 bytes; this cannot be faked
	// by just changing the Content-Type header
	detectedType := http.DetectContentType(data)
	if !constraints.AllowedMimeTypes[detectedType] {
		return fmt.Errorf("invalid file type (detected: %s)", detectedType)
	}

	if filename == "" {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !constraints.AllowedExtensions[ext] {
		return fmt.Errorf("invalid file extension: %s", ext)
	}

	return nil
}
