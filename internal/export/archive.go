package export

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"time"
)

const (
	MarkdownName = "goals-export.md"
	ImageDir     = "images/"
)

// Archive writes a zip bundle deflated at a fixed level.
type Archive struct {
	zw       *zip.Writer
	modified time.Time
}

func NewArchive(w io.Writer, level int, modified time.Time) (*Archive, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("invalid compression level %d", level)
	}

	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	return &Archive{zw: zw, modified: modified}, nil
}

func (a *Archive) Add(name string, data []byte) error {
	f, err := a.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: a.modified,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}

	_, err = f.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (a *Archive) AddImage(filename string, data []byte) error {
	return a.Add(ImageDir+filename, data)
}

func (a *Archive) AddMarkdown(doc string) error {
	return a.Add(MarkdownName, []byte(doc))
}

func (a *Archive) Close() error {
	return a.zw.Close()
}

// Filename is the download name of an export created at now.
func Filename(now time.Time, ext string) string {
	return "goals-export-" + now.UTC().Format("2006-01-02T15-04-05") + ext
}
