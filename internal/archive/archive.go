// Package archive packages a conversion result as a zip file laid out the
// way a krpano tour expects: one directory per panorama holding
// preview.jpg, thumb.jpg, the cube images and the tile tree.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/gogpu/panocube"
)

// Fixed file names inside a panorama directory.
const (
	PreviewName   = "preview.jpg"
	ThumbnailName = "thumb.jpg"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("archive: writer closed")

// Writer writes panorama directories into a zip stream.
//
// JPEG data is stored uncompressed since it does not deflate; other files
// are deflated. Writer is not safe for concurrent use.
type Writer struct {
	zw       *zip.Writer
	modified time.Time
	files    int
	bytes    int64
	closed   bool
}

// NewWriter returns a Writer emitting a zip stream to w. Every entry is
// stamped with modified, which keeps archives of identical input identical.
func NewWriter(w io.Writer, modified time.Time) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	return &Writer{zw: zw, modified: modified}
}

// AddResult writes the preview, thumbnail, cube images and tiles of res
// under dir.
func (w *Writer) AddResult(dir string, res *panocube.ConversionResult) error {
	if res == nil {
		return errors.New("archive: nil result")
	}
	if err := w.AddFile(path.Join(dir, PreviewName), res.Preview); err != nil {
		return err
	}
	if err := w.AddFile(path.Join(dir, ThumbnailName), res.Thumbnail); err != nil {
		return err
	}
	for _, c := range res.Cube {
		if err := w.AddFile(path.Join(dir, c.Path), c.Data); err != nil {
			return err
		}
	}
	for _, t := range res.Tiles {
		if err := w.AddFile(path.Join(dir, t.Path), t.Data); err != nil {
			return err
		}
	}
	return nil
}

// AddFile writes one file. Names ending in .jpg are stored, anything else
// is deflated.
func (w *Writer) AddFile(name string, data []byte) error {
	if w.closed {
		return ErrClosed
	}

	method := zip.Deflate
	if path.Ext(name) == ".jpg" {
		method = zip.Store
	}
	fw, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: w.modified,
	})
	if err != nil {
		return fmt.Errorf("archive: create %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("archive: write %s: %w", name, err)
	}

	w.files++
	w.bytes += int64(len(data))
	return nil
}

// Files returns the number of files written so far.
func (w *Writer) Files() int {
	return w.files
}

// Bytes returns the uncompressed size of all files written so far.
func (w *Writer) Bytes() int64 {
	return w.bytes
}

// Close finishes the zip stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("archive: close: %w", err)
	}
	return nil
}
