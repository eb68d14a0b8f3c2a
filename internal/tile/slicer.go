package tile

import (
	"context"
	"fmt"

	"github.com/gogpu/panocube/internal/image"
	"github.com/gogpu/panocube/internal/level"
)

// Tile is one encoded tile of a face pyramid.
type Tile struct {
	// Face is the face letter used in paths (f, b, l, r, u, d).
	Face string

	// Level is the pyramid level (1 = smallest).
	Level int

	// Row and Col are 1-based grid indices.
	Row, Col int

	// Width and Height are the tile dimensions in pixels.
	Width, Height int

	// Path is the deterministic archive-relative path.
	Path string

	// Data holds the JPEG bytes.
	Data []byte
}

// Slicer rescales a face to every planned level and cuts each level into
// tiles. A Slicer holds no per-call state and is safe for concurrent use.
type Slicer struct {
	// Kernel is the resampling filter used for level rescales.
	Kernel image.Kernel

	// Quality is the JPEG quality for encoded tiles.
	Quality int
}

// NewSlicer creates a slicer with the given kernel and JPEG quality.
func NewSlicer(kernel image.Kernel, quality int) *Slicer {
	return &Slicer{Kernel: kernel, Quality: quality}
}

// Slice returns the tiles of every level of face, levels in the order given
// (ascending), cells row-major within a level.
//
// Zero padding for row/column numbers is shared by all levels and derived
// from the largest level. The context is checked between tiles.
func (s *Slicer) Slice(ctx context.Context, face string, src *image.ImageBuf, levels []level.Config) ([]Tile, error) {
	pad := PadWidth(level.Top(levels).Grid())

	total := 0
	for _, l := range levels {
		n := l.Grid()
		total += n * n
	}
	tiles := make([]Tile, 0, total)

	for _, l := range levels {
		scaled := src
		if src.Width() != l.Size || src.Height() != l.Size {
			var err error
			scaled, err = image.Scale(src, l.Size, l.Size, s.Kernel)
			if err != nil {
				return nil, fmt.Errorf("tile: scale %s to level %d (%dpx): %w", face, l.Level, l.Size, err)
			}
		}

		for _, c := range Grid(l.Size) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			data, err := scaled.SubImage(c.X, c.Y, c.Width, c.Height).EncodeToJPEGBytes(s.Quality)
			if err != nil {
				return nil, fmt.Errorf("tile: encode %s l%d %d/%d: %w", face, l.Level, c.Row, c.Col, err)
			}

			tiles = append(tiles, Tile{
				Face:   face,
				Level:  l.Level,
				Row:    c.Row,
				Col:    c.Col,
				Width:  c.Width,
				Height: c.Height,
				Path:   Path(face, l.Level, c.Row, c.Col, pad),
				Data:   data,
			})
		}
	}
	return tiles, nil
}
