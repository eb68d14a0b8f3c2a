// Package preview builds the small images a viewer shows while the tile
// pyramid loads: a blurred strip of all six faces and a thumbnail.
package preview

import (
	"errors"
	"fmt"

	"github.com/gogpu/panocube/internal/cube"
	"github.com/gogpu/panocube/internal/filter"
	"github.com/gogpu/panocube/internal/image"
)

// Default composer sizes.
const (
	DefaultPreviewSize = 256
	DefaultThumbSize   = 240
)

// ErrMissingFace is returned when a face buffer is nil.
var ErrMissingFace = errors.New("preview: missing face")

// Composer renders previews and thumbnails from projected faces.
type Composer struct {
	// Kernel is the resampling filter used to shrink faces.
	Kernel image.Kernel

	// PreviewSize is the edge of each face in the preview strip.
	PreviewSize int

	// ThumbSize is the edge of the square thumbnail.
	ThumbSize int

	// Sigma is the blur strength applied to the strip.
	Sigma float64
}

// NewComposer returns a composer with default sizes and blur.
func NewComposer(k image.Kernel) *Composer {
	return &Composer{
		Kernel:      k,
		PreviewSize: DefaultPreviewSize,
		ThumbSize:   DefaultThumbSize,
		Sigma:       filter.DefaultSigma,
	}
}

// Thumbnail rescales the front face to a ThumbSize square.
func (c *Composer) Thumbnail(faces cube.Faces) (*image.ImageBuf, error) {
	front := faces[cube.Front]
	if front == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingFace, cube.Front)
	}
	return image.Scale(front, c.ThumbSize, c.ThumbSize, c.Kernel)
}

// Preview stacks the six faces vertically in cube.PreviewOrder, each shrunk
// to PreviewSize, and blurs the strip. The result is PreviewSize wide and
// six times as tall.
func (c *Composer) Preview(faces cube.Faces) (*image.ImageBuf, error) {
	size := c.PreviewSize
	strip, err := image.NewImageBuf(size, size*len(cube.PreviewOrder))
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	for i, f := range cube.PreviewOrder {
		if faces[f] == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingFace, f)
		}
		small, err := image.Scale(faces[f], size, size, c.Kernel)
		if err != nil {
			return nil, fmt.Errorf("preview: scale %s: %w", f, err)
		}
		if err := strip.Paste(small, 0, i*size); err != nil {
			return nil, fmt.Errorf("preview: paste %s: %w", f, err)
		}
	}

	filter.NewBlurFilter(c.Sigma).Apply(strip)
	return strip, nil
}
