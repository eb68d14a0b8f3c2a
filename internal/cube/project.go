package cube

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/panocube/internal/image"
	"github.com/gogpu/panocube/internal/level"
	"github.com/gogpu/panocube/internal/parallel"
)

// bandRows is the number of rows rendered between cancellation checks.
const bandRows = 32

// ErrEmptySource is returned when the panorama has no pixels.
var ErrEmptySource = errors.New("cube: empty source image")

// FaceError reports the face whose projection failed.
type FaceError struct {
	Face Face
	Err  error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("cube: project %s: %v", e.Face, e.Err)
}

func (e *FaceError) Unwrap() error {
	return e.Err
}

// Faces holds one buffer per face, indexed by Face.
type Faces [faceCount]*image.ImageBuf

// RenderFunc renders a single face of the given edge length.
type RenderFunc func(ctx context.Context, src *image.ImageBuf, face Face, edge int, k image.Kernel) (*image.ImageBuf, error)

// Edge returns the face edge for a panorama of the given width: the same
// width/3.125 ratio the level planner uses for its top level. A positive
// limit caps the result.
func Edge(panoWidth, limit int) int {
	edge := level.TopSize(panoWidth)
	if limit > 0 && edge > limit {
		return limit
	}
	return edge
}

// Projector renders all six faces of a panorama on a bounded pool.
//
// Thread safety: Projector is safe for concurrent use. The source buffer is
// only read and each face job owns its destination buffer.
type Projector struct {
	// Kernel is the resampling filter used for every face.
	Kernel image.Kernel

	// Render renders one face. Nil selects ProjectFace.
	Render RenderFunc

	pool *parallel.WorkerPool
}

// NewProjector creates a projector that runs at most pool.Workers() faces at
// once.
func NewProjector(k image.Kernel, pool *parallel.WorkerPool) *Projector {
	return &Projector{Kernel: k, pool: pool}
}

// Project renders the six faces of src with the given edge length.
//
// Faces are dispatched in All order. The call returns only when every face
// has succeeded; the first failure cancels the remaining faces and is
// returned as a *FaceError. Context errors are returned unwrapped.
func (p *Projector) Project(ctx context.Context, src *image.ImageBuf, edge int) (Faces, error) {
	render := p.Render
	if render == nil {
		render = ProjectFace
	}

	bufs, err := parallel.Collect(ctx, p.pool, len(All), func(ctx context.Context, i int) (*image.ImageBuf, error) {
		face := All[i]
		buf, err := render(ctx, src, face, edge, p.Kernel)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return nil, err
			}
			return nil, &FaceError{Face: face, Err: err}
		}
		return buf, nil
	})
	if err != nil {
		return Faces{}, err
	}

	var faces Faces
	copy(faces[:], bufs)
	return faces, nil
}

// ProjectFace renders one face of an equirectangular source by gnomonic
// projection.
//
// Each destination pixel centre is mapped to face-local (a, b) in [-1, 1],
// turned into a view direction, converted to longitude/latitude and sampled
// from src with x wrapping around the seam. The context is checked between
// row bands.
func ProjectFace(ctx context.Context, src *image.ImageBuf, face Face, edge int, k image.Kernel) (*image.ImageBuf, error) {
	if src == nil || src.Width() == 0 || src.Height() == 0 {
		return nil, ErrEmptySource
	}
	if !face.IsValid() {
		return nil, fmt.Errorf("cube: invalid face %d", face)
	}

	dst, err := image.NewImageBuf(edge, edge)
	if err != nil {
		return nil, err
	}

	srcW := float64(src.Width())
	srcH := float64(src.Height())
	step := 2 / float64(edge)

	for y := range edge {
		if y%bandRows == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		b := (float64(y)+0.5)*step - 1
		row := dst.RowBytes(y)
		for x := range edge {
			a := (float64(x)+0.5)*step - 1
			d := face.Direction(a, b)

			lon := math.Atan2(d.X, d.Z)
			lat := math.Atan2(d.Y, math.Hypot(d.X, d.Z))

			u := (lon+math.Pi)/(2*math.Pi)*srcW - 0.5
			v := (math.Pi/2-lat)/math.Pi*srcH - 0.5

			r, g, bl, al := image.SampleWrapX(src, u, v, k)
			off := x * image.BytesPerPixel
			row[off] = r
			row[off+1] = g
			row[off+2] = bl
			row[off+3] = al
		}
	}
	return dst, nil
}
