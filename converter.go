package panocube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/panocube/internal/cube"
	"github.com/gogpu/panocube/internal/image"
	"github.com/gogpu/panocube/internal/level"
	"github.com/gogpu/panocube/internal/parallel"
	"github.com/gogpu/panocube/internal/preview"
	"github.com/gogpu/panocube/internal/tile"
)

// LevelConfig describes one level of a tile pyramid: level 1 is the
// smallest, sizes strictly increase with the level number.
type LevelConfig = level.Config

// Tile is one encoded tile with its archive-relative path.
type Tile = tile.Tile

// CubeImage is one encoded cube face image.
type CubeImage struct {
	// Face is the face letter (f, b, l, r, u, d).
	Face string

	// Path is the archive-relative file name, pano_<face>.jpg.
	Path string

	// Data holds the JPEG bytes.
	Data []byte
}

// ConversionResult is everything one conversion produces. It is not
// modified after being returned.
type ConversionResult struct {
	Mode Mode

	// FaceEdge is the edge length the faces were projected at.
	FaceEdge int

	// Cube holds the six face images in cube modes, in front, back, left,
	// right, up, down order.
	Cube []CubeImage

	// Tiles holds the tiles of every face in tile modes, grouped by face in
	// the same order, levels ascending within a face.
	Tiles []Tile

	// Levels is the pyramid shared by all faces (tile modes only).
	Levels []LevelConfig

	// Preview is the blurred JPEG strip of all faces.
	Preview []byte

	// Thumbnail is the JPEG thumbnail of the front face.
	Thumbnail []byte

	// Duration is the wall time of the conversion.
	Duration time.Duration
}

// Splitter is the set of conversions a panorama supports.
type Splitter interface {
	// MakeCube emits six cube face images.
	MakeCube(ctx context.Context, p *Panorama) (*ConversionResult, error)

	// MakeTiles emits a multi-resolution tile pyramid for every face.
	MakeTiles(ctx context.Context, p *Panorama) (*ConversionResult, error)

	// MakeCubeAndTiles emits both.
	MakeCubeAndTiles(ctx context.Context, p *Panorama) (*ConversionResult, error)
}

var _ Splitter = (*Converter)(nil)

// Converter runs conversions. It holds only configuration, so one Converter
// may serve concurrent conversions; the worker limit applies per conversion.
type Converter struct {
	opts      options
	pool      *parallel.WorkerPool
	projector *cube.Projector
	slicer    *tile.Slicer
	composer  *preview.Composer
}

// New creates a Converter with the given options.
func New(opts ...Option) *Converter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pool := parallel.NewWorkerPool(o.workers)
	composer := preview.NewComposer(o.kernel)
	composer.PreviewSize = o.previewSize
	composer.ThumbSize = o.thumbSize
	composer.Sigma = o.sigma

	return &Converter{
		opts:      o,
		pool:      pool,
		projector: cube.NewProjector(o.kernel, pool),
		slicer:    tile.NewSlicer(o.kernel, o.quality),
		composer:  composer,
	}
}

// Workers returns the concurrency limit of the converter.
func (c *Converter) Workers() int {
	return c.pool.Workers()
}

// MakeCube implements Splitter.
func (c *Converter) MakeCube(ctx context.Context, p *Panorama) (*ConversionResult, error) {
	return c.run(ctx, p, ModeCube)
}

// MakeTiles implements Splitter.
func (c *Converter) MakeTiles(ctx context.Context, p *Panorama) (*ConversionResult, error) {
	return c.run(ctx, p, ModeTiles)
}

// MakeCubeAndTiles implements Splitter.
func (c *Converter) MakeCubeAndTiles(ctx context.Context, p *Panorama) (*ConversionResult, error) {
	return c.run(ctx, p, ModeCubeAndTiles)
}

// run drives one conversion through its states. All run state is local.
func (c *Converter) run(ctx context.Context, p *Panorama, mode Mode) (_ *ConversionResult, err error) {
	start := time.Now()
	st := &transition{state: StateIdle, observer: c.opts.observer}
	defer func() {
		if err != nil {
			st.to(StateFailed)
			Logger().Debug("panocube: conversion failed", "mode", mode.String(), "err", err)
		}
	}()

	if !mode.Cube() && !mode.Tiles() {
		return nil, ErrUnknownMode
	}

	st.to(StateValidating)
	if err := c.validate(p); err != nil {
		return nil, err
	}

	st.to(StateProjecting)
	limit := 0
	if !mode.Tiles() {
		limit = c.opts.maxCubeFaceEdge
	}
	edge := cube.Edge(p.Width(), limit)
	faces, err := c.project(ctx, p, edge)
	if err != nil {
		return nil, err
	}

	res := &ConversionResult{Mode: mode, FaceEdge: edge}
	if mode.Tiles() {
		st.to(StateTiling)
		if res.Levels, res.Tiles, err = c.tiles(ctx, faces, edge); err != nil {
			return nil, err
		}
	} else {
		st.to(StateSkipped)
	}

	st.to(StateComposing)
	if mode.Cube() {
		if res.Cube, err = c.cubeImages(ctx, faces); err != nil {
			return nil, err
		}
	}
	if res.Preview, res.Thumbnail, err = c.compose(faces); err != nil {
		return nil, err
	}

	res.Duration = time.Since(start)
	st.to(StateDone)
	Logger().Info("panocube: conversion done",
		"mode", mode.String(),
		"width", p.Width(),
		"face_edge", edge,
		"levels", len(res.Levels),
		"tiles", len(res.Tiles),
		"duration", res.Duration)
	return res, nil
}

func (c *Converter) validate(p *Panorama) error {
	if p == nil {
		return &InputError{Reason: "no image"}
	}
	if err := c.opts.validator.Validate(p); err != nil {
		return err
	}

	w, h := p.Width(), p.Height()
	if w != 2*h {
		Logger().Warn("panocube: panorama is not 2:1", "width", w, "height", h)
	}
	if c.opts.maxPanoramaWidth > 0 && w > c.opts.maxPanoramaWidth {
		return &PlatformLimitError{Width: w, Limit: c.opts.maxPanoramaWidth}
	}
	return nil
}

func (c *Converter) project(ctx context.Context, p *Panorama, edge int) (cube.Faces, error) {
	t0 := time.Now()
	faces, err := c.projector.Project(ctx, p.buf, edge)
	if err != nil {
		var fe *cube.FaceError
		if errors.As(err, &fe) {
			return cube.Faces{}, &ProjectionFailure{Face: fe.Face.String(), Err: fe.Err}
		}
		return cube.Faces{}, fmt.Errorf("panocube: project: %w", err)
	}
	Logger().Debug("panocube: faces projected", "edge", edge, "kernel", c.opts.kernel.String(),
		"workers", c.pool.Workers(), "elapsed", time.Since(t0))
	return faces, nil
}

// cubeImages rescales every face to the cube size and encodes it.
func (c *Converter) cubeImages(ctx context.Context, faces cube.Faces) ([]CubeImage, error) {
	imgs, err := parallel.Collect(ctx, c.pool, len(cube.All), func(_ context.Context, i int) (CubeImage, error) {
		f := cube.All[i]
		scaled, err := image.Scale(faces[f], c.opts.cubeSize, c.opts.cubeSize, c.opts.kernel)
		if err != nil {
			return CubeImage{}, fmt.Errorf("scale %s: %w", f, err)
		}
		data, err := scaled.EncodeToJPEGBytes(c.opts.quality)
		if err != nil {
			return CubeImage{}, fmt.Errorf("encode %s: %w", f, err)
		}
		return CubeImage{Face: f.Letter(), Path: "pano_" + f.Letter() + ".jpg", Data: data}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("panocube: cube images: %w", err)
	}
	return imgs, nil
}

// tiles plans the pyramid once and slices every face with it.
func (c *Converter) tiles(ctx context.Context, faces cube.Faces, edge int) ([]LevelConfig, []Tile, error) {
	levels, err := level.Plan(edge)
	if err != nil {
		return nil, nil, fmt.Errorf("panocube: plan levels: %w", err)
	}

	perFace, err := parallel.Collect(ctx, c.pool, len(cube.All), func(ctx context.Context, i int) ([]Tile, error) {
		f := cube.All[i]
		return c.slicer.Slice(ctx, f.Letter(), faces[f], levels)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("panocube: slice tiles: %w", err)
	}

	var all []Tile
	for _, ts := range perFace {
		all = append(all, ts...)
	}
	Logger().Debug("panocube: faces tiled", "levels", len(levels), "tiles", len(all))
	return levels, all, nil
}

// compose renders and encodes the preview strip and the thumbnail.
func (c *Converter) compose(faces cube.Faces) (prev, thumb []byte, err error) {
	strip, err := c.composer.Preview(faces)
	if err != nil {
		return nil, nil, fmt.Errorf("panocube: %w", err)
	}
	if prev, err = strip.EncodeToJPEGBytes(c.opts.quality); err != nil {
		return nil, nil, fmt.Errorf("panocube: encode preview: %w", err)
	}

	small, err := c.composer.Thumbnail(faces)
	if err != nil {
		return nil, nil, fmt.Errorf("panocube: %w", err)
	}
	if thumb, err = small.EncodeToJPEGBytes(c.opts.quality); err != nil {
		return nil, nil, fmt.Errorf("panocube: encode thumbnail: %w", err)
	}
	return prev, thumb, nil
}
