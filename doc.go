// Package panocube converts equirectangular panoramas into cube faces and
// krpano multi-resolution tile pyramids.
//
// # Overview
//
// A single input photograph covering the full sphere is projected onto the
// six faces of a cube. The faces can be emitted as fixed-size images (cube
// mode), sliced into a pyramid of 512 px tiles (tiles mode), or both. Every
// conversion also produces a blurred preview strip and a thumbnail.
//
// # Quick Start
//
//	import "github.com/gogpu/panocube"
//
//	f, _ := os.Open("pano.jpg")
//	pano, err := panocube.DecodePanorama(f)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	conv := panocube.New(panocube.WithKernel(panocube.KernelLanczos))
//	res, err := conv.MakeTiles(ctx, pano)
//
// # Pipeline
//
// A conversion moves through the states Idle, Validating, Projecting,
// Tiling (or Skipped), Composing and Done. Any failure ends in Failed and
// no partial result is returned.
//
//   - Validating: the configured [Validator] checks the input
//   - Projecting: the six faces are rendered on a bounded worker pool
//   - Tiling: levels are planned once and every face is sliced
//   - Composing: cube images (cube modes), preview strip and thumbnail are
//     built and encoded
//
// # Concurrency
//
// Face projection and tiling run on a pool of [WithWorkers] goroutines.
// The first failing face cancels its siblings. A [Converter] holds no
// per-run state and may serve concurrent conversions.
//
// # Coordinate System
//
//   - x points right, y up, z forward (the centre of the panorama)
//   - face-local coordinates run left to right and top to bottom
//   - longitude wraps around the panorama seam, latitude clamps at the poles
package panocube

// Version is the current version of the library.
const Version = "0.1.0"
