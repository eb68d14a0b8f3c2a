// Package level plans the tile pyramid of one cube face.
//
// A pyramid is a list of square level sizes. Every size decomposes into whole
// 512 px tiles plus at most one partial row/column whose edge is itself a
// multiple of 64 and never smaller than 64.
package level

import (
	"errors"
	"math"
)

// Pyramid geometry constants.
const (
	// TileSize is the edge of a full tile in pixels.
	TileSize = 512

	// MinTileSize is the smallest edge a partial tile may have.
	MinTileSize = 64

	// MinFaceSize bounds the smallest level: halving stops once
	// next+MinTileSize drops below it.
	MinFaceSize = 640

	// WidthRatio converts a panorama width into the top level size.
	WidthRatio = 3.125
)

// ErrFaceTooSmall is returned when the top level aligns below MinTileSize.
var ErrFaceTooSmall = errors.New("level: face too small for tiling")

// Config describes one pyramid level.
type Config struct {
	// Level is 1 for the smallest level and N for the largest.
	Level int `json:"level"`

	// Size is the square edge of the level in pixels.
	Size int `json:"size"`
}

// Grid returns the number of tiles along one edge of the level.
func (c Config) Grid() int {
	return GridSize(c.Size)
}

// GridSize returns ceil(size / TileSize).
func GridSize(size int) int {
	return (size + TileSize - 1) / TileSize
}

// TopSize returns the top level size for a panorama of the given width.
func TopSize(panoWidth int) int {
	return int(math.Floor(float64(panoWidth) / WidthRatio))
}

// Align truncates size so that size % TileSize % MinTileSize == 0.
//
// A trailing partial tile narrower than MinTileSize is dropped entirely;
// a wider one is shrunk to the nearest multiple of MinTileSize.
func Align(size float64) int {
	r := math.Mod(size, TileSize)
	switch {
	case r == 0:
	case r < MinTileSize:
		size -= r
	default:
		size -= math.Mod(r, MinTileSize)
	}
	return int(size)
}

// Plan returns the levels for a face whose top level is top pixels wide,
// ordered ascending by Level (smallest first).
//
// Candidates halve from the unaligned previous candidate and stop once
// next+MinTileSize < MinFaceSize.
func Plan(top int) ([]Config, error) {
	if Align(float64(top)) < MinTileSize {
		return nil, ErrFaceTooSmall
	}

	// Collected largest first.
	sizes := []int{Align(float64(top))}
	for next := float64(top) / 2; next+MinTileSize >= MinFaceSize; next /= 2 {
		sizes = append(sizes, Align(next))
	}

	levels := make([]Config, len(sizes))
	for i, size := range sizes {
		n := len(sizes) - i
		levels[n-1] = Config{Level: n, Size: size}
	}
	return levels, nil
}

// ForPanorama plans the pyramid for a panorama of the given width.
func ForPanorama(panoWidth int) ([]Config, error) {
	return Plan(TopSize(panoWidth))
}

// Top returns the largest level, or the zero Config for an empty plan.
func Top(levels []Config) Config {
	var top Config
	for _, l := range levels {
		if l.Size > top.Size {
			top = l
		}
	}
	return top
}
