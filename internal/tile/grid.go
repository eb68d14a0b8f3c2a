// Package tile cuts cube faces into the square tile grids of a multires
// pyramid and names every tile the way krpano's multires cube expects.
package tile

import "github.com/gogpu/panocube/internal/level"

// Cell is the pixel footprint of one tile inside a level image.
//
// Edge cells may be narrower than level.TileSize when the level size is not
// an exact multiple of it.
type Cell struct {
	// Row is the 1-based vertical index.
	Row int

	// Col is the 1-based horizontal index.
	Col int

	// X, Y is the top-left corner in level pixels.
	X, Y int

	// Width and Height are the actual tile dimensions.
	Width, Height int
}

// Grid returns the cells covering a size x size level, row-major.
func Grid(size int) []Cell {
	n := level.GridSize(size)
	if n == 0 {
		return nil
	}

	cells := make([]Cell, 0, n*n)
	for ty := range n {
		for tx := range n {
			x := tx * level.TileSize
			y := ty * level.TileSize
			cells = append(cells, Cell{
				Row:    ty + 1,
				Col:    tx + 1,
				X:      x,
				Y:      y,
				Width:  min(level.TileSize, size-x),
				Height: min(level.TileSize, size-y),
			})
		}
	}
	return cells
}
