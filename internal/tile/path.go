package tile

import (
	"fmt"
	"strconv"
)

// PadWidth returns the zero-padding width for row/column numbers: the digit
// count of the largest level's grid dimension.
func PadWidth(topGrid int) int {
	if topGrid < 1 {
		return 1
	}
	return len(strconv.Itoa(topGrid))
}

// Path returns the archive-relative path of a tile:
//
//	<face>/l<level>/<row>/l<level>_<face>_<row>_<col>.jpg
//
// matching the krpano pattern %s/l%l/%v/l%l_%s_%v_%h.jpg.
func Path(face string, lvl, row, col, pad int) string {
	return fmt.Sprintf("%s/l%d/%0*d/l%d_%s_%0*d_%0*d.jpg",
		face, lvl, pad, row, lvl, face, pad, row, pad, col)
}
