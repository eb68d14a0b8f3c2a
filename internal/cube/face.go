// Package cube projects an equirectangular panorama onto the six faces of a
// cube map.
//
// Axes are right-handed with x pointing right, y up and z forward. Every face
// is described by the direction of its centre and by the directions its
// local a (left to right) and b (top to bottom) axes run in.
package cube

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face identifies one cube face.
type Face uint8

// Cube faces, in output order.
const (
	Front Face = iota
	Back
	Left
	Right
	Up
	Down

	faceCount
)

// All lists the faces in output order.
var All = [faceCount]Face{Front, Back, Left, Right, Up, Down}

// PreviewOrder is the top-to-bottom order of faces in the preview strip.
var PreviewOrder = [faceCount]Face{Left, Front, Right, Back, Up, Down}

// basis holds the face centre and the directions of its local axes.
type basis struct {
	centre r3.Vec
	right  r3.Vec
	down   r3.Vec
}

var faceInfo = [faceCount]struct {
	name   string
	letter string
	basis  basis
}{
	Front: {"front", "f", basis{r3.Vec{Z: 1}, r3.Vec{X: 1}, r3.Vec{Y: -1}}},
	Back:  {"back", "b", basis{r3.Vec{Z: -1}, r3.Vec{X: -1}, r3.Vec{Y: -1}}},
	Left:  {"left", "l", basis{r3.Vec{X: -1}, r3.Vec{Z: 1}, r3.Vec{Y: -1}}},
	Right: {"right", "r", basis{r3.Vec{X: 1}, r3.Vec{Z: -1}, r3.Vec{Y: -1}}},
	Up:    {"up", "u", basis{r3.Vec{Y: 1}, r3.Vec{X: 1}, r3.Vec{Z: 1}}},
	Down:  {"down", "d", basis{r3.Vec{Y: -1}, r3.Vec{X: 1}, r3.Vec{Z: -1}}},
}

// String returns the face name (front, back, left, right, up, down).
func (f Face) String() string {
	if !f.IsValid() {
		return fmt.Sprintf("Face(%d)", f)
	}
	return faceInfo[f].name
}

// Letter returns the single-letter token krpano uses for the face.
func (f Face) Letter() string {
	if !f.IsValid() {
		return "?"
	}
	return faceInfo[f].letter
}

// IsValid reports whether f is one of the six faces.
func (f Face) IsValid() bool {
	return f < faceCount
}

// Direction returns the unnormalized view direction through face-local
// coordinates (a, b), both in [-1, 1] with b pointing down.
func (f Face) Direction(a, b float64) r3.Vec {
	bs := faceInfo[f].basis
	return r3.Add(bs.centre, r3.Add(r3.Scale(a, bs.right), r3.Scale(b, bs.down)))
}
