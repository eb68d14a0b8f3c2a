package filter

import "github.com/gogpu/panocube/internal/image"

// Test helper functions shared across filter tests.

// createTestImage creates an image filled with the given color.
func createTestImage(w, h int, r, g, b uint8) *image.ImageBuf {
	img, _ := image.NewImageBuf(w, h)
	img.Fill(r, g, b, 255)
	return img
}

// absDiff returns |a-b| for bytes.
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
