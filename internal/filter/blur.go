package filter

import (
	"sync"

	"github.com/gogpu/panocube/internal/image"
)

// BlurFilter applies a separable Gaussian blur to the color channels of an
// image. Alpha is left untouched.
type BlurFilter struct {
	// Radius is the half-width of the convolution window in pixels.
	Radius int

	// Sigma is the Gaussian standard deviation.
	Sigma float64
}

// NewBlurFilter creates a blur filter with the given sigma and the default
// radius. A non-positive sigma selects DefaultSigma.
func NewBlurFilter(sigma float64) *BlurFilter {
	if sigma <= 0 {
		sigma = DefaultSigma
	}
	return &BlurFilter{Radius: DefaultRadius, Sigma: sigma}
}

// Kernel returns the normalized 1D kernel used by both passes.
func (f *BlurFilter) Kernel() []float64 {
	return CachedGaussianKernel(f.Radius, f.Sigma)
}

// Apply blurs img in place using two passes:
//  1. Horizontal pass: convolve each row into a float buffer
//  2. Vertical pass: convolve each column of that buffer back into img
//
// Taps falling outside the image are skipped and the sum is renormalized
// by the in-range weights only.
func (f *BlurFilter) Apply(img *image.ImageBuf) {
	if img == nil || f.Radius <= 0 || f.Sigma <= 0 {
		return
	}

	width, height := img.Bounds()
	kernel := f.Kernel()

	temp := getTempBuffer(width * height * 3)
	defer putTempBuffer(temp)

	blurHorizontal(img, temp, kernel)
	blurVertical(temp, img, kernel)
}

// blurHorizontal convolves each row of src into temp (RGB float32).
func blurHorizontal(src *image.ImageBuf, temp []float32, kernel []float64) {
	width, height := src.Bounds()
	radius := len(kernel) / 2

	for y := range height {
		row := src.RowBytes(y)
		for x := range width {
			var r, g, b, sum float64
			lo := max(x-radius, 0)
			hi := min(x+radius, width-1)
			for k := lo; k <= hi; k++ {
				w := kernel[k-x+radius]
				off := k * image.BytesPerPixel
				r += float64(row[off]) * w
				g += float64(row[off+1]) * w
				b += float64(row[off+2]) * w
				sum += w
			}

			idx := (y*width + x) * 3
			temp[idx] = float32(r / sum)
			temp[idx+1] = float32(g / sum)
			temp[idx+2] = float32(b / sum)
		}
	}
}

// blurVertical convolves each column of temp back into dst.
func blurVertical(temp []float32, dst *image.ImageBuf, kernel []float64) {
	width, height := dst.Bounds()
	radius := len(kernel) / 2

	for y := range height {
		row := dst.RowBytes(y)
		lo := max(y-radius, 0)
		hi := min(y+radius, height-1)
		for x := range width {
			var r, g, b, sum float64
			for k := lo; k <= hi; k++ {
				w := kernel[k-y+radius]
				idx := (k*width + x) * 3
				r += float64(temp[idx]) * w
				g += float64(temp[idx+1]) * w
				b += float64(temp[idx+2]) * w
				sum += w
			}

			off := x * image.BytesPerPixel
			row[off] = clampUint8(r / sum)
			row[off+1] = clampUint8(g / sum)
			row[off+2] = clampUint8(b / sum)
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

// Temporary buffer pool for blur operations.
var tempBufferPool = sync.Pool{
	New: func() interface{} {
		// One preview strip: 256x1536 RGB.
		return &floatBuffer{data: make([]float32, 256*1536*3)}
	},
}

// getTempBuffer retrieves a temporary buffer with at least size elements.
// Every element is overwritten by the horizontal pass, so no clearing is
// needed.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if len(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

// putTempBuffer returns a temporary buffer to the pool.
func putTempBuffer(buf []float32) {
	if cap(buf) <= 16*1024*1024 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampUint8 clamps a float64 to [0, 255] and rounds to uint8.
func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5) // Round to nearest
}
