// Package image provides the RGBA pixel buffer shared by every stage of the
// panorama pipeline, together with the sampling kernels, rescaling and JPEG
// codec built on top of it.
package image

import "errors"

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// ImageBuf is a non-premultiplied RGBA8 image buffer.
//
// Pixels are stored row-major in a contiguous byte slice. Stride may exceed
// Width*4 for views created by SubImage, which share memory with their parent.
//
// Thread safety: ImageBuf is safe for concurrent read access. Writes require
// external synchronization; the pipeline gives every job its own buffer.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
}

// NewImageBuf creates a zeroed buffer with the given dimensions.
func NewImageBuf(width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// FromRaw wraps existing tightly packed RGBA data without copying.
func FromRaw(data []byte, width, height int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * BytesPerPixel
	if len(data) < stride*height {
		return nil, ErrDataTooSmall
	}
	return &ImageBuf{
		data:   data[:stride*height],
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// Clone creates a tightly packed deep copy of the buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	out, _ := NewImageBuf(b.width, b.height)
	for y := range b.height {
		copy(out.RowBytes(y), b.RowBytes(y))
	}
	return out
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns the pixel bytes of row y, or nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*BytesPerPixel]
}

// PixelOffset returns the byte offset of pixel (x, y), or -1 if out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*BytesPerPixel
}

// GetRGBA returns the color at (x, y). Out-of-bounds reads return zero.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+4 : off+4]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the color at (x, y).
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	p := b.data[off : off+4 : off+4]
	p[0], p[1], p[2], p[3] = r, g, bl, a
	return nil
}

// Fill sets all pixels to the given color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	for y := range b.height {
		row := b.RowBytes(y)
		for i := 0; i < len(row); i += BytesPerPixel {
			row[i], row[i+1], row[i+2], row[i+3] = r, g, bl, a
		}
	}
}

// SubImage returns a view into a rectangular region of the image.
// The view shares memory with b. Returns nil if the region is invalid.
func (b *ImageBuf) SubImage(x, y, width, height int) *ImageBuf {
	if x < 0 || y < 0 || width <= 0 || height <= 0 {
		return nil
	}
	if x+width > b.width || y+height > b.height {
		return nil
	}

	start := y*b.stride + x*BytesPerPixel
	end := (y+height-1)*b.stride + (x+width)*BytesPerPixel

	return &ImageBuf{
		data:   b.data[start:end],
		width:  width,
		height: height,
		stride: b.stride,
	}
}

// Paste copies src into b with its top-left corner at (x, y).
// Returns ErrOutOfBounds if src does not fit.
func (b *ImageBuf) Paste(src *ImageBuf, x, y int) error {
	if x < 0 || y < 0 || x+src.width > b.width || y+src.height > b.height {
		return ErrOutOfBounds
	}
	for row := range src.height {
		off := (y+row)*b.stride + x*BytesPerPixel
		copy(b.data[off:off+src.width*BytesPerPixel], src.RowBytes(row))
	}
	return nil
}

// Equal reports whether both buffers have the same size and pixels.
func (b *ImageBuf) Equal(o *ImageBuf) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for y := range b.height {
		if string(b.RowBytes(y)) != string(o.RowBytes(y)) {
			return false
		}
	}
	return true
}

// ByteSize returns the total size of the image data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}
