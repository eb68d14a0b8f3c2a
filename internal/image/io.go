package image

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	xdraw "golang.org/x/image/draw"
)

// I/O errors.
var (
	// ErrNotJPEG is returned when the input does not start with a JPEG SOI marker.
	ErrNotJPEG = errors.New("image: not a JPEG stream")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("image: empty data")
)

// DefaultJPEGQuality matches the quality used for every emitted image.
const DefaultJPEGQuality = 92

// jpegMagic is the SOI marker followed by the first marker prefix.
var jpegMagic = []byte{0xFF, 0xD8, 0xFF}

// IsJPEG reports whether header begins with a JPEG signature.
func IsJPEG(header []byte) bool {
	return bytes.HasPrefix(header, jpegMagic)
}

// DecodeJPEG decodes a JPEG stream into an RGBA buffer.
// The stream is sniffed first so non-JPEG input fails with ErrNotJPEG
// instead of a codec error.
func DecodeJPEG(r io.Reader) (*ImageBuf, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(jpegMagic))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyData
		}
		return nil, fmt.Errorf("image: read header: %w", err)
	}
	if !IsJPEG(header) {
		return nil, ErrNotJPEG
	}

	img, err := jpeg.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("image: decode JPEG: %w", err)
	}
	return FromStdImage(img), nil
}

// EncodeJPEG encodes the image as JPEG to the given writer.
// Quality is clamped to [1, 100].
func (b *ImageBuf) EncodeJPEG(w io.Writer, quality int) error {
	quality = clamp(quality, 1, 100)
	if err := jpeg.Encode(w, b.ToStdImage(), &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("image: encode JPEG: %w", err)
	}
	return nil
}

// EncodeToJPEGBytes encodes the image to JPEG format and returns the bytes.
func (b *ImageBuf) EncodeToJPEGBytes(quality int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(b.width * b.height / 4)
	if err := b.EncodeJPEG(&buf, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromStdImage converts a standard library image into an RGBA buffer.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	buf, err := NewImageBuf(width, height)
	if err != nil {
		return nil
	}

	// Fast path for NRGBA images, which share our layout.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range height {
			srcStart := (y+bounds.Min.Y-nrgba.Rect.Min.Y)*nrgba.Stride + (bounds.Min.X-nrgba.Rect.Min.X)*4
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+width*4])
		}
		return buf
	}

	// Opaque decoder outputs: premultiplied and straight alpha coincide,
	// so take the std draw fast path into RGBA and copy rows across.
	switch img.(type) {
	case *image.YCbCr, *image.Gray, *image.CMYK:
		rgba := image.NewRGBA(image.Rect(0, 0, width, height))
		xdraw.Draw(rgba, rgba.Bounds(), img, bounds.Min, xdraw.Src)
		for y := range height {
			copy(buf.RowBytes(y), rgba.Pix[y*rgba.Stride:y*rgba.Stride+width*4])
		}
		return buf
	}

	dst := buf.ToStdImage()
	xdraw.Draw(dst, dst.Bounds(), img, bounds.Min, xdraw.Src)
	return buf
}

// ToStdImage returns an *image.NRGBA sharing memory with b.
func (b *ImageBuf) ToStdImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.stride,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}
