package panocube

import (
	"bufio"
	"fmt"
	stdimage "image"
	_ "image/png" // decoded only so the validator can name and refuse the format
	"io"

	"github.com/gogpu/panocube/internal/image"
)

// FormatJPEG is the only input format the default validator accepts.
const FormatJPEG = "jpeg"

// Panorama is a decoded equirectangular image. It is never modified by a
// conversion and may be shared by concurrent conversions.
type Panorama struct {
	buf    *image.ImageBuf
	format string
}

// NewPanorama wraps an already decoded image. The pixels are copied.
// The format is recorded as JPEG; use DecodePanorama to sniff real input.
func NewPanorama(img stdimage.Image) *Panorama {
	return &Panorama{buf: image.FromStdImage(img), format: FormatJPEG}
}

// DecodePanorama decodes a panorama from r.
//
// JPEG data is decoded directly. Other registered formats are decoded as
// well so that the validator can report them; they are refused before any
// conversion starts. Undecodable data yields an *InputError.
func DecodePanorama(r io.Reader) (*Panorama, error) {
	br := bufio.NewReader(r)
	header, _ := br.Peek(3)
	if image.IsJPEG(header) {
		buf, err := image.DecodeJPEG(br)
		if err != nil {
			return nil, &InputError{Reason: err.Error()}
		}
		return &Panorama{buf: buf, format: FormatJPEG}, nil
	}

	img, format, err := stdimage.Decode(br)
	if err != nil {
		return nil, &InputError{Reason: fmt.Sprintf("decode: %v", err)}
	}
	return &Panorama{buf: image.FromStdImage(img), format: format}, nil
}

// Width returns the panorama width in pixels.
func (p *Panorama) Width() int {
	if p.buf == nil {
		return 0
	}
	return p.buf.Width()
}

// Height returns the panorama height in pixels.
func (p *Panorama) Height() int {
	if p.buf == nil {
		return 0
	}
	return p.buf.Height()
}

// Format returns the name of the format the panorama was decoded from.
func (p *Panorama) Format() string {
	return p.format
}
