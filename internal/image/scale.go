package image

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// lanczos3 is a Lanczos-3 window for x/image/draw.
var lanczos3 = &xdraw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		return lanczosWeight(t, 3)
	},
}

// Scaler returns the x/image/draw interpolator matching k.
func (k Kernel) Scaler() xdraw.Interpolator {
	switch k {
	case KernelCubic:
		return xdraw.CatmullRom
	case KernelLanczos:
		return lanczos3
	default:
		return xdraw.BiLinear
	}
}

// Scale returns a new width x height buffer holding src resampled with k.
// When the size already matches, a copy of src is returned.
func Scale(src *ImageBuf, width, height int, k Kernel) (*ImageBuf, error) {
	dst, err := NewImageBuf(width, height)
	if err != nil {
		return nil, err
	}
	if src.width == width && src.height == height {
		for y := range height {
			copy(dst.RowBytes(y), src.RowBytes(y))
		}
		return dst, nil
	}

	// Scale into an RGBA view of dst so x/image/draw takes its
	// NRGBA->RGBA fast path, then undo the premultiplication it applies.
	srcImg := src.ToStdImage()
	dstImg := &image.RGBA{Pix: dst.data, Stride: dst.stride, Rect: image.Rect(0, 0, width, height)}
	k.Scaler().Scale(dstImg, dstImg.Rect, srcImg, srcImg.Bounds(), xdraw.Src, nil)
	unpremultiply(dst.data)
	return dst, nil
}

// unpremultiply converts premultiplied RGBA pixels to straight alpha in place.
// Opaque and fully transparent pixels are left untouched.
func unpremultiply(data []byte) {
	for i := 0; i+3 < len(data); i += BytesPerPixel {
		a := uint32(data[i+3])
		if a == 0xFF || a == 0 {
			continue
		}
		data[i] = uint8(min(255, (uint32(data[i])*255+a/2)/a))
		data[i+1] = uint8(min(255, (uint32(data[i+1])*255+a/2)/a))
		data[i+2] = uint8(min(255, (uint32(data[i+2])*255+a/2)/a))
	}
}
