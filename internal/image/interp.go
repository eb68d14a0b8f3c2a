package image

import (
	"fmt"
	"math"
	"strings"
)

// Kernel selects the resampling filter used for projection and rescaling.
type Kernel uint8

const (
	// KernelLinear interpolates between the 2x2 nearest pixels.
	// Fastest, softer detail.
	KernelLinear Kernel = iota

	// KernelCubic uses Catmull-Rom splines over a 4x4 neighborhood.
	// Sharper detail than linear.
	KernelCubic

	// KernelLanczos uses a 3-lobe Lanczos window over a 6x6 neighborhood.
	// Best quality, slowest.
	KernelLanczos
)

// maxTaps is the widest kernel footprint along one axis (Lanczos-3).
const maxTaps = 6

// String returns the lower-case kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelLinear:
		return "linear"
	case KernelCubic:
		return "cubic"
	case KernelLanczos:
		return "lanczos"
	default:
		return "unknown"
	}
}

// ParseKernel maps a kernel name to its Kernel value.
func ParseKernel(name string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear", "bilinear":
		return KernelLinear, nil
	case "cubic", "bicubic", "catmullrom":
		return KernelCubic, nil
	case "lanczos", "lanczos3":
		return KernelLanczos, nil
	default:
		return 0, fmt.Errorf("image: unknown kernel %q", name)
	}
}

// IsValid reports whether k is a known kernel.
func (k Kernel) IsValid() bool {
	return k <= KernelLanczos
}

// Support returns the kernel radius in source pixels.
func (k Kernel) Support() int {
	switch k {
	case KernelCubic:
		return 2
	case KernelLanczos:
		return 3
	default:
		return 1
	}
}

// Weight evaluates the kernel at distance t.
func (k Kernel) Weight(t float64) float64 {
	switch k {
	case KernelCubic:
		return cubicWeight(t)
	case KernelLanczos:
		return lanczosWeight(t, 3)
	default:
		return linearWeight(t)
	}
}

// linearWeight is the tent filter.
func linearWeight(t float64) float64 {
	t = math.Abs(t)
	if t < 1 {
		return 1 - t
	}
	return 0
}

// cubicWeight computes the Catmull-Rom cubic weight for distance t.
func cubicWeight(t float64) float64 {
	// Catmull-Rom spline (Mitchell-Netravali with B=0, C=0.5):
	// |t| < 1: (1.5|t|³ - 2.5|t|² + 1)
	// 1 ≤ |t| < 2: (-0.5|t|³ + 2.5|t|² - 4|t| + 2)
	absT := math.Abs(t)
	if absT < 1 {
		return 1.5*absT*absT*absT - 2.5*absT*absT + 1.0
	}
	if absT < 2 {
		return -0.5*absT*absT*absT + 2.5*absT*absT - 4.0*absT + 2.0
	}
	return 0
}

// lanczosWeight computes sinc(t)*sinc(t/a) for |t| < a.
func lanczosWeight(t float64, a float64) float64 {
	if t == 0 {
		return 1
	}
	if t <= -a || t >= a {
		return 0
	}
	pt := math.Pi * t
	return a * math.Sin(pt) * math.Sin(pt/a) / (pt * pt)
}

// taps holds the source indices and weights along one axis.
type taps struct {
	idx [maxTaps]int
	w   [maxTaps]float64
	n   int
	sum float64
}

// computeTaps fills t for continuous coordinate f (pixel centers at integers).
// Indices are resolved through index, which implements wrap or clamp.
func (k Kernel) computeTaps(t *taps, f float64, index func(int) int) {
	s := k.Support()
	base := int(math.Floor(f))
	t.n = 0
	t.sum = 0
	for i := base - s + 1; i <= base+s; i++ {
		w := k.Weight(f - float64(i))
		t.idx[t.n] = index(i)
		t.w[t.n] = w
		t.sum += w
		t.n++
	}
}

// SampleWrapX samples img at continuous pixel coordinates (fx, fy), where
// integer coordinates address pixel centers. The x axis wraps around, as
// longitude does in an equirectangular image; the y axis clamps to the edge.
//
// Weights are normalized by their sum, so a uniform image samples to the
// same uniform color with every kernel.
func SampleWrapX(img *ImageBuf, fx, fy float64, k Kernel) (r, g, b, a uint8) {
	w, h := img.Bounds()

	var tx, ty taps
	k.computeTaps(&tx, fx, func(i int) int { return wrap(i, w) })
	k.computeTaps(&ty, fy, func(i int) int { return clamp(i, 0, h-1) })

	var acc [4]float64
	data := img.data
	for j := range ty.n {
		wy := ty.w[j]
		if wy == 0 {
			continue
		}
		rowOff := ty.idx[j] * img.stride
		var row [4]float64
		for i := range tx.n {
			wx := tx.w[i]
			if wx == 0 {
				continue
			}
			off := rowOff + tx.idx[i]*BytesPerPixel
			row[0] += float64(data[off]) * wx
			row[1] += float64(data[off+1]) * wx
			row[2] += float64(data[off+2]) * wx
			row[3] += float64(data[off+3]) * wx
		}
		acc[0] += row[0] * wy
		acc[1] += row[1] * wy
		acc[2] += row[2] * wy
		acc[3] += row[3] * wy
	}

	norm := tx.sum * ty.sum
	if norm == 0 {
		return 0, 0, 0, 0
	}
	return roundByte(acc[0] / norm), roundByte(acc[1] / norm),
		roundByte(acc[2] / norm), roundByte(acc[3] / norm)
}

// wrap maps i into [0, n) modulo n.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// clamp clamps an integer value to [minVal, maxVal].
//
//nolint:unparam // minVal is always 0 currently, but function is general-purpose
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// roundByte rounds v to the nearest integer and clamps it to [0, 255].
func roundByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
