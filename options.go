package panocube

import (
	"github.com/gogpu/panocube/internal/filter"
	"github.com/gogpu/panocube/internal/image"
	"github.com/gogpu/panocube/internal/preview"
)

// Kernel selects the resampling filter used for projection and rescaling.
type Kernel = image.Kernel

// Resampling kernels, fastest first.
const (
	KernelLinear  = image.KernelLinear
	KernelCubic   = image.KernelCubic
	KernelLanczos = image.KernelLanczos
)

// ParseKernel maps a kernel name (linear, cubic, lanczos and common aliases)
// to a Kernel.
func ParseKernel(name string) (Kernel, error) {
	return image.ParseKernel(name)
}

// Defaults used by New.
const (
	DefaultWorkers         = 6
	DefaultQuality         = image.DefaultJPEGQuality
	DefaultCubeSize        = 2048
	DefaultMaxCubeFaceEdge = 2048
	DefaultKernel          = KernelCubic
	DefaultBlurSigma       = filter.DefaultSigma
	DefaultPreviewSize     = preview.DefaultPreviewSize
	DefaultThumbSize       = preview.DefaultThumbSize
)

// Option configures a Converter during creation.
//
// Example:
//
//	conv := panocube.New(
//	    panocube.WithKernel(panocube.KernelLanczos),
//	    panocube.WithWorkers(2),
//	)
type Option func(*options)

// options holds the configuration of a Converter.
type options struct {
	kernel           Kernel
	workers          int
	quality          int
	cubeSize         int
	maxCubeFaceEdge  int
	maxPanoramaWidth int
	sigma            float64
	previewSize      int
	thumbSize        int
	validator        Validator
	observer         StateObserver
}

// defaultOptions returns the default converter options.
func defaultOptions() options {
	return options{
		kernel:          DefaultKernel,
		workers:         DefaultWorkers,
		quality:         DefaultQuality,
		cubeSize:        DefaultCubeSize,
		maxCubeFaceEdge: DefaultMaxCubeFaceEdge,
		sigma:           DefaultBlurSigma,
		previewSize:     DefaultPreviewSize,
		thumbSize:       DefaultThumbSize,
		validator:       DefaultValidator{},
	}
}

// WithKernel sets the resampling kernel for projection and every rescale.
// Invalid kernels are ignored.
func WithKernel(k Kernel) Option {
	return func(o *options) {
		if k.IsValid() {
			o.kernel = k
		}
	}
}

// WithWorkers sets how many faces are processed at once. Use 2 on memory
// constrained platforms. Values below 1 select runtime.GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithQuality sets the JPEG quality (1-100) of every emitted image.
func WithQuality(q int) Option {
	return func(o *options) {
		o.quality = min(max(q, 1), 100)
	}
}

// WithCubeSize sets the edge of the cube face images emitted in cube modes.
func WithCubeSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.cubeSize = size
		}
	}
}

// WithMaxCubeFaceEdge caps the projected face edge when only cube images are
// requested. Tiling always projects at native resolution. Zero disables the
// cap.
func WithMaxCubeFaceEdge(edge int) Option {
	return func(o *options) {
		o.maxCubeFaceEdge = max(edge, 0)
	}
}

// WithMaxPanoramaWidth rejects panoramas wider than width with a
// *PlatformLimitError before projection. Zero disables the check.
func WithMaxPanoramaWidth(width int) Option {
	return func(o *options) {
		o.maxPanoramaWidth = max(width, 0)
	}
}

// WithBlurSigma sets the Gaussian sigma of the preview blur.
func WithBlurSigma(sigma float64) Option {
	return func(o *options) {
		if sigma > 0 {
			o.sigma = sigma
		}
	}
}

// WithPreviewSize sets the edge of each face in the preview strip.
func WithPreviewSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.previewSize = size
		}
	}
}

// WithThumbSize sets the edge of the square thumbnail.
func WithThumbSize(size int) Option {
	return func(o *options) {
		if size > 0 {
			o.thumbSize = size
		}
	}
}

// WithValidator replaces the input validator. Nil restores DefaultValidator.
func WithValidator(v Validator) Option {
	return func(o *options) {
		if v == nil {
			v = DefaultValidator{}
		}
		o.validator = v
	}
}

// WithStateObserver registers a hook called on every state transition.
func WithStateObserver(fn StateObserver) Option {
	return func(o *options) {
		o.observer = fn
	}
}
