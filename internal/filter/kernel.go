package filter

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Preview blur defaults.
const (
	// DefaultRadius is the half-width of the blur window in pixels.
	DefaultRadius = 3

	// DefaultSigma is the Gaussian standard deviation of the preview blur.
	DefaultSigma = 1.8
)

// GaussianKernel generates a 1D Gaussian kernel with 2*radius+1 taps for the
// given sigma. The kernel is normalized so all values sum to 1.0.
//
// For radius <= 0 or sigma <= 0, returns a single-element kernel [1.0]
// (identity).
func GaussianKernel(radius int, sigma float64) []float64 {
	if radius <= 0 || sigma <= 0 {
		return []float64{1.0}
	}

	size := radius*2 + 1
	kernel := make([]float64, size)

	// G(x) = exp(-x²/(2σ²)) / (σ√(2π)); the constant factor cancels
	// out in the normalization below.
	a := 1 / (math.Sqrt(2*math.Pi) * sigma)
	b := -1 / (2 * sigma * sigma)
	for i := range kernel {
		x := float64(i - radius)
		kernel[i] = a * math.Exp(b*x*x)
	}

	floats.Scale(1/floats.Sum(kernel), kernel)
	return kernel
}

// kernelKey identifies a cached kernel. Sigma is quantized to 0.001.
type kernelKey struct {
	radius int
	sigma  int
}

// kernelCache caches computed Gaussian kernels to avoid recomputation.
// Only a handful of (radius, sigma) pairs are ever used, so it is unbounded.
type kernelCache struct {
	mu    sync.RWMutex
	cache map[kernelKey][]float64
}

var defaultKernelCache = &kernelCache{cache: make(map[kernelKey][]float64)}

// get retrieves a kernel from cache or generates and caches it.
func (c *kernelCache) get(radius int, sigma float64) []float64 {
	key := kernelKey{radius: radius, sigma: int(math.Round(sigma * 1000))}

	c.mu.RLock()
	kernel, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return kernel
	}

	kernel = GaussianKernel(radius, sigma)

	c.mu.Lock()
	c.cache[key] = kernel
	c.mu.Unlock()

	return kernel
}

// CachedGaussianKernel returns a shared Gaussian kernel for (radius, sigma).
// The returned slice must not be modified.
func CachedGaussianKernel(radius int, sigma float64) []float64 {
	return defaultKernelCache.get(radius, sigma)
}
