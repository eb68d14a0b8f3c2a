package filter

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestGaussianKernelIdentity(t *testing.T) {
	tests := []struct {
		name   string
		radius int
		sigma  float64
	}{
		{"zero radius", 0, 1.8},
		{"negative radius", -2, 1.8},
		{"zero sigma", 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel := GaussianKernel(tt.radius, tt.sigma)
			if len(kernel) != 1 || kernel[0] != 1.0 {
				t.Errorf("GaussianKernel(%d, %v) = %v, want [1]", tt.radius, tt.sigma, kernel)
			}
		})
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 1.8, 3, 10} {
		for _, radius := range []int{1, 3, 7} {
			kernel := GaussianKernel(radius, sigma)
			if len(kernel) != 2*radius+1 {
				t.Errorf("GaussianKernel(%d, %v) len = %d, want %d", radius, sigma, len(kernel), 2*radius+1)
			}
			if sum := floats.Sum(kernel); math.Abs(sum-1) > 1e-12 {
				t.Errorf("GaussianKernel(%d, %v) sum = %v, want 1", radius, sigma, sum)
			}
		}
	}
}

func TestGaussianKernelShape(t *testing.T) {
	kernel := GaussianKernel(DefaultRadius, DefaultSigma)
	n := len(kernel)

	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		if math.Abs(kernel[i]-kernel[j]) > 1e-15 {
			t.Errorf("kernel[%d] = %v != kernel[%d] = %v (asymmetric)", i, kernel[i], j, kernel[j])
		}
		if kernel[i] >= kernel[i+1] {
			t.Errorf("kernel should increase toward the center: kernel[%d]=%v kernel[%d]=%v", i, kernel[i], i+1, kernel[i+1])
		}
	}
}

func TestCachedGaussianKernel(t *testing.T) {
	a := CachedGaussianKernel(3, 1.8)
	b := CachedGaussianKernel(3, 1.8)
	if &a[0] != &b[0] {
		t.Error("CachedGaussianKernel should return the cached slice")
	}
	if floats.Distance(a, GaussianKernel(3, 1.8), 2) > 1e-15 {
		t.Error("cached kernel differs from a fresh one")
	}
}
