// Package config loads converter tuning from a JSON file.
//
// Every field is optional: omitted fields keep the converter defaults, so
// partial files are safe. Command-line flags override file values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/panocube"
)

// maxFileSize bounds the size of a tuning file.
const maxFileSize = 1 << 20

// Config holds converter tuning. The JSON names match the CLI flags.
type Config struct {
	Kernel           *string  `json:"kernel,omitempty"`
	Workers          *int     `json:"workers,omitempty"`
	Quality          *int     `json:"quality,omitempty"`
	CubeSize         *int     `json:"cube_size,omitempty"`
	MaxCubeFaceEdge  *int     `json:"max_cube_face_edge,omitempty"`
	MaxPanoramaWidth *int     `json:"max_panorama_width,omitempty"` // platform ceiling, 0 = none
	MaxInputWidth    *int     `json:"max_input_width,omitempty"`
	BlurSigma        *float64 `json:"blur_sigma,omitempty"`
	PreviewSize      *int     `json:"preview_size,omitempty"`
	ThumbSize        *int     `json:"thumb_size,omitempty"`
}

func ptrInt(v int) *int             { return &v }
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// Default returns a Config with every field set to the converter default.
func Default() *Config {
	return &Config{
		Kernel:           ptrString(panocube.DefaultKernel.String()),
		Workers:          ptrInt(panocube.DefaultWorkers),
		Quality:          ptrInt(panocube.DefaultQuality),
		CubeSize:         ptrInt(panocube.DefaultCubeSize),
		MaxCubeFaceEdge:  ptrInt(panocube.DefaultMaxCubeFaceEdge),
		MaxPanoramaWidth: ptrInt(0),
		MaxInputWidth:    ptrInt(panocube.MaxInputWidth),
		BlurSigma:        ptrFloat64(panocube.DefaultBlurSigma),
		PreviewSize:      ptrInt(panocube.DefaultPreviewSize),
		ThumbSize:        ptrInt(panocube.DefaultThumbSize),
	}
}

// Load reads a Config from a .json file.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the values that are set.
func (c *Config) Validate() error {
	if c.Kernel != nil {
		if _, err := panocube.ParseKernel(*c.Kernel); err != nil {
			return err
		}
	}
	if c.Quality != nil && (*c.Quality < 1 || *c.Quality > 100) {
		return fmt.Errorf("quality must be between 1 and 100, got %d", *c.Quality)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.BlurSigma != nil && *c.BlurSigma <= 0 {
		return fmt.Errorf("blur_sigma must be positive, got %f", *c.BlurSigma)
	}

	for name, v := range map[string]*int{
		"cube_size":          c.CubeSize,
		"max_cube_face_edge": c.MaxCubeFaceEdge,
		"max_panorama_width": c.MaxPanoramaWidth,
		"max_input_width":    c.MaxInputWidth,
		"preview_size":       c.PreviewSize,
		"thumb_size":         c.ThumbSize,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *v)
		}
	}
	return nil
}

// Merge copies every field set in o over c.
func (c *Config) Merge(o *Config) {
	if o == nil {
		return
	}
	if o.Kernel != nil {
		c.Kernel = o.Kernel
	}
	if o.Workers != nil {
		c.Workers = o.Workers
	}
	if o.Quality != nil {
		c.Quality = o.Quality
	}
	if o.CubeSize != nil {
		c.CubeSize = o.CubeSize
	}
	if o.MaxCubeFaceEdge != nil {
		c.MaxCubeFaceEdge = o.MaxCubeFaceEdge
	}
	if o.MaxPanoramaWidth != nil {
		c.MaxPanoramaWidth = o.MaxPanoramaWidth
	}
	if o.MaxInputWidth != nil {
		c.MaxInputWidth = o.MaxInputWidth
	}
	if o.BlurSigma != nil {
		c.BlurSigma = o.BlurSigma
	}
	if o.PreviewSize != nil {
		c.PreviewSize = o.PreviewSize
	}
	if o.ThumbSize != nil {
		c.ThumbSize = o.ThumbSize
	}
}

// Options converts the set fields into converter options. Call Validate
// first; an unparsable kernel is skipped.
func (c *Config) Options() []panocube.Option {
	var opts []panocube.Option
	if c.Kernel != nil {
		if k, err := panocube.ParseKernel(*c.Kernel); err == nil {
			opts = append(opts, panocube.WithKernel(k))
		}
	}
	if c.Workers != nil {
		opts = append(opts, panocube.WithWorkers(*c.Workers))
	}
	if c.Quality != nil {
		opts = append(opts, panocube.WithQuality(*c.Quality))
	}
	if c.CubeSize != nil {
		opts = append(opts, panocube.WithCubeSize(*c.CubeSize))
	}
	if c.MaxCubeFaceEdge != nil {
		opts = append(opts, panocube.WithMaxCubeFaceEdge(*c.MaxCubeFaceEdge))
	}
	if c.MaxPanoramaWidth != nil {
		opts = append(opts, panocube.WithMaxPanoramaWidth(*c.MaxPanoramaWidth))
	}
	if c.MaxInputWidth != nil {
		opts = append(opts, panocube.WithValidator(panocube.DefaultValidator{MaxWidth: *c.MaxInputWidth}))
	}
	if c.BlurSigma != nil {
		opts = append(opts, panocube.WithBlurSigma(*c.BlurSigma))
	}
	if c.PreviewSize != nil {
		opts = append(opts, panocube.WithPreviewSize(*c.PreviewSize))
	}
	if c.ThumbSize != nil {
		opts = append(opts, panocube.WithThumbSize(*c.ThumbSize))
	}
	return opts
}
