package panocube

import "fmt"

// MaxInputWidth is the widest panorama DefaultValidator accepts.
const MaxInputWidth = 20000

// Validator checks a panorama before a conversion starts. Rejections should
// be reported as *InputError.
type Validator interface {
	Validate(p *Panorama) error
}

// DefaultValidator accepts JPEG panoramas with positive dimensions no wider
// than MaxWidth (MaxInputWidth when zero).
type DefaultValidator struct {
	MaxWidth int
}

// Validate implements Validator.
func (v DefaultValidator) Validate(p *Panorama) error {
	if p == nil {
		return &InputError{Reason: "no image"}
	}
	if p.format != FormatJPEG {
		return &InputError{Reason: fmt.Sprintf("unsupported format %q, want jpeg", p.format)}
	}

	w, h := p.Width(), p.Height()
	if w <= 0 || h <= 0 {
		return &InputError{Reason: fmt.Sprintf("empty dimensions %dx%d", w, h)}
	}

	limit := v.MaxWidth
	if limit <= 0 {
		limit = MaxInputWidth
	}
	if w > limit {
		return &InputError{Reason: fmt.Sprintf("width %d exceeds maximum %d", w, limit)}
	}
	return nil
}
