package panocube

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned for a Mode outside the defined set.
var ErrUnknownMode = errors.New("panocube: unknown conversion mode")

// InputError reports an input the converter refuses to start on: a pixel
// format other than JPEG, empty dimensions or a width above the validator's
// ceiling.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "panocube: invalid input: " + e.Reason
}

// PlatformLimitError reports a panorama wider than the configured platform
// ceiling. It is raised before projection begins.
type PlatformLimitError struct {
	Width int
	Limit int
}

func (e *PlatformLimitError) Error() string {
	return fmt.Sprintf("panocube: panorama width %d exceeds platform limit %d", e.Width, e.Limit)
}

// ProjectionFailure reports the face whose projection failed. The remaining
// faces were cancelled and no faces are returned.
type ProjectionFailure struct {
	Face string
	Err  error
}

func (e *ProjectionFailure) Error() string {
	return fmt.Sprintf("panocube: projection of %s face failed: %v", e.Face, e.Err)
}

func (e *ProjectionFailure) Unwrap() error {
	return e.Err
}
