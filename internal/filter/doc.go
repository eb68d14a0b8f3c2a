// Package filter provides the Gaussian blur used to soften the viewer
// preview strip.
//
// The blur is separable: one horizontal and one vertical 1-D pass over a
// float32 intermediate buffer. Windows are clamped to the image and every
// output pixel is divided by the weights that actually fell inside it, so
// borders keep their brightness.
package filter
