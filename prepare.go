package veil

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// PrepareMessage resizes a message image to the requested size and
// binarizes it. Zero or negative target dimensions keep the source size.
func PrepareMessage(img image.Image, width, height int, opts BinarizeOptions) (*Bitmap, error) {
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, &InvalidImageError{Err: errors.New("zero-dimensioned image")}
	}

	if width <= 0 {
		width = bounds.Dx()
	}
	if height <= 0 {
		height = bounds.Dy()
	}
	if width != bounds.Dx() || height != bounds.Dy() {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}
	return Binarize(img, opts)
}
