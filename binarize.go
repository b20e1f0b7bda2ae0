package veil

import (
	"errors"
	"image"

	"github.com/disintegration/gift"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultThreshold is the mid-range binarization cutoff.
const DefaultThreshold = 128

// BinarizeOptions control the black/white conversion of a message image.
type BinarizeOptions struct {
	// Threshold is the 0-255 cutoff: pixels darker than it become ink.
	// Zero means DefaultThreshold.
	Threshold int

	// Perceptual thresholds on CIE L* lightness instead of luma, which
	// tracks how dark colors actually look. Pure blue, for example, reads
	// as ink under L* but can land on either side of a luma cutoff.
	Perceptual bool
}

func (o *BinarizeOptions) threshold() int {
	if o.Threshold == 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// Binarize converts an image to a 1-bit message bitmap by thresholding.
func Binarize(img image.Image, opts BinarizeOptions) (*Bitmap, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, &InvalidImageError{Err: errors.New("zero-dimensioned image")}
	}

	if opts.Perceptual {
		return binarizeLightness(img, opts.threshold())
	}

	gray := image.NewGray(bounds)
	gift.Grayscale().Draw(gray, img, &gift.Options{
		Parallelization: true,
	})

	threshold := opts.threshold()
	out := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lum := gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
			out.SetBlack(x, y, int(lum) < threshold)
		}
	}
	return out, nil
}

func binarizeLightness(img image.Image, threshold int) (*Bitmap, error) {
	bounds := img.Bounds()
	out := NewBitmap(bounds.Dx(), bounds.Dy())

	// L* runs 0-100; scale the 0-255 threshold to match.
	cutoff := float64(threshold) * 100 / 255

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent, nothing to print.
				continue
			}
			l, _, _ := c.Lab()
			out.SetBlack(x-bounds.Min.X, y-bounds.Min.Y, l*100 < cutoff)
		}
	}
	return out, nil
}
