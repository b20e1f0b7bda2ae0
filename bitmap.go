package veil

import (
	"image"
	"image/color"
)

// BitmapPalette is the two-color palette shared by message and share
// bitmaps: index 0 is blank (white), index 1 is ink (black).
var BitmapPalette = color.Palette{color.White, color.Black}

// Bitmap is a black-on-white image with one bit of information per pixel.
// It wraps image.Paletted with a two-color palette so that encoders which
// understand paletted images (png in particular) write it as a true 1-bit
// file.
type Bitmap struct {
	p *image.Paletted
}

var _ image.PalettedImage = (*Bitmap)(nil)

// NewBitmap returns an all-blank bitmap of the given size.
func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{p: image.NewPaletted(image.Rect(0, 0, w, h), BitmapPalette)}
}

func (b *Bitmap) ColorModel() color.Model { return b.p.ColorModel() }

func (b *Bitmap) Bounds() image.Rectangle { return b.p.Bounds() }

func (b *Bitmap) At(x, y int) color.Color { return b.p.At(x, y) }

func (b *Bitmap) ColorIndexAt(x, y int) uint8 { return b.p.ColorIndexAt(x, y) }

func (b *Bitmap) Width() int { return b.p.Rect.Dx() }

func (b *Bitmap) Height() int { return b.p.Rect.Dy() }

// BlackAt reports whether the pixel at (x, y) is ink.
func (b *Bitmap) BlackAt(x, y int) bool { return b.p.ColorIndexAt(x, y) == 1 }

// SetBlack sets the pixel at (x, y) to ink or blank.
func (b *Bitmap) SetBlack(x, y int, black bool) {
	if black {
		b.p.SetColorIndex(x, y, 1)
	} else {
		b.p.SetColorIndex(x, y, 0)
	}
}

// Equal reports whether two bitmaps have the same size and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.Width() != other.Width() || b.Height() != other.Height() {
		return false
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.BlackAt(x, y) != other.BlackAt(x, y) {
				return false
			}
		}
	}
	return true
}
