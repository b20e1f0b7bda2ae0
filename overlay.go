package veil

import "fmt"

// Overlay stacks two shares as if printed on transparencies: a sub-pixel is
// ink when either share has ink there.
func Overlay(a, b *Bitmap) (*Bitmap, error) {
	if a.Width() != b.Width() || a.Height() != b.Height() {
		return nil, &DimensionMismatchError{
			Op: "Overlay",
			Detail: fmt.Sprintf("shares are %dx%d and %dx%d",
				a.Width(), a.Height(), b.Width(), b.Height()),
		}
	}

	out := NewBitmap(a.Width(), a.Height())
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			out.SetBlack(x, y, a.BlackAt(x, y) || b.BlackAt(x, y))
		}
	}
	return out, nil
}

// DecodeOverlay maps an overlaid image back to message resolution: a block
// that is entirely ink decodes to an ink pixel, anything lighter decodes to
// blank. The contrast loss of the scheme means blank pixels come back as
// part-ink blocks, never fully blank ones.
func DecodeOverlay(ov *Bitmap, n int) (*Bitmap, error) {
	if n <= 0 {
		return nil, fmt.Errorf("veil: DecodeOverlay: expansion factor must be positive, got %d", n)
	}
	if ov.Width()%n != 0 || ov.Height()%n != 0 {
		return nil, &DimensionMismatchError{
			Op: "DecodeOverlay",
			Detail: fmt.Sprintf("%dx%d overlay is not divisible into %dx%d blocks",
				ov.Width(), ov.Height(), n, n),
		}
	}

	out := NewBitmap(ov.Width()/n, ov.Height()/n)
	for y := 0; y < out.Height(); y++ {
		for x := 0; x < out.Width(); x++ {
			out.SetBlack(x, y, readBlock(ov, x, y, n).InkCount() == n*n)
		}
	}
	return out, nil
}
