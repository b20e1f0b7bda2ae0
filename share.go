package veil

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options control the sharing transform.
type Options struct {
	// Expansion is the sub-pixel block side length n; each share is n times
	// the message size in both dimensions. Zero means DefaultExpansion.
	Expansion int

	// Workers is the number of goroutines encoding row ranges. Zero or
	// negative means one per CPU.
	Workers int

	// Rand is the randomness source for pattern selection; nil means a
	// time-seeded source. Uniformity is what the secrecy guarantee rests
	// on. A cryptographic source is unnecessary: the guarantee is
	// information-theoretic, and a seedable source keeps runs
	// reproducible.
	Rand *rand.Rand
}

func (o *Options) expansion() int {
	if o.Expansion == 0 {
		return DefaultExpansion
	}
	return o.Expansion
}

func (o *Options) workers(rows int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > rows {
		w = rows
	}
	return w
}

func (o *Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Encode splits a message bitmap into a secret share and a cipher share.
//
// Each message pixel expands to an n×n block in both shares: the secret
// block is a uniformly random basis pattern regardless of the pixel's
// value, and the cipher block is the identical pattern for a blank pixel
// or its complement for an ink pixel. The secret share alone is therefore
// noise; stacking the two shares (Overlay) renders blank pixels part-ink
// and ink pixels fully ink.
func Encode(msg *Bitmap, opts Options) (secret, cipher *Bitmap, err error) {
	basis, err := NewBasis(opts.expansion())
	if err != nil {
		return nil, nil, err
	}

	w, h := msg.Width(), msg.Height()
	if w == 0 || h == 0 {
		return nil, nil, &DimensionMismatchError{Op: "Encode", Detail: "empty message bitmap"}
	}

	n := basis.Expansion()
	secret = NewBitmap(w*n, h*n)
	cipher = NewBitmap(w*n, h*n)

	err = forEachRowRange(h, opts, func(rng *rand.Rand, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				s := basis.Random(rng)
				writeBlock(secret, x, y, s)
				if msg.BlackAt(x, y) {
					writeBlock(cipher, x, y, s.Complement())
				} else {
					writeBlock(cipher, x, y, s)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return secret, cipher, nil
}

// EncodeWithSecret derives the cipher share for msg from an existing secret
// share, reproducing the pairing Encode would have produced had it drawn
// that secret. The secret share must cover the message; only its top-left
// w·n×h·n region is read, so a share printed for a larger message stays
// usable. Every block read from it must be a basis pattern.
func EncodeWithSecret(msg, secret *Bitmap, opts Options) (*Bitmap, error) {
	basis, err := NewBasis(opts.expansion())
	if err != nil {
		return nil, err
	}

	w, h := msg.Width(), msg.Height()
	if w == 0 || h == 0 {
		return nil, &DimensionMismatchError{Op: "EncodeWithSecret", Detail: "empty message bitmap"}
	}

	n := basis.Expansion()
	if secret.Width() < w*n || secret.Height() < h*n {
		return nil, &DimensionMismatchError{
			Op: "EncodeWithSecret",
			Detail: fmt.Sprintf("secret share is %dx%d, want at least %dx%d",
				secret.Width(), secret.Height(), w*n, h*n),
		}
	}

	cipher := NewBitmap(w*n, h*n)
	err = forEachRowRange(h, opts, func(_ *rand.Rand, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				s := readBlock(secret, x, y, n)
				if basis.Index(s) < 0 {
					return fmt.Errorf("veil: EncodeWithSecret: block (%d,%d) of the secret share is not a basis pattern", x, y)
				}
				if msg.BlackAt(x, y) {
					writeBlock(cipher, x, y, s.Complement())
				} else {
					writeBlock(cipher, x, y, s)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cipher, nil
}

// GenerateSecret produces a secret share for a w×h message without
// consulting any message content.
func GenerateSecret(w, h int, opts Options) (*Bitmap, error) {
	basis, err := NewBasis(opts.expansion())
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, &DimensionMismatchError{Op: "GenerateSecret", Detail: "empty message dimensions"}
	}

	n := basis.Expansion()
	out := NewBitmap(w*n, h*n)
	err = forEachRowRange(h, opts, func(rng *rand.Rand, y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				writeBlock(out, x, y, basis.Random(rng))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// EnlargeSecret resizes an existing secret share to cover a w×h message.
// Overlapping blocks that are valid basis patterns are kept; everything
// else is drawn fresh.
func EnlargeSecret(existing *Bitmap, w, h int, opts Options) (*Bitmap, error) {
	basis, err := NewBasis(opts.expansion())
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, &DimensionMismatchError{Op: "EnlargeSecret", Detail: "empty message dimensions"}
	}

	n := basis.Expansion()
	oldW, oldH := existing.Width()/n, existing.Height()/n
	out := NewBitmap(w*n, h*n)
	rng := opts.rng()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < oldW && y < oldH {
				p := readBlock(existing, x, y, n)
				if basis.Index(p) >= 0 {
					writeBlock(out, x, y, p)
					continue
				}
			}
			writeBlock(out, x, y, basis.Random(rng))
		}
	}
	return out, nil
}

// forEachRowRange splits rows into contiguous ranges, one per worker, each
// with its own generator seeded from the master source. Workers write
// disjoint block rows, so no locking is needed.
func forEachRowRange(rows int, opts Options, fn func(rng *rand.Rand, y0, y1 int) error) error {
	workers := opts.workers(rows)
	master := opts.rng()
	chunk := (rows + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < rows; start += chunk {
		y0, y1 := start, start+chunk
		if y1 > rows {
			y1 = rows
		}
		rng := rand.New(rand.NewSource(master.Int63()))
		g.Go(func() error {
			return fn(rng, y0, y1)
		})
	}
	return g.Wait()
}

func writeBlock(dst *Bitmap, bx, by int, p Pattern) {
	n := p.Size()
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			dst.SetBlack(bx*n+dx, by*n+dy, p[dy][dx])
		}
	}
}

func readBlock(src *Bitmap, bx, by, n int) Pattern {
	p := NewPattern(n)
	for dy := 0; dy < n; dy++ {
		for dx := 0; dx < n; dx++ {
			p[dy][dx] = src.BlackAt(bx*n+dx, by*n+dy)
		}
	}
	return p
}
