package veil

import (
	"fmt"
	"math/rand"
)

// Pattern is an n×n block of sub-pixels; true means ink.
type Pattern [][]bool

// NewPattern returns an all-blank n×n pattern.
func NewPattern(n int) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = make([]bool, n)
	}
	return p
}

// Size returns the side length of the pattern.
func (p Pattern) Size() int { return len(p) }

// Complement returns a new pattern with every sub-pixel flipped.
func (p Pattern) Complement() Pattern {
	q := NewPattern(len(p))
	for y := range p {
		for x := range p[y] {
			q[y][x] = !p[y][x]
		}
	}
	return q
}

// Equal reports whether two patterns have the same size and sub-pixels.
func (p Pattern) Equal(q Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for y := range p {
		for x := range p[y] {
			if p[y][x] != q[y][x] {
				return false
			}
		}
	}
	return true
}

// InkCount returns the number of ink sub-pixels.
func (p Pattern) InkCount() int {
	count := 0
	for y := range p {
		for x := range p[y] {
			if p[y][x] {
				count++
			}
		}
	}
	return count
}

// Expansion factor bounds. The construction table holds n! patterns, so
// large factors are refused rather than allowed to explode.
const (
	DefaultExpansion = 2
	MinExpansion     = 2
	MaxExpansion     = 6
)

// Basis is the construction table for one expansion factor: every
// secret-share pattern reachable from the diagonal n×n seed block by
// permuting its rows and columns. For a diagonal seed that closure is
// exactly the order-n permutation matrices, so each pattern has one ink
// sub-pixel per row and per column. With n=2 the table holds the two
// diagonal orientations.
//
// A message pixel maps to a pattern pair (S, C): S is drawn uniformly from
// the basis, and C is S itself for a blank pixel or the complement of S for
// an ink pixel. Overlaying S with itself leaves the block part-ink;
// overlaying S with its complement fills it completely.
type Basis struct {
	n        int
	patterns []Pattern
}

// NewBasis builds the construction table for expansion factor n.
func NewBasis(n int) (*Basis, error) {
	if n < MinExpansion || n > MaxExpansion {
		return nil, fmt.Errorf("veil: expansion factor must be between %d and %d, got %d",
			MinExpansion, MaxExpansion, n)
	}

	b := &Basis{n: n}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	b.enumerate(perm, 0)
	return b, nil
}

func (b *Basis) enumerate(perm []int, k int) {
	if k == len(perm) {
		p := NewPattern(len(perm))
		for row, col := range perm {
			p[row][col] = true
		}
		b.patterns = append(b.patterns, p)
		return
	}
	for i := k; i < len(perm); i++ {
		perm[k], perm[i] = perm[i], perm[k]
		b.enumerate(perm, k+1)
		perm[k], perm[i] = perm[i], perm[k]
	}
}

// Expansion returns the side length n of the basis patterns.
func (b *Basis) Expansion() int { return b.n }

// Patterns returns the full construction table.
func (b *Basis) Patterns() []Pattern { return b.patterns }

// Random draws one pattern uniformly at random.
func (b *Basis) Random(rng *rand.Rand) Pattern {
	return b.patterns[rng.Intn(len(b.patterns))]
}

// Index returns the position of p in the table, or -1 if p is not a basis
// pattern.
func (b *Basis) Index(p Pattern) int {
	for i, q := range b.patterns {
		if q.Equal(p) {
			return i
		}
	}
	return -1
}
