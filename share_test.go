package veil

import (
	"math/rand"
	"testing"
)

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func randomBitmap(rng *rand.Rand, w, h int) *Bitmap {
	b := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetBlack(x, y, rng.Intn(2) == 1)
		}
	}
	return b
}

func fillBitmap(w, h int, black bool) *Bitmap {
	b := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetBlack(x, y, black)
		}
	}
	return b
}

func TestEncodeOverlayReconstructs(t *testing.T) {
	for _, n := range []int{2, 3} {
		for _, workers := range []int{1, 4} {
			msg := randomBitmap(testRand(42), 17, 9)
			opts := Options{Expansion: n, Workers: workers, Rand: testRand(1)}

			secret, cipher, err := Encode(msg, opts)
			if err != nil {
				t.Fatalf("Encode(n=%d, workers=%d): %v", n, workers, err)
			}

			ov, err := Overlay(secret, cipher)
			if err != nil {
				t.Fatalf("Overlay: %v", err)
			}

			for y := 0; y < msg.Height(); y++ {
				for x := 0; x < msg.Width(); x++ {
					ink := readBlock(ov, x, y, n).InkCount()
					if msg.BlackAt(x, y) && ink != n*n {
						t.Fatalf("n=%d workers=%d: ink pixel (%d,%d) overlays to %d/%d ink", n, workers, x, y, ink, n*n)
					}
					if !msg.BlackAt(x, y) && ink != n {
						t.Fatalf("n=%d workers=%d: blank pixel (%d,%d) overlays to %d ink, want %d", n, workers, x, y, ink, n)
					}
				}
			}

			decoded, err := DecodeOverlay(ov, n)
			if err != nil {
				t.Fatalf("DecodeOverlay: %v", err)
			}
			if !decoded.Equal(msg) {
				t.Fatalf("n=%d workers=%d: decoded overlay differs from message", n, workers)
			}
		}
	}
}

func TestEncodeDimensions(t *testing.T) {
	for _, n := range []int{2, 3, 4} {
		msg := NewBitmap(7, 5)
		secret, cipher, err := Encode(msg, Options{Expansion: n, Workers: 1, Rand: testRand(1)})
		if err != nil {
			t.Fatalf("Encode(n=%d): %v", n, err)
		}
		if secret.Width() != 7*n || secret.Height() != 5*n {
			t.Errorf("n=%d: secret share is %dx%d, want %dx%d", n, secret.Width(), secret.Height(), 7*n, 5*n)
		}
		if cipher.Width() != 7*n || cipher.Height() != 5*n {
			t.Errorf("n=%d: cipher share is %dx%d, want %dx%d", n, cipher.Width(), cipher.Height(), 7*n, 5*n)
		}
	}
}

func TestEncodeSecretBlocksAreBasisPatterns(t *testing.T) {
	basis, err := NewBasis(2)
	if err != nil {
		t.Fatal(err)
	}

	msg := randomBitmap(testRand(3), 8, 8)
	secret, cipher, err := Encode(msg, Options{Workers: 1, Rand: testRand(4)})
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < msg.Height(); y++ {
		for x := 0; x < msg.Width(); x++ {
			s := readBlock(secret, x, y, 2)
			if basis.Index(s) < 0 {
				t.Fatalf("secret block (%d,%d) is not a basis pattern", x, y)
			}

			c := readBlock(cipher, x, y, 2)
			if msg.BlackAt(x, y) {
				if !c.Equal(s.Complement()) {
					t.Fatalf("ink pixel (%d,%d): cipher block is not the complement of the secret block", x, y)
				}
			} else if !c.Equal(s) {
				t.Fatalf("blank pixel (%d,%d): cipher block differs from the secret block", x, y)
			}
		}
	}
}

func TestEncodeDeterministicWithSeed(t *testing.T) {
	msg := randomBitmap(testRand(5), 32, 32)

	s1, c1, err := Encode(msg, Options{Workers: 2, Rand: testRand(99)})
	if err != nil {
		t.Fatal(err)
	}
	s2, c2, err := Encode(msg, Options{Workers: 2, Rand: testRand(99)})
	if err != nil {
		t.Fatal(err)
	}

	if !s1.Equal(s2) || !c1.Equal(c2) {
		t.Error("same seed and worker count should reproduce the same shares")
	}

	s3, _, err := Encode(msg, Options{Workers: 2, Rand: testRand(100)})
	if err != nil {
		t.Fatal(err)
	}
	if s1.Equal(s3) {
		t.Error("different seeds produced identical secret shares")
	}
}

// The secret share must not depend on message content. With the same seed
// the generator consumes one draw per pixel regardless of color, so the
// secret share of an all-blank message and an all-ink message must be
// bit-for-bit identical.
func TestSecretShareIndependentOfMessage(t *testing.T) {
	blank := fillBitmap(16, 16, false)
	ink := fillBitmap(16, 16, true)

	s1, _, err := Encode(blank, Options{Workers: 1, Rand: testRand(7)})
	if err != nil {
		t.Fatal(err)
	}
	s2, _, err := Encode(ink, Options{Workers: 1, Rand: testRand(7)})
	if err != nil {
		t.Fatal(err)
	}

	if !s1.Equal(s2) {
		t.Error("secret share differs between all-blank and all-ink messages under the same seed")
	}
}

func TestSecretShareUniformity(t *testing.T) {
	const trials = 2000

	// One ink pixel and one blank pixel; the orientation of each secret
	// block is read off its top-left sub-pixel.
	msg := NewBitmap(2, 1)
	msg.SetBlack(0, 0, true)

	rng := testRand(11)
	opts := Options{Workers: 1, Rand: rng}

	var inkBlockDiag, blankBlockDiag int
	for i := 0; i < trials; i++ {
		secret, _, err := Encode(msg, opts)
		if err != nil {
			t.Fatal(err)
		}
		if secret.BlackAt(0, 0) {
			inkBlockDiag++
		}
		if secret.BlackAt(2, 0) {
			blankBlockDiag++
		}
	}

	// ~10σ tolerance around the 50/50 expectation.
	lo, hi := trials/2-220, trials/2+220
	if inkBlockDiag < lo || inkBlockDiag > hi {
		t.Errorf("ink pixel's secret block: %d/%d diagonal orientations, outside [%d,%d]", inkBlockDiag, trials, lo, hi)
	}
	if blankBlockDiag < lo || blankBlockDiag > hi {
		t.Errorf("blank pixel's secret block: %d/%d diagonal orientations, outside [%d,%d]", blankBlockDiag, trials, lo, hi)
	}
}

// The concrete scenario from the scheme's definition: a 2x1 message with
// one ink and one blank pixel at expansion 2.
func TestTwoPixelScenario(t *testing.T) {
	msg := NewBitmap(2, 1)
	msg.SetBlack(0, 0, true)

	basis, err := NewBasis(2)
	if err != nil {
		t.Fatal(err)
	}

	secret, cipher, err := Encode(msg, Options{Workers: 1, Rand: testRand(21)})
	if err != nil {
		t.Fatal(err)
	}
	if secret.Width() != 4 || secret.Height() != 2 {
		t.Fatalf("secret share is %dx%d, want 4x2", secret.Width(), secret.Height())
	}

	s0 := readBlock(secret, 0, 0, 2)
	s1 := readBlock(secret, 1, 0, 2)
	if basis.Index(s0) < 0 || basis.Index(s1) < 0 {
		t.Fatal("secret blocks must be diagonal basis patterns")
	}

	if !readBlock(cipher, 0, 0, 2).Equal(s0.Complement()) {
		t.Error("ink pixel's cipher block should complement the secret block")
	}
	if !readBlock(cipher, 1, 0, 2).Equal(s1) {
		t.Error("blank pixel's cipher block should equal the secret block")
	}

	ov, err := Overlay(secret, cipher)
	if err != nil {
		t.Fatal(err)
	}
	if got := readBlock(ov, 0, 0, 2).InkCount(); got != 4 {
		t.Errorf("ink pixel overlays to %d/4 ink sub-pixels", got)
	}
	if got := readBlock(ov, 1, 0, 2); got.InkCount() != 2 || !got.Equal(s1) {
		t.Errorf("blank pixel should overlay to its own checkerboard, got %d ink", got.InkCount())
	}
}

func TestOnePixelMessage(t *testing.T) {
	for _, black := range []bool{false, true} {
		msg := NewBitmap(1, 1)
		msg.SetBlack(0, 0, black)

		secret, cipher, err := Encode(msg, Options{Workers: 1, Rand: testRand(33)})
		if err != nil {
			t.Fatal(err)
		}
		ov, err := Overlay(secret, cipher)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := DecodeOverlay(ov, 2)
		if err != nil {
			t.Fatal(err)
		}
		if decoded.BlackAt(0, 0) != black {
			t.Errorf("1x1 message with black=%v did not round-trip", black)
		}
	}
}

func TestEncodeEmptyMessage(t *testing.T) {
	_, _, err := Encode(NewBitmap(0, 0), Options{Rand: testRand(1)})
	if err == nil {
		t.Fatal("expected an error for an empty message bitmap")
	}
	if !IsDimensionMismatch(err) {
		t.Errorf("expected a DimensionMismatchError, got %v", err)
	}
}

func TestEncodeInvalidExpansion(t *testing.T) {
	msg := NewBitmap(2, 2)
	for _, n := range []int{-1, 1, MaxExpansion + 1} {
		if _, _, err := Encode(msg, Options{Expansion: n}); err == nil {
			t.Errorf("expansion %d should be rejected", n)
		}
	}
}

func TestEncodeWithSecretMatchesEncode(t *testing.T) {
	msg := randomBitmap(testRand(50), 12, 10)

	secret, cipher, err := Encode(msg, Options{Workers: 1, Rand: testRand(51)})
	if err != nil {
		t.Fatal(err)
	}

	derived, err := EncodeWithSecret(msg, secret, Options{Workers: 3})
	if err != nil {
		t.Fatalf("EncodeWithSecret: %v", err)
	}
	if !derived.Equal(cipher) {
		t.Error("cipher derived from the secret share differs from Encode's cipher")
	}
}

// A secret share bigger than the message needs is still usable: only its
// top-left region participates, so a share printed once can cover smaller
// messages later.
func TestEncodeWithSecretOversizedSecret(t *testing.T) {
	msg := randomBitmap(testRand(70), 2, 2)
	secret, err := GenerateSecret(4, 4, Options{Workers: 1, Rand: testRand(71)})
	if err != nil {
		t.Fatal(err)
	}

	cipher, err := EncodeWithSecret(msg, secret, Options{Workers: 1})
	if err != nil {
		t.Fatalf("EncodeWithSecret with an oversized secret: %v", err)
	}
	if cipher.Width() != 4 || cipher.Height() != 4 {
		t.Fatalf("cipher share is %dx%d, want 4x4", cipher.Width(), cipher.Height())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			s := readBlock(secret, x, y, 2)
			c := readBlock(cipher, x, y, 2)
			if msg.BlackAt(x, y) {
				if !c.Equal(s.Complement()) {
					t.Fatalf("ink pixel (%d,%d): cipher block is not the complement of the secret block", x, y)
				}
			} else if !c.Equal(s) {
				t.Fatalf("blank pixel (%d,%d): cipher block differs from the secret block", x, y)
			}
		}
	}
}

func TestEncodeWithSecretRejectsWrongSize(t *testing.T) {
	msg := NewBitmap(4, 4)
	secret, err := GenerateSecret(3, 3, Options{Workers: 1, Rand: testRand(1)})
	if err != nil {
		t.Fatal(err)
	}

	_, err = EncodeWithSecret(msg, secret, Options{})
	if !IsDimensionMismatch(err) {
		t.Errorf("expected a DimensionMismatchError, got %v", err)
	}
}

func TestEncodeWithSecretRejectsNonBasisBlock(t *testing.T) {
	msg := NewBitmap(2, 2)
	secret, err := GenerateSecret(2, 2, Options{Workers: 1, Rand: testRand(1)})
	if err != nil {
		t.Fatal(err)
	}
	// Corrupt one block into all-blank, which no basis contains.
	writeBlock(secret, 1, 1, NewPattern(2))

	if _, err := EncodeWithSecret(msg, secret, Options{Workers: 1}); err == nil {
		t.Error("corrupted secret share should be rejected")
	}
}

func TestGenerateSecretBlocksAreBasisPatterns(t *testing.T) {
	basis, err := NewBasis(3)
	if err != nil {
		t.Fatal(err)
	}
	secret, err := GenerateSecret(6, 4, Options{Expansion: 3, Workers: 2, Rand: testRand(8)})
	if err != nil {
		t.Fatal(err)
	}
	if secret.Width() != 18 || secret.Height() != 12 {
		t.Fatalf("secret share is %dx%d, want 18x12", secret.Width(), secret.Height())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			if basis.Index(readBlock(secret, x, y, 3)) < 0 {
				t.Fatalf("block (%d,%d) is not a basis pattern", x, y)
			}
		}
	}
}

func TestEnlargeSecretPreservesOverlap(t *testing.T) {
	opts := Options{Workers: 1, Rand: testRand(60)}
	small, err := GenerateSecret(4, 4, opts)
	if err != nil {
		t.Fatal(err)
	}

	big, err := EnlargeSecret(small, 6, 6, opts)
	if err != nil {
		t.Fatal(err)
	}
	if big.Width() != 12 || big.Height() != 12 {
		t.Fatalf("enlarged share is %dx%d, want 12x12", big.Width(), big.Height())
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if !readBlock(big, x, y, 2).Equal(readBlock(small, x, y, 2)) {
				t.Fatalf("block (%d,%d) changed during enlargement", x, y)
			}
		}
	}

	basis, err := NewBasis(2)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			if basis.Index(readBlock(big, x, y, 2)) < 0 {
				t.Fatalf("new block (%d,%d) is not a basis pattern", x, y)
			}
		}
	}
}
