package rng

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math"
)

// Stream is a Source derived from a seed string. Bytes come from
// HMAC-SHA256(seed, "seed:nonce:round") in 32 byte rounds, and every float
// consumes exactly 4 bytes, so the same seed always yields the same game.
type Stream struct {
	seed  string
	nonce uint64
	round uint64
	pos   int
	buf   [32]byte
}

// FromSeed returns a Stream for seed with nonce 0.
func FromSeed(seed string) *Stream {
	return FromSeedNonce(seed, 0)
}

// FromSeedNonce returns a Stream for seed and nonce. Different nonces give
// independent streams for the same seed.
func FromSeedNonce(seed string, nonce uint64) *Stream {
	s := &Stream{seed: seed, nonce: nonce}
	s.fill()
	return s
}

func (s *Stream) fill() {
	h := hmac.New(sha256.New, []byte(s.seed))
	fmt.Fprintf(h, "%s:%d:%d", s.seed, s.nonce, s.round)
	copy(s.buf[:], h.Sum(nil))
}

// Next returns the next byte of the stream.
func (s *Stream) Next() byte {
	if s.pos >= len(s.buf) {
		s.round++
		s.pos = 0
		s.fill()
	}
	b := s.buf[s.pos]
	s.pos++
	return b
}

// Float64 implements Source.
func (s *Stream) Float64() float64 {
	f := 0.0
	for i := 0; i < 4; i++ {
		f += float64(s.Next()) / math.Pow(256, float64(i+1))
	}
	return f
}

// IntN implements Source.
func (s *Stream) IntN(n int) int {
	if n <= 0 {
		panic("rng: invalid argument to IntN")
	}
	i := int(math.Floor(s.Float64() * float64(n)))
	if i >= n {
		i = n - 1
	}
	return i
}
