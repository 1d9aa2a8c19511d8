// Package rng routes every random decision the engines make through a
// Source so that tests and seeded sessions can replay a game exactly.
package rng

import (
	"io"
	"math/rand/v2"
)

// Source is the randomness every engine draws from.
type Source interface {
	// IntN returns a uniform int in [0, n). It panics if n <= 0.
	IntN(n int) int
	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// New returns a deterministic PCG source for the given seed.
// The returned source is not safe for concurrent use.
func New(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type global struct{}

func (global) IntN(n int) int   { return rand.IntN(n) }
func (global) Float64() float64 { return rand.Float64() }

// Default returns the process-wide source. It is safe for concurrent use.
func Default() Source { return global{} }

// Shuffle permutes s in place with Fisher-Yates.
func Shuffle[T any](src Source, s []T) {
	for i := len(s) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

// Pick returns a uniformly chosen element of s. s must not be empty.
func Pick[T any](src Source, s []T) T {
	return s[src.IntN(len(s))]
}

type reader struct{ src Source }

func (r reader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.src.IntN(256))
	}
	return len(p), nil
}

// Reader exposes src as an io.Reader, e.g. for deterministic UUIDs.
func Reader(src Source) io.Reader { return reader{src: src} }
