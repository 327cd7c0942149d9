package banhash

import (
	"encoding/binary"
	"iter"
	"unicode/utf8"

	"github.com/zeebo/xxh3"
)

// roll advances a prefix hash by one code point. h is below Mod, so
// h*Base stays under 2^39 and never overflows.
func roll(h uint64, r rune) uint64 {
	return (h*Base%Mod + uint64(r)) % Mod
}

// PrefixHashes returns the hashes of every prefix of s, from the empty
// prefix through s itself. The result has utf8.RuneCountInString(s)+1
// entries and result[0] is always 0.
func PrefixHashes(s string) []uint64 {
	hashes := make([]uint64, 1, utf8.RuneCountInString(s)+1)
	var h uint64
	for _, r := range s {
		h = roll(h, r)
		hashes = append(hashes, h)
	}
	return hashes
}

// Hash returns the hash of s, the last entry of PrefixHashes(s), without
// allocating.
func Hash(s string) uint64 {
	var h uint64
	for _, r := range s {
		h = roll(h, r)
	}
	return h
}

// StreamHashes yields the prefix length in runes and the running hash after
// each code point of s. The empty prefix is not yielded.
func StreamHashes(s string) iter.Seq2[int, uint64] {
	return func(yield func(int, uint64) bool) {
		var h uint64
		n := 0
		for _, r := range s {
			h = roll(h, r)
			n++
			if !yield(n, h) {
				return
			}
		}
	}
}

// Hasher computes the hash incrementally, one code point at a time. The zero
// value is ready to use and holds the hash of the empty string.
type Hasher struct {
	h uint64
	n int
}

// Roll appends r and returns the updated hash. Invalid code points
// (surrogates, negative values, values above utf8.MaxRune) hash as
// utf8.RuneError, the same as they do when decoded from a string.
func (h *Hasher) Roll(r rune) uint64 {
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	h.h = roll(h.h, r)
	h.n++
	return h.h
}

// WriteString appends every code point of s and returns the updated hash.
func (h *Hasher) WriteString(s string) uint64 {
	for _, r := range s {
		h.Roll(r)
	}
	return h.h
}

// Sum64 returns the hash of everything rolled in so far.
func (h *Hasher) Sum64() uint64 {
	return h.h
}

// Len returns the number of code points rolled in so far.
func (h *Hasher) Len() int {
	return h.n
}

// Reset returns the hasher to the empty string.
func (h *Hasher) Reset() {
	h.h = 0
	h.n = 0
}

// keyHash computes the xxh3 hash of a (length, hash) pair. Prefilter probes
// are derived from it.
func keyHash(length int, h uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(length))
	binary.LittleEndian.PutUint64(buf[8:16], h)
	return xxh3.Hash(buf[:])
}

// splitKeyHash splits a 64-bit key hash into a block index (upper 32 bits)
// and an intra-block hash (lower 32 bits).
func splitKeyHash(kh uint64, numBlocks uint64) (blockIdx uint64, intraHash uint32) {
	blockIdx = (kh >> 32) % numBlocks
	intraHash = uint32(kh)
	return
}
