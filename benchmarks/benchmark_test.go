package benchmarks

import (
	"encoding/binary"
	"fmt"
	"testing"
	"unicode/utf8"

	bab "github.com/bits-and-blooms/bloom/v3"
	"github.com/cespare/xxhash/v2"
	atomicbloom "github.com/ericvolp12/atomic-bloom"
	"github.com/greatroar/blobloom"
	"github.com/jcalabro/banhash"
)

const (
	benchWords      = 100_000
	benchCandidates = 100_000
	benchFPRate     = 0.01
)

// Pre-generate test data to avoid measuring string generation
var (
	bannedWords []string
	candidates  []string
	sink        bool
)

func init() {
	bannedWords = make([]string, benchWords)
	for i := range benchWords {
		bannedWords[i] = fmt.Sprintf("banned-%d", i)
	}

	// every fourth candidate starts with a banned word
	candidates = make([]string, benchCandidates)
	for i := range benchCandidates {
		if i%4 == 0 {
			candidates[i] = fmt.Sprintf("banned-%d and then some ordinary text", i)
		} else {
			candidates[i] = fmt.Sprintf("an ordinary message number %d with nothing in it", i)
		}
	}
}

func newRegistry(opts banhash.Options) *banhash.Registry {
	opts.ExpectedItems = benchWords
	r := banhash.NewWithOptions(opts)
	r.Register(bannedWords...)
	return r
}

// ============================================================================
// Registration Benchmarks
// ============================================================================

func BenchmarkRegister_Banhash(b *testing.B) {
	r := banhash.NewWithOptions(banhash.Options{ExpectedItems: benchWords})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		r.Register(bannedWords[i%benchWords])
	}
}

func BenchmarkRegister_BanhashNoPrefilter(b *testing.B) {
	r := banhash.NewWithOptions(banhash.Options{DisablePrefilter: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		r.Register(bannedWords[i%benchWords])
	}
}

// ============================================================================
// Check Benchmarks
// ============================================================================

func BenchmarkIsFlagged_Banhash(b *testing.B) {
	r := newRegistry(banhash.Options{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		sink = r.IsFlagged(candidates[i%benchCandidates])
	}
}

func BenchmarkIsFlagged_BanhashNoPrefilter(b *testing.B) {
	r := newRegistry(banhash.Options{DisablePrefilter: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		sink = r.IsFlagged(candidates[i%benchCandidates])
	}
}

func BenchmarkIsFlagged_BanhashFoldCase(b *testing.B) {
	r := newRegistry(banhash.Options{FoldCase: true})
	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		sink = r.IsFlagged(candidates[i%benchCandidates])
	}
}

// BenchmarkIsFlagged_StringSet is the baseline: the banned strings kept
// verbatim and every prefix of a registered length sliced out and looked up.
func BenchmarkIsFlagged_StringSet(b *testing.B) {
	set := make(map[string]struct{}, benchWords)
	lengths := make(map[int]struct{})
	for _, w := range bannedWords {
		set[w] = struct{}{}
		lengths[utf8.RuneCountInString(w)] = struct{}{}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		c := candidates[i%benchCandidates]
		flagged := false
		n := 0
		for off := range c {
			if _, ok := lengths[n]; ok && n > 0 {
				if _, ok := set[c[:off]]; ok {
					flagged = true
					break
				}
			}
			n++
		}
		if !flagged {
			if _, ok := lengths[n]; ok {
				_, flagged = set[c]
			}
		}
		sink = flagged
	}
}

func BenchmarkIsFlaggedParallel_Concurrent(b *testing.B) {
	c := banhash.NewConcurrent(banhash.Options{ExpectedItems: benchWords})
	c.Register(bannedWords...)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.IsFlagged(candidates[i%benchCandidates])
			i++
		}
	})
}

func BenchmarkMixed_Concurrent(b *testing.B) {
	c := banhash.NewConcurrent(banhash.Options{ExpectedItems: benchWords})
	c.Register(bannedWords[:benchWords/2]...)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%16 == 0 {
				c.Register(bannedWords[(benchWords/2+i)%benchWords])
			} else {
				c.IsFlagged(candidates[i%benchCandidates])
			}
			i++
		}
	})
}

// ============================================================================
// Prefilter Backend Benchmarks
//
// Each backend holds the (length, hash) pairs of the banned words and is
// probed with every prefix of every candidate, the way the registry probes
// its built-in prefilter.
// ============================================================================

func pairKey(buf *[16]byte, length int, h uint64) []byte {
	binary.LittleEndian.PutUint64(buf[0:8], uint64(length))
	binary.LittleEndian.PutUint64(buf[8:16], h)
	return buf[:]
}

func BenchmarkPrefilter_BitsAndBlooms(b *testing.B) {
	f := bab.NewWithEstimates(benchWords, benchFPRate)
	var buf [16]byte
	for _, w := range bannedWords {
		f.Add(pairKey(&buf, utf8.RuneCountInString(w), banhash.Hash(w)))
	}
	b.ResetTimer()
	for i := range b.N {
		for n, h := range banhash.StreamHashes(candidates[i%benchCandidates]) {
			sink = f.Test(pairKey(&buf, n, h))
		}
	}
}

func BenchmarkPrefilter_AtomicBloom(b *testing.B) {
	f := atomicbloom.NewWithEstimates(benchWords, benchFPRate)
	var buf [16]byte
	for _, w := range bannedWords {
		f.Add(pairKey(&buf, utf8.RuneCountInString(w), banhash.Hash(w)))
	}
	b.ResetTimer()
	for i := range b.N {
		for n, h := range banhash.StreamHashes(candidates[i%benchCandidates]) {
			sink = f.Test(pairKey(&buf, n, h))
		}
	}
}

func BenchmarkPrefilter_Blobloom(b *testing.B) {
	f := blobloom.NewOptimized(blobloom.Config{
		Capacity: benchWords,
		FPRate:   benchFPRate,
	})
	// blobloom requires pre-hashing
	var buf [16]byte
	for _, w := range bannedWords {
		f.Add(xxhash.Sum64(pairKey(&buf, utf8.RuneCountInString(w), banhash.Hash(w))))
	}
	b.ResetTimer()
	for i := range b.N {
		for n, h := range banhash.StreamHashes(candidates[i%benchCandidates]) {
			sink = f.Has(xxhash.Sum64(pairKey(&buf, n, h)))
		}
	}
}

// BenchmarkPrefilter_Buckets probes the registry's exact buckets for every
// prefix, with no bloom filter in front.
func BenchmarkPrefilter_Buckets(b *testing.B) {
	r := newRegistry(banhash.Options{DisablePrefilter: true})
	b.ResetTimer()
	for i := range b.N {
		for n, h := range banhash.StreamHashes(candidates[i%benchCandidates]) {
			sink = r.Contains(n, h)
		}
	}
}
