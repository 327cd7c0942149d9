package banhash

import (
	"math/bits"
	"unsafe"
)

// cacheLineSize is the size of a CPU cache line in bytes.
const cacheLineSize = 64

// prefilter is a cache-line blocked bloom filter over (length, hash) pairs.
// All k probes for a pair land in one 512-bit block, and the probes are
// derived from a single xxh3 hash taken modulo distinct primes
// (one-hashing). A negative answer is exact; a positive one must be
// confirmed against the buckets.
type prefilter struct {
	raw       []byte   // keeps the aligned allocation alive
	blocks    []uint64 // blockWords words per block
	numBlocks uint64
	k         uint32
	primes    []uint32
	offsets   []uint32
	count     uint64 // pairs added
	capacity  uint64 // pairs the filter was sized for
	fpRate    float64
}

func newPrefilter(expectedItems uint64, fpRate float64) *prefilter {
	if expectedItems == 0 {
		expectedItems = DefaultExpectedItems
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFPRate
	}

	numBlocks, k := prefilterParams(expectedItems, fpRate)
	primes := primePartitions[k]
	raw, blocks := makeAlignedUint64Slice(int(numBlocks * blockWords))

	return &prefilter{
		raw:       raw,
		blocks:    blocks,
		numBlocks: numBlocks,
		k:         k,
		primes:    primes,
		offsets:   partitionOffsets(primes),
		capacity:  expectedItems,
		fpRate:    fpRate,
	}
}

// makeAlignedUint64Slice allocates a cache-line aligned slice of n uint64s.
// The raw byte slice must be retained for as long as the aligned one is used.
func makeAlignedUint64Slice(n int) ([]byte, []uint64) {
	raw := make([]byte, n*8+cacheLineSize-1)
	addr := uintptr(unsafe.Pointer(&raw[0]))
	offset := (cacheLineSize - int(addr%cacheLineSize)) % cacheLineSize
	aligned := unsafe.Slice((*uint64)(unsafe.Pointer(&raw[offset])), n)
	return raw, aligned
}

func (p *prefilter) add(length int, h uint64) {
	blockIdx, intraHash := splitKeyHash(keyHash(length, h), p.numBlocks)
	base := blockIdx * blockWords
	for i := uint32(0); i < p.k; i++ {
		bitPos := p.offsets[i] + intraHash%p.primes[i]
		p.blocks[base+uint64(bitPos/64)] |= 1 << (bitPos % 64)
	}
	p.count++
}

func (p *prefilter) test(length int, h uint64) bool {
	blockIdx, intraHash := splitKeyHash(keyHash(length, h), p.numBlocks)
	base := blockIdx * blockWords
	for i := uint32(0); i < p.k; i++ {
		bitPos := p.offsets[i] + intraHash%p.primes[i]
		if p.blocks[base+uint64(bitPos/64)]&(1<<(bitPos%64)) == 0 {
			return false
		}
	}
	return true
}

// full reports whether more pairs were added than the filter was sized for.
func (p *prefilter) full() bool {
	return p.count > p.capacity
}

func (p *prefilter) numBits() uint64 {
	return p.numBlocks * blockBits
}

func (p *prefilter) fillRatio() float64 {
	var set uint64
	for _, w := range p.blocks {
		set += uint64(bits.OnesCount64(w))
	}
	return float64(set) / float64(p.numBits())
}

func (p *prefilter) estimatedFalsePositiveRate() float64 {
	return estimateFalsePositiveRate(p.numBlocks, p.k, p.count)
}
