package banhash

import "math"

const (
	// Base is the multiplier of the polynomial hash.
	Base = 239
	// Mod is the modulus every hash value is reduced by. All hash values lie
	// in [0, Mod).
	Mod = 1791791791
)

const (
	// DefaultExpectedItems is the prefilter capacity used when
	// Options.ExpectedItems is zero.
	DefaultExpectedItems = 1024
	// DefaultFPRate is the prefilter false positive rate used when
	// Options.FPRate is outside (0, 1).
	DefaultFPRate = 0.01

	// blockBits is the number of bits per prefilter block (cache line size).
	blockBits = 512
	// blockWords is the number of uint64s per block.
	blockWords = blockBits / 64 // 8
	// ln2 is the natural logarithm of 2.
	ln2 = 0.6931471805599453
	// ln2Squared is ln(2)^2.
	ln2Squared = 0.4804530139182014
)

// primePartitions holds, for each supported k, k strictly distinct values
// summing to 512. Even k values are all primes; odd k values need one even
// filler since an odd count of odd numbers cannot sum to 512.
var primePartitions = map[uint32][]uint32{
	3:  {167, 173, 172},
	4:  {109, 127, 137, 139},
	5:  {97, 101, 103, 109, 102},
	6:  {61, 79, 83, 89, 97, 103},
	7:  {61, 67, 71, 79, 83, 89, 62},
	8:  {37, 47, 53, 61, 67, 71, 79, 97},
	9:  {41, 43, 47, 53, 59, 67, 71, 73, 58},
	10: {31, 37, 41, 43, 47, 53, 59, 61, 67, 73},
	11: {29, 31, 37, 41, 43, 44, 47, 53, 59, 61, 67},
	12: {17, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 71},
	13: {17, 19, 23, 29, 31, 37, 41, 43, 47, 52, 53, 59, 61},
	14: {11, 13, 17, 19, 23, 29, 31, 37, 41, 47, 53, 59, 61, 71},
}

// prefilterParams returns the number of 512-bit blocks and the number of
// probes k for a prefilter holding expectedItems keys at fpRate.
func prefilterParams(expectedItems uint64, fpRate float64) (numBlocks uint64, k uint32) {
	if expectedItems == 0 {
		expectedItems = DefaultExpectedItems
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFPRate
	}

	bitsPerItem := -math.Log(fpRate) / ln2Squared
	numBlocks = uint64(math.Ceil(float64(expectedItems) * bitsPerItem / blockBits))

	// k = (m/n) * ln(2), using the block-rounded m
	actualBitsPerItem := float64(numBlocks*blockBits) / float64(expectedItems)
	k = uint32(math.Round(actualBitsPerItem * ln2))
	k = max(k, 3)
	k = min(k, 14)

	return numBlocks, k
}

// partitionOffsets returns the starting bit of each partition within a block.
func partitionOffsets(primes []uint32) []uint32 {
	offsets := make([]uint32, len(primes))
	var cumulative uint32
	for i, p := range primes {
		offsets[i] = cumulative
		cumulative += p
	}
	return offsets
}

// estimateFalsePositiveRate evaluates (1 - e^(-kn/m))^k.
func estimateFalsePositiveRate(numBlocks uint64, k uint32, items uint64) float64 {
	m := float64(numBlocks * blockBits)
	n := float64(items)
	if m == 0 || n == 0 {
		return 0
	}
	kf := float64(k)
	return math.Pow(1-math.Exp(-kf*n/m), kf)
}
