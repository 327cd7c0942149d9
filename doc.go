// Package banhash flags strings whose prefixes match a growing set of
// banned strings, using a rolling polynomial hash.
//
// Every banned string is reduced to a single hash value and stored in a
// bucket keyed by its length. A candidate is streamed one code point at a
// time; after each code point the running hash of the prefix read so far is
// looked up in the bucket for that prefix length. The first hit flags the
// candidate, so checking costs O(m) time for a candidate of m code points
// and no memory beyond the running hash.
//
// # Hashing
//
// The hash of a string s of n code points is
//
//	H[0] = 0
//	H[i] = (H[i-1]*Base mod Mod + s[i-1]) mod Mod
//
// with [Base] = 239 and [Mod] = 1,791,791,791. Code points are Unicode
// scalar values, and lengths are counted in code points, not bytes. Invalid
// UTF-8 decodes to U+FFFD. All arithmetic is done in uint64, which holds
// (Mod-1)*Base with room to spare.
//
// [PrefixHashes] returns every prefix hash, [Hash] only the last one,
// [StreamHashes] yields them lazily and [Hasher] computes them one rune at
// a time.
//
// # Collisions
//
// Two different strings of the same length may share a hash. Such a
// collision is reported as a match. Strings of different lengths never
// interfere because they live in different buckets.
//
// # Empty strings
//
// Registering the empty string is allowed but has no visible effect: the
// empty prefix is never checked, so [Registry.IsFlagged] returns false for
// every empty candidate.
//
// # Prefilter
//
// Unless [Options.DisablePrefilter] is set, each registry keeps a cache-line
// blocked bloom filter of its (length, hash) pairs, keyed with xxh3. Prefix
// lookups consult it first and skip the bucket lookup on a miss. The filter
// never produces false negatives, so it changes speed, not results. It is
// rebuilt at twice the size whenever the registry outgrows it.
//
// # Thread Safety
//
// [Registry] is NOT safe for concurrent use. [ConcurrentRegistry] wraps it
// with a reader/writer lock: checks run in parallel, registrations are
// exclusive.
package banhash
