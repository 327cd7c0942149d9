package banhash

import (
	"io"
	"log/slog"
	"maps"
	"slices"
)

// Options configures a Registry. The zero value is usable.
type Options struct {
	// Logger receives debug records for registrations and prefilter
	// rebuilds. Nil discards them.
	Logger *slog.Logger

	// FoldCase applies Unicode case folding to registered and candidate
	// strings before hashing. Bucket lengths are measured after folding;
	// Match still reports lengths in runes of the candidate.
	FoldCase bool

	// DisablePrefilter skips the bloom prefilter and consults the buckets
	// for every prefix.
	DisablePrefilter bool

	// ExpectedItems sizes the prefilter. It is doubled whenever more
	// distinct strings are registered. Zero means DefaultExpectedItems.
	ExpectedItems uint64

	// FPRate is the prefilter's target false positive rate. Values outside
	// (0, 1) mean DefaultFPRate.
	FPRate float64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.ExpectedItems == 0 {
		o.ExpectedItems = DefaultExpectedItems
	}
	if o.FPRate <= 0 || o.FPRate >= 1 {
		o.FPRate = DefaultFPRate
	}
	return o
}

// hashSet is a set of hash values.
type hashSet map[uint64]struct{}

// buckets maps a string length to the hashes registered at that length.
// Querying an absent length reports an empty set and never creates it.
type buckets map[int]hashSet

func (b buckets) contains(length int, h uint64) bool {
	_, ok := b[length][h]
	return ok
}

// insert adds h to the bucket for length, creating it if needed. It reports
// whether h was new.
func (b buckets) insert(length int, h uint64) bool {
	set, ok := b[length]
	if !ok {
		set = make(hashSet)
		b[length] = set
	}
	if _, dup := set[h]; dup {
		return false
	}
	set[h] = struct{}{}
	return true
}

// Registry records the hashes of banned strings bucketed by length and
// checks candidate strings against them.
//
// Registry is not safe for concurrent use. Use ConcurrentRegistry when
// registration and checking happen on different goroutines.
type Registry struct {
	opts    Options
	buckets buckets
	filter  *prefilter // nil when disabled
	count   uint64     // distinct (length, hash) pairs
	maxLen  int        // longest registered length in runes
}

// New creates an empty registry with default options.
func New() *Registry {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty registry configured by opts.
func NewWithOptions(opts Options) *Registry {
	opts = opts.withDefaults()
	r := &Registry{
		opts:    opts,
		buckets: make(buckets),
	}
	if !opts.DisablePrefilter {
		r.filter = newPrefilter(opts.ExpectedItems, opts.FPRate)
	}
	return r
}

func (r *Registry) normalize(s string) string {
	if r.opts.FoldCase {
		return foldString(s)
	}
	return s
}

// Register bans every string in strs. Each string's full hash is added to
// the bucket for its length in runes. Registering a string twice has no
// further effect.
//
// Registering the empty string stores hash 0 at length 0, which IsFlagged
// never consults: an empty prefix cannot be flagged.
func (r *Registry) Register(strs ...string) {
	var added int
	var hasher Hasher
	for _, s := range strs {
		hasher.Reset()
		h := hasher.WriteString(r.normalize(s))
		length := hasher.Len()
		if !r.buckets.insert(length, h) {
			continue
		}
		added++
		r.count++
		r.maxLen = max(r.maxLen, length)
		if r.filter != nil {
			r.filter.add(length, h)
		}
	}

	if r.filter != nil && r.filter.full() {
		r.growFilter()
	}

	r.opts.Logger.Debug("registered banned strings",
		"given", len(strs),
		"added", added,
		"count", r.count,
		"buckets", len(r.buckets),
	)
}

// growFilter rebuilds the prefilter with at least twice its capacity and
// refills it from the buckets.
func (r *Registry) growFilter() {
	capacity := r.filter.capacity * 2
	for capacity < r.count {
		capacity *= 2
	}

	filter := newPrefilter(capacity, r.filter.fpRate)
	for length, set := range r.buckets {
		for h := range set {
			filter.add(length, h)
		}
	}
	r.filter = filter

	r.opts.Logger.Debug("rebuilt prefilter",
		"capacity", capacity,
		"count", r.count,
		"bits", filter.numBits(),
		"k", filter.k,
	)
}

// IsFlagged reports whether some prefix of candidate hashes to a value
// registered for that prefix's length. It stops at the first such prefix.
// The empty string is never flagged.
func (r *Registry) IsFlagged(candidate string) bool {
	_, ok := r.Match(candidate)
	return ok
}

// Match is like IsFlagged but also returns the length in runes of the first
// flagged prefix of candidate, so candidate's first n runes cover the match.
// With FoldCase the hashes are taken over the folded text, but the length
// still counts runes of candidate itself; a match ending inside a rune that
// folds to several (ß to "ss") includes that whole rune.
func (r *Registry) Match(candidate string) (int, bool) {
	if r.maxLen == 0 {
		return 0, false
	}
	if r.opts.FoldCase {
		return r.matchFolded(candidate)
	}
	for n, h := range StreamHashes(candidate) {
		if n > r.maxLen {
			break
		}
		if r.lookup(n, h) {
			return n, true
		}
	}
	return 0, false
}

// matchFolded streams the folding of candidate while counting the runes of
// candidate consumed so far.
func (r *Registry) matchFolded(candidate string) (int, bool) {
	var hasher Hasher
	var folded []rune
	consumed := 0
	for _, c := range candidate {
		consumed++
		folded = appendFolded(folded[:0], c)
		for _, fr := range folded {
			h := hasher.Roll(fr)
			if hasher.Len() > r.maxLen {
				return 0, false
			}
			if r.lookup(hasher.Len(), h) {
				return consumed, true
			}
		}
	}
	return 0, false
}

// lookup checks one prefix against the prefilter, then the buckets.
func (r *Registry) lookup(length int, h uint64) bool {
	if r.filter != nil && !r.filter.test(length, h) {
		return false
	}
	return r.buckets.contains(length, h)
}

// Contains reports whether h is registered for length. An unknown length
// is an empty bucket.
func (r *Registry) Contains(length int, h uint64) bool {
	return r.buckets.contains(length, h)
}

// Bucket returns the sorted hashes registered for length, or nil if there
// are none.
func (r *Registry) Bucket(length int) []uint64 {
	set, ok := r.buckets[length]
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(set))
}

// Lengths returns the sorted lengths that have at least one registered hash.
func (r *Registry) Lengths() []int {
	return slices.Sorted(maps.Keys(r.buckets))
}

// Count returns the number of distinct (length, hash) pairs registered.
func (r *Registry) Count() uint64 {
	return r.count
}

// NumBuckets returns the number of distinct registered lengths.
func (r *Registry) NumBuckets() int {
	return len(r.buckets)
}

// Stats describes a registry's contents and its prefilter.
type Stats struct {
	Buckets int    // distinct registered lengths
	Count   uint64 // distinct (length, hash) pairs
	MaxLen  int    // longest registered length in runes

	// The prefilter fields are zero when the prefilter is disabled.
	PrefilterBits      uint64
	PrefilterK         uint32
	PrefilterFillRatio float64
	PrefilterFPRate    float64
}

// Stats returns a snapshot of the registry's statistics.
func (r *Registry) Stats() Stats {
	st := Stats{
		Buckets: len(r.buckets),
		Count:   r.count,
		MaxLen:  r.maxLen,
	}
	if r.filter != nil {
		st.PrefilterBits = r.filter.numBits()
		st.PrefilterK = r.filter.k
		st.PrefilterFillRatio = r.filter.fillRatio()
		st.PrefilterFPRate = r.filter.estimatedFalsePositiveRate()
	}
	return st
}
