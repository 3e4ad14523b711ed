package rank

import "math/rand"

// defaultSeed replaces a zero seed so the zero value stays reproducible.
const defaultSeed int64 = 1

// RNGFromSeed returns a deterministic *rand.Rand. seed == 0 means defaultSeed.
//
// Complexity: O(1).
func RNGFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// DeriveSeed mixes a parent seed and a stream id with the SplitMix64 finalizer.
// Neighbouring stream ids give uncorrelated seeds.
//
// Complexity: O(1).
func DeriveSeed(parent int64, stream uint64) int64 {
	var x uint64
	x = uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// DeriveRNG returns the generator for stream, derived from parent. Unlike
// drawing from a shared generator, the result depends only on (parent, stream),
// so worker w gets the same numbers no matter how goroutines are scheduled.
//
// Complexity: O(1).
func DeriveRNG(parent int64, stream uint64) *rand.Rand {
	if parent == 0 {
		parent = defaultSeed
	}

	return rand.New(rand.NewSource(DeriveSeed(parent, stream)))
}
