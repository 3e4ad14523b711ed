// Package rank hands out unique pseudo-random edge ranks and seeds the
// random streams derived from them.
//
// Sequence is a quadratic-residue permutation generator over the 32-bit
// integers: two applications of the permutation around an additive offset and
// an XOR mask turn a running counter into a sequence with no repeats for the
// first 2^32 draws. The same (base, offset) pair always yields the same
// sequence, on every platform.
//
// Stream helpers (RNGFromSeed, DeriveSeed, DeriveRNG) build independent
// *rand.Rand instances for worker goroutines from one parent seed.
//
// Concurrency:
//   - Sequence and *rand.Rand are NOT goroutine-safe. Give every goroutine its
//     own stream via DeriveRNG.
package rank
