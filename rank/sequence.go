package rank

import "errors"

// ErrExhausted is returned once a Sequence has produced all 2^32 values.
var ErrExhausted = errors.New("rank: sequence exhausted")

// prime is the largest prime below 2^32 with prime ≡ 3 (mod 4); for such
// primes x ↦ x² mod p is one-to-one on [0, p/2].
const prime uint32 = 4294967291

// Mixing constants for seeding and output whitening.
const (
	baseSalt   uint32 = 0x682f0161
	offsetSalt uint32 = 0x46790905
	outputMask uint32 = 0x5bf03635
)

// Period is the number of distinct values a Sequence can produce.
const Period uint64 = 1 << 32

// Sequence yields a permutation of the 32-bit integers.
type Sequence struct {
	index  uint32
	offset uint32
	drawn  uint64
}

// NewSequence seeds a Sequence from two 32-bit seeds.
//
// Complexity: O(1).
func NewSequence(base, offset uint32) *Sequence {
	return &Sequence{
		index:  permute(permute(base) + baseSalt),
		offset: permute(permute(offset) + offsetSalt),
	}
}

// FromSeed seeds a Sequence with (seed, seed+1).
func FromSeed(seed uint32) *Sequence { return NewSequence(seed, seed+1) }

// Next returns the next rank. Every value is distinct from all previous ones;
// after Period draws Next returns ErrExhausted.
//
// Complexity: O(1).
func (s *Sequence) Next() (uint32, error) {
	if s.drawn == Period {
		return 0, ErrExhausted
	}
	v := permute((permute(s.index) + s.offset) ^ outputMask)
	s.index++
	s.drawn++

	return v, nil
}

// Drawn reports how many values Next has produced.
func (s *Sequence) Drawn() uint64 { return s.drawn }

// permute is the quadratic-residue bijection on [0, 2^32). The five values at
// or above prime map to themselves.
func permute(x uint32) uint32 {
	if x >= prime {
		return x
	}
	r := uint32(uint64(x) * uint64(x) % uint64(prime))
	if x <= prime/2 {
		return r
	}

	return prime - r
}
