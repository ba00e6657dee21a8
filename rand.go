package qstab

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
)

// RandomSource supplies the entropy consumed by measurement. Exactly one
// boolean is drawn per undetermined measurement outcome.
type RandomSource interface {
	NextBool() bool
	NextFloat64() float64
}

// HardwareRandom draws from the operating system entropy source, one raw
// word at a time, handing out single bits until the word is exhausted.
type HardwareRandom struct {
	raw       uint64
	remaining uint
}

// NewHardwareRandom probes the entropy source once and returns nil if it is
// unavailable, so callers can fall back to a seeded generator.
func NewHardwareRandom() *HardwareRandom {
	var probe [8]byte
	if _, err := crand.Read(probe[:]); err != nil {
		return nil
	}

	return &HardwareRandom{
		raw:       binary.LittleEndian.Uint64(probe[:]),
		remaining: 64,
	}
}

func (h *HardwareRandom) NextBool() bool {
	if h.remaining == 0 {
		var buf [8]byte
		if _, err := crand.Read(buf[:]); err != nil {
			// Entropy was available at construction time; treat a later
			// failure as exhaustion of this word and retry once.
			h.raw = uint64(time.Now().UnixNano())
		} else {
			h.raw = binary.LittleEndian.Uint64(buf[:])
		}
		h.remaining = 64
	}
	h.remaining--

	return (h.raw>>h.remaining)&1 == 1
}

func (h *HardwareRandom) NextFloat64() float64 {
	var bits uint64
	for i := 0; i < 53; i++ {
		bits <<= 1
		if h.NextBool() {
			bits |= 1
		}
	}

	return float64(bits) / (1 << 53)
}

// PseudoRandom is a seeded fallback generator, also useful for
// reproducible tests.
type PseudoRandom struct {
	rng *rand.Rand
}

func NewPseudoRandom(seed int64) *PseudoRandom {
	return &PseudoRandom{rng: rand.New(rand.NewSource(seed))}
}

func (p *PseudoRandom) NextBool() bool {
	return p.rng.Int63()&1 == 1
}

func (p *PseudoRandom) NextFloat64() float64 {
	return p.rng.Float64()
}

// defaultRandom prefers hardware entropy and falls back to a time-seeded
// pseudo-random generator.
func defaultRandom() RandomSource {
	if hw := NewHardwareRandom(); hw != nil {
		return hw
	}

	return NewPseudoRandom(time.Now().UnixNano())
}
