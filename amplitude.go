package qstab

import (
	"math"
	"math/cmplx"
)

// AmplitudeEntry is one nonzero basis amplitude of a register.
type AmplitudeEntry struct {
	Permutation uint64
	Amplitude   complex128
}

// getBasisAmp decodes the scratch row into the basis state it selects
// and that state's amplitude. nrm is 1/sqrt(2^g), the common magnitude
// of all nonzero amplitudes.
func (qt *Tableau) getBasisAmp(nrm float64) AmplitudeEntry {
	n := qt.qubitCount
	scratch := n << 1

	e := int(qt.r[scratch])
	var perm uint64
	for j := 0; j < n; j++ {
		uj := uint(j)
		if qt.z[scratch].Test(uj) && qt.x[scratch].Test(uj) {
			e = (e + 1) & 3
		}
		if qt.x[scratch].Test(uj) {
			perm |= uint64(1) << uj
		}
	}

	amp := complex(nrm, 0) * qt.phaseOffset
	switch e {
	case 1:
		amp *= 1i
	case 2:
		amp = -amp
	case 3:
		amp *= -1i
	}

	return AmplitudeEntry{Permutation: perm, Amplitude: amp}
}

/*
forEachBasisEntry canonicalizes the tableau and visits every nonzero
basis amplitude exactly once. The scratch row starts at the seed state
and steps through the 2^g-element coset in Gray-code order, so each
step multiplies in a single X/Y-bearing generator. The visitor returns
false to stop early. Mutates the tableau's generator ordering but not
the state it encodes.
*/
func (qt *Tableau) forEachBasisEntry(fn func(AmplitudeEntry) bool) {
	g := qt.gaussian()
	qt.seed(g)

	n := qt.qubitCount
	scratch := n << 1
	nrm := math.Sqrt(1.0 / float64(uint64(1)<<uint(g)))

	if !fn(qt.getBasisAmp(nrm)) {
		return
	}
	for t := uint64(0); t < (uint64(1)<<uint(g))-1; t++ {
		t2 := t ^ (t + 1)
		for i := 0; i < g; i++ {
			if t2&(uint64(1)<<uint(i)) != 0 {
				qt.rowmult(scratch, n+i)
			}
		}
		if !fn(qt.getBasisAmp(nrm)) {
			return
		}
	}
}

// GetAmplitude returns the amplitude of a single basis state.
func (qt *Tableau) GetAmplitude(perm uint64) (complex128, error) {
	if qt.qubitCount > 63 {
		return 0, ErrUnsupported
	}
	if perm >= uint64(1)<<uint(qt.qubitCount) {
		return 0, ErrQubitIndex
	}

	var amp complex128
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		if entry.Permutation == perm {
			amp = entry.Amplitude
			return false
		}
		return true
	})

	return amp, nil
}

// GetAmplitudes returns the amplitudes of the given basis states, in
// the same order as perms.
func (qt *Tableau) GetAmplitudes(perms []uint64) ([]complex128, error) {
	if qt.qubitCount > 63 {
		return nil, ErrUnsupported
	}
	maxPerm := uint64(1) << uint(qt.qubitCount)
	for _, p := range perms {
		if p >= maxPerm {
			return nil, ErrQubitIndex
		}
	}

	out := make([]complex128, len(perms))
	remaining := len(perms)
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		for i, p := range perms {
			if p == entry.Permutation && out[i] == 0 {
				out[i] = entry.Amplitude
				remaining--
			}
		}
		return remaining > 0
	})

	return out, nil
}

// GetAnyAmplitude returns one nonzero basis amplitude, which is all a
// caller needs to fix the register's global phase.
func (qt *Tableau) GetAnyAmplitude() AmplitudeEntry {
	g := qt.gaussian()
	qt.seed(g)

	nrm := math.Sqrt(1.0 / float64(uint64(1)<<uint(g)))

	return qt.getBasisAmp(nrm)
}

// GetQubitAmplitude returns a nonzero amplitude among basis states
// where qubit t reads m, or zero if the outcome m has no support.
func (qt *Tableau) GetQubitAmplitude(t int, m bool) (complex128, error) {
	if t < 0 || t >= qt.qubitCount {
		return 0, ErrQubitIndex
	}

	mask := uint64(1) << uint(t)
	var amp complex128
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		if (entry.Permutation&mask != 0) == m {
			amp = entry.Amplitude
			return false
		}
		return true
	})

	return amp, nil
}

// GetQuantumState writes the dense state vector into buf, which must
// hold exactly 2^n entries. Entries off the stabilizer coset are zero.
func (qt *Tableau) GetQuantumState(buf []complex128) error {
	if qt.qubitCount > 63 {
		return ErrUnsupported
	}
	if uint64(len(buf)) != uint64(1)<<uint(qt.qubitCount) {
		return ErrBufferSize
	}

	for i := range buf {
		buf[i] = 0
	}
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		buf[entry.Permutation] = entry.Amplitude
		return true
	})

	return nil
}

// GetQuantumStateMap returns the sparse state vector, keyed by basis
// permutation. Only nonzero amplitudes appear.
func (qt *Tableau) GetQuantumStateMap() map[uint64]complex128 {
	out := make(map[uint64]complex128)
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		out[entry.Permutation] = entry.Amplitude
		return true
	})

	return out
}

// GetQuantumStateInto pushes the state vector into an amplitude sink,
// typically a dense simulator being initialized from this register.
func (qt *Tableau) GetQuantumStateInto(sink AmplitudeSink) error {
	sink.ZeroAmplitudes()

	var err error
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		err = sink.SetAmplitude(entry.Permutation, entry.Amplitude)
		return err == nil
	})

	return err
}

// GetProbs writes each basis state's probability into buf, which must
// hold exactly 2^n entries.
func (qt *Tableau) GetProbs(buf []float64) error {
	if qt.qubitCount > 63 {
		return ErrUnsupported
	}
	if uint64(len(buf)) != uint64(1)<<uint(qt.qubitCount) {
		return ErrBufferSize
	}

	for i := range buf {
		buf[i] = 0
	}
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		a := cmplx.Abs(entry.Amplitude)
		buf[entry.Permutation] = a * a
		return true
	})

	return nil
}

// ProbMask returns the probability that the qubits selected by mask
// read out as the corresponding bits of perm.
func (qt *Tableau) ProbMask(mask, perm uint64) float64 {
	var p float64
	qt.forEachBasisEntry(func(entry AmplitudeEntry) bool {
		if entry.Permutation&mask == perm&mask {
			a := cmplx.Abs(entry.Amplitude)
			p += a * a
		}
		return true
	})

	return p
}

// SetAmplitude is not expressible on a stabilizer register.
func (qt *Tableau) SetAmplitude(perm uint64, amp complex128) error {
	return ErrUnsupported
}
