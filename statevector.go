package qstab

import (
	"math"
	"math/cmplx"
)

/*
StateVector is the dense collaborator engine: a full 2^n amplitude
array driven through the same Simulator surface as the tableau. It
accepts arbitrary single-qubit payloads, so circuits that fall outside
the Clifford set still have somewhere to run, and it doubles as the
reference oracle in tests.
*/
type StateVector struct {
	qubitCount int
	amplitudes []complex128
	rng        RandomSource
}

// NewStateVector prepares a dense register of n qubits in the given
// computational basis state.
func NewStateVector(n int, perm uint64, opts ...StateVectorOption) *StateVector {
	sv := &StateVector{
		qubitCount: n,
		amplitudes: make([]complex128, uint64(1)<<uint(n)),
	}
	for _, opt := range opts {
		opt(sv)
	}
	if sv.rng == nil {
		sv.rng = defaultRandom()
	}

	sv.amplitudes[perm] = 1

	return sv
}

// StateVectorOption configures a dense register at construction.
type StateVectorOption func(*StateVector)

// WithStateVectorRandomSource overrides the measurement entropy source.
func WithStateVectorRandomSource(rng RandomSource) StateVectorOption {
	return func(sv *StateVector) {
		sv.rng = rng
	}
}

// Kind reports the representation behind this simulator.
func (sv *StateVector) Kind() EngineKind {
	return KindStateVector
}

// GetQubitCount returns the current register width.
func (sv *StateVector) GetQubitCount() int {
	return sv.qubitCount
}

// Allocate inserts length fresh |0> qubits at position start and
// returns that position.
func (sv *StateVector) Allocate(start, length int) (int, error) {
	if start < 0 || start > sv.qubitCount || length < 0 {
		return 0, ErrQubitIndex
	}
	if length == 0 {
		return start, nil
	}

	lowMask := (uint64(1) << uint(start)) - 1
	next := make([]complex128, uint64(1)<<uint(sv.qubitCount+length))
	for i, amp := range sv.amplitudes {
		if amp == 0 {
			continue
		}
		p := uint64(i)
		next[(p&lowMask)|((p&^lowMask)<<uint(length))] = amp
	}

	sv.amplitudes = next
	sv.qubitCount += length

	return start, nil
}

// mtrxPairs applies a 2x2 payload across every amplitude pair split by
// target, restricted to pairs satisfying cond on the pair's low index.
func (sv *StateVector) mtrxPairs(m [4]complex128, target int, cond func(uint64) bool) {
	tPow := uint64(1) << uint(target)
	for i := uint64(0); i < uint64(len(sv.amplitudes)); i++ {
		if i&tPow != 0 {
			continue
		}
		if cond != nil && !cond(i) {
			continue
		}
		a0 := sv.amplitudes[i]
		a1 := sv.amplitudes[i|tPow]
		sv.amplitudes[i] = m[0]*a0 + m[1]*a1
		sv.amplitudes[i|tPow] = m[2]*a0 + m[3]*a1
	}
}

// Mtrx applies an arbitrary single-qubit payload.
func (sv *StateVector) Mtrx(m [4]complex128, target int) error {
	if target < 0 || target >= sv.qubitCount {
		return ErrQubitIndex
	}

	sv.mtrxPairs(m, target, nil)

	return nil
}

func (sv *StateVector) controlMask(controls []int, target int) (uint64, error) {
	if target < 0 || target >= sv.qubitCount {
		return 0, ErrQubitIndex
	}
	var mask uint64
	for _, c := range controls {
		if c < 0 || c >= sv.qubitCount || c == target {
			return 0, ErrQubitIndex
		}
		mask |= uint64(1) << uint(c)
	}

	return mask, nil
}

// MCMtrx applies a payload to target where every control reads |1>.
func (sv *StateVector) MCMtrx(controls []int, m [4]complex128, target int) error {
	mask, err := sv.controlMask(controls, target)
	if err != nil {
		return err
	}

	sv.mtrxPairs(m, target, func(i uint64) bool {
		return i&mask == mask
	})

	return nil
}

// MACMtrx applies a payload to target where every control reads |0>.
func (sv *StateVector) MACMtrx(controls []int, m [4]complex128, target int) error {
	mask, err := sv.controlMask(controls, target)
	if err != nil {
		return err
	}

	sv.mtrxPairs(m, target, func(i uint64) bool {
		return i&mask == 0
	})

	return nil
}

// UCMtrx applies a payload to target where the controls read out the
// bit pattern perm, bit j of perm matching controls[j].
func (sv *StateVector) UCMtrx(controls []int, m [4]complex128, target int, perm uint64) error {
	mask, err := sv.controlMask(controls, target)
	if err != nil {
		return err
	}

	var want uint64
	for j, c := range controls {
		if perm&(uint64(1)<<uint(j)) != 0 {
			want |= uint64(1) << uint(c)
		}
	}

	sv.mtrxPairs(m, target, func(i uint64) bool {
		return i&mask == want
	})

	return nil
}

func (sv *StateVector) H(target int) error { return sv.Mtrx(mtrxH, target) }
func (sv *StateVector) X(target int) error { return sv.Mtrx(mtrxX, target) }
func (sv *StateVector) Y(target int) error { return sv.Mtrx(mtrxY, target) }
func (sv *StateVector) Z(target int) error { return sv.Mtrx(mtrxZ, target) }
func (sv *StateVector) S(target int) error { return sv.Mtrx(mtrxS, target) }
func (sv *StateVector) IS(target int) error { return sv.Mtrx(mtrxIS, target) }

func (sv *StateVector) CNOT(control, target int) error {
	return sv.MCMtrx([]int{control}, mtrxX, target)
}

func (sv *StateVector) CY(control, target int) error {
	return sv.MCMtrx([]int{control}, mtrxY, target)
}

func (sv *StateVector) CZ(control, target int) error {
	return sv.MCMtrx([]int{control}, mtrxZ, target)
}

// Swap exchanges two qubits by permuting amplitudes.
func (sv *StateVector) Swap(qubit1, qubit2 int) error {
	if qubit1 < 0 || qubit1 >= sv.qubitCount ||
		qubit2 < 0 || qubit2 >= sv.qubitCount {
		return ErrQubitIndex
	}
	if qubit1 == qubit2 {
		return nil
	}

	p1 := uint64(1) << uint(qubit1)
	p2 := uint64(1) << uint(qubit2)
	for i := uint64(0); i < uint64(len(sv.amplitudes)); i++ {
		if i&p1 != 0 || i&p2 == 0 {
			continue
		}
		j := (i &^ p2) | p1
		sv.amplitudes[i], sv.amplitudes[j] = sv.amplitudes[j], sv.amplitudes[i]
	}

	return nil
}

// ISwap swaps two qubits and phases the swapped |01> and |10>
// components by i.
func (sv *StateVector) ISwap(qubit1, qubit2 int) error {
	return sv.iswap(qubit1, qubit2, 1i)
}

// IISwap is the inverse of ISwap.
func (sv *StateVector) IISwap(qubit1, qubit2 int) error {
	return sv.iswap(qubit1, qubit2, -1i)
}

func (sv *StateVector) iswap(qubit1, qubit2 int, phase complex128) error {
	if qubit1 < 0 || qubit1 >= sv.qubitCount ||
		qubit2 < 0 || qubit2 >= sv.qubitCount || qubit1 == qubit2 {
		return ErrQubitIndex
	}

	p1 := uint64(1) << uint(qubit1)
	p2 := uint64(1) << uint(qubit2)
	for i := uint64(0); i < uint64(len(sv.amplitudes)); i++ {
		if i&p1 != 0 || i&p2 == 0 {
			continue
		}
		j := (i &^ p2) | p1
		sv.amplitudes[i], sv.amplitudes[j] =
			phase*sv.amplitudes[j], phase*sv.amplitudes[i]
	}

	return nil
}

// Prob returns the probability of qubit target reading |1>.
func (sv *StateVector) Prob(target int) (float64, error) {
	if target < 0 || target >= sv.qubitCount {
		return 0, ErrQubitIndex
	}

	tPow := uint64(1) << uint(target)
	var p float64
	for i, amp := range sv.amplitudes {
		if uint64(i)&tPow != 0 {
			a := cmplx.Abs(amp)
			p += a * a
		}
	}

	return p, nil
}

// M measures qubit target in the computational basis, collapsing and
// renormalizing the register.
func (sv *StateVector) M(target int) (bool, error) {
	p1, err := sv.Prob(target)
	if err != nil {
		return false, err
	}

	outcome := sv.rng.NextFloat64() < p1
	tPow := uint64(1) << uint(target)

	var kept float64
	for i, amp := range sv.amplitudes {
		if (uint64(i)&tPow != 0) == outcome {
			a := cmplx.Abs(amp)
			kept += a * a
		} else {
			sv.amplitudes[i] = 0
		}
	}

	nrm := complex(1/math.Sqrt(kept), 0)
	for i, amp := range sv.amplitudes {
		if amp != 0 {
			sv.amplitudes[i] = amp * nrm
		}
	}

	return outcome, nil
}

// GetAmplitude returns the amplitude of a single basis state.
func (sv *StateVector) GetAmplitude(perm uint64) (complex128, error) {
	if perm >= uint64(len(sv.amplitudes)) {
		return 0, ErrQubitIndex
	}

	return sv.amplitudes[perm], nil
}

// GetAmplitudes returns the amplitudes of the given basis states.
func (sv *StateVector) GetAmplitudes(perms []uint64) ([]complex128, error) {
	out := make([]complex128, len(perms))
	for i, p := range perms {
		if p >= uint64(len(sv.amplitudes)) {
			return nil, ErrQubitIndex
		}
		out[i] = sv.amplitudes[p]
	}

	return out, nil
}

// SetAmplitude overwrites one basis amplitude. The caller is trusted
// to keep the register normalized.
func (sv *StateVector) SetAmplitude(perm uint64, amp complex128) error {
	if perm >= uint64(len(sv.amplitudes)) {
		return ErrQubitIndex
	}

	sv.amplitudes[perm] = amp

	return nil
}

// ZeroAmplitudes clears the register ahead of a state push.
func (sv *StateVector) ZeroAmplitudes() {
	for i := range sv.amplitudes {
		sv.amplitudes[i] = 0
	}
}
