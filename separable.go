package qstab

// Separability classifies which measurement basis, if any, a qubit is
// an eigenstate of.
type Separability uint8

const (
	SeparableNone Separability = iota
	SeparableZ
	SeparableX
	SeparableY
)

// isSeparableZ is the unvalidated core test: a qubit is a Z eigenstate
// exactly when no stabilizer generator carries an X component on it.
func (qt *Tableau) isSeparableZ(t int) bool {
	for i := qt.qubitCount; i < qt.qubitCount<<1; i++ {
		if qt.x[i].Test(uint(t)) {
			return false
		}
	}

	return true
}

// applyH applies a Hadamard to every generator row inline, bypassing
// dispatch and phase bookkeeping. Used for basis-change conjugation.
func (qt *Tableau) applyH(t int) {
	for i := 0; i < qt.qubitCount<<1; i++ {
		qt.rowH(i, t)
	}
}

func (qt *Tableau) applyS(t int) {
	for i := 0; i < qt.qubitCount<<1; i++ {
		qt.rowS(i, t)
	}
}

func (qt *Tableau) applyIS(t int) {
	for i := 0; i < qt.qubitCount<<1; i++ {
		qt.rowIS(i, t)
	}
}

// IsSeparableZ reports whether the target qubit is a Z basis eigenstate.
func (qt *Tableau) IsSeparableZ(target int) (bool, error) {
	if target < 0 || target >= qt.qubitCount {
		return false, ErrQubitIndex
	}

	return qt.isSeparableZ(target), nil
}

// IsSeparableX reports whether the target qubit is an X basis
// eigenstate, by testing in the Hadamard-conjugated frame.
func (qt *Tableau) IsSeparableX(target int) (bool, error) {
	if target < 0 || target >= qt.qubitCount {
		return false, ErrQubitIndex
	}

	qt.applyH(target)
	separable := qt.isSeparableZ(target)
	qt.applyH(target)

	return separable, nil
}

// IsSeparableY reports whether the target qubit is a Y basis
// eigenstate, by rotating the Y axis onto Z and testing there.
func (qt *Tableau) IsSeparableY(target int) (bool, error) {
	if target < 0 || target >= qt.qubitCount {
		return false, ErrQubitIndex
	}

	qt.applyIS(target)
	qt.applyH(target)
	separable := qt.isSeparableZ(target)
	qt.applyH(target)
	qt.applyS(target)

	return separable, nil
}

// IsSeparable classifies the target qubit's eigenbasis, or
// SeparableNone when it is entangled or in a non-basis pure state.
func (qt *Tableau) IsSeparable(target int) (Separability, error) {
	if target < 0 || target >= qt.qubitCount {
		return SeparableNone, ErrQubitIndex
	}

	if qt.isSeparableZ(target) {
		return SeparableZ, nil
	}
	if sep, _ := qt.IsSeparableX(target); sep {
		return SeparableX, nil
	}
	if sep, _ := qt.IsSeparableY(target); sep {
		return SeparableY, nil
	}

	return SeparableNone, nil
}

/*
CanDecomposeDispose reports whether the contiguous qubit range can be
factored out of the register. The test canonicalizes a clone and then
requires every stabilizer/destabilizer generator pair to be supported
entirely inside or entirely outside the range, with exactly length
pairs inside.
*/
func (qt *Tableau) CanDecomposeDispose(start, length int) (bool, error) {
	if start < 0 || length < 0 || start+length > qt.qubitCount {
		return false, ErrQubitIndex
	}
	if length == 0 || qt.qubitCount == length {
		return true, nil
	}

	clone := qt.Clone()
	clone.gaussian()

	inside := 0
	n := clone.qubitCount
	for s := n; s < n<<1; s++ {
		in, out := clone.pairSupport(s, start, start+length)
		if in && out {
			return false, nil
		}
		if in {
			inside++
		}
	}

	return inside == length, nil
}

// pairSupport reports whether stabilizer row s or its paired
// destabilizer touches columns inside and outside [start, end).
func (qt *Tableau) pairSupport(s, start, end int) (in, out bool) {
	d := s - qt.qubitCount
	for j := 0; j < qt.qubitCount; j++ {
		uj := uint(j)
		hit := qt.x[s].Test(uj) || qt.z[s].Test(uj) ||
			qt.x[d].Test(uj) || qt.z[d].Test(uj)
		if !hit {
			continue
		}
		if j >= start && j < end {
			in = true
		} else {
			out = true
		}
	}

	return in, out
}

// TrySeparate reports whether a single qubit can be factored out.
func (qt *Tableau) TrySeparate(qubit int) (bool, error) {
	if qubit < 0 || qubit >= qt.qubitCount {
		return false, ErrQubitIndex
	}

	return qt.CanDecomposeDispose(qubit, 1)
}

// TrySeparateAll reports whether the listed qubits can be factored out
// jointly, by swapping them to the low end and testing there. The list
// must not contain duplicates.
func (qt *Tableau) TrySeparateAll(qubits []int) (bool, error) {
	seen := make(map[int]bool, len(qubits))
	for _, q := range qubits {
		if q < 0 || q >= qt.qubitCount || seen[q] {
			return false, ErrQubitIndex
		}
		seen[q] = true
	}

	for i, q := range qubits {
		if err := qt.Swap(q, i); err != nil {
			return false, err
		}
	}

	canDecompose, err := qt.CanDecomposeDispose(0, len(qubits))

	for i := len(qubits) - 1; i >= 0; i-- {
		if sErr := qt.Swap(qubits[i], i); sErr != nil {
			return false, sErr
		}
	}

	return canDecompose, err
}

// TrySeparate2 reports whether the pair of qubits can be factored out
// jointly, by swapping them to the low end and testing there.
func (qt *Tableau) TrySeparate2(qubit1, qubit2 int) (bool, error) {
	if qubit1 < 0 || qubit1 >= qt.qubitCount || qubit2 < 0 || qubit2 >= qt.qubitCount || qubit1 == qubit2 {
		return false, ErrQubitIndex
	}

	if err := qt.Swap(qubit1, 0); err != nil {
		return false, err
	}
	if err := qt.Swap(qubit2, 1); err != nil {
		return false, err
	}

	canDecompose, err := qt.CanDecomposeDispose(0, 2)

	if sErr := qt.Swap(qubit2, 1); sErr != nil {
		return false, sErr
	}
	if sErr := qt.Swap(qubit1, 0); sErr != nil {
		return false, sErr
	}

	return canDecompose, err
}
