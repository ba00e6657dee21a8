package qstab

import (
	"math"
	"math/cmplx"
)

func isNorm0(c complex128) bool {
	return norm(c) <= normEpsilon
}

func isSame(a, b complex128) bool {
	return isNorm0(a - b)
}

// isCliffordPhase reports whether c is one of the four unit phases the
// tableau can absorb exactly.
func isCliffordPhase(c complex128) bool {
	return isSame(c, 1) || isSame(c, -1) || isSame(c, 1i) || isSame(c, -1i)
}

// trackPhase folds an explicit matrix phase into the scalar offset when
// global phase tracking is enabled.
func (qt *Tableau) trackPhase(factor complex128) {
	if !qt.randGlobalPhase {
		qt.phaseOffset *= factor
	}
}

// Phase applies the diagonal single-qubit matrix diag(topLeft,
// bottomRight). Only diagonals that reduce to I, Z, S, or IS times a
// global phase are representable; anything else is ErrUnsupported.
func (qt *Tableau) Phase(topLeft, bottomRight complex128, target int) error {
	if target < 0 || target >= qt.qubitCount {
		return ErrQubitIndex
	}

	switch {
	case isSame(topLeft, bottomRight):
		qt.trackPhase(topLeft)
		return nil
	case isSame(topLeft, -bottomRight):
		if err := qt.Z(target); err != nil {
			return err
		}
	case isSame(topLeft, -1i*bottomRight):
		if err := qt.S(target); err != nil {
			return err
		}
	case isSame(topLeft, 1i*bottomRight):
		if err := qt.IS(target); err != nil {
			return err
		}
	default:
		return ErrUnsupported
	}

	qt.trackPhase(topLeft)

	return nil
}

// Invert applies the anti-diagonal single-qubit matrix with topRight and
// bottomLeft entries. Only anti-diagonals that reduce to X, Y, or X
// composed with a phase gate are representable.
func (qt *Tableau) Invert(topRight, bottomLeft complex128, target int) error {
	if target < 0 || target >= qt.qubitCount {
		return ErrQubitIndex
	}

	switch {
	case isSame(topRight, bottomLeft):
		if err := qt.X(target); err != nil {
			return err
		}
		qt.trackPhase(topRight)
	case isSame(topRight, -bottomLeft):
		if err := qt.Y(target); err != nil {
			return err
		}
		qt.trackPhase(1i * topRight)
	case isSame(bottomLeft, 1i*topRight):
		if err := qt.X(target); err != nil {
			return err
		}
		if err := qt.S(target); err != nil {
			return err
		}
		qt.trackPhase(topRight)
	case isSame(bottomLeft, -1i*topRight):
		if err := qt.X(target); err != nil {
			return err
		}
		if err := qt.IS(target); err != nil {
			return err
		}
		qt.trackPhase(topRight)
	default:
		return ErrUnsupported
	}

	return nil
}

// Mtrx applies a 2x2 matrix that must decompose into a pure phase, a
// pure bit-flip, or a Hadamard-family form; any other unitary is
// rejected as unsupported for this representation.
func (qt *Tableau) Mtrx(m [4]complex128, target int) error {
	if isNorm0(m[1]) && isNorm0(m[2]) {
		return qt.Phase(m[0], m[3], target)
	}
	if isNorm0(m[0]) && isNorm0(m[3]) {
		return qt.Invert(m[1], m[2], target)
	}

	// Hadamard family: every entry is a fourth root of unity over
	// sqrt(2), so m factors as m[0] * diag(1,v) * sqrt(2)H * diag(1,u)
	// with u = m[1]/m[0] and v = m[2]/m[0]. Unitarity then pins the
	// last entry to -m[0]*u*v.
	if isNorm0(m[0]) || math.Abs(2*norm(m[0])-1) > normEpsilon {
		return ErrUnsupported
	}

	u := m[1] / m[0]
	v := m[2] / m[0]
	if !isCliffordPhase(u) || !isCliffordPhase(v) || !isSame(m[3], -m[0]*u*v) {
		return ErrUnsupported
	}

	if err := qt.Phase(1, u, target); err != nil {
		return err
	}
	if err := qt.H(target); err != nil {
		return err
	}
	if err := qt.Phase(1, v, target); err != nil {
		return err
	}
	qt.trackPhase(m[0] * complex(math.Sqrt2, 0))

	return nil
}

// MCPhase applies a singly-controlled phase matrix. More than one
// control cannot stay within the Clifford group here.
func (qt *Tableau) MCPhase(controls []int, topLeft, bottomRight complex128, target int) error {
	if len(controls) == 0 {
		return qt.Phase(topLeft, bottomRight, target)
	}
	if len(controls) > 1 {
		return ErrUnsupported
	}

	control := controls[0]
	if control < 0 || control >= qt.qubitCount || control == target {
		return ErrQubitIndex
	}
	if target < 0 || target >= qt.qubitCount {
		return ErrQubitIndex
	}

	if isSame(topLeft, 1) && isSame(bottomRight, 1) {
		return nil
	}
	if !isCliffordPhase(topLeft) {
		return ErrUnsupported
	}

	switch {
	case isSame(bottomRight, topLeft):
		return qt.Phase(1, topLeft, control)
	case isSame(bottomRight, -topLeft):
		if err := qt.CZ(control, target); err != nil {
			return err
		}
		return qt.Phase(1, topLeft, control)
	}

	return ErrUnsupported
}

// MCInvert applies a singly-controlled bit-flip matrix.
func (qt *Tableau) MCInvert(controls []int, topRight, bottomLeft complex128, target int) error {
	if len(controls) == 0 {
		return qt.Invert(topRight, bottomLeft, target)
	}
	if len(controls) > 1 {
		return ErrUnsupported
	}

	control := controls[0]
	if control < 0 || control >= qt.qubitCount || control == target {
		return ErrQubitIndex
	}
	if target < 0 || target >= qt.qubitCount {
		return ErrQubitIndex
	}
	if !isCliffordPhase(topRight) {
		return ErrUnsupported
	}

	switch {
	case isSame(bottomLeft, topRight):
		if err := qt.CNOT(control, target); err != nil {
			return err
		}
		return qt.Phase(1, topRight, control)
	case isSame(bottomLeft, -topRight):
		if err := qt.CZ(control, target); err != nil {
			return err
		}
		if err := qt.CNOT(control, target); err != nil {
			return err
		}
		return qt.Phase(1, -topRight, control)
	}

	return ErrUnsupported
}

// MACPhase is the anti-controlled form of MCPhase.
func (qt *Tableau) MACPhase(controls []int, topLeft, bottomRight complex128, target int) error {
	if len(controls) == 0 {
		return qt.Phase(topLeft, bottomRight, target)
	}

	return qt.antiSandwich(controls[0], func() error {
		return qt.MCPhase(controls, topLeft, bottomRight, target)
	})
}

// MACInvert is the anti-controlled form of MCInvert.
func (qt *Tableau) MACInvert(controls []int, topRight, bottomLeft complex128, target int) error {
	if len(controls) == 0 {
		return qt.Invert(topRight, bottomLeft, target)
	}

	return qt.antiSandwich(controls[0], func() error {
		return qt.MCInvert(controls, topRight, bottomLeft, target)
	})
}

// MCMtrx applies a controlled 2x2 matrix that must be pure phase or pure
// bit-flip form.
func (qt *Tableau) MCMtrx(controls []int, m [4]complex128, target int) error {
	if isNorm0(m[1]) && isNorm0(m[2]) {
		return qt.MCPhase(controls, m[0], m[3], target)
	}
	if isNorm0(m[0]) && isNorm0(m[3]) {
		return qt.MCInvert(controls, m[1], m[2], target)
	}

	return ErrUnsupported
}

// MACMtrx applies an anti-controlled 2x2 matrix that must be pure phase
// or pure bit-flip form.
func (qt *Tableau) MACMtrx(controls []int, m [4]complex128, target int) error {
	if isNorm0(m[1]) && isNorm0(m[2]) {
		return qt.MACPhase(controls, m[0], m[3], target)
	}
	if isNorm0(m[0]) && isNorm0(m[3]) {
		return qt.MACInvert(controls, m[1], m[2], target)
	}

	return ErrUnsupported
}

// UCMtrx applies m to the target when the control qubits match the bit
// pattern controlPerm (bit i of controlPerm gates controls[i]).
func (qt *Tableau) UCMtrx(controls []int, m [4]complex128, target int, controlPerm uint64) error {
	for _, c := range controls {
		if c < 0 || c >= qt.qubitCount {
			return ErrQubitIndex
		}
	}

	flip := func() error {
		for i, c := range controls {
			if (controlPerm>>uint(i))&1 == 0 {
				if err := qt.X(c); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := flip(); err != nil {
		return err
	}
	err := qt.MCMtrx(controls, m, target)
	if fErr := flip(); fErr != nil {
		return fErr
	}

	return err
}

// FSim applies the two-qubit fermionic simulation gate at the Clifford
// angles: theta a multiple of pi/2 and phi a multiple of pi/2. All
// checks happen before any mutation.
func (qt *Tableau) FSim(theta, phi float64, qubit1, qubit2 int) error {
	if qubit1 < 0 || qubit1 >= qt.qubitCount || qubit2 < 0 || qubit2 >= qt.qubitCount || qubit1 == qubit2 {
		return ErrQubitIndex
	}

	phase := cmplx.Exp(complex(0, phi))
	if !isCliffordPhase(phase) {
		return ErrUnsupported
	}

	controls := []int{qubit1}
	sinTheta := math.Sin(theta)

	if sinTheta*sinTheta <= normEpsilon {
		return qt.MCPhase(controls, 1, phase, qubit2)
	}

	if diff := 1 + sinTheta; diff*diff <= normEpsilon {
		if err := qt.ISwap(qubit1, qubit2); err != nil {
			return err
		}
		return qt.MCPhase(controls, 1, phase, qubit2)
	}

	if diff := 1 - sinTheta; diff*diff <= normEpsilon {
		if err := qt.IISwap(qubit1, qubit2); err != nil {
			return err
		}
		return qt.MCPhase(controls, 1, phase, qubit2)
	}

	return ErrUnsupported
}
