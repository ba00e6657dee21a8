package qstab

import "math/cmplx"

// normEpsilon is the threshold below which an amplitude norm is treated
// as zero, matching the tolerance of the phase-reconciliation loop.
const normEpsilon = 1e-12

func norm(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}

/*
parFor runs fn over every generator row, using the dispatcher when one
was injected. Qubit indices are validated up front so that an invalid
call never mutates any row. When global phase tracking is enabled and
the update is phase-aware, a pre-gate clone is sampled afterwards to
fold the observed amplitude ratio into the scalar phase offset; the
clone is disposable per call and never escapes.
*/
func (qt *Tableau) parFor(qubits []int, phaseAware, invert bool, fn func(int)) error {
	for _, q := range qubits {
		if q < 0 || q >= qt.qubitCount {
			return ErrQubitIndex
		}
	}

	isPhase := phaseAware && !qt.randGlobalPhase
	var before *Tableau
	if isPhase {
		before = qt.Clone()
	}

	qt.dispatcher.ParFor(qt.qubitCount<<1, fn)

	if !isPhase {
		return nil
	}

	t := qubits[len(qubits)-1]
	invert = invert || qt.isSeparableZ(t)
	tPow := uint64(1) << uint(t)

	maxQPower := uint64(1) << uint(qt.qubitCount)
	for perm := uint64(0); perm < maxQPower; perm++ {
		oAmp, err := before.GetAmplitude(perm)
		if err != nil || norm(oAmp) <= normEpsilon {
			continue
		}
		nPerm := perm
		if invert {
			nPerm ^= tPow
		}
		nAmp, err := qt.GetAmplitude(nPerm)
		if err != nil || norm(nAmp) <= normEpsilon {
			continue
		}

		qt.phaseOffset *= (oAmp * complex(cmplx.Abs(nAmp), 0)) /
			(nAmp * complex(cmplx.Abs(oAmp), 0))
		break
	}

	return nil
}

// Per-row transforms. Each one is the standard CHP tableau update for a
// single gate, applied to generator row i.

func (qt *Tableau) rowH(i, t int) {
	ut := uint(t)
	xt, zt := qt.x[i].Test(ut), qt.z[i].Test(ut)
	qt.x[i].SetTo(ut, zt)
	qt.z[i].SetTo(ut, xt)
	if xt && zt {
		qt.r[i] ^= 2
	}
}

func (qt *Tableau) rowS(i, t int) {
	ut := uint(t)
	xt, zt := qt.x[i].Test(ut), qt.z[i].Test(ut)
	if xt && zt {
		qt.r[i] ^= 2
	}
	qt.z[i].SetTo(ut, zt != xt)
}

func (qt *Tableau) rowIS(i, t int) {
	ut := uint(t)
	xt, zt := qt.x[i].Test(ut), qt.z[i].Test(ut)
	zt = zt != xt
	qt.z[i].SetTo(ut, zt)
	if xt && zt {
		qt.r[i] ^= 2
	}
}

func (qt *Tableau) rowX(i, t int) {
	if qt.z[i].Test(uint(t)) {
		qt.r[i] ^= 2
	}
}

func (qt *Tableau) rowY(i, t int) {
	ut := uint(t)
	if qt.x[i].Test(ut) != qt.z[i].Test(ut) {
		qt.r[i] ^= 2
	}
}

func (qt *Tableau) rowZ(i, t int) {
	if qt.x[i].Test(uint(t)) {
		qt.r[i] ^= 2
	}
}

func (qt *Tableau) rowCNOT(i, c, t int) {
	uc, ut := uint(c), uint(t)
	xc, zc := qt.x[i].Test(uc), qt.z[i].Test(uc)
	xt, zt := qt.x[i].Test(ut), qt.z[i].Test(ut)
	if xc && zt && xt == zc {
		qt.r[i] ^= 2
	}
	qt.x[i].SetTo(ut, xt != xc)
	qt.z[i].SetTo(uc, zc != zt)
}

func (qt *Tableau) rowCZ(i, c, t int) {
	uc, ut := uint(c), uint(t)
	xc, zc := qt.x[i].Test(uc), qt.z[i].Test(uc)
	xt, zt := qt.x[i].Test(ut), qt.z[i].Test(ut)
	if xc && xt && zt != zc {
		qt.r[i] ^= 2
	}
	qt.z[i].SetTo(ut, zt != xc)
	qt.z[i].SetTo(uc, zc != xt)
}

func (qt *Tableau) rowSwapBits(i, a, b int) {
	ua, ub := uint(a), uint(b)
	xa, xb := qt.x[i].Test(ua), qt.x[i].Test(ub)
	qt.x[i].SetTo(ua, xb)
	qt.x[i].SetTo(ub, xa)
	za, zb := qt.z[i].Test(ua), qt.z[i].Test(ub)
	qt.z[i].SetTo(ua, zb)
	qt.z[i].SetTo(ub, za)
}

// H applies a Hadamard gate to the target qubit.
func (qt *Tableau) H(target int) error {
	return qt.parFor([]int{target}, false, false, func(i int) {
		qt.rowH(i, target)
	})
}

// X applies a Pauli X (NOT) gate to the target qubit.
func (qt *Tableau) X(target int) error {
	return qt.parFor([]int{target}, true, true, func(i int) {
		qt.rowX(i, target)
	})
}

// Y applies a Pauli Y gate to the target qubit.
func (qt *Tableau) Y(target int) error {
	return qt.parFor([]int{target}, true, true, func(i int) {
		qt.rowY(i, target)
	})
}

// Z applies a Pauli Z gate to the target qubit.
func (qt *Tableau) Z(target int) error {
	return qt.parFor([]int{target}, true, false, func(i int) {
		qt.rowZ(i, target)
	})
}

// S applies the phase gate |1> -> i|1> to the target qubit.
func (qt *Tableau) S(target int) error {
	return qt.parFor([]int{target}, true, false, func(i int) {
		qt.rowS(i, target)
	})
}

// IS applies the inverse phase gate |1> -> -i|1> to the target qubit.
func (qt *Tableau) IS(target int) error {
	return qt.parFor([]int{target}, true, false, func(i int) {
		qt.rowIS(i, target)
	})
}

// CNOT applies a controlled NOT with the given control and target.
func (qt *Tableau) CNOT(control, target int) error {
	if control == target {
		return ErrQubitIndex
	}

	return qt.parFor([]int{control, target}, true, true, func(i int) {
		qt.rowCNOT(i, control, target)
	})
}

// CY applies a controlled Pauli Y with the given control and target.
func (qt *Tableau) CY(control, target int) error {
	if control == target {
		return ErrQubitIndex
	}

	return qt.parFor([]int{control, target}, true, true, func(i int) {
		qt.rowIS(i, target)
		qt.rowCNOT(i, control, target)
		qt.rowS(i, target)
	})
}

// CZ applies a controlled Pauli Z with the given control and target.
func (qt *Tableau) CZ(control, target int) error {
	if control == target {
		return ErrQubitIndex
	}

	return qt.parFor([]int{control, target}, true, false, func(i int) {
		qt.rowCZ(i, control, target)
	})
}

// AntiCNOT applies a CNOT conditioned on the control being |0>.
func (qt *Tableau) AntiCNOT(control, target int) error {
	return qt.antiSandwich(control, func() error {
		return qt.CNOT(control, target)
	})
}

// AntiCY applies a CY conditioned on the control being |0>.
func (qt *Tableau) AntiCY(control, target int) error {
	return qt.antiSandwich(control, func() error {
		return qt.CY(control, target)
	})
}

// AntiCZ applies a CZ conditioned on the control being |0>.
func (qt *Tableau) AntiCZ(control, target int) error {
	return qt.antiSandwich(control, func() error {
		return qt.CZ(control, target)
	})
}

// antiSandwich conjugates a controlled gate by X on the control, turning
// it into its anti-controlled form. The inner gate validates before it
// mutates, so a failure leaves no net state change.
func (qt *Tableau) antiSandwich(control int, gate func() error) error {
	if control < 0 || control >= qt.qubitCount {
		return ErrQubitIndex
	}

	if err := qt.X(control); err != nil {
		return err
	}
	err := gate()
	if xErr := qt.X(control); xErr != nil {
		return xErr
	}

	return err
}

// Swap exchanges two qubits.
func (qt *Tableau) Swap(qubit1, qubit2 int) error {
	if qubit1 == qubit2 {
		if qubit1 < 0 || qubit1 >= qt.qubitCount {
			return ErrQubitIndex
		}
		return nil
	}

	return qt.parFor([]int{qubit1, qubit2}, false, false, func(i int) {
		qt.rowSwapBits(i, qubit1, qubit2)
	})
}

// ISwap exchanges two qubits and phases the swapped amplitudes by i.
func (qt *Tableau) ISwap(qubit1, qubit2 int) error {
	if qubit1 == qubit2 {
		return ErrQubitIndex
	}

	return qt.parFor([]int{qubit1, qubit2}, true, false, func(i int) {
		qt.rowH(i, qubit2)
		qt.rowCNOT(i, qubit2, qubit1)
		qt.rowCNOT(i, qubit1, qubit2)
		qt.rowH(i, qubit1)
		qt.rowS(i, qubit2)
		qt.rowS(i, qubit1)
	})
}

// IISwap exchanges two qubits and phases the swapped amplitudes by -i;
// it is the inverse of ISwap.
func (qt *Tableau) IISwap(qubit1, qubit2 int) error {
	if qubit1 == qubit2 {
		return ErrQubitIndex
	}

	return qt.parFor([]int{qubit1, qubit2}, true, false, func(i int) {
		qt.rowIS(i, qubit1)
		qt.rowIS(i, qubit2)
		qt.rowH(i, qubit1)
		qt.rowCNOT(i, qubit1, qubit2)
		qt.rowCNOT(i, qubit2, qubit1)
		qt.rowH(i, qubit2)
	})
}
