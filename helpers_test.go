package qstab

import "math/cmplx"

const testEpsilon = 1e-9

// statesMatchUpToPhase reports whether two sparse state vectors agree
// up to one overall unit phase.
func statesMatchUpToPhase(a, b map[uint64]complex128) bool {
	if len(a) != len(b) {
		return false
	}

	var ref complex128
	for k, av := range a {
		bv, ok := b[k]
		if !ok || cmplx.Abs(bv) < testEpsilon {
			return false
		}
		if ref == 0 {
			ref = av / bv
		}
		if cmplx.Abs(av-ref*bv) > testEpsilon {
			return false
		}
	}

	return true
}

func denseToMap(sv *StateVector) map[uint64]complex128 {
	out := make(map[uint64]complex128)
	for i, amp := range sv.amplitudes {
		if cmplx.Abs(amp) > testEpsilon {
			out[uint64(i)] = amp
		}
	}

	return out
}

// bellPair returns a two-qubit register in (|00> + |11>)/sqrt(2).
func bellPair(opts ...TableauOption) *Tableau {
	qt := NewTableau(2, 0, opts...)
	if err := qt.H(0); err != nil {
		panic(err)
	}
	if err := qt.CNOT(0, 1); err != nil {
		panic(err)
	}

	return qt
}
