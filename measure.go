package qstab

/*
ForceM measures qubit t in the Z basis. When doForce is set the outcome
is forced to result instead of being drawn from the entropy source;
when doApply is unset the state is left uncollapsed and only the
outcome is reported.

If some stabilizer generator anticommutes with Z_t the outcome is
undetermined: the generator set is updated by the standard collapse
(anticommuting rows are multiplied out, the old generator moves to the
destabilizer block, and the measured +/-Z_t takes its place). Otherwise
the outcome is already determined and is recovered by accumulating, in
the scratch row, the stabilizer generators selected by the destabilizer
X-bits; the generator blocks are left untouched. Forcing an outcome
that contradicts a determined value returns ErrInconsistentForce
without mutating anything.
*/
func (qt *Tableau) ForceM(t int, result bool, doForce, doApply bool) (bool, error) {
	if t < 0 || t >= qt.qubitCount {
		return false, ErrQubitIndex
	}

	n := qt.qubitCount
	ut := uint(t)

	p := -1
	for i := n; i < n<<1; i++ {
		if qt.x[i].Test(ut) {
			p = i
			break
		}
	}

	if p >= 0 {
		outcome := result
		if !doForce {
			outcome = qt.rng.NextBool()
		}
		if !doApply {
			return outcome, nil
		}

		d := p - n
		qt.rowcopy(d, p)
		qt.rowset(p, t+n)
		if outcome {
			qt.r[p] = 2
		}
		for i := 0; i < n<<1; i++ {
			if i != d && qt.x[i].Test(ut) {
				qt.rowmult(i, d)
			}
		}

		return outcome, nil
	}

	scratch := n << 1
	qt.zeroRow(scratch)
	for i := 0; i < n; i++ {
		if qt.x[i].Test(ut) {
			qt.rowmult(scratch, i+n)
		}
	}
	outcome := qt.r[scratch] == 2

	if doForce && result != outcome {
		return outcome, ErrInconsistentForce
	}

	return outcome, nil
}

// M measures qubit t, drawing one bit of entropy if the outcome is
// undetermined.
func (qt *Tableau) M(t int) (bool, error) {
	return qt.ForceM(t, false, false, true)
}

// Prob returns the probability of measuring qubit t as |1>: exactly 0
// or 1 for a determined qubit, exactly one half otherwise.
func (qt *Tableau) Prob(t int) (float64, error) {
	if t < 0 || t >= qt.qubitCount {
		return 0, ErrQubitIndex
	}

	if !qt.isSeparableZ(t) {
		return 0.5, nil
	}

	outcome, err := qt.ForceM(t, false, false, false)
	if err != nil {
		return 0, err
	}
	if outcome {
		return 1, nil
	}

	return 0, nil
}
