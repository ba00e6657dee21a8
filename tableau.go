package qstab

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/davecgh/go-spew/spew"
)

/*
Tableau is the CHP (CNOT-Hadamard-Phase) representation of an n-qubit
stabilizer state: 2n+1 rows of X-bits and Z-bits over GF(2) plus a 2-bit
phase code per row. Rows [0,n) are destabilizer generators, rows [n,2n)
are stabilizer generators, and row 2n is scratch space for measurement
and amplitude extraction. Well-formed stabilizer and destabilizer rows
always carry a real phase (code 0 or 2); the imaginary codes appear only
transiently in scratch computation.

The tableau tracks global phase in two parts: the exact per-row phase
codes, and a single complex unit scalar for the remainder that the four
discrete values cannot express. The scalar stays at one unless global
phase tracking is enabled.

A Tableau is single-writer: the worker pool is used only inside one
gate's row loop, and callers synchronize externally if they share an
instance across goroutines.
*/
type Tableau struct {
	qubitCount int

	// Row-major bit matrices, 2n+1 rows of n columns each.
	x []*bitset.BitSet
	z []*bitset.BitSet
	// Phase codes: 0 for +1, 1 for +i, 2 for -1, 3 for -i.
	r []uint8

	phaseOffset     complex128
	randGlobalPhase bool

	rng        RandomSource
	dispatcher *Dispatcher
}

// TableauOption configures a new Tableau.
type TableauOption func(*Tableau)

// WithRandomSource injects the entropy source used for undetermined
// measurement outcomes.
func WithRandomSource(rng RandomSource) TableauOption {
	return func(qt *Tableau) {
		qt.rng = rng
	}
}

// WithDispatcher enables parallel row updates through the given pool.
func WithDispatcher(d *Dispatcher) TableauOption {
	return func(qt *Tableau) {
		qt.dispatcher = d
	}
}

// WithGlobalPhaseTracking makes the tableau maintain the scalar phase
// offset so that reported amplitudes keep a consistent global phase.
func WithGlobalPhaseTracking() TableauOption {
	return func(qt *Tableau) {
		qt.randGlobalPhase = false
	}
}

// NewTableau creates an n-qubit register in the computational basis state
// perm. Qubit i corresponds to bit i of perm.
func NewTableau(n int, perm uint64, opts ...TableauOption) *Tableau {
	qt := &Tableau{
		qubitCount:      n,
		phaseOffset:     1,
		randGlobalPhase: true,
	}

	for _, opt := range opts {
		opt(qt)
	}

	if qt.rng == nil {
		qt.rng = defaultRandom()
	}

	qt.allocRows(n)
	qt.SetPermutation(perm)

	return qt
}

func (qt *Tableau) allocRows(n int) {
	rows := (n << 1) + 1
	qt.x = make([]*bitset.BitSet, rows)
	qt.z = make([]*bitset.BitSet, rows)
	qt.r = make([]uint8, rows)
	for i := range qt.x {
		qt.x[i] = bitset.New(uint(n))
		qt.z[i] = bitset.New(uint(n))
	}
}

// GetQubitCount returns the current register width.
func (qt *Tableau) GetQubitCount() int {
	return qt.qubitCount
}

// Kind reports the representation behind this simulator.
func (qt *Tableau) Kind() EngineKind {
	return KindStabilizer
}

// GetPhaseOffset returns the tracked scalar part of the global phase.
func (qt *Tableau) GetPhaseOffset() complex128 {
	return qt.phaseOffset
}

// ResetPhaseOffset discards the tracked scalar phase.
func (qt *Tableau) ResetPhaseOffset() {
	qt.phaseOffset = 1
}

// SetRandGlobalPhase toggles global phase tracking; true means the global
// phase is left arbitrary.
func (qt *Tableau) SetRandGlobalPhase(isRand bool) {
	qt.randGlobalPhase = isRand
}

// SetPermutation resets the register to the computational basis state
// perm, discarding the scalar phase offset.
func (qt *Tableau) SetPermutation(perm uint64) {
	qt.phaseOffset = 1

	n := qt.qubitCount
	for i := range qt.x {
		qt.zeroRow(i)
	}
	for i := 0; i < n; i++ {
		qt.x[i].Set(uint(i))
		qt.z[n+i].Set(uint(i))
		if (perm>>uint(i))&1 == 1 {
			qt.r[n+i] = 2
		}
	}
}

// Clear resets to a zero-qubit register.
func (qt *Tableau) Clear() {
	qt.qubitCount = 0
	qt.phaseOffset = 1
	qt.allocRows(0)
}

// Clone returns a deep copy sharing the entropy source and dispatcher.
func (qt *Tableau) Clone() *Tableau {
	c := &Tableau{
		qubitCount:      qt.qubitCount,
		phaseOffset:     qt.phaseOffset,
		randGlobalPhase: qt.randGlobalPhase,
		rng:             qt.rng,
		dispatcher:      qt.dispatcher,
	}

	rows := len(qt.x)
	c.x = make([]*bitset.BitSet, rows)
	c.z = make([]*bitset.BitSet, rows)
	c.r = make([]uint8, rows)
	for i := 0; i < rows; i++ {
		c.x[i] = qt.x[i].Clone()
		c.z[i] = qt.z[i].Clone()
		c.r[i] = qt.r[i]
	}

	return c
}

func (qt *Tableau) zeroRow(i int) {
	qt.x[i].ClearAll()
	qt.z[i].ClearAll()
	qt.r[i] = 0
}

// rowcopy sets row i equal to row k.
func (qt *Tableau) rowcopy(i, k int) {
	if i == k {
		return
	}

	qt.x[k].Copy(qt.x[i])
	qt.z[k].Copy(qt.z[i])
	qt.r[i] = qt.r[k]
}

// rowswap exchanges rows i and k; the logical state is unchanged.
func (qt *Tableau) rowswap(i, k int) {
	if i == k {
		return
	}

	qt.x[i], qt.x[k] = qt.x[k], qt.x[i]
	qt.z[i], qt.z[k] = qt.z[k], qt.z[i]
	qt.r[i], qt.r[k] = qt.r[k], qt.r[i]
}

// rowset sets row i to the bth observable: X_b for b < n, else Z_(b-n).
func (qt *Tableau) rowset(i, b int) {
	qt.zeroRow(i)

	if b < qt.qubitCount {
		qt.x[i].Set(uint(b))
	} else {
		qt.z[i].Set(uint(b - qt.qubitCount))
	}
}

// rowmult left-multiplies row i by row k; row k is unmodified.
func (qt *Tableau) rowmult(i, k int) {
	qt.r[i] = qt.clifford(i, k)
	qt.x[i].InPlaceSymmetricDifference(qt.x[k])
	qt.z[i].InPlaceSymmetricDifference(qt.z[k])
}

// clifford returns the phase code that results from left-multiplying the
// Pauli string of row i by that of row k, using the X*Z = -iY sign
// convention per column.
func (qt *Tableau) clifford(i, k int) uint8 {
	e := 0
	for j := 0; j < qt.qubitCount; j++ {
		xi, zi := qt.x[i].Test(uint(j)), qt.z[i].Test(uint(j))
		xk, zk := boolToInt(qt.x[k].Test(uint(j))), boolToInt(qt.z[k].Test(uint(j)))

		switch {
		case xi && zi:
			e += xk - zk
		case xi:
			e += zk * (1 - 2*xk)
		case zi:
			e += xk * (2*zk - 1)
		}
	}

	e += int(qt.r[i]) + int(qt.r[k])
	e = ((e % 4) + 4) % 4

	if i >= qt.qubitCount && k >= qt.qubitCount && i < qt.qubitCount<<1 && k < qt.qubitCount<<1 && e&1 != 0 {
		// Products of stabilizer generators cannot leave the real phases;
		// the scratch row may hold +/-i transiently during extraction.
		panic(fmt.Sprintf("qstab: odd phase exponent %d multiplying rows %d and %d", e, i, k))
	}

	return uint8(e)
}

// commutes reports whether the Pauli strings of rows i and k commute
// (symplectic inner product zero).
func (qt *Tableau) commutes(i, k int) bool {
	parity := 0
	for j := 0; j < qt.qubitCount; j++ {
		uj := uint(j)
		if qt.x[i].Test(uj) && qt.z[k].Test(uj) {
			parity ^= 1
		}
		if qt.z[i].Test(uj) && qt.x[k].Test(uj) {
			parity ^= 1
		}
	}

	return parity == 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// Dump renders the raw tableau for debugging.
func (qt *Tableau) Dump() string {
	type row struct {
		X, Z string
		R    uint8
	}

	rows := make([]row, len(qt.x))
	for i := range qt.x {
		rows[i] = row{X: qt.x[i].DumpAsBits(), Z: qt.z[i].DumpAsBits(), R: qt.r[i]}
	}

	return spew.Sdump(struct {
		QubitCount  int
		PhaseOffset complex128
		Rows        []row
	}{qt.qubitCount, qt.phaseOffset, rows})
}
