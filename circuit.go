package qstab

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Gate is one queued circuit operation: a target qubit, a sorted control
list, and a payload per control permutation. Bit j of a payload key
gives the required state of controls[j]. A gate with no payloads is a
swap marker between target and its single control.
*/
type Gate struct {
	Target   int
	Controls []int
	Payloads map[uint64]*[4]complex128
}

// NewGate queues an uncontrolled single-qubit payload.
func NewGate(m [4]complex128, target int) *Gate {
	p := m

	return &Gate{
		Target:   target,
		Payloads: map[uint64]*[4]complex128{0: &p},
	}
}

// NewControlledGate queues a payload applied where the controls read
// out the bit pattern perm.
func NewControlledGate(m [4]complex128, target int, controls []int, perm uint64) *Gate {
	p := m
	cs := append([]int(nil), controls...)
	sort.Ints(cs)

	return &Gate{
		Target:   target,
		Controls: cs,
		Payloads: map[uint64]*[4]complex128{perm: &p},
	}
}

func newSwapGate(qubit1, qubit2 int) *Gate {
	return &Gate{
		Target:   qubit1,
		Controls: []int{qubit2},
		Payloads: map[uint64]*[4]complex128{},
	}
}

// Clone returns a deep copy of the gate.
func (g *Gate) Clone() *Gate {
	c := &Gate{
		Target:   g.Target,
		Controls: append([]int(nil), g.Controls...),
		Payloads: make(map[uint64]*[4]complex128, len(g.Payloads)),
	}
	for k, m := range g.Payloads {
		p := *m
		c.Payloads[k] = &p
	}

	return c
}

func (g *Gate) isSwap() bool {
	return len(g.Payloads) == 0
}

func sameControls(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// mul2x2 returns the matrix product l*r.
func mul2x2(l, r [4]complex128) [4]complex128 {
	return [4]complex128{
		l[0]*r[0] + l[1]*r[2],
		l[0]*r[1] + l[1]*r[3],
		l[2]*r[0] + l[3]*r[2],
		l[2]*r[1] + l[3]*r[3],
	}
}

func isIdentityMtrx(m [4]complex128) bool {
	return isSame(m[0], m[3]) && isNorm0(m[1]) && isNorm0(m[2]) &&
		isSame(m[0], complex(1, 0))
}

// CanCombine reports whether other acts on the same target with the
// same control structure, so the two payload maps can be fused.
func (g *Gate) CanCombine(other *Gate) bool {
	if g.isSwap() || other.isSwap() {
		return false
	}
	if g.Target != other.Target {
		return false
	}

	return sameControls(g.Controls, other.Controls)
}

// Combine fuses other's payloads on top of this gate's, multiplying
// matrices that share a control permutation and dropping payloads that
// cancel to identity.
func (g *Gate) Combine(other *Gate) {
	for k, m := range other.Payloads {
		if mine, ok := g.Payloads[k]; ok {
			out := mul2x2(*m, *mine)
			if isIdentityMtrx(out) {
				delete(g.Payloads, k)
			} else {
				g.Payloads[k] = &out
			}
		} else {
			p := *m
			g.Payloads[k] = &p
		}
	}

	if len(g.Payloads) == 0 {
		g.Clear()
	}
}

// TryCombine fuses other into this gate when the control structures
// match, reporting whether it did.
func (g *Gate) TryCombine(other *Gate) bool {
	if !g.CanCombine(other) {
		return false
	}
	g.Combine(other)

	return true
}

// Clear resets the gate to an uncontrolled identity.
func (g *Gate) Clear() {
	g.Controls = nil
	g.Payloads = map[uint64]*[4]complex128{0: {1, 0, 0, 1}}
}

// IsIdentity reports whether the gate has collapsed to an uncontrolled
// identity and can be dropped.
func (g *Gate) IsIdentity() bool {
	if g.isSwap() || len(g.Controls) != 0 || len(g.Payloads) != 1 {
		return false
	}
	m, ok := g.Payloads[0]

	return ok && isIdentityMtrx(*m)
}

// IsPhase reports whether every payload is diagonal.
func (g *Gate) IsPhase() bool {
	if g.isSwap() {
		return false
	}
	for _, m := range g.Payloads {
		if !isNorm0(m[1]) || !isNorm0(m[2]) {
			return false
		}
	}

	return true
}

// IsInvert reports whether every payload is anti-diagonal.
func (g *Gate) IsInvert() bool {
	if g.isSwap() {
		return false
	}
	for _, m := range g.Payloads {
		if !isNorm0(m[0]) || !isNorm0(m[3]) {
			return false
		}
	}

	return true
}

// IsCnot reports whether the gate is exactly a CNOT: one control, one
// payload on the control-high branch, and that payload is X.
func (g *Gate) IsCnot() bool {
	if len(g.Controls) != 1 || len(g.Payloads) != 1 {
		return false
	}
	m, ok := g.Payloads[1]

	return ok && isNorm0(m[0]) && isNorm0(m[3]) &&
		isSame(m[1], complex(1, 0)) && isSame(m[2], complex(1, 0))
}

func controlIndex(controls []int, q int) int {
	for i, c := range controls {
		if c == q {
			return i
		}
	}

	return -1
}

/*
CanPass reports whether this gate commutes past other, so other can be
reordered ahead of it while scanning the queue. When this gate is a
pure bit flip on one of other's controls, passing flips the matching
bit in other's payload keys; that remap is applied as a side effect.
*/
func (g *Gate) CanPass(other *Gate) bool {
	if g.isSwap() || other.isSwap() {
		return false
	}

	if ci := controlIndex(other.Controls, g.Target); ci >= 0 {
		if controlIndex(g.Controls, other.Target) >= 0 {
			return false
		}
		if g.IsPhase() {
			return other.IsPhase()
		}
		if !g.IsInvert() || len(g.Controls) != 0 {
			return false
		}

		remapped := make(map[uint64]*[4]complex128, len(other.Payloads))
		for k, m := range other.Payloads {
			remapped[k^(uint64(1)<<uint(ci))] = m
		}
		other.Payloads = remapped

		return true
	}

	if controlIndex(g.Controls, other.Target) >= 0 {
		return other.IsPhase()
	}

	return g.Target != other.Target || (g.IsPhase() && other.IsPhase())
}

/*
Circuit is an order-preserving queue of gates with peephole reduction
on append: a new gate is fused into the most recent gate it can
combine with, commuting past intervening gates where the algebra
allows, so redundant Clifford chatter cancels before a simulator ever
sees it.
*/
type Circuit struct {
	mu         sync.Mutex
	qubitCount int
	gates      []*Gate
}

// NewCircuit returns an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

// GetQubitCount returns the highest qubit index any queued gate
// touches, plus one.
func (qc *Circuit) GetQubitCount() int {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	return qc.qubitCount
}

// GateCount returns the current queue depth.
func (qc *Circuit) GateCount() int {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	return len(qc.gates)
}

// AppendGate queues a gate, fusing and reordering against the existing
// queue where possible.
func (qc *Circuit) AppendGate(g *Gate) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	qc.appendGateLocked(g)
}

func (qc *Circuit) appendGateLocked(g *Gate) {
	if g.IsIdentity() {
		return
	}

	if g.Target+1 > qc.qubitCount {
		qc.qubitCount = g.Target + 1
	}
	for _, c := range g.Controls {
		if c+1 > qc.qubitCount {
			qc.qubitCount = c + 1
		}
	}

	for i := len(qc.gates) - 1; i >= 0; i-- {
		if qc.gates[i].TryCombine(g) {
			if qc.gates[i].IsIdentity() {
				qc.gates = append(qc.gates[:i], qc.gates[i+1:]...)
			}
			return
		}
		if !qc.gates[i].CanPass(g) {
			qc.gates = append(qc.gates, nil)
			copy(qc.gates[i+2:], qc.gates[i+1:])
			qc.gates[i+1] = g
			return
		}
	}

	qc.gates = append([]*Gate{g}, qc.gates...)
}

// Swap queues a swap of two qubits as a CNOT triplet, so it fuses with
// neighboring CNOTs and reduces back to a native swap at run time.
func (qc *Circuit) Swap(qubit1, qubit2 int) {
	if qubit1 == qubit2 {
		return
	}
	if qubit2 < qubit1 {
		qubit1, qubit2 = qubit2, qubit1
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()

	qc.appendGateLocked(NewControlledGate(mtrxX, qubit1, []int{qubit2}, 1))
	qc.appendGateLocked(NewControlledGate(mtrxX, qubit2, []int{qubit1}, 1))
	qc.appendGateLocked(NewControlledGate(mtrxX, qubit1, []int{qubit2}, 1))
}

// isSwapTriplet reports whether three successive gates are the CNOT
// triplet equivalent to Swap(a, b).
func isSwapTriplet(a, b, c *Gate) bool {
	if !a.IsCnot() || !b.IsCnot() || !c.IsCnot() {
		return false
	}

	return a.Target == c.Target && sameControls(a.Controls, c.Controls) &&
		b.Target == a.Controls[0] && b.Controls[0] == a.Target
}

// Run plays the queued gates against a simulator, widening it first if
// the circuit touches qubits the simulator does not yet have.
func (qc *Circuit) Run(sim Simulator) error {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	if missing := qc.qubitCount - sim.GetQubitCount(); missing > 0 {
		if _, err := sim.Allocate(sim.GetQubitCount(), missing); err != nil {
			return err
		}
	}

	errnie.Info("circuit run: %d gates on %d qubits", len(qc.gates), qc.qubitCount)

	for i := 0; i < len(qc.gates); i++ {
		g := qc.gates[i]

		if i+2 < len(qc.gates) && isSwapTriplet(g, qc.gates[i+1], qc.gates[i+2]) {
			if err := sim.Swap(g.Target, g.Controls[0]); err != nil {
				return err
			}
			i += 2
			continue
		}

		if err := runGate(sim, g); err != nil {
			return err
		}
	}

	return nil
}

func runGate(sim Simulator, g *Gate) error {
	if g.isSwap() {
		return sim.Swap(g.Target, g.Controls[0])
	}
	if len(g.Controls) == 0 {
		return sim.Mtrx(*g.Payloads[0], g.Target)
	}

	keys := make([]uint64, 0, len(g.Payloads))
	for k := range g.Payloads {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, k := range keys {
		if err := sim.UCMtrx(g.Controls, *g.Payloads[k], g.Target, k); err != nil {
			return err
		}
	}

	return nil
}

// WriteTo serializes the circuit as whitespace-separated text: the
// qubit count, the gate count, then per gate the target, control
// count, controls, payload count, and per payload the key and four
// complex entries.
func (qc *Circuit) WriteTo(w io.Writer) (int64, error) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	var total int64
	put := func(format string, args ...interface{}) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)

		return err
	}

	if err := put("%d\n", qc.qubitCount); err != nil {
		return total, err
	}
	if err := put("%d\n", len(qc.gates)); err != nil {
		return total, err
	}
	for _, g := range qc.gates {
		if err := put("%d %d", g.Target, len(g.Controls)); err != nil {
			return total, err
		}
		for _, c := range g.Controls {
			if err := put(" %d", c); err != nil {
				return total, err
			}
		}
		if err := put(" %d\n", len(g.Payloads)); err != nil {
			return total, err
		}

		keys := make([]uint64, 0, len(g.Payloads))
		for k := range g.Payloads {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, k := range keys {
			m := g.Payloads[k]
			if err := put("%d", k); err != nil {
				return total, err
			}
			for _, e := range m {
				if err := put(" %.17g %.17g", real(e), imag(e)); err != nil {
					return total, err
				}
			}
			if err := put("\n"); err != nil {
				return total, err
			}
		}
	}

	return total, nil
}

// ReadFrom replaces the circuit's contents with a queue serialized by
// WriteTo. Gates are re-appended one by one, so the peephole reduction
// applies to the loaded queue as well.
func (qc *Circuit) ReadFrom(r io.Reader) (int64, error) {
	cr := &countingReader{r: r}
	r = cr

	var qubitCount, gateCount int
	if _, err := fmt.Fscan(r, &qubitCount); err != nil {
		return cr.n, err
	}
	if _, err := fmt.Fscan(r, &gateCount); err != nil {
		return cr.n, err
	}

	loaded := &Circuit{}
	for i := 0; i < gateCount; i++ {
		var target, controlCount int
		if _, err := fmt.Fscan(r, &target, &controlCount); err != nil {
			return cr.n, err
		}

		controls := make([]int, controlCount)
		for j := range controls {
			if _, err := fmt.Fscan(r, &controls[j]); err != nil {
				return cr.n, err
			}
		}

		var payloadCount int
		if _, err := fmt.Fscan(r, &payloadCount); err != nil {
			return cr.n, err
		}

		g := &Gate{
			Target:   target,
			Controls: controls,
			Payloads: make(map[uint64]*[4]complex128, payloadCount),
		}
		for j := 0; j < payloadCount; j++ {
			var key uint64
			if _, err := fmt.Fscan(r, &key); err != nil {
				return cr.n, err
			}
			var m [4]complex128
			for e := 0; e < 4; e++ {
				var re, im float64
				if _, err := fmt.Fscan(r, &re, &im); err != nil {
					return cr.n, err
				}
				m[e] = complex(re, im)
			}
			g.Payloads[key] = &m
		}

		loaded.appendGateLocked(g)
	}

	// The serialized width can exceed what the surviving gates touch,
	// for example after a queue fuses down to the identity.
	if qubitCount > loaded.qubitCount {
		loaded.qubitCount = qubitCount
	}

	qc.mu.Lock()
	defer qc.mu.Unlock()
	qc.qubitCount = loaded.qubitCount
	qc.gates = loaded.gates

	return cr.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)

	return n, err
}
