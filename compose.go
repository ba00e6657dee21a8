package qstab

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// insertBits returns a copy of row with count zero columns inserted at
// position at, widening it from oldN to oldN+count columns.
func insertBits(row *bitset.BitSet, oldN, at, count int) *bitset.BitSet {
	out := bitset.New(uint(oldN + count))
	for j := 0; j < oldN; j++ {
		if !row.Test(uint(j)) {
			continue
		}
		if j < at {
			out.Set(uint(j))
		} else {
			out.Set(uint(j + count))
		}
	}

	return out
}

// deleteBits returns a copy of row with columns [start, start+length)
// removed, narrowing it from oldN to oldN-length columns.
func deleteBits(row *bitset.BitSet, oldN, start, length int) *bitset.BitSet {
	out := bitset.New(uint(oldN - length))
	for j := 0; j < oldN; j++ {
		if !row.Test(uint(j)) {
			continue
		}
		if j < start {
			out.Set(uint(j))
		} else if j >= start+length {
			out.Set(uint(j - length))
		}
	}

	return out
}

// extractBits returns the columns [start, start+length) of row as a new
// length-column row.
func extractBits(row *bitset.BitSet, start, length int) *bitset.BitSet {
	out := bitset.New(uint(length))
	for j := 0; j < length; j++ {
		if row.Test(uint(start + j)) {
			out.Set(uint(j))
		}
	}

	return out
}

/*
Compose block-extends the register with another register's qubits at
position start, renumbering columns above the insertion point. The two
registers are joined unentangled: the inserted generator rows keep
their own support and every existing row gains zero columns. Returns
the index where the new qubits begin.
*/
func (qt *Tableau) Compose(other *Tableau, start int) (int, error) {
	if start < 0 || start > qt.qubitCount {
		return 0, ErrQubitIndex
	}

	n := qt.qubitCount
	m := other.qubitCount
	if m == 0 {
		return start, nil
	}
	nN := n + m

	x := make([]*bitset.BitSet, (nN<<1)+1)
	z := make([]*bitset.BitSet, (nN<<1)+1)
	r := make([]uint8, (nN<<1)+1)

	place := func(dst int, srcX, srcZ *bitset.BitSet, srcR uint8, fromOther bool) {
		if fromOther {
			wide := bitset.New(uint(nN))
			for j := 0; j < m; j++ {
				if srcX.Test(uint(j)) {
					wide.Set(uint(start + j))
				}
			}
			x[dst] = wide
			wide = bitset.New(uint(nN))
			for j := 0; j < m; j++ {
				if srcZ.Test(uint(j)) {
					wide.Set(uint(start + j))
				}
			}
			z[dst] = wide
		} else {
			x[dst] = insertBits(srcX, n, start, m)
			z[dst] = insertBits(srcZ, n, start, m)
		}
		r[dst] = srcR
	}

	for block := 0; block < 2; block++ {
		dst := block * nN
		srcBase := block * n
		otherBase := block * m

		for i := 0; i < start; i++ {
			place(dst, qt.x[srcBase+i], qt.z[srcBase+i], qt.r[srcBase+i], false)
			dst++
		}
		for i := 0; i < m; i++ {
			place(dst, other.x[otherBase+i], other.z[otherBase+i], other.r[otherBase+i], true)
			dst++
		}
		for i := start; i < n; i++ {
			place(dst, qt.x[srcBase+i], qt.z[srcBase+i], qt.r[srcBase+i], false)
			dst++
		}
	}

	scratch := nN << 1
	x[scratch] = bitset.New(uint(nN))
	z[scratch] = bitset.New(uint(nN))

	qt.x, qt.z, qt.r = x, z, r
	qt.qubitCount = nN
	qt.phaseOffset *= other.phaseOffset

	return start, nil
}

// Allocate appends length fresh |0> qubits at position start and
// returns that position.
func (qt *Tableau) Allocate(start, length int) (int, error) {
	if start < 0 || start > qt.qubitCount || length < 0 {
		return 0, ErrQubitIndex
	}
	if length == 0 {
		return start, nil
	}

	fresh := NewTableau(length, 0,
		WithRandomSource(qt.rng), WithDispatcher(qt.dispatcher))
	fresh.randGlobalPhase = qt.randGlobalPhase

	return qt.Compose(fresh, start)
}

// Decompose factors the qubit range out into a new register, shrinking
// this one. The range must be separable from the remainder.
func (qt *Tableau) Decompose(start, length int) (*Tableau, error) {
	dest := NewTableau(length, 0,
		WithRandomSource(qt.rng), WithDispatcher(qt.dispatcher))
	dest.randGlobalPhase = qt.randGlobalPhase

	if err := qt.decomposeDispose(start, length, dest); err != nil {
		return nil, err
	}

	return dest, nil
}

// Dispose discards a separable qubit range, shrinking the register.
func (qt *Tableau) Dispose(start, length int) error {
	return qt.decomposeDispose(start, length, nil)
}

/*
decomposeDispose canonicalizes the tableau, pairs off the generator
rows supported inside the target range, moves them (restricted to the
range's columns) into dest when one is given, and rebuilds this
register from the remaining pairs with the range's columns removed.
*/
func (qt *Tableau) decomposeDispose(start, length int, dest *Tableau) error {
	if start < 0 || length < 0 || start+length > qt.qubitCount {
		return ErrQubitIndex
	}
	if length == 0 {
		return nil
	}

	qt.gaussian()

	n := qt.qubitCount
	end := start + length
	var inRows, outRows []int
	for s := n; s < n<<1; s++ {
		in, out := qt.pairSupport(s, start, end)
		if in && out {
			return ErrNotSeparable
		}
		if in {
			inRows = append(inRows, s)
		} else {
			outRows = append(outRows, s)
		}
	}
	if len(inRows) != length {
		return ErrNotSeparable
	}

	sort.Ints(inRows)
	sort.Ints(outRows)

	if dest != nil {
		dest.allocRows(length)
		dest.qubitCount = length
		dest.phaseOffset = 1
		for i, s := range inRows {
			d := s - n
			dest.x[i] = extractBits(qt.x[d], start, length)
			dest.z[i] = extractBits(qt.z[d], start, length)
			dest.r[i] = qt.r[d]
			dest.x[length+i] = extractBits(qt.x[s], start, length)
			dest.z[length+i] = extractBits(qt.z[s], start, length)
			dest.r[length+i] = qt.r[s]
		}
	}

	nN := n - length
	x := make([]*bitset.BitSet, (nN<<1)+1)
	z := make([]*bitset.BitSet, (nN<<1)+1)
	r := make([]uint8, (nN<<1)+1)
	for i, s := range outRows {
		d := s - n
		x[i] = deleteBits(qt.x[d], n, start, length)
		z[i] = deleteBits(qt.z[d], n, start, length)
		r[i] = qt.r[d]
		x[nN+i] = deleteBits(qt.x[s], n, start, length)
		z[nN+i] = deleteBits(qt.z[s], n, start, length)
		r[nN+i] = qt.r[s]
	}
	scratch := nN << 1
	x[scratch] = bitset.New(uint(nN))
	z[scratch] = bitset.New(uint(nN))

	qt.x, qt.z, qt.r = x, z, r
	qt.qubitCount = nN

	return nil
}
