package qstab

/*
gaussian row-reduces the stabilizer block into quasi-upper-triangular
form: first a minimal set of generators carrying X or Y components,
then the generators carrying only Z components. The return value g is
the number of X/Y-bearing generators, so the state has exactly 2^g
nonzero basis amplitudes. Destabilizer rows receive the mirrored
transpose updates that keep the generator pairing intact.
*/
func (qt *Tableau) gaussian() int {
	n := qt.qubitCount
	maxLcv := n << 1
	i := n

	for j := 0; j < n; j++ {
		k := i
		for ; k < maxLcv; k++ {
			if qt.x[k].Test(uint(j)) {
				break
			}
		}
		if k >= maxLcv {
			continue
		}

		qt.rowswap(i, k)
		qt.rowswap(i-n, k-n)
		for k2 := i + 1; k2 < maxLcv; k2++ {
			if qt.x[k2].Test(uint(j)) {
				qt.rowmult(k2, i)
				qt.rowmult(i-n, k2-n)
			}
		}
		i++
	}

	g := i - n

	for j := 0; j < n; j++ {
		k := i
		for ; k < maxLcv; k++ {
			if qt.z[k].Test(uint(j)) {
				break
			}
		}
		if k >= maxLcv {
			continue
		}

		qt.rowswap(i, k)
		qt.rowswap(i-n, k-n)
		for k2 := i + 1; k2 < maxLcv; k2++ {
			if qt.z[k2].Test(uint(j)) {
				qt.rowmult(k2, i)
				qt.rowmult(i-n, k2-n)
			}
		}
		i++
	}

	return g
}

// PermCount returns the number of nonzero-amplitude basis states.
func (qt *Tableau) PermCount() uint64 {
	return uint64(1) << uint(qt.gaussian())
}

/*
seed writes into the scratch row a Pauli operator P such that P|0...0>
has nonzero overlap with the encoded state. gaussian must have been run
immediately before; g is its return value. Walking the Z-only
generators bottom-up, the scratch X-string is corrected wherever the
accumulated sign disagrees with the generator's phase.
*/
func (qt *Tableau) seed(g int) {
	n := qt.qubitCount
	scratch := n << 1
	qt.zeroRow(scratch)

	for i := scratch - 1; i >= n+g; i-- {
		f := int(qt.r[i])
		min := 0
		for j := n - 1; j >= 0; j-- {
			if qt.z[i].Test(uint(j)) {
				min = j
				if qt.x[scratch].Test(uint(j)) {
					f = (f + 2) & 3
				}
			}
		}
		if f == 2 {
			qt.x[scratch].Flip(uint(min))
		}
	}
}
