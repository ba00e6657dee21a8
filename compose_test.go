package qstab

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompose(t *testing.T) {
	Convey("Given two basis-state registers", t, func() {
		qt := NewTableau(2, 3)
		other := NewTableau(1, 1)

		Convey("Composing at the end concatenates them", func() {
			start, err := qt.Compose(other, 2)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, 2)
			So(qt.GetQubitCount(), ShouldEqual, 3)

			state := qt.GetQuantumStateMap()
			So(len(state), ShouldEqual, 1)
			So(state, ShouldContainKey, uint64(7))
		})

		Convey("Composing in the middle renumbers the upper qubits", func() {
			start, err := qt.Compose(other, 1)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, 1)

			state := qt.GetQuantumStateMap()
			So(len(state), ShouldEqual, 1)
			So(state, ShouldContainKey, uint64(7))
		})

		Convey("An out-of-range insertion point is rejected", func() {
			_, err := qt.Compose(other, 3)
			So(err, ShouldEqual, ErrQubitIndex)
		})
	})

	Convey("Given an entangled register and a superposed one", t, func() {
		qt := bellPair()
		other := NewTableau(1, 0)
		So(other.H(0), ShouldBeNil)

		Convey("Composition preserves both states unentangled", func() {
			_, err := qt.Compose(other, 1)
			So(err, ShouldBeNil)
			So(qt.PermCount(), ShouldEqual, uint64(4))

			// Bell pair now lives on qubits 0 and 2, |+> on qubit 1.
			probs := make([]float64, 8)
			So(qt.GetProbs(probs), ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.25, testEpsilon)
			So(probs[2], ShouldAlmostEqual, 0.25, testEpsilon)
			So(probs[5], ShouldAlmostEqual, 0.25, testEpsilon)
			So(probs[7], ShouldAlmostEqual, 0.25, testEpsilon)

			ok, sErr := qt.TrySeparate(1)
			So(sErr, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})
	})
}

func TestAllocate(t *testing.T) {
	Convey("Given a Bell pair", t, func() {
		qt := bellPair()

		Convey("Allocating widens the register with |0> qubits", func() {
			start, err := qt.Allocate(1, 2)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, 1)
			So(qt.GetQubitCount(), ShouldEqual, 4)

			// The pair is now on qubits 0 and 3.
			probs := make([]float64, 16)
			So(qt.GetProbs(probs), ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.5, testEpsilon)
			So(probs[9], ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("Allocating zero qubits is a no-op", func() {
			_, err := qt.Allocate(0, 0)
			So(err, ShouldBeNil)
			So(qt.GetQubitCount(), ShouldEqual, 2)
		})
	})
}

func TestDecompose(t *testing.T) {
	Convey("Given a Bell pair alongside a product qubit in |1>", t, func() {
		qt := bellPair()
		other := NewTableau(1, 1)
		_, err := qt.Compose(other, 2)
		So(err, ShouldBeNil)

		Convey("The product qubit decomposes out", func() {
			dest, dErr := qt.Decompose(2, 1)
			So(dErr, ShouldBeNil)
			So(dest.GetQubitCount(), ShouldEqual, 1)
			So(qt.GetQubitCount(), ShouldEqual, 2)

			state := dest.GetQuantumStateMap()
			So(len(state), ShouldEqual, 1)
			So(state, ShouldContainKey, uint64(1))

			probs := make([]float64, 4)
			So(qt.GetProbs(probs), ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.5, testEpsilon)
			So(probs[3], ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("The pair decomposes out jointly", func() {
			dest, dErr := qt.Decompose(0, 2)
			So(dErr, ShouldBeNil)
			So(dest.GetQubitCount(), ShouldEqual, 2)
			So(qt.GetQubitCount(), ShouldEqual, 1)

			probs := make([]float64, 4)
			So(dest.GetProbs(probs), ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.5, testEpsilon)
			So(probs[3], ShouldAlmostEqual, 0.5, testEpsilon)

			state := qt.GetQuantumStateMap()
			So(state, ShouldContainKey, uint64(1))
		})

		Convey("Splitting the pair is rejected", func() {
			_, dErr := qt.Decompose(1, 1)
			So(dErr, ShouldEqual, ErrNotSeparable)
		})
	})
}

func TestDispose(t *testing.T) {
	Convey("Given a Bell pair alongside a product qubit", t, func() {
		qt := bellPair()
		_, err := qt.Allocate(2, 1)
		So(err, ShouldBeNil)
		So(qt.X(2), ShouldBeNil)

		Convey("Disposing the product qubit keeps the pair intact", func() {
			So(qt.Dispose(2, 1), ShouldBeNil)
			So(qt.GetQubitCount(), ShouldEqual, 2)

			probs := make([]float64, 4)
			So(qt.GetProbs(probs), ShouldBeNil)
			So(probs[0], ShouldAlmostEqual, 0.5, testEpsilon)
			So(probs[3], ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("Disposing an entangled qubit is rejected", func() {
			So(qt.Dispose(0, 1), ShouldEqual, ErrNotSeparable)
		})

		Convey("Disposing an out-of-range span is rejected", func() {
			So(qt.Dispose(2, 2), ShouldEqual, ErrQubitIndex)
		})
	})
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	Convey("Given a register built from two halves", t, func() {
		left := bellPair()
		want := left.Clone().GetQuantumStateMap()

		right := NewTableau(2, 0)
		So(right.H(0), ShouldBeNil)
		So(right.S(0), ShouldBeNil)
		So(right.CNOT(0, 1), ShouldBeNil)
		wantRight := right.Clone().GetQuantumStateMap()

		_, err := left.Compose(right, 2)
		So(err, ShouldBeNil)
		So(left.GetQubitCount(), ShouldEqual, 4)

		Convey("Decomposing recovers both halves", func() {
			back, dErr := left.Decompose(2, 2)
			So(dErr, ShouldBeNil)

			So(statesMatchUpToPhase(back.GetQuantumStateMap(), wantRight), ShouldBeTrue)
			So(statesMatchUpToPhase(left.GetQuantumStateMap(), want), ShouldBeTrue)
		})
	})
}
