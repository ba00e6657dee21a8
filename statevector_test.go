package qstab

import (
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStateVectorBasics(t *testing.T) {
	Convey("Given a fresh dense register", t, func() {
		sv := NewStateVector(2, 2)

		So(sv.GetQubitCount(), ShouldEqual, 2)
		So(sv.Kind(), ShouldEqual, KindStateVector)
		So(sv.Kind().IsClifford(), ShouldBeFalse)

		amp, err := sv.GetAmplitude(2)
		So(err, ShouldBeNil)
		So(real(amp), ShouldAlmostEqual, 1, testEpsilon)

		Convey("Out-of-range lookups are rejected", func() {
			_, err = sv.GetAmplitude(4)
			So(err, ShouldEqual, ErrQubitIndex)
		})
	})
}

func TestStateVectorGates(t *testing.T) {
	Convey("Given standard gates on the dense engine", t, func() {
		Convey("H splits the amplitude evenly", func() {
			sv := NewStateVector(1, 0)
			So(sv.H(0), ShouldBeNil)

			p, err := sv.Prob(0)
			So(err, ShouldBeNil)
			So(p, ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("A Bell pair forms from H and CNOT", func() {
			sv := NewStateVector(2, 0)
			So(sv.H(0), ShouldBeNil)
			So(sv.CNOT(0, 1), ShouldBeNil)

			a0, _ := sv.GetAmplitude(0)
			a3, _ := sv.GetAmplitude(3)
			So(cmplx.Abs(a0)*cmplx.Abs(a0), ShouldAlmostEqual, 0.5, testEpsilon)
			So(cmplx.Abs(a3)*cmplx.Abs(a3), ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("A non-Clifford payload is accepted", func() {
			sv := NewStateVector(1, 0)
			tGate := [4]complex128{1, 0, 0, cmplx.Exp(complex(0, 0.25))}

			So(sv.H(0), ShouldBeNil)
			So(sv.Mtrx(tGate, 0), ShouldBeNil)

			a1, _ := sv.GetAmplitude(1)
			So(cmplx.Abs(a1)*cmplx.Abs(a1), ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("Swap moves an excitation", func() {
			sv := NewStateVector(2, 1)
			So(sv.Swap(0, 1), ShouldBeNil)

			a2, _ := sv.GetAmplitude(2)
			So(cmplx.Abs(a2), ShouldAlmostEqual, 1, testEpsilon)
		})

		Convey("ISwap adds the i phase and IISwap removes it", func() {
			sv := NewStateVector(2, 1)
			So(sv.ISwap(0, 1), ShouldBeNil)

			a2, _ := sv.GetAmplitude(2)
			So(imag(a2), ShouldAlmostEqual, 1, testEpsilon)

			So(sv.IISwap(0, 1), ShouldBeNil)
			a1, _ := sv.GetAmplitude(1)
			So(real(a1), ShouldAlmostEqual, 1, testEpsilon)
		})
	})
}

func TestStateVectorControls(t *testing.T) {
	Convey("Given control-pattern dispatch", t, func() {
		Convey("MCMtrx fires only on all-ones controls", func() {
			sv := NewStateVector(3, 3)
			So(sv.MCMtrx([]int{0, 1}, mtrxX, 2), ShouldBeNil)

			a7, _ := sv.GetAmplitude(7)
			So(cmplx.Abs(a7), ShouldAlmostEqual, 1, testEpsilon)
		})

		Convey("MACMtrx fires only on all-zero controls", func() {
			sv := NewStateVector(3, 0)
			So(sv.MACMtrx([]int{0, 1}, mtrxX, 2), ShouldBeNil)

			a4, _ := sv.GetAmplitude(4)
			So(cmplx.Abs(a4), ShouldAlmostEqual, 1, testEpsilon)
		})

		Convey("UCMtrx matches the exact control pattern", func() {
			sv := NewStateVector(3, 1)
			So(sv.UCMtrx([]int{0, 1}, mtrxX, 2, 1), ShouldBeNil)

			a5, _ := sv.GetAmplitude(5)
			So(cmplx.Abs(a5), ShouldAlmostEqual, 1, testEpsilon)

			sv2 := NewStateVector(3, 3)
			So(sv2.UCMtrx([]int{0, 1}, mtrxX, 2, 1), ShouldBeNil)

			a3, _ := sv2.GetAmplitude(3)
			So(cmplx.Abs(a3), ShouldAlmostEqual, 1, testEpsilon)
		})

		Convey("A control coinciding with the target is rejected", func() {
			sv := NewStateVector(2, 0)
			So(sv.MCMtrx([]int{1}, mtrxX, 1), ShouldEqual, ErrQubitIndex)
		})
	})
}

func TestStateVectorMeasurement(t *testing.T) {
	Convey("Given a superposed dense register", t, func() {
		sv := NewStateVector(2, 0,
			WithStateVectorRandomSource(NewPseudoRandom(17)))
		So(sv.H(0), ShouldBeNil)
		So(sv.CNOT(0, 1), ShouldBeNil)

		Convey("Measurement collapses and renormalizes", func() {
			outcome, err := sv.M(0)
			So(err, ShouldBeNil)

			partner, err := sv.M(1)
			So(err, ShouldBeNil)
			So(partner, ShouldEqual, outcome)

			p, err := sv.Prob(0)
			So(err, ShouldBeNil)
			if outcome {
				So(p, ShouldAlmostEqual, 1, testEpsilon)
			} else {
				So(p, ShouldAlmostEqual, 0, testEpsilon)
			}
		})
	})
}

func TestStateVectorAllocate(t *testing.T) {
	Convey("Given a dense register in |1>", t, func() {
		sv := NewStateVector(1, 1)

		Convey("Allocating below shifts the occupied qubit up", func() {
			start, err := sv.Allocate(0, 1)
			So(err, ShouldBeNil)
			So(start, ShouldEqual, 0)
			So(sv.GetQubitCount(), ShouldEqual, 2)

			a2, _ := sv.GetAmplitude(2)
			So(cmplx.Abs(a2), ShouldAlmostEqual, 1, testEpsilon)
		})

		Convey("Allocating above leaves the state index alone", func() {
			_, err := sv.Allocate(1, 2)
			So(err, ShouldBeNil)
			So(sv.GetQubitCount(), ShouldEqual, 3)

			a1, _ := sv.GetAmplitude(1)
			So(cmplx.Abs(a1), ShouldAlmostEqual, 1, testEpsilon)
		})
	})
}

func TestStateVectorAsSink(t *testing.T) {
	Convey("Given explicit amplitude injection", t, func() {
		sv := NewStateVector(1, 0)
		sv.ZeroAmplitudes()

		So(sv.SetAmplitude(1, 1i), ShouldBeNil)

		amp, err := sv.GetAmplitude(1)
		So(err, ShouldBeNil)
		So(imag(amp), ShouldAlmostEqual, 1, testEpsilon)

		So(sv.SetAmplitude(2, 1), ShouldEqual, ErrQubitIndex)
	})
}
