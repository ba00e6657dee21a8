package qstab

import (
	"math/cmplx"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func ghzState() *Tableau {
	qt := NewTableau(3, 0)
	if err := qt.H(0); err != nil {
		panic(err)
	}
	if err := qt.CNOT(0, 1); err != nil {
		panic(err)
	}
	if err := qt.CNOT(0, 2); err != nil {
		panic(err)
	}

	return qt
}

func TestGetAmplitude(t *testing.T) {
	Convey("Given a GHZ state", t, func() {
		qt := ghzState()

		Convey("Only the all-zero and all-one branches carry weight", func() {
			for perm := uint64(0); perm < 8; perm++ {
				amp, err := qt.GetAmplitude(perm)
				So(err, ShouldBeNil)

				if perm == 0 || perm == 7 {
					So(cmplx.Abs(amp)*cmplx.Abs(amp), ShouldAlmostEqual, 0.5, testEpsilon)
				} else {
					So(cmplx.Abs(amp), ShouldAlmostEqual, 0, testEpsilon)
				}
			}
		})

		Convey("GetAmplitudes answers a batch in order", func() {
			amps, err := qt.GetAmplitudes([]uint64{7, 1, 0})
			So(err, ShouldBeNil)
			So(len(amps), ShouldEqual, 3)
			So(cmplx.Abs(amps[0]), ShouldAlmostEqual, cmplx.Abs(amps[2]), testEpsilon)
			So(cmplx.Abs(amps[1]), ShouldAlmostEqual, 0, testEpsilon)
		})

		Convey("An out-of-range permutation is rejected", func() {
			_, err := qt.GetAmplitude(8)
			So(err, ShouldEqual, ErrQubitIndex)

			_, err = qt.GetAmplitudes([]uint64{0, 8})
			So(err, ShouldEqual, ErrQubitIndex)
		})
	})
}

func TestGetAnyAmplitude(t *testing.T) {
	Convey("Given a GHZ state", t, func() {
		qt := ghzState()

		entry := qt.GetAnyAmplitude()
		So(cmplx.Abs(entry.Amplitude)*cmplx.Abs(entry.Amplitude),
			ShouldAlmostEqual, 0.5, testEpsilon)
		So(entry.Permutation == 0 || entry.Permutation == 7, ShouldBeTrue)
	})
}

func TestGetQubitAmplitude(t *testing.T) {
	Convey("Given a GHZ state", t, func() {
		qt := ghzState()

		Convey("Either outcome of any qubit has support", func() {
			for q := 0; q < 3; q++ {
				for _, m := range []bool{false, true} {
					amp, err := qt.GetQubitAmplitude(q, m)
					So(err, ShouldBeNil)
					So(cmplx.Abs(amp)*cmplx.Abs(amp), ShouldAlmostEqual, 0.5, testEpsilon)
				}
			}
		})

		Convey("An unreachable outcome reports zero", func() {
			basis := NewTableau(2, 1)

			amp, err := basis.GetQubitAmplitude(0, false)
			So(err, ShouldBeNil)
			So(cmplx.Abs(amp), ShouldAlmostEqual, 0, testEpsilon)
		})
	})
}

func TestGetQuantumState(t *testing.T) {
	Convey("Given a GHZ state", t, func() {
		qt := ghzState()

		Convey("The dense buffer form matches the sparse map form", func() {
			buf := make([]complex128, 8)
			So(qt.GetQuantumState(buf), ShouldBeNil)

			state := qt.GetQuantumStateMap()
			So(len(state), ShouldEqual, 2)
			for perm, amp := range state {
				So(cmplx.Abs(buf[perm]-amp), ShouldAlmostEqual, 0, testEpsilon)
			}
		})

		Convey("A missized buffer is rejected", func() {
			So(qt.GetQuantumState(make([]complex128, 4)), ShouldEqual, ErrBufferSize)
			So(qt.GetProbs(make([]float64, 4)), ShouldEqual, ErrBufferSize)
		})

		Convey("Probabilities sum to one", func() {
			probs := make([]float64, 8)
			So(qt.GetProbs(probs), ShouldBeNil)

			var sum float64
			for _, p := range probs {
				sum += p
			}
			So(sum, ShouldAlmostEqual, 1, testEpsilon)
		})
	})
}

func TestGetQuantumStateInto(t *testing.T) {
	Convey("Given a stabilizer state pushed into a dense engine", t, func() {
		qt := ghzState()
		sv := NewStateVector(3, 0)

		So(qt.GetQuantumStateInto(sv), ShouldBeNil)

		Convey("The engines agree amplitude for amplitude", func() {
			So(statesMatchUpToPhase(qt.GetQuantumStateMap(), denseToMap(sv)), ShouldBeTrue)
		})
	})
}

func TestProbMask(t *testing.T) {
	Convey("Given a GHZ state", t, func() {
		qt := ghzState()

		Convey("Single-qubit masks split evenly", func() {
			So(qt.ProbMask(1, 0), ShouldAlmostEqual, 0.5, testEpsilon)
			So(qt.ProbMask(1, 1), ShouldAlmostEqual, 0.5, testEpsilon)
		})

		Convey("Correlated masks expose the entanglement", func() {
			So(qt.ProbMask(3, 3), ShouldAlmostEqual, 0.5, testEpsilon)
			So(qt.ProbMask(3, 0), ShouldAlmostEqual, 0.5, testEpsilon)
			So(qt.ProbMask(3, 1), ShouldAlmostEqual, 0, testEpsilon)
			So(qt.ProbMask(3, 2), ShouldAlmostEqual, 0, testEpsilon)
		})
	})
}

func TestAmplitudeExtractionIsRepeatable(t *testing.T) {
	Convey("Given repeated extraction on the same register", t, func() {
		qt := ghzState()

		first := qt.GetQuantumStateMap()
		second := qt.GetQuantumStateMap()

		So(statesMatchUpToPhase(first, second), ShouldBeTrue)
		So(qt.PermCount(), ShouldEqual, uint64(2))
	})
}

func TestSetAmplitudeUnsupported(t *testing.T) {
	Convey("Given a stabilizer register", t, func() {
		qt := NewTableau(1, 0)

		So(qt.SetAmplitude(0, 0.5), ShouldEqual, ErrUnsupported)
	})
}
