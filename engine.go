package qstab

import "math"

// EngineKind identifies the representation behind a Simulator.
type EngineKind int

const (
	KindStabilizer EngineKind = iota
	KindStateVector
)

func (k EngineKind) String() string {
	switch k {
	case KindStabilizer:
		return "stabilizer"
	case KindStateVector:
		return "statevector"
	}

	return "unknown"
}

// IsClifford reports whether the engine is restricted to the Clifford
// gate set.
func (k EngineKind) IsClifford() bool {
	return k == KindStabilizer
}

/*
Simulator is the surface a circuit needs to run against a register,
satisfied by both the stabilizer tableau and the dense state vector.
Mtrx and UCMtrx may return ErrUnsupported when the payload falls
outside what the representation can express.
*/
type Simulator interface {
	Kind() EngineKind
	GetQubitCount() int
	Allocate(start, length int) (int, error)
	Mtrx(m [4]complex128, target int) error
	UCMtrx(controls []int, m [4]complex128, target int, perm uint64) error
	Swap(qubit1, qubit2 int) error
	M(target int) (bool, error)
	GetAmplitude(perm uint64) (complex128, error)
	GetAmplitudes(perms []uint64) ([]complex128, error)
	SetAmplitude(perm uint64, amp complex128) error
}

// AmplitudeSink receives a state vector pushed out of a register.
type AmplitudeSink interface {
	ZeroAmplitudes()
	SetAmplitude(perm uint64, amp complex128) error
}

var (
	_ Simulator = (*Tableau)(nil)
	_ Simulator = (*StateVector)(nil)

	_ AmplitudeSink = (*StateVector)(nil)
)

var (
	sqrt1_2 = complex(math.Sqrt2/2, 0)

	mtrxH  = [4]complex128{sqrt1_2, sqrt1_2, sqrt1_2, -sqrt1_2}
	mtrxX  = [4]complex128{0, 1, 1, 0}
	mtrxY  = [4]complex128{0, -1i, 1i, 0}
	mtrxZ  = [4]complex128{1, 0, 0, -1}
	mtrxS  = [4]complex128{1, 0, 0, 1i}
	mtrxIS = [4]complex128{1, 0, 0, -1i}
	mtrxI  = [4]complex128{1, 0, 0, 1}
)
