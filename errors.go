package qstab

import "errors"

var (
	// ErrQubitIndex is returned when an operation names a qubit outside the
	// current register. The tableau is never mutated on an invalid index.
	ErrQubitIndex = errors.New("qubit index is out of bounds")

	// ErrUnsupported is returned when a non-Clifford operation reaches the
	// stabilizer representation. The intended recovery is to fall back to a
	// dense engine, not to retry.
	ErrUnsupported = errors.New("operation not implemented for this representation")

	// ErrNotSeparable is returned when a decompose/dispose target range is
	// still entangled with the remainder of the register.
	ErrNotSeparable = errors.New("qubit range is entangled with the remainder of the register")

	// ErrInconsistentForce is returned when a forced measurement outcome
	// contradicts a qubit whose value is already determined.
	ErrInconsistentForce = errors.New("forced measurement contradicts a deterministic outcome")

	// ErrBufferSize is returned when a caller-supplied amplitude or
	// probability buffer does not cover the full basis.
	ErrBufferSize = errors.New("output buffer does not match the register size")
)
