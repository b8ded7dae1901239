package interfaces

import "errors"

// ITargetConnection is the capability set a fuzzing harness needs from a
// connection to its target: open a handle, push opaque payloads at it, read
// whatever comes back, and release the handle.
type ITargetConnection interface {
	// Open acquires the underlying handle. It may be called again after
	// Close to obtain a fresh handle.
	Open() error

	// Close releases the underlying handle.
	Close() error

	// Send transmits data and returns the number of bytes accepted.
	// Implementations may truncate data to a transport-specific ceiling.
	Send(data []byte) (int, error)

	// Recv reads up to maxBytes. A silent or vanished target yields an
	// empty payload and a nil error.
	Recv(maxBytes int) ([]byte, error)
}

var (
	// ErrInvalidTimeout indicates a non-positive timeout was configured
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrEmptyProto indicates no default protocol was configured
	ErrEmptyProto = errors.New("default protocol must not be empty")
)

// TargetConnectionConfig holds configuration for target connection factories
type TargetConnectionConfig struct {
	// UseSimulation determines whether to use simulation or real sockets
	UseSimulation bool

	// TimeoutMs sets the send/recv timeout in milliseconds
	TimeoutMs int

	// DefaultProto is the protocol used when the caller names none
	DefaultProto string
}

// Validate checks the configuration for values no connection could use.
func (c *TargetConnectionConfig) Validate() error {
	if c.TimeoutMs <= 0 {
		return ErrInvalidTimeout
	}
	if c.DefaultProto == "" {
		return ErrEmptyProto
	}
	return nil
}
