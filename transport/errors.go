package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/opd-ai/sockconn/interfaces"
)

// Errors returned by target connections
var (
	// ErrInvalidProtocol indicates an unrecognized protocol name or kind
	ErrInvalidProtocol = errors.New("invalid protocol specified")

	// ErrMissingPort indicates a port-requiring kind was configured without a port
	ErrMissingPort = errors.New("port required for protocol")

	// ErrTargetConnectionRefused indicates the target refused the connection.
	// The target may accept a later attempt.
	ErrTargetConnectionRefused = errors.New("target connection refused")

	// ErrReceiveNotSupported indicates the connection cannot receive,
	// e.g. UDP without a bind address
	ErrReceiveNotSupported = errors.New("receive not supported")

	// ErrNotOpen indicates an operation on a connection without a live handle
	ErrNotOpen = errors.New("connection not open")

	// ErrRawSocketsUnsupported indicates raw link sockets are unavailable on this platform
	ErrRawSocketsUnsupported = errors.New("raw sockets not supported on this platform")

	// ErrInvalidL2Address indicates a link destination that is not 6 bytes long
	ErrInvalidL2Address = errors.New("link destination must be 6 bytes")

	// ErrUnknownInterface indicates the raw socket interface does not exist
	ErrUnknownInterface = errors.New("unknown network interface")

	// ErrInvalidTimeout indicates a non-positive send/recv timeout
	ErrInvalidTimeout = interfaces.ErrInvalidTimeout
)

// ConnError records a failed connection operation and the error that caused it.
type ConnError struct {
	Op   string // open, send, recv or close
	Kind Kind   // transport kind of the connection
	Addr string // target address or interface, if relevant
	Err  error  // underlying error
}

func (e *ConnError) Error() string {
	if e.Addr != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Kind, e.Op, e.Addr, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *ConnError) Unwrap() error {
	return e.Err
}

// newConnError creates a new ConnError
func newConnError(op string, kind Kind, addr string, err error) *ConnError {
	return &ConnError{
		Op:   op,
		Kind: kind,
		Addr: addr,
		Err:  err,
	}
}

// recoverableErrnos are receive-time errors meaning the target went away or
// stayed silent.
var recoverableErrnos = []syscall.Errno{
	syscall.ECONNABORTED,
	syscall.ECONNREFUSED,
	syscall.ECONNRESET,
	syscall.ENETRESET,
	syscall.ETIMEDOUT,
}

// IsRecoverable reports whether a receive error should be read as "no data".
// Timeouts, end of stream and the peer-disconnect errno set qualify;
// everything else is a fault the caller must see.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range recoverableErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	for _, errno := range platformRecoverableErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// isConnectionRefused reports whether a connect error is a refusal.
func isConnectionRefused(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	for _, errno := range platformRefusedErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// refusedError marks a connect error as a target refusal while keeping the cause.
func refusedError(err error) error {
	return fmt.Errorf("%w: %w", ErrTargetConnectionRefused, err)
}
