package transport

import (
	"fmt"
	"net"

	"github.com/opd-ai/sockconn/limits"
	"github.com/sirupsen/logrus"
)

// variant is the per-kind implementation behind a SocketConnection.
// Each variant owns its handle and its addressing and receive rules.
type variant interface {
	open() error
	send(data []byte) (int, error)
	recv(maxBytes int) ([]byte, error)
	close() error
	isOpen() bool
	localAddr() net.Addr
}

// SocketConnection is a target connection over one OS socket. The socket
// kind is fixed at construction; Open creates a fresh handle each time it is
// called and Close releases it.
//
// A SocketConnection is not safe for concurrent use.
// It satisfies interfaces.ITargetConnection.
type SocketConnection struct {
	config   Config
	ceilings map[Kind]int
	variant  variant
}

// New creates a connection to host. The kind defaults to tcp; see the
// With* options for the rest of the configuration. No network I/O happens
// until Open.
func New(host string, opts ...Option) (*SocketConnection, error) {
	cfg := DefaultConfig(host)
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "New",
				"host":     host,
				"error":    err.Error(),
			}).Error("Invalid connection option")
			return nil, err
		}
	}
	return NewFromConfig(cfg)
}

// NewFromConfig creates a connection from a complete configuration.
func NewFromConfig(cfg Config) (*SocketConnection, error) {
	if err := cfg.Validate(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "NewFromConfig",
			"host":     cfg.Host,
			"proto":    cfg.Kind.String(),
			"error":    err.Error(),
		}).Error("Invalid connection configuration")
		return nil, err
	}

	c := &SocketConnection{
		config:   cfg.clone(),
		ceilings: PayloadCeilings(),
	}

	v, err := newVariant(&c.config)
	if err != nil {
		return nil, err
	}
	c.variant = v

	logrus.WithFields(logrus.Fields{
		"function": "NewFromConfig",
		"proto":    c.config.Kind.String(),
		"target":   c.config.RemoteAddr(),
		"timeout":  c.config.Timeout,
	}).Debug("Created socket connection")

	return c, nil
}

// newVariant picks the implementation for cfg.Kind.
func newVariant(cfg *Config) (variant, error) {
	switch cfg.Kind {
	case TCP, TLS:
		return &streamVariant{cfg: cfg}, nil
	case UDP:
		return &datagramVariant{cfg: cfg}, nil
	case RawLink, RawNetwork:
		return &rawVariant{cfg: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProtocol, cfg.Kind)
	}
}

// PayloadCeilings returns the per-kind send ceilings for this host. The UDP
// entry is queried from the operating system. TCP and TLS have no entry.
func PayloadCeilings() map[Kind]int {
	return map[Kind]int{
		RawLink:    limits.MaxRawLinkFrame,
		RawNetwork: limits.MaxRawNetworkPacket,
		UDP:        limits.MaxUDPPayload(),
	}
}

// Open acquires a socket for the configured kind. For tcp and ssl it
// connects, and for ssl it then performs the TLS handshake. A refused
// connect yields an error matching ErrTargetConnectionRefused. A handle
// left from an earlier Open is closed first.
func (c *SocketConnection) Open() error {
	logrus.WithFields(logrus.Fields{
		"function": "SocketConnection.Open",
		"proto":    c.config.Kind.String(),
		"target":   c.config.RemoteAddr(),
	}).Info("Opening target connection")

	if c.variant.isOpen() {
		if err := c.variant.close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "SocketConnection.Open",
				"proto":    c.config.Kind.String(),
				"target":   c.config.RemoteAddr(),
				"error":    err.Error(),
			}).Warn("Failed to release previous handle before reopening")
		}
	}

	if err := c.variant.open(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SocketConnection.Open",
			"proto":    c.config.Kind.String(),
			"target":   c.config.RemoteAddr(),
			"error":    err.Error(),
		}).Error("Failed to open target connection")
		return err
	}
	return nil
}

// Close releases the socket.
func (c *SocketConnection) Close() error {
	logrus.WithFields(logrus.Fields{
		"function": "SocketConnection.Close",
		"proto":    c.config.Kind.String(),
		"target":   c.config.RemoteAddr(),
	}).Info("Closing target connection")

	return c.variant.close()
}

// Send truncates data to the kind's payload ceiling, if any, and transmits
// it. It returns the number of bytes the OS accepted, which for tcp and ssl
// may be less than len(data).
func (c *SocketConnection) Send(data []byte) (int, error) {
	if ceiling, ok := c.MaxPayload(); ok {
		data = limits.Truncate(data, ceiling)
	}

	n, err := c.variant.send(data)
	if err != nil {
		return n, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "SocketConnection.Send",
		"proto":    c.config.Kind.String(),
		"size":     len(data),
		"sent":     n,
	}).Debug("Sent payload")

	return n, nil
}

// Recv reads up to maxBytes. Timeouts and peer disconnects produce an empty
// payload and a nil error. Raw kinds always return an empty payload. UDP
// without a bind address fails with ErrReceiveNotSupported.
func (c *SocketConnection) Recv(maxBytes int) ([]byte, error) {
	data, err := c.variant.recv(maxBytes)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "SocketConnection.Recv",
		"proto":    c.config.Kind.String(),
		"max":      maxBytes,
		"received": len(data),
	}).Debug("Received payload")

	return data, nil
}

// Kind returns the transport kind.
func (c *SocketConnection) Kind() Kind {
	return c.config.Kind
}

// Config returns a copy of the connection configuration.
func (c *SocketConnection) Config() Config {
	return c.config.clone()
}

// MaxPayload returns the send ceiling of this connection's kind.
// The second result is false for kinds without a ceiling.
func (c *SocketConnection) MaxPayload() (int, bool) {
	ceiling, ok := c.ceilings[c.config.Kind]
	return ceiling, ok
}

// IsOpen reports whether the connection holds a live handle.
func (c *SocketConnection) IsOpen() bool {
	return c.variant.isOpen()
}

// LocalAddr returns the local address of the live handle, or nil for raw
// kinds and closed connections.
func (c *SocketConnection) LocalAddr() net.Addr {
	return c.variant.localAddr()
}

// recoveredEmpty logs a receive error translated to "no data".
func recoveredEmpty(kind Kind, err error) []byte {
	logrus.WithFields(logrus.Fields{
		"function": "SocketConnection.Recv",
		"proto":    kind.String(),
		"error":    err.Error(),
	}).Debug("Receive yielded no data")
	return []byte{}
}
