package transport

import (
	"fmt"
	"strings"
)

// Kind selects the socket family, addressing and payload rules of a connection.
type Kind int

const (
	// TCP is a stream socket over IPv4.
	TCP Kind = iota
	// TLS is TCP upgraded with a TLS handshake right after connect.
	TLS
	// UDP is a datagram socket over IPv4.
	UDP
	// RawLink sends caller-built link-layer frames (raw-l2).
	RawLink
	// RawNetwork sends caller-built network-layer packets (raw-l3).
	RawNetwork
)

var kindNames = map[string]Kind{
	"tcp":    TCP,
	"ssl":    TLS,
	"tls":    TLS,
	"udp":    UDP,
	"raw-l2": RawLink,
	"raw-l3": RawNetwork,
}

// ParseKind maps a protocol name to a Kind. Matching is case-insensitive and
// accepts both "ssl" and "tls" for TLS.
func ParseKind(proto string) (Kind, error) {
	kind, ok := kindNames[strings.ToLower(strings.TrimSpace(proto))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProtocol, proto)
	}
	return kind, nil
}

// String returns the canonical protocol name.
func (k Kind) String() string {
	switch k {
	case TCP:
		return "tcp"
	case TLS:
		return "ssl"
	case UDP:
		return "udp"
	case RawLink:
		return "raw-l2"
	case RawNetwork:
		return "raw-l3"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k >= TCP && k <= RawNetwork
}

// RequiresPort reports whether a remote port must be configured.
func (k Kind) RequiresPort() bool {
	return k == TCP || k == TLS || k == UDP
}

// IsRaw reports whether k addresses a local interface rather than a remote host.
func (k Kind) IsRaw() bool {
	return k == RawLink || k == RawNetwork
}
