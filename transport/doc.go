// Package transport implements target connections over TCP, TLS, UDP and raw
// packet sockets behind one Open/Send/Recv/Close contract, so a fuzzing
// harness can drive any of them without per-protocol branching.
//
// # Kinds
//
// The kind is fixed at construction and selects everything else:
//
//	kind     socket                    addressing               ceiling
//	tcp      IPv4 stream               host:port, connected     none
//	ssl      IPv4 stream + TLS         host:port, connected     none
//	udp      IPv4 datagram             host:port per send       MaxUDPPayload()
//	raw-l2   AF_PACKET/SOCK_RAW        interface                1514
//	raw-l3   AF_PACKET/SOCK_DGRAM      interface, EtherType,    1500
//	                                   link destination
//
// Protocol names are case-insensitive and "tls" is accepted for "ssl".
//
// # Construction
//
//	conn, err := transport.New("127.0.0.1",
//	    transport.WithPort(8888),
//	    transport.WithProto("udp"),
//	    transport.WithBind("127.0.0.1", 9999),
//	    transport.WithTimeout(2*time.Second),
//	)
//
// Construction validates the configuration and performs no network I/O.
// tcp, ssl and udp require a port (ErrMissingPort); unknown protocol names
// fail with ErrInvalidProtocol. The UDP ceiling is queried from the host once
// per connection.
//
// # Sending
//
// Send silently drops bytes beyond the kind's ceiling and returns the count
// the OS accepted. Stream kinds never truncate.
//
// raw-l3 sends go to a sockaddr_ll built from the interface, the configured
// EtherType (default 0x0800) and link destination (default broadcast), so
// payloads start at the network header.
//
// # Receiving
//
// Recv treats an unresponsive or vanished target as routine: a timeout, end
// of stream, or one of ECONNABORTED, ECONNREFUSED, ECONNRESET, ENETRESET or
// ETIMEDOUT produces an empty payload and a nil error. IsRecoverable holds
// that rule and can be used on its own. Other errors are returned as
// *ConnError values wrapping the cause.
//
// Raw kinds never receive and always return an empty payload. UDP receives
// only with a bind address; without one Recv fails with
// ErrReceiveNotSupported.
//
// # Platform Support
//
// Raw kinds need Linux and CAP_NET_RAW. On other platforms Open fails with
// ErrRawSocketsUnsupported.
//
// # Thread Safety
//
// A connection owns one handle and has no internal locking. Use one
// connection per goroutine or serialize access.
package transport
