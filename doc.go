// Package sockconn provides a uniform connection to a fuzzing target over
// TCP, TLS, UDP and raw link- or network-layer sockets.
//
// A fuzzing harness drives every target through the same four calls:
// Open, Send, Recv and Close. The transport kind is chosen once, when the
// connection is constructed, and decides how each call reaches the wire.
//
// # Getting Started
//
// Construct a connection with options and drive it directly:
//
//	conn, err := sockconn.New("127.0.0.1",
//	    transport.WithPort(8888),
//	    transport.WithProto("udp"),
//	    transport.WithBind("127.0.0.1", 9999),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := conn.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	conn.Send([]byte("ping"))
//	reply, err := conn.Recv(4)
//
// Or open a target described by a URL:
//
//	conn, err := sockconn.Open("ssl://example.com:443?timeout=2000")
//
// # Transport Kinds
//
//	tcp      plain stream connection
//	ssl/tls  stream connection upgraded with a client TLS handshake
//	udp      datagram socket, optionally bound locally; Recv requires a bind
//	raw-l2   AF_PACKET SOCK_RAW on a named interface, whole Ethernet frames
//	raw-l3   AF_PACKET SOCK_DGRAM on a named interface, network-layer packets
//
// Send truncates payloads to the kind's ceiling (1514 bytes for raw-l2, 1500
// for raw-l3, the platform maximum datagram for udp) and reports how many
// bytes the kernel accepted.
//
// Recv returns an empty payload and a nil error when the target times out,
// closes the stream, or resets the connection, so a harness can keep going
// against a crashed target. Raw kinds always receive an empty payload.
//
// # Errors
//
// Failures carry a [transport.ConnError] with the operation, kind and
// address. Sentinels such as [transport.ErrTargetConnectionRefused] and
// [transport.ErrReceiveNotSupported] can be tested with errors.Is.
//
// # Simulation
//
// Set SOCKCONN_USE_SIMULATION=true, or use the [factory] package directly,
// to obtain in-memory connections from the testing package that record
// payloads and replay scripted responses without touching the network.
//
// # Thread Safety
//
// Connections are not safe for concurrent use. The factory is.
package sockconn
