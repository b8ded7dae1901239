// Package factory creates target connections from environment-aware
// configuration, choosing between real sockets and the in-memory simulation.
//
// # Configuration
//
// Defaults are overridden by environment variables at construction:
//
//	SOCKCONN_USE_SIMULATION   bool    use testing.SimulatedConnection (default false)
//	SOCKCONN_TIMEOUT_MS       int     send/recv timeout, 100..600000 (default 5000)
//	SOCKCONN_DEFAULT_PROTO    string  protocol when none is given (default "tcp")
//
// Invalid values are logged and ignored.
//
// # Usage
//
//	f := factory.NewConnectionFactory()
//
//	conn, err := f.CreateConnection("127.0.0.1", transport.WithPort(8080))
//
//	conn, err = f.CreateConnectionFromURL("udp://127.0.0.1:8888?bind=127.0.0.1:9999")
//	conn, err = f.CreateConnectionFromURL("raw-l3://eth0?ethernet_proto=0x86dd&l2_dst=02:00:00:00:00:01")
//
// Target URLs use the protocol name as scheme (tcp, ssl, tls, udp, raw-l2,
// raw-l3). Query parameters: bind (host:port), timeout (milliseconds),
// ethernet_proto (decimal or 0x-prefixed), l2_dst (MAC address).
//
// The factory is safe for concurrent use; the connections it returns are not.
package factory
