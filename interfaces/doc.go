// Package interfaces defines the target connection abstraction shared by the
// real socket implementation and the simulation used in harness tests.
//
// # Core Interface
//
// [ITargetConnection] is the whole boundary surface a fuzzing harness sees:
//
//	conn, err := factory.NewConnectionFactory().CreateConnection("127.0.0.1",
//	    transport.WithPort(8080))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := conn.Open(); err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	n, err := conn.Send(payload)
//	reply, err := conn.Recv(1024)
//
// An empty reply with a nil error means the target was silent, hung up, or
// reset the connection. Harnesses treat that as a routine signal and keep
// iterating.
//
// # Configuration
//
// [TargetConnectionConfig] holds settings for connection factories:
//
//	config := &interfaces.TargetConnectionConfig{
//	    UseSimulation: false,
//	    TimeoutMs:     5000,
//	    DefaultProto:  "tcp",
//	}
//	if err := config.Validate(); err != nil {
//	    log.Fatalf("invalid config: %v", err)
//	}
//
// # Implementation Selection
//
// The factory package creates implementations based on configuration:
//   - UseSimulation=true: Creates SimulatedConnection from the testing package
//   - UseSimulation=false: Creates SocketConnection from the transport package
//
// # Thread Safety
//
// Implementations are not required to be safe for concurrent use. A
// connection owns exactly one handle; callers serialize Send, Recv and Close
// themselves, typically by giving each worker its own connection.
package interfaces
