// Package testing provides an in-memory target connection for deterministic
// tests of fuzzing harnesses.
//
// # Overview
//
// SimulatedConnection mirrors the rules of the socket implementation in the
// transport package without touching the network: the same configuration
// validation, the same per-kind payload ceilings, the same receive rules
// (UDP needs a bind address, raw kinds never receive, silent targets yield
// an empty payload). Sent payloads are recorded for verification and
// responses are scripted.
//
// # Usage
//
//	cfg := transport.DefaultConfig("127.0.0.1")
//	cfg.Kind = transport.UDP
//	cfg.Port, cfg.HasPort = 8888, true
//	cfg.Bind = "127.0.0.1:9999"
//
//	sim, err := testing.NewSimulatedConnection(cfg)
//	sim.QueueResponse([]byte("pong"))
//
//	sim.Open()
//	n, _ := sim.Send([]byte("ping"))   // n == 4
//	reply, _ := sim.Recv(1024)         // "pong"
//	reply, _ = sim.Recv(1024)          // empty: nothing queued, as on timeout
//
// # Fault Injection
//
//   - SetRefuseOpen makes Open fail with transport.ErrTargetConnectionRefused.
//   - SetRecvError makes the next Recv fail. Errors that transport.IsRecoverable
//     accepts (resets, timeouts) turn into an empty payload exactly as on a
//     real socket; anything else is returned.
//
// # Thread Safety
//
// SimulatedConnection is safe for concurrent use so tests can inspect it
// while a harness goroutine drives it.
package testing
