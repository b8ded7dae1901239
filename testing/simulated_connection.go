package testing

import (
	"sync"
	"time"

	"github.com/opd-ai/sockconn/limits"
	"github.com/opd-ai/sockconn/transport"
	"github.com/sirupsen/logrus"
)

// SimulatedConnection implements interfaces.ITargetConnection in memory
type SimulatedConnection struct {
	config    transport.Config
	ceiling   int
	bounded   bool
	open      bool
	sendLog   []SendRecord
	responses [][]byte
	refuse    bool
	recvErr   error
	opens     int
	mu        sync.Mutex
}

// SendRecord represents a send event for testing verification
type SendRecord struct {
	Payload   []byte
	Requested int
	Timestamp int64
}

// SimulationStats summarizes the activity of a simulated connection
type SimulationStats struct {
	Opens           int
	Sends           int
	BytesSent       int
	BytesTruncated  int
	QueuedResponses int
}

// NewSimulatedConnection creates a simulated connection after validating cfg
// the same way the transport package does.
func NewSimulatedConnection(cfg transport.Config) (*SimulatedConnection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulatedConnection",
		"proto":    cfg.Kind.String(),
		"target":   cfg.RemoteAddr(),
	}).Info("Creating simulated target connection")

	ceiling, bounded := transport.PayloadCeilings()[cfg.Kind]
	return &SimulatedConnection{
		config:  cfg,
		ceiling: ceiling,
		bounded: bounded,
	}, nil
}

// Open implements ITargetConnection.Open with simulation
func (s *SimulatedConnection) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refuse {
		logrus.WithFields(logrus.Fields{
			"function": "SimulatedConnection.Open",
			"target":   s.config.RemoteAddr(),
		}).Info("Simulating refused connection")
		return &transport.ConnError{
			Op:   "open",
			Kind: s.config.Kind,
			Addr: s.config.RemoteAddr(),
			Err:  transport.ErrTargetConnectionRefused,
		}
	}

	s.open = true
	s.opens++
	return nil
}

// Close implements ITargetConnection.Close with simulation
func (s *SimulatedConnection) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return s.notOpen("close")
	}
	s.open = false
	return nil
}

// Send implements ITargetConnection.Send with simulation. Payloads are
// truncated to the kind's ceiling before being recorded.
func (s *SimulatedConnection) Send(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return 0, s.notOpen("send")
	}

	payload := data
	if s.bounded {
		payload = limits.Truncate(data, s.ceiling)
	}

	s.sendLog = append(s.sendLog, SendRecord{
		Payload:   append([]byte(nil), payload...),
		Requested: len(data),
		Timestamp: time.Now().UnixNano(),
	})

	logrus.WithFields(logrus.Fields{
		"function":    "SimulatedConnection.Send",
		"requested":   len(data),
		"sent":        len(payload),
		"total_sends": len(s.sendLog),
	}).Debug("Simulated send")

	return len(payload), nil
}

// Recv implements ITargetConnection.Recv with simulation. With nothing
// queued it behaves like a timeout and returns an empty payload.
func (s *SimulatedConnection) Recv(maxBytes int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.config.Kind == transport.UDP && s.config.Bind == "":
		return nil, &transport.ConnError{Op: "recv", Kind: transport.UDP, Addr: s.config.RemoteAddr(), Err: transport.ErrReceiveNotSupported}
	case s.config.Kind.IsRaw():
		return []byte{}, nil
	case !s.open:
		return nil, s.notOpen("recv")
	}

	if s.recvErr != nil {
		err := s.recvErr
		s.recvErr = nil
		if transport.IsRecoverable(err) {
			return []byte{}, nil
		}
		return nil, &transport.ConnError{Op: "recv", Kind: s.config.Kind, Addr: s.config.RemoteAddr(), Err: err}
	}

	if len(s.responses) == 0 || maxBytes <= 0 {
		return []byte{}, nil
	}

	next := s.responses[0]
	if len(next) <= maxBytes {
		s.responses = s.responses[1:]
		return next, nil
	}

	// Streams keep the unread remainder; datagrams drop it.
	if s.config.Kind == transport.UDP {
		s.responses = s.responses[1:]
	} else {
		s.responses[0] = next[maxBytes:]
	}
	return next[:maxBytes], nil
}

// notOpen builds the error for an operation without a live handle
func (s *SimulatedConnection) notOpen(op string) error {
	return &transport.ConnError{Op: op, Kind: s.config.Kind, Addr: s.config.RemoteAddr(), Err: transport.ErrNotOpen}
}

// QueueResponse appends a payload for a later Recv to return
func (s *SimulatedConnection) QueueResponse(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.responses = append(s.responses, append([]byte(nil), data...))
}

// SetRefuseOpen makes subsequent Open calls fail as a refused connection
func (s *SimulatedConnection) SetRefuseOpen(refuse bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refuse = refuse
}

// SetRecvError makes the next Recv encounter err
func (s *SimulatedConnection) SetRecvError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recvErr = err
}

// SetPayloadCeiling overrides the send ceiling, e.g. to model a small MTU
func (s *SimulatedConnection) SetPayloadCeiling(ceiling int) error {
	if err := limits.ValidateCeiling(ceiling); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ceiling = ceiling
	s.bounded = true
	return nil
}

// Config returns the configuration the simulation was created with.
func (s *SimulatedConnection) Config() transport.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// IsOpen reports whether the simulated handle is live
func (s *SimulatedConnection) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.open
}

// SentPayloads returns the payloads recorded by Send, after truncation
func (s *SimulatedConnection) SentPayloads() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	payloads := make([][]byte, len(s.sendLog))
	for i, rec := range s.sendLog {
		payloads[i] = rec.Payload
	}
	return payloads
}

// GetSendLog returns a copy of the send log
func (s *SimulatedConnection) GetSendLog() []SendRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := make([]SendRecord, len(s.sendLog))
	copy(log, s.sendLog)
	return log
}

// ClearSendLog clears the send log
func (s *SimulatedConnection) ClearSendLog() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendLog = nil
}

// GetStats returns counters for the simulated connection
func (s *SimulatedConnection) GetStats() SimulationStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := SimulationStats{
		Opens:           s.opens,
		Sends:           len(s.sendLog),
		QueuedResponses: len(s.responses),
	}
	for _, rec := range s.sendLog {
		stats.BytesSent += len(rec.Payload)
		stats.BytesTruncated += rec.Requested - len(rec.Payload)
	}
	return stats
}
