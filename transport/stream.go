package transport

import (
	"net"
	"time"
)

// streamVariant implements tcp and ssl connections.
type streamVariant struct {
	cfg  *Config
	conn net.Conn
}

func (s *streamVariant) open() error {
	conn, err := dialStream(s.cfg)
	if err != nil {
		if isConnectionRefused(err) {
			return newConnError("open", s.cfg.Kind, s.cfg.RemoteAddr(), refusedError(err))
		}
		return newConnError("open", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}

	if s.cfg.Kind == TLS {
		conn, err = upgradeTLS(conn, s.cfg)
		if err != nil {
			return newConnError("open", s.cfg.Kind, s.cfg.RemoteAddr(), err)
		}
	}

	s.conn = conn
	return nil
}

func (s *streamVariant) send(data []byte) (int, error) {
	if s.conn == nil {
		return 0, newConnError("send", s.cfg.Kind, s.cfg.RemoteAddr(), ErrNotOpen)
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		return 0, newConnError("send", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}

	n, err := s.conn.Write(data)
	if err != nil {
		return n, newConnError("send", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}
	return n, nil
}

func (s *streamVariant) recv(maxBytes int) ([]byte, error) {
	if s.conn == nil {
		return nil, newConnError("recv", s.cfg.Kind, s.cfg.RemoteAddr(), ErrNotOpen)
	}
	if maxBytes <= 0 {
		return []byte{}, nil
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.Timeout)); err != nil {
		return nil, newConnError("recv", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}

	buf := make([]byte, maxBytes)
	n, err := s.conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err != nil {
		if IsRecoverable(err) {
			return recoveredEmpty(s.cfg.Kind, err), nil
		}
		return nil, newConnError("recv", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}
	return []byte{}, nil
}

func (s *streamVariant) close() error {
	if s.conn == nil {
		return newConnError("close", s.cfg.Kind, s.cfg.RemoteAddr(), ErrNotOpen)
	}
	err := s.conn.Close()
	s.conn = nil
	if err != nil {
		return newConnError("close", s.cfg.Kind, s.cfg.RemoteAddr(), err)
	}
	return nil
}

func (s *streamVariant) isOpen() bool {
	return s.conn != nil
}

func (s *streamVariant) localAddr() net.Addr {
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}
