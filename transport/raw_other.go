//go:build !linux

package transport

// rawSocket is unavailable: packet sockets are Linux-only.
type rawSocket struct{}

func openRawSocket(cfg *Config) (*rawSocket, error) {
	return nil, ErrRawSocketsUnsupported
}

func (s *rawSocket) send(data []byte) (int, error) {
	return 0, ErrRawSocketsUnsupported
}

func (s *rawSocket) close() error {
	return nil
}
