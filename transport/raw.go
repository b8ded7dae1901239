package transport

import (
	"net"
)

// rawVariant implements raw-l2 and raw-l3 connections. The platform layer
// owns the socket and the link-layer destination address; receiving is not
// supported because a raw socket sees all interface traffic, not replies
// from one target.
type rawVariant struct {
	cfg  *Config
	sock *rawSocket
}

func (r *rawVariant) open() error {
	sock, err := openRawSocket(r.cfg)
	if err != nil {
		return newConnError("open", r.cfg.Kind, r.cfg.Host, err)
	}
	r.sock = sock
	return nil
}

func (r *rawVariant) send(data []byte) (int, error) {
	if r.sock == nil {
		return 0, newConnError("send", r.cfg.Kind, r.cfg.Host, ErrNotOpen)
	}
	n, err := r.sock.send(data)
	if err != nil {
		return n, newConnError("send", r.cfg.Kind, r.cfg.Host, err)
	}
	return n, nil
}

func (r *rawVariant) recv(maxBytes int) ([]byte, error) {
	return []byte{}, nil
}

func (r *rawVariant) close() error {
	if r.sock == nil {
		return newConnError("close", r.cfg.Kind, r.cfg.Host, ErrNotOpen)
	}
	err := r.sock.close()
	r.sock = nil
	if err != nil {
		return newConnError("close", r.cfg.Kind, r.cfg.Host, err)
	}
	return nil
}

func (r *rawVariant) isOpen() bool {
	return r.sock != nil
}

func (r *rawVariant) localAddr() net.Addr {
	return nil
}
