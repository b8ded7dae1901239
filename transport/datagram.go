package transport

import (
	"net"
	"time"
)

// datagramVariant implements udp connections. The socket is unconnected:
// every send names the target, and receiving needs a bound local address so
// replies can be matched to this socket.
type datagramVariant struct {
	cfg    *Config
	conn   *net.UDPConn
	remote *net.UDPAddr
}

func (d *datagramVariant) open() error {
	remote, err := net.ResolveUDPAddr("udp4", d.cfg.RemoteAddr())
	if err != nil {
		return newConnError("open", UDP, d.cfg.RemoteAddr(), err)
	}

	var local *net.UDPAddr
	if d.cfg.Bind != "" {
		local, err = net.ResolveUDPAddr("udp4", d.cfg.Bind)
		if err != nil {
			return newConnError("open", UDP, d.cfg.Bind, err)
		}
	}

	conn, err := net.ListenUDP("udp4", local)
	if err != nil {
		return newConnError("open", UDP, d.cfg.Bind, err)
	}

	d.conn = conn
	d.remote = remote
	return nil
}

func (d *datagramVariant) send(data []byte) (int, error) {
	if d.conn == nil {
		return 0, newConnError("send", UDP, d.cfg.RemoteAddr(), ErrNotOpen)
	}
	if err := d.conn.SetWriteDeadline(time.Now().Add(d.cfg.Timeout)); err != nil {
		return 0, newConnError("send", UDP, d.cfg.RemoteAddr(), err)
	}

	n, err := d.conn.WriteToUDP(data, d.remote)
	if err != nil {
		return n, newConnError("send", UDP, d.cfg.RemoteAddr(), err)
	}
	return n, nil
}

func (d *datagramVariant) recv(maxBytes int) ([]byte, error) {
	if d.cfg.Bind == "" {
		return nil, newConnError("recv", UDP, d.cfg.RemoteAddr(), ErrReceiveNotSupported)
	}
	if d.conn == nil {
		return nil, newConnError("recv", UDP, d.cfg.Bind, ErrNotOpen)
	}
	if maxBytes <= 0 {
		return []byte{}, nil
	}
	if err := d.conn.SetReadDeadline(time.Now().Add(d.cfg.Timeout)); err != nil {
		return nil, newConnError("recv", UDP, d.cfg.Bind, err)
	}

	buf := make([]byte, maxBytes)
	n, _, err := d.conn.ReadFromUDP(buf)
	if err != nil {
		if IsRecoverable(err) {
			return recoveredEmpty(UDP, err), nil
		}
		return nil, newConnError("recv", UDP, d.cfg.Bind, err)
	}
	return buf[:n], nil
}

func (d *datagramVariant) close() error {
	if d.conn == nil {
		return newConnError("close", UDP, d.cfg.RemoteAddr(), ErrNotOpen)
	}
	err := d.conn.Close()
	d.conn = nil
	d.remote = nil
	if err != nil {
		return newConnError("close", UDP, d.cfg.RemoteAddr(), err)
	}
	return nil
}

func (d *datagramVariant) isOpen() bool {
	return d.conn != nil
}

func (d *datagramVariant) localAddr() net.Addr {
	if d.conn == nil {
		return nil
	}
	return d.conn.LocalAddr()
}
