//go:build linux

package transport

import (
	"encoding/binary"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// rawSocket is an AF_PACKET socket with a fixed destination address.
type rawSocket struct {
	fd   int
	addr *unix.SockaddrLinklayer
}

// openRawSocket creates the packet socket for cfg.Kind on the interface
// named by cfg.Host. raw-l2 uses SOCK_RAW so callers supply the link header;
// raw-l3 uses SOCK_DGRAM so the kernel builds it from the destination address.
func openRawSocket(cfg *Config) (*rawSocket, error) {
	ifi, err := net.InterfaceByName(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownInterface, cfg.Host, err)
	}

	sockType := unix.SOCK_RAW
	if cfg.Kind == RawNetwork {
		sockType = unix.SOCK_DGRAM
	}

	fd, err := unix.Socket(unix.AF_PACKET, sockType|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to create packet socket: %w", err)
	}

	tv := unix.NsecToTimeval(cfg.Timeout.Nanoseconds())
	for _, opt := range []int{unix.SO_SNDTIMEO, unix.SO_RCVTIMEO} {
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, opt, &tv); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("failed to set socket timeout: %w", err)
		}
	}

	return &rawSocket{
		fd:   fd,
		addr: linkSockaddr(cfg, ifi.Index),
	}, nil
}

// linkSockaddr builds the sockaddr_ll a send goes to. raw-l2 only names the
// interface. raw-l3 adds the EtherType and link destination; the packet type
// and hardware type fields are receive-only and stay zero.
func linkSockaddr(cfg *Config, ifindex int) *unix.SockaddrLinklayer {
	sa := &unix.SockaddrLinklayer{Ifindex: ifindex}
	if cfg.Kind != RawNetwork {
		return sa
	}

	sa.Protocol = htons(cfg.EthernetProto)
	sa.Halen = uint8(len(cfg.L2Dst))
	copy(sa.Addr[:], cfg.L2Dst)
	return sa
}

// htons converts v to network byte order as sockaddr_ll expects.
func htons(v uint16) uint16 {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return binary.NativeEndian.Uint16(b[:])
}

func (s *rawSocket) send(data []byte) (int, error) {
	return unix.SendmsgN(s.fd, data, nil, s.addr, 0)
}

func (s *rawSocket) close() error {
	return unix.Close(s.fd)
}
