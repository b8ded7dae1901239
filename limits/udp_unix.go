//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// platformMaxUDPPayload reads SO_SNDBUF from a throwaway IPv4 datagram socket.
func platformMaxUDPPayload() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe socket: %w", err)
	}
	defer unix.Close(fd)

	size, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_SNDBUF)
	if err != nil {
		return 0, fmt.Errorf("failed to read SO_SNDBUF: %w", err)
	}
	return size, nil
}
