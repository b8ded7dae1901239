//go:build windows

package limits

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// soMaxMsgSize is the Winsock SO_MAX_MSG_SIZE option.
const soMaxMsgSize = 0x2003

// platformMaxUDPPayload reads SO_MAX_MSG_SIZE from a throwaway IPv4 datagram socket.
func platformMaxUDPPayload() (int, error) {
	var data windows.WSAData
	if err := windows.WSAStartup(uint32(0x202), &data); err != nil {
		return 0, fmt.Errorf("WSAStartup failed: %w", err)
	}
	defer windows.WSACleanup()

	sock, err := windows.Socket(windows.AF_INET, windows.SOCK_DGRAM, windows.IPPROTO_UDP)
	if err != nil {
		return 0, fmt.Errorf("failed to create probe socket: %w", err)
	}
	defer windows.Closesocket(sock)

	size, err := windows.GetsockoptInt(sock, windows.SOL_SOCKET, soMaxMsgSize)
	if err != nil {
		return 0, fmt.Errorf("failed to read SO_MAX_MSG_SIZE: %w", err)
	}
	return size, nil
}
