//go:build windows

package transport

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// Winsock reports its own codes rather than the POSIX errno values.
var platformRecoverableErrnos = []syscall.Errno{
	windows.WSAECONNABORTED,
	windows.WSAECONNREFUSED,
	windows.WSAECONNRESET,
	windows.WSAENETRESET,
	windows.WSAETIMEDOUT,
}

var platformRefusedErrnos = []syscall.Errno{
	windows.WSAECONNREFUSED,
}
