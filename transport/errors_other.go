//go:build !windows

package transport

import "syscall"

var (
	platformRecoverableErrnos []syscall.Errno
	platformRefusedErrnos     []syscall.Errno
)
