//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package limits

// platformMaxUDPPayload has nothing to query on this platform.
func platformMaxUDPPayload() (int, error) {
	return MaxUDPPayloadIPv4, nil
}
