// Package limits provides centralized payload ceilings for target transports.
package limits

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// MaxRawLinkFrame is the largest link-layer frame sent on a raw-l2 socket (1514 bytes)
	// Ethernet MTU plus the 14 byte header, no frame check sequence
	MaxRawLinkFrame = 1514

	// MaxRawNetworkPacket is the largest network-layer packet sent on a raw-l3 socket (1500 bytes)
	MaxRawNetworkPacket = 1500

	// MaxIPv4Length is the largest IPv4 datagram
	MaxIPv4Length = 65535

	// IPv4HeaderLength is the size of an IPv4 header without options
	IPv4HeaderLength = 20

	// UDPHeaderLength is the size of a UDP header
	UDPHeaderLength = 8

	// MaxUDPPayloadIPv4 is the theoretical UDP payload limit over IPv4 (65507 bytes)
	MaxUDPPayloadIPv4 = MaxIPv4Length - IPv4HeaderLength - UDPHeaderLength
)

// ErrInvalidCeiling indicates a non-positive payload ceiling was supplied
var ErrInvalidCeiling = errors.New("payload ceiling must be positive")

// Truncate returns the first ceiling bytes of data. Data at or under the ceiling
// is returned unchanged. The returned slice shares data's backing array.
func Truncate(data []byte, ceiling int) []byte {
	if ceiling < 0 || len(data) <= ceiling {
		return data
	}
	return data[:ceiling]
}

// ValidateCeiling checks that a ceiling can be used for truncation.
func ValidateCeiling(ceiling int) error {
	if ceiling <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCeiling, ceiling)
	}
	return nil
}

// MaxUDPPayload returns the largest UDP payload this host accepts in one
// datagram, queried from the operating system.
func MaxUDPPayload() int {
	size, err := platformMaxUDPPayload()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "MaxUDPPayload",
			"error":       err.Error(),
			"using_value": MaxUDPPayloadIPv4,
		}).Warn("Failed to query platform UDP payload limit, using IPv4 theoretical limit")
		return MaxUDPPayloadIPv4
	}
	ceiling := capUDPPayload(size)

	logrus.WithFields(logrus.Fields{
		"function": "MaxUDPPayload",
		"reported": size,
		"ceiling":  ceiling,
	}).Debug("Queried platform UDP payload limit")

	return ceiling
}

// capUDPPayload bounds a reported platform limit by the largest payload an
// IPv4 datagram can carry. Linux reports SO_SNDBUF (often 212992), and a
// send above 65507 fails with EMSGSIZE instead of being truncated.
func capUDPPayload(size int) int {
	if size <= 0 || size > MaxUDPPayloadIPv4 {
		return MaxUDPPayloadIPv4
	}
	return size
}
