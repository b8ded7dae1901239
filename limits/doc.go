// Package limits provides the per-transport payload ceilings used when
// sending opaque payloads to a target.
//
// # Payload Ceilings
//
// Datagram-style transports cannot carry arbitrarily large payloads in a
// single send, so anything beyond the ceiling is silently dropped:
//
//   - MaxRawLinkFrame (1514 bytes): an Ethernet frame without FCS, i.e. a
//     1500 byte MTU plus the 14 byte link header.
//
//   - MaxRawNetworkPacket (1500 bytes): a network-layer packet on a
//     standard Ethernet MTU.
//
//   - MaxUDPPayloadIPv4 (65507 bytes): the theoretical UDP payload over
//     IPv4, 65535 minus the 20 byte IP header and the 8 byte UDP header.
//
// Stream transports (TCP, TLS) have no ceiling at this layer.
//
// # Platform UDP Ceiling
//
// The usable UDP ceiling depends on the host. MaxUDPPayload queries it:
//
//   - Unix: the socket send buffer (SO_SNDBUF), capped at MaxUDPPayloadIPv4
//     because some kernels report buffers larger than a datagram can be.
//   - Windows: SO_MAX_MSG_SIZE from Winsock.
//   - Elsewhere: MaxUDPPayloadIPv4.
//
// A failed query logs a warning and falls back to MaxUDPPayloadIPv4.
//
// # Truncation
//
//	payload = limits.Truncate(payload, limits.MaxRawNetworkPacket)
package limits
