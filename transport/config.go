package transport

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"
)

const (
	// DefaultTimeout bounds every send and receive unless overridden.
	DefaultTimeout = 5 * time.Second

	// EtherTypeIPv4 is the link-layer protocol number for IPv4 (ETH_P_IP).
	EtherTypeIPv4 uint16 = 0x0800
)

// BroadcastHardwareAddr is the all-ones link address used by raw-l3 sends by default.
var BroadcastHardwareAddr = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ProxyConfig names a SOCKS5 proxy that TCP and TLS connections dial through.
type ProxyConfig struct {
	Host     string
	Port     uint16
	Username string
	Password string
}

// Config is the addressing and timeout configuration of a connection.
// It is fixed at construction.
type Config struct {
	// Host is the remote host for tcp, ssl and udp, or the local
	// interface name for raw-l2 and raw-l3.
	Host string

	// Port is the remote port. HasPort distinguishes port 0 from no port.
	Port    uint16
	HasPort bool

	Kind Kind

	// Bind is a local host:port the UDP socket binds to on open.
	// Receiving on UDP requires it.
	Bind string

	Timeout time.Duration

	// EthernetProto and L2Dst populate the destination address of raw-l3 sends.
	EthernetProto uint16
	L2Dst         net.HardwareAddr

	// TLSConfig overrides the client configuration of the TLS upgrade.
	TLSConfig *tls.Config

	// Proxy routes TCP and TLS dials through a SOCKS5 proxy.
	Proxy *ProxyConfig
}

// DefaultConfig returns a tcp configuration for host with the default
// timeout and raw-l3 addressing.
func DefaultConfig(host string) Config {
	return Config{
		Host:          host,
		Kind:          TCP,
		Timeout:       DefaultTimeout,
		EthernetProto: EtherTypeIPv4,
		L2Dst:         append(net.HardwareAddr(nil), BroadcastHardwareAddr...),
	}
}

// Validate checks the configuration against the rules of its kind.
func (c *Config) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidProtocol, c.Kind)
	}
	if c.Kind.RequiresPort() && !c.HasPort {
		return fmt.Errorf("%w %s", ErrMissingPort, c.Kind)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}
	if c.Kind == RawNetwork && len(c.L2Dst) != 6 {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidL2Address, len(c.L2Dst))
	}
	return nil
}

// RemoteAddr returns host:port for port-addressed kinds and the interface
// name for raw kinds.
func (c *Config) RemoteAddr() string {
	if c.Kind.IsRaw() || !c.HasPort {
		return c.Host
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// clone returns a copy that shares no mutable state with c.
func (c Config) clone() Config {
	if c.L2Dst != nil {
		c.L2Dst = append(net.HardwareAddr(nil), c.L2Dst...)
	}
	if c.TLSConfig != nil {
		c.TLSConfig = c.TLSConfig.Clone()
	}
	if c.Proxy != nil {
		proxy := *c.Proxy
		c.Proxy = &proxy
	}
	return c
}

// Option customizes a Config during construction.
type Option func(*Config) error

// WithPort sets the remote port.
func WithPort(port uint16) Option {
	return func(c *Config) error {
		c.Port = port
		c.HasPort = true
		return nil
	}
}

// WithProto selects the kind by name: tcp, ssl (or tls), udp, raw-l2, raw-l3.
func WithProto(proto string) Option {
	return func(c *Config) error {
		kind, err := ParseKind(proto)
		if err != nil {
			return err
		}
		c.Kind = kind
		return nil
	}
}

// WithKind selects the kind directly.
func WithKind(kind Kind) Option {
	return func(c *Config) error {
		if !kind.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidProtocol, kind)
		}
		c.Kind = kind
		return nil
	}
}

// WithBind sets the local address a UDP socket binds to.
func WithBind(host string, port uint16) Option {
	return func(c *Config) error {
		c.Bind = net.JoinHostPort(host, strconv.Itoa(int(port)))
		return nil
	}
}

// WithTimeout sets the send/recv timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidTimeout, timeout)
		}
		c.Timeout = timeout
		return nil
	}
}

// WithEthernetProto sets the 16-bit EtherType of raw-l3 sends.
func WithEthernetProto(proto uint16) Option {
	return func(c *Config) error {
		c.EthernetProto = proto
		return nil
	}
}

// WithL2Dst sets the link destination address of raw-l3 sends.
func WithL2Dst(addr net.HardwareAddr) Option {
	return func(c *Config) error {
		if len(addr) != 6 {
			return fmt.Errorf("%w: got %d bytes", ErrInvalidL2Address, len(addr))
		}
		c.L2Dst = addr
		return nil
	}
}

// WithTLSConfig sets the client configuration used for the TLS upgrade.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Config) error {
		c.TLSConfig = cfg
		return nil
	}
}

// WithProxy routes TCP and TLS dials through a SOCKS5 proxy.
func WithProxy(proxy *ProxyConfig) Option {
	return func(c *Config) error {
		if proxy == nil {
			return fmt.Errorf("proxy config cannot be nil")
		}
		c.Proxy = proxy
		return nil
	}
}
