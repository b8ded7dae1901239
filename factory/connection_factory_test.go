package factory

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/opd-ai/sockconn/interfaces"
	simtesting "github.com/opd-ai/sockconn/testing"
	"github.com/opd-ai/sockconn/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearFactoryEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SOCKCONN_USE_SIMULATION", "")
	t.Setenv("SOCKCONN_TIMEOUT_MS", "")
	t.Setenv("SOCKCONN_DEFAULT_PROTO", "")
}

// TestNewConnectionFactory verifies default factory creation
func TestNewConnectionFactory(t *testing.T) {
	clearFactoryEnv(t)

	factory := NewConnectionFactory()
	if factory == nil {
		t.Fatal("NewConnectionFactory returned nil")
	}

	config := factory.GetCurrentConfig()
	if config.UseSimulation {
		t.Error("expected UseSimulation false by default")
	}
	if config.TimeoutMs != 5000 {
		t.Errorf("expected default TimeoutMs 5000, got %d", config.TimeoutMs)
	}
	if config.DefaultProto != "tcp" {
		t.Errorf("expected default DefaultProto tcp, got %q", config.DefaultProto)
	}
}

// TestEnvironmentVariableParsing verifies environment variable handling
func TestEnvironmentVariableParsing(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		wantSim       bool
		wantTimeoutMs int
		wantProto     string
	}{
		{
			name:          "simulation enabled",
			env:           map[string]string{"SOCKCONN_USE_SIMULATION": "true"},
			wantSim:       true,
			wantTimeoutMs: 5000,
			wantProto:     "tcp",
		},
		{
			name:          "custom timeout",
			env:           map[string]string{"SOCKCONN_TIMEOUT_MS": "2500"},
			wantTimeoutMs: 2500,
			wantProto:     "tcp",
		},
		{
			name:          "timeout at lower bound",
			env:           map[string]string{"SOCKCONN_TIMEOUT_MS": "100"},
			wantTimeoutMs: MinTimeoutMs,
			wantProto:     "tcp",
		},
		{
			name:          "timeout below bound ignored",
			env:           map[string]string{"SOCKCONN_TIMEOUT_MS": "99"},
			wantTimeoutMs: 5000,
			wantProto:     "tcp",
		},
		{
			name:          "timeout above bound ignored",
			env:           map[string]string{"SOCKCONN_TIMEOUT_MS": "600001"},
			wantTimeoutMs: 5000,
			wantProto:     "tcp",
		},
		{
			name:          "unparseable values ignored",
			env:           map[string]string{"SOCKCONN_USE_SIMULATION": "maybe", "SOCKCONN_TIMEOUT_MS": "soon"},
			wantTimeoutMs: 5000,
			wantProto:     "tcp",
		},
		{
			name:          "protocol alias canonicalized",
			env:           map[string]string{"SOCKCONN_DEFAULT_PROTO": "TLS"},
			wantTimeoutMs: 5000,
			wantProto:     "ssl",
		},
		{
			name:          "unknown protocol ignored",
			env:           map[string]string{"SOCKCONN_DEFAULT_PROTO": "sctp"},
			wantTimeoutMs: 5000,
			wantProto:     "tcp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearFactoryEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config := NewConnectionFactory().GetCurrentConfig()
			if config.UseSimulation != tt.wantSim {
				t.Errorf("UseSimulation = %v, want %v", config.UseSimulation, tt.wantSim)
			}
			if config.TimeoutMs != tt.wantTimeoutMs {
				t.Errorf("TimeoutMs = %d, want %d", config.TimeoutMs, tt.wantTimeoutMs)
			}
			if config.DefaultProto != tt.wantProto {
				t.Errorf("DefaultProto = %q, want %q", config.DefaultProto, tt.wantProto)
			}
		})
	}
}

func TestCreateConnectionReal(t *testing.T) {
	clearFactoryEnv(t)
	t.Setenv("SOCKCONN_TIMEOUT_MS", "1500")
	factory := NewConnectionFactory()

	conn, err := factory.CreateConnection("127.0.0.1", transport.WithPort(8080))
	require.NoError(t, err)

	sc, ok := conn.(*transport.SocketConnection)
	require.True(t, ok, "expected *transport.SocketConnection, got %T", conn)
	assert.Equal(t, transport.TCP, sc.Kind())
	assert.Equal(t, 1500*time.Millisecond, sc.Config().Timeout)
	assert.False(t, sc.IsOpen())
}

func TestCreateConnectionOptionsOverrideDefaults(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	conn, err := factory.CreateConnection("127.0.0.1",
		transport.WithPort(8888),
		transport.WithProto("udp"),
		transport.WithTimeout(250*time.Millisecond),
	)
	require.NoError(t, err)

	sc := conn.(*transport.SocketConnection)
	assert.Equal(t, transport.UDP, sc.Kind())
	assert.Equal(t, 250*time.Millisecond, sc.Config().Timeout)
}

func TestCreateConnectionSimulation(t *testing.T) {
	clearFactoryEnv(t)
	t.Setenv("SOCKCONN_USE_SIMULATION", "1")
	factory := NewConnectionFactory()

	conn, err := factory.CreateConnection("eth0", transport.WithProto("raw-l3"))
	require.NoError(t, err)

	sim, ok := conn.(*simtesting.SimulatedConnection)
	require.True(t, ok, "expected *testing.SimulatedConnection, got %T", conn)
	assert.Equal(t, transport.RawNetwork, sim.Config().Kind)

	require.NoError(t, sim.Open())
	n, err := sim.Send(make([]byte, 2000))
	require.NoError(t, err)
	assert.Equal(t, 1500, n)
}

func TestCreateConnectionErrors(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	_, err := factory.CreateConnection("127.0.0.1")
	assert.ErrorIs(t, err, transport.ErrMissingPort)

	_, err = factory.CreateConnection("127.0.0.1", transport.WithPort(1), transport.WithProto("http"))
	assert.ErrorIs(t, err, transport.ErrInvalidProtocol)

	_, err = factory.CreateConnection("127.0.0.1", transport.WithPort(1), transport.WithTimeout(0))
	assert.ErrorIs(t, err, interfaces.ErrInvalidTimeout)

	factory.SwitchToSimulation()
	_, err = factory.CreateConnection("127.0.0.1", transport.WithProto("udp"))
	assert.ErrorIs(t, err, transport.ErrMissingPort)
}

func TestCreateConnectionWithConfig(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	custom := &interfaces.TargetConnectionConfig{
		UseSimulation: true,
		TimeoutMs:     300,
		DefaultProto:  "udp",
	}
	conn, err := factory.CreateConnectionWithConfig(custom, "127.0.0.1", transport.WithPort(9))
	require.NoError(t, err)

	sim := conn.(*simtesting.SimulatedConnection)
	assert.Equal(t, transport.UDP, sim.Config().Kind)
	assert.Equal(t, 300*time.Millisecond, sim.Config().Timeout)
	assert.False(t, factory.IsUsingSimulation(), "custom config must not change the defaults")

	_, err = factory.CreateConnectionWithConfig(&interfaces.TargetConnectionConfig{DefaultProto: "tcp"}, "127.0.0.1")
	assert.ErrorIs(t, err, interfaces.ErrInvalidTimeout)
}

func TestCreateSimulationForTesting(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	sim, err := factory.CreateSimulationForTesting("127.0.0.1", transport.WithPort(80))
	require.NoError(t, err)
	assert.False(t, factory.IsUsingSimulation())

	require.NoError(t, sim.Open())
	sim.QueueResponse([]byte("HTTP/1.0 200 OK"))
	got, err := sim.Recv(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("HTTP"), got)
}

// TestSwitchModes verifies toggling between simulation and real sockets
func TestSwitchModes(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	if factory.IsUsingSimulation() {
		t.Fatal("expected real mode initially")
	}

	factory.SwitchToSimulation()
	if !factory.IsUsingSimulation() {
		t.Error("expected simulation mode after SwitchToSimulation")
	}
	conn, err := factory.CreateConnection("127.0.0.1", transport.WithPort(1))
	require.NoError(t, err)
	assert.IsType(t, &simtesting.SimulatedConnection{}, conn)

	factory.SwitchToReal()
	if factory.IsUsingSimulation() {
		t.Error("expected real mode after SwitchToReal")
	}
	conn, err = factory.CreateConnection("127.0.0.1", transport.WithPort(1))
	require.NoError(t, err)
	assert.IsType(t, &transport.SocketConnection{}, conn)
}

func TestUpdateConfig(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	tests := []struct {
		name    string
		config  *interfaces.TargetConnectionConfig
		wantErr error
	}{
		{"nil config", nil, nil},
		{"zero timeout", &interfaces.TargetConnectionConfig{TimeoutMs: 0, DefaultProto: "tcp"}, interfaces.ErrInvalidTimeout},
		{"empty proto", &interfaces.TargetConnectionConfig{TimeoutMs: 10}, interfaces.ErrEmptyProto},
		{"unknown proto", &interfaces.TargetConnectionConfig{TimeoutMs: 10, DefaultProto: "icmp"}, transport.ErrInvalidProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := factory.UpdateConfig(tt.config)
			require.Error(t, err)
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateConfig() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	valid := &interfaces.TargetConnectionConfig{UseSimulation: true, TimeoutMs: 750, DefaultProto: "udp"}
	require.NoError(t, factory.UpdateConfig(valid))

	// The factory keeps its own copy.
	valid.TimeoutMs = 1
	got := factory.GetCurrentConfig()
	assert.Equal(t, 750, got.TimeoutMs)
	assert.Equal(t, "udp", got.DefaultProto)
	assert.True(t, got.UseSimulation)

	got.TimeoutMs = 2
	assert.Equal(t, 750, factory.GetCurrentConfig().TimeoutMs)
}

func TestCreateConnectionFromURL(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	conn, err := factory.CreateConnectionFromURL("udp://127.0.0.1:8888?bind=127.0.0.1:9999&timeout=400")
	require.NoError(t, err)

	sc := conn.(*transport.SocketConnection)
	cfg := sc.Config()
	assert.Equal(t, transport.UDP, cfg.Kind)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, uint16(8888), cfg.Port)
	assert.Equal(t, "127.0.0.1:9999", cfg.Bind)
	assert.Equal(t, 400*time.Millisecond, cfg.Timeout)

	_, err = factory.CreateConnectionFromURL("tcp://127.0.0.1")
	assert.ErrorIs(t, err, transport.ErrMissingPort)
}

func TestParseTargetURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantHost  string
		wantKind  transport.Kind
		wantPort  uint16
		wantProto uint16
		wantDst   net.HardwareAddr
		wantErr   bool
	}{
		{name: "tcp", url: "tcp://10.0.0.5:80", wantHost: "10.0.0.5", wantKind: transport.TCP, wantPort: 80},
		{name: "ssl", url: "ssl://example.com:443", wantHost: "example.com", wantKind: transport.TLS, wantPort: 443},
		{name: "tls alias", url: "TLS://example.com:443", wantHost: "example.com", wantKind: transport.TLS, wantPort: 443},
		{name: "ipv6 host", url: "tcp://[::1]:8080", wantHost: "::1", wantKind: transport.TCP, wantPort: 8080},
		{name: "raw-l2", url: "raw-l2://eth0", wantHost: "eth0", wantKind: transport.RawLink},
		{
			name:      "raw-l3 with addressing",
			url:       "raw-l3://eth0?ethernet_proto=0x86dd&l2_dst=02:00:00:00:00:01",
			wantHost:  "eth0",
			wantKind:  transport.RawNetwork,
			wantProto: 0x86dd,
			wantDst:   net.HardwareAddr{0x02, 0, 0, 0, 0, 0x01},
		},
		{name: "decimal ethernet proto", url: "raw-l3://eth0?ethernet_proto=2048", wantHost: "eth0", wantKind: transport.RawNetwork, wantProto: 0x0800},
		{name: "no scheme", url: "127.0.0.1:80", wantErr: true},
		{name: "unknown scheme", url: "sctp://127.0.0.1:80", wantErr: true},
		{name: "no host", url: "tcp://:80", wantErr: true},
		{name: "bad port", url: "tcp://127.0.0.1:70000", wantErr: true},
		{name: "bad bind", url: "udp://127.0.0.1:1?bind=nowhere", wantErr: true},
		{name: "bad timeout", url: "udp://127.0.0.1:1?timeout=fast", wantErr: true},
		{name: "bad ethernet proto", url: "raw-l3://eth0?ethernet_proto=0x10000", wantErr: true},
		{name: "bad l2 dst", url: "raw-l3://eth0?l2_dst=zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, opts, err := ParseTargetURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTargetURL(%q) expected error", tt.url)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)

			cfg := transport.DefaultConfig(host)
			for _, opt := range opts {
				require.NoError(t, opt(&cfg))
			}
			assert.Equal(t, tt.wantKind, cfg.Kind)
			if tt.wantPort != 0 {
				assert.True(t, cfg.HasPort)
				assert.Equal(t, tt.wantPort, cfg.Port)
			}
			if tt.wantProto != 0 {
				assert.Equal(t, tt.wantProto, cfg.EthernetProto)
			}
			if tt.wantDst != nil {
				assert.Equal(t, tt.wantDst, cfg.L2Dst)
			}
		})
	}
}

// TestConcurrentFactoryAccess exercises the factory under the race detector
func TestConcurrentFactoryAccess(t *testing.T) {
	clearFactoryEnv(t)
	factory := NewConnectionFactory()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				factory.SwitchToSimulation()
			} else {
				factory.SwitchToReal()
			}
			_ = factory.GetCurrentConfig()
			if _, err := factory.CreateConnection("127.0.0.1", transport.WithPort(1)); err != nil {
				t.Errorf("CreateConnection() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
}
