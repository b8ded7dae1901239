package factory

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/opd-ai/sockconn/interfaces"
	"github.com/opd-ai/sockconn/testing"
	"github.com/opd-ai/sockconn/transport"
	"github.com/sirupsen/logrus"
)

// Validation constants for configuration bounds checking.
const (
	// MinTimeoutMs is the minimum allowed send/recv timeout in milliseconds.
	MinTimeoutMs = 100
	// MaxTimeoutMs is the maximum allowed send/recv timeout in milliseconds (10 minutes).
	MaxTimeoutMs = 600000
)

// ConnectionFactory creates target connections based on configuration.
// It is safe for concurrent use; all methods are protected by an internal mutex.
type ConnectionFactory struct {
	mu            sync.RWMutex
	defaultConfig *interfaces.TargetConnectionConfig
}

// NewConnectionFactory creates a new factory with default configuration
func NewConnectionFactory() *ConnectionFactory {
	defaultConfig := createDefaultConfig()
	applyEnvironmentOverrides(defaultConfig)
	logConfigurationInfo(defaultConfig)

	return &ConnectionFactory{
		defaultConfig: defaultConfig,
	}
}

// createDefaultConfig initializes the default factory configuration.
func createDefaultConfig() *interfaces.TargetConnectionConfig {
	return &interfaces.TargetConnectionConfig{
		UseSimulation: false,
		TimeoutMs:     int(transport.DefaultTimeout / time.Millisecond),
		DefaultProto:  "tcp",
	}
}

// applyEnvironmentOverrides updates configuration based on SOCKCONN_* environment variables.
func applyEnvironmentOverrides(config *interfaces.TargetConnectionConfig) {
	parseSimulationSetting(config)
	parseTimeoutSetting(config)
	parseProtoSetting(config)
}

// parseSimulationSetting updates UseSimulation from SOCKCONN_USE_SIMULATION.
func parseSimulationSetting(config *interfaces.TargetConnectionConfig) {
	if useSimStr := os.Getenv("SOCKCONN_USE_SIMULATION"); useSimStr != "" {
		useSim, err := strconv.ParseBool(useSimStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseSimulationSetting",
				"env_var":     "SOCKCONN_USE_SIMULATION",
				"value":       useSimStr,
				"error":       err.Error(),
				"using_value": config.UseSimulation,
			}).Warn("Failed to parse SOCKCONN_USE_SIMULATION environment variable, using default")
			return
		}
		config.UseSimulation = useSim
	}
}

// parseTimeoutSetting updates TimeoutMs from SOCKCONN_TIMEOUT_MS. Values
// outside [MinTimeoutMs, MaxTimeoutMs] are rejected.
func parseTimeoutSetting(config *interfaces.TargetConnectionConfig) {
	if timeoutStr := os.Getenv("SOCKCONN_TIMEOUT_MS"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseTimeoutSetting",
				"env_var":     "SOCKCONN_TIMEOUT_MS",
				"value":       timeoutStr,
				"error":       err.Error(),
				"using_value": config.TimeoutMs,
			}).Warn("Failed to parse SOCKCONN_TIMEOUT_MS environment variable, using default")
			return
		}
		if timeout < MinTimeoutMs || timeout > MaxTimeoutMs {
			logrus.WithFields(logrus.Fields{
				"function":    "parseTimeoutSetting",
				"env_var":     "SOCKCONN_TIMEOUT_MS",
				"value":       timeout,
				"min":         MinTimeoutMs,
				"max":         MaxTimeoutMs,
				"using_value": config.TimeoutMs,
			}).Warn("SOCKCONN_TIMEOUT_MS value out of bounds, using default")
			return
		}
		config.TimeoutMs = timeout
	}
}

// parseProtoSetting updates DefaultProto from SOCKCONN_DEFAULT_PROTO.
// Unknown protocol names are rejected.
func parseProtoSetting(config *interfaces.TargetConnectionConfig) {
	if proto := os.Getenv("SOCKCONN_DEFAULT_PROTO"); proto != "" {
		kind, err := transport.ParseKind(proto)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function":    "parseProtoSetting",
				"env_var":     "SOCKCONN_DEFAULT_PROTO",
				"value":       proto,
				"error":       err.Error(),
				"using_value": config.DefaultProto,
			}).Warn("Invalid SOCKCONN_DEFAULT_PROTO environment variable, using default")
			return
		}
		config.DefaultProto = kind.String()
	}
}

// logConfigurationInfo logs the final configuration settings.
func logConfigurationInfo(config *interfaces.TargetConnectionConfig) {
	logrus.WithFields(logrus.Fields{
		"function":       "NewConnectionFactory",
		"use_simulation": config.UseSimulation,
		"timeout_ms":     config.TimeoutMs,
		"default_proto":  config.DefaultProto,
	}).Info("Created connection factory with configuration")
}

// baseConfig turns the factory defaults into a transport configuration for host.
func baseConfig(config *interfaces.TargetConnectionConfig, host string) (transport.Config, error) {
	cfg := transport.DefaultConfig(host)
	cfg.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond

	kind, err := transport.ParseKind(config.DefaultProto)
	if err != nil {
		return cfg, err
	}
	cfg.Kind = kind
	return cfg, nil
}

// CreateConnection creates a target connection to host. Factory defaults
// are applied first, then opts.
func (f *ConnectionFactory) CreateConnection(host string, opts ...transport.Option) (interfaces.ITargetConnection, error) {
	f.mu.RLock()
	config := *f.defaultConfig
	f.mu.RUnlock()

	return createWithConfig(&config, host, opts)
}

// CreateConnectionWithConfig creates a target connection using a custom
// factory configuration instead of the defaults.
func (f *ConnectionFactory) CreateConnectionWithConfig(config *interfaces.TargetConnectionConfig, host string, opts ...transport.Option) (interfaces.ITargetConnection, error) {
	if config == nil {
		f.mu.RLock()
		defaults := *f.defaultConfig
		f.mu.RUnlock()
		config = &defaults
	}
	return createWithConfig(config, host, opts)
}

func createWithConfig(config *interfaces.TargetConnectionConfig, host string, opts []transport.Option) (interfaces.ITargetConnection, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid factory configuration: %w", err)
	}

	cfg, err := baseConfig(config, host)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":       "CreateConnection",
		"use_simulation": config.UseSimulation,
		"proto":          cfg.Kind.String(),
		"target":         cfg.RemoteAddr(),
	}).Info("Creating target connection")

	if config.UseSimulation {
		return testing.NewSimulatedConnection(cfg)
	}
	return transport.NewFromConfig(cfg)
}

// CreateConnectionFromURL creates a target connection from a target URL
// such as "udp://127.0.0.1:8888?bind=127.0.0.1:9999".
func (f *ConnectionFactory) CreateConnectionFromURL(rawURL string) (interfaces.ITargetConnection, error) {
	host, opts, err := ParseTargetURL(rawURL)
	if err != nil {
		return nil, err
	}
	return f.CreateConnection(host, opts...)
}

// CreateSimulationForTesting creates a simulated connection regardless of
// the configured mode.
func (f *ConnectionFactory) CreateSimulationForTesting(host string, opts ...transport.Option) (*testing.SimulatedConnection, error) {
	f.mu.RLock()
	config := *f.defaultConfig
	f.mu.RUnlock()

	cfg, err := baseConfig(&config, host)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "CreateSimulationForTesting",
		"proto":    cfg.Kind.String(),
		"target":   cfg.RemoteAddr(),
	}).Info("Creating simulation implementation for testing")

	return testing.NewSimulatedConnection(cfg)
}

// SwitchToSimulation switches the configuration to use simulation
func (f *ConnectionFactory) SwitchToSimulation() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToSimulation",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to simulation mode")

	f.defaultConfig.UseSimulation = true
}

// SwitchToReal switches the configuration to use real sockets
func (f *ConnectionFactory) SwitchToReal() {
	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "SwitchToReal",
		"previous": f.defaultConfig.UseSimulation,
	}).Info("Switching factory to real mode")

	f.defaultConfig.UseSimulation = false
}

// GetCurrentConfig returns a copy of the current default configuration
func (f *ConnectionFactory) GetCurrentConfig() *interfaces.TargetConnectionConfig {
	f.mu.RLock()
	defer f.mu.RUnlock()

	config := *f.defaultConfig
	return &config
}

// IsUsingSimulation returns true if the factory is configured for simulation
func (f *ConnectionFactory) IsUsingSimulation() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.defaultConfig.UseSimulation
}

// UpdateConfig replaces the factory's default configuration
func (f *ConnectionFactory) UpdateConfig(config *interfaces.TargetConnectionConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if _, err := transport.ParseKind(config.DefaultProto); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function":       "UpdateConfig",
		"old_simulation": f.defaultConfig.UseSimulation,
		"new_simulation": config.UseSimulation,
		"old_timeout":    f.defaultConfig.TimeoutMs,
		"new_timeout":    config.TimeoutMs,
	}).Info("Updating factory configuration")

	updated := *config
	f.defaultConfig = &updated
	return nil
}
