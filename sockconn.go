package sockconn

import (
	"fmt"

	"github.com/opd-ai/sockconn/factory"
	"github.com/opd-ai/sockconn/interfaces"
	"github.com/opd-ai/sockconn/transport"
	"github.com/sirupsen/logrus"
)

// New creates an unopened connection to host. With no options it targets
// tcp with the default timeout; tcp, ssl and udp also need WithPort.
func New(host string, opts ...transport.Option) (*transport.SocketConnection, error) {
	return transport.New(host, opts...)
}

// Open creates a connection from a target URL such as
// "udp://127.0.0.1:8888?bind=127.0.0.1:9999" and opens it. The SOCKCONN_*
// environment variables apply.
func Open(rawURL string) (interfaces.ITargetConnection, error) {
	conn, err := factory.NewConnectionFactory().CreateConnectionFromURL(rawURL)
	if err != nil {
		return nil, err
	}

	if err := conn.Open(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Open",
			"target":   rawURL,
			"error":    err.Error(),
		}).Error("Failed to open target connection")
		return nil, fmt.Errorf("open %s: %w", rawURL, err)
	}
	return conn, nil
}
