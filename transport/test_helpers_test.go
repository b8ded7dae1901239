package transport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/binary"
	"io"
	"math/big"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// startTCPServer accepts a single connection on a random local port and
// hands it to serverLogic. The listener is closed when the test ends.
func startTCPServer(t *testing.T, serverLogic func(net.Conn)) (string, uint16) {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	return serveOnce(t, listener, serverLogic)
}

// startTLSServer is startTCPServer behind a TLS listener with a self-signed
// certificate.
func startTLSServer(t *testing.T, serverLogic func(net.Conn)) (string, uint16) {
	t.Helper()

	listener, err := tls.Listen("tcp4", "127.0.0.1:0", selfSignedServerConfig(t))
	require.NoError(t, err)
	return serveOnce(t, listener, serverLogic)
}

func serveOnce(t *testing.T, listener net.Listener, serverLogic func(net.Conn)) (string, uint16) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := listener.Accept()
		if err != nil {
			return // listener closed
		}
		defer conn.Close()
		serverLogic(conn)
	}()

	t.Cleanup(func() {
		listener.Close()
		<-done
	})

	addr := listener.Addr().(*net.TCPAddr)
	return addr.IP.String(), uint16(addr.Port)
}

// closedTCPPort returns a local port nothing is listening on.
func closedTCPPort(t *testing.T) uint16 {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	require.NoError(t, err)
	port := uint16(listener.Addr().(*net.TCPAddr).Port)
	require.NoError(t, listener.Close())
	return port
}

// freeUDPPort returns a local UDP port that was free a moment ago.
func freeUDPPort(t *testing.T) uint16 {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := uint16(conn.LocalAddr().(*net.UDPAddr).Port)
	require.NoError(t, conn.Close())
	return port
}

// selfSignedServerConfig generates a throwaway certificate for 127.0.0.1.
func selfSignedServerConfig(t *testing.T) *tls.Config {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "sockconn test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
	}
}

// startSOCKS5Server runs a minimal no-auth SOCKS5 server that handles one
// CONNECT request and then relays bytes in both directions.
func startSOCKS5Server(t *testing.T) (string, uint16) {
	t.Helper()

	return startTCPServer(t, func(client net.Conn) {
		// greeting: VER NMETHODS METHODS...
		head := make([]byte, 2)
		if _, err := io.ReadFull(client, head); err != nil {
			return
		}
		if _, err := io.ReadFull(client, make([]byte, head[1])); err != nil {
			return
		}
		if _, err := client.Write([]byte{0x05, 0x00}); err != nil {
			return
		}

		// request: VER CMD RSV ATYP DST.ADDR DST.PORT
		req := make([]byte, 4)
		if _, err := io.ReadFull(client, req); err != nil {
			return
		}
		var host string
		switch req[3] {
		case 0x01:
			ip := make([]byte, 4)
			if _, err := io.ReadFull(client, ip); err != nil {
				return
			}
			host = net.IP(ip).String()
		case 0x03:
			l := make([]byte, 1)
			if _, err := io.ReadFull(client, l); err != nil {
				return
			}
			name := make([]byte, l[0])
			if _, err := io.ReadFull(client, name); err != nil {
				return
			}
			host = string(name)
		default:
			return
		}
		portBytes := make([]byte, 2)
		if _, err := io.ReadFull(client, portBytes); err != nil {
			return
		}
		port := binary.BigEndian.Uint16(portBytes)

		upstream, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(int(port))))
		if err != nil {
			client.Write([]byte{0x05, 0x05, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
			return
		}
		defer upstream.Close()

		if _, err := client.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}); err != nil {
			return
		}

		go io.Copy(upstream, client)
		io.Copy(client, upstream)
	})
}
