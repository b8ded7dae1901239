package factory

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/opd-ai/sockconn/transport"
	"github.com/sirupsen/logrus"
)

// ParseTargetURL splits a target URL into the host and the options that
// configure a connection to it.
func ParseTargetURL(rawURL string) (string, []transport.Option, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil, fmt.Errorf("invalid target URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" {
		return "", nil, fmt.Errorf("target URL %q has no protocol scheme", rawURL)
	}

	kind, err := transport.ParseKind(u.Scheme)
	if err != nil {
		return "", nil, err
	}

	host := u.Hostname()
	if host == "" {
		return "", nil, fmt.Errorf("target URL %q has no host", rawURL)
	}

	opts := []transport.Option{transport.WithKind(kind)}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return "", nil, fmt.Errorf("invalid port %q: %w", portStr, err)
		}
		opts = append(opts, transport.WithPort(uint16(port)))
	}

	queryOpts, err := parseTargetQuery(u.Query())
	if err != nil {
		return "", nil, err
	}
	opts = append(opts, queryOpts...)

	logrus.WithFields(logrus.Fields{
		"function": "ParseTargetURL",
		"proto":    kind.String(),
		"host":     host,
		"options":  len(opts),
	}).Debug("Parsed target URL")

	return host, opts, nil
}

// parseTargetQuery converts the recognized query parameters to options.
func parseTargetQuery(query url.Values) ([]transport.Option, error) {
	var opts []transport.Option

	if bind := query.Get("bind"); bind != "" {
		bindHost, bindPortStr, err := net.SplitHostPort(bind)
		if err != nil {
			return nil, fmt.Errorf("invalid bind address %q: %w", bind, err)
		}
		bindPort, err := strconv.ParseUint(bindPortStr, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid bind port %q: %w", bindPortStr, err)
		}
		opts = append(opts, transport.WithBind(bindHost, uint16(bindPort)))
	}

	if timeoutStr := query.Get("timeout"); timeoutStr != "" {
		ms, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", timeoutStr, err)
		}
		opts = append(opts, transport.WithTimeout(time.Duration(ms)*time.Millisecond))
	}

	if protoStr := query.Get("ethernet_proto"); protoStr != "" {
		proto, err := strconv.ParseUint(protoStr, 0, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid ethernet_proto %q: %w", protoStr, err)
		}
		opts = append(opts, transport.WithEthernetProto(uint16(proto)))
	}

	if dst := query.Get("l2_dst"); dst != "" {
		mac, err := net.ParseMAC(dst)
		if err != nil {
			return nil, fmt.Errorf("invalid l2_dst %q: %w", dst, err)
		}
		opts = append(opts, transport.WithL2Dst(mac))
	}

	return opts, nil
}
