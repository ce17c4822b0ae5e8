// Package netutil provides listener binding helpers for thinkmapd.
//
// The daemon binds its API listener before constructing the HTTP server so
// that a port conflict is reported at startup rather than from a goroutine,
// and so that tests can bind port 0 and discover the chosen port.
package netutil

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// AddressInUseError wraps an EADDRINUSE failure with the requested address.
type AddressInUseError struct {
	Port    int
	Address string
	Err     error
}

func (e *AddressInUseError) Error() string {
	return fmt.Sprintf("port %d is already in use on %s", e.Port, e.Address)
}

func (e *AddressInUseError) Unwrap() error {
	return e.Err
}

// BindTCP binds a TCP listener on address:port.
func BindTCP(address string, port int) (net.Listener, error) {
	addr := net.JoinHostPort(address, strconv.Itoa(port))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		if IsAddressInUseError(err) {
			return nil, &AddressInUseError{
				Port:    port,
				Address: address,
				Err:     err,
			}
		}
		return nil, fmt.Errorf("failed to bind TCP to %s: %w", addr, err)
	}

	return listener, nil
}

// BindTCPWithFallback tries preferredPort and then the following ports until
// one is free. Only address-in-use failures advance to the next port.
func BindTCPWithFallback(address string, preferredPort int) (net.Listener, int, error) {
	const maxAttempts = 100

	for port := preferredPort; port < preferredPort+maxAttempts && port <= 65535; port++ {
		listener, err := BindTCP(address, port)
		if err != nil {
			var inUse *AddressInUseError
			if errors.As(err, &inUse) {
				continue
			}
			return nil, 0, fmt.Errorf("failed to bind TCP starting from port %d: %w", preferredPort, err)
		}
		return listener, port, nil
	}

	return nil, 0, fmt.Errorf("no available TCP port found in range %d-%d on %s",
		preferredPort, preferredPort+maxAttempts-1, address)
}

// ListenerPort returns the port a TCP listener is bound to.
func ListenerPort(listener net.Listener) (int, error) {
	tcpAddr, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("listener is not a TCP listener: %T", listener.Addr())
	}
	return tcpAddr.Port, nil
}
