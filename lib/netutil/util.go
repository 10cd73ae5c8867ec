// Package netutil helps tests bind servers to known, free addresses.
package netutil

import (
	"fmt"
	"net"
)

// FreeTCPPort returns a port on localhost that is not in use at the time of the call.
func FreeTCPPort() (int, error) {
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, fmt.Errorf("no free TCP port: %w", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}

// FreeTCPAddr returns a free address on localhost, e.g. localhost:51234, to bind a server to.
func FreeTCPAddr() (string, error) {
	port, err := FreeTCPPort()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("localhost:%d", port), nil
}
