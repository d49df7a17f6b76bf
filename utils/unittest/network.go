package unittest

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// DefaultAddress lets the operating system pick the port.
const DefaultAddress = "localhost:0"

// FreePort returns a TCP port that was free when the function returned.
func FreePort(t testing.TB) int {
	listener, err := net.Listen("tcp", DefaultAddress)
	require.NoError(t, err)
	defer listener.Close()

	return listener.Addr().(*net.TCPAddr).Port
}
