package netutil

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeTCPPort(t *testing.T) {
	t.Run("2 ports, should be different", func(t *testing.T) {
		port1, err := FreeTCPPort()
		require.NoError(t, err)
		port2, err := FreeTCPPort()
		require.NoError(t, err)
		assert.NotEqual(t, port1, port2)
	})
}

func TestFreeTCPAddr(t *testing.T) {
	addr, err := FreeTCPAddr()
	require.NoError(t, err)

	listener, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	assert.NoError(t, listener.Close())
}
