package cluster

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krimits/Food-App/internal/protocol"
)

// TestParseWorker verifies endpoint parsing, including surrounding
// whitespace and the derived node ID.
func TestParseWorker(t *testing.T) {
	node, err := ParseWorker(" 10.0.0.5:9001 ")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", node.Host)
	assert.Equal(t, 9001, node.Port)
	assert.Equal(t, "10.0.0.5:9001", node.ID)
	assert.Equal(t, "10.0.0.5:9001", node.Addr())
}

// TestParseWorkerRejectsBadEndpoints covers the malformed shapes a config
// typo produces.
func TestParseWorkerRejectsBadEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "nohost", "host:", "host:notaport", "host:0", "host:-1", "host:70000"} {
		_, err := ParseWorker(endpoint)
		assert.Error(t, err, "endpoint %q", endpoint)
	}
}

// TestCallRoundTrip verifies one exchange against a minimal in-process
// peer that echoes a canned status.
func TestCallRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		req, err := protocol.ReadRequest(bufio.NewReader(conn))
		if err != nil {
			return
		}
		_ = protocol.WriteResponse(conn, []byte(`{"status":"SUCCESS","message":"`+req.Op+`"}`))
	}()

	node, err := ParseWorker(ln.Addr().String())
	require.NoError(t, err)

	resp, err := Call(node, 5*time.Second, protocol.Request{
		Op:         protocol.OpRateStore,
		RoutingKey: "PizzaFun",
		Payload:    []byte(`{"stars":5}`),
	})
	require.NoError(t, err)

	var st protocol.StatusResponse
	require.NoError(t, protocol.DefaultCodec.Unmarshal(resp, &st))
	assert.Equal(t, protocol.StatusSuccess, st.Status)
	assert.Equal(t, protocol.OpRateStore, st.Message)
}

// TestCallRefused verifies the error path for a closed port.
func TestCallRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	node, err := ParseWorker(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	_, err = Call(node, time.Second, protocol.Request{Op: protocol.OpSearchStores, Payload: []byte("{}")})
	assert.Error(t, err)
}

// TestCallTimeout verifies that a peer which accepts but never answers
// fails within the deadline rather than hanging.
func TestCallTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		time.Sleep(2 * time.Second)
		conn.Close()
	}()

	node, err := ParseWorker(ln.Addr().String())
	require.NoError(t, err)

	start := time.Now()
	_, err = Call(node, 200*time.Millisecond, protocol.Request{Op: protocol.OpSearchStores, Payload: []byte("{}")})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
