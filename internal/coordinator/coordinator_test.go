package coordinator

import (
	"bufio"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/krimits/Food-App/internal/cluster"
	"github.com/krimits/Food-App/internal/protocol"
	"github.com/krimits/Food-App/internal/worker"
)

// Shared test plumbing for the coordinator package: real workers on
// loopback listeners, a running coordinator, and a wire-level client.

// startWorker runs a real worker server on a loopback port and returns
// its node descriptor.
func startWorker(t *testing.T, id string) cluster.WorkerNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := worker.NewServer(id)
	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })

	node, err := cluster.ParseWorker(ln.Addr().String())
	require.NoError(t, err)
	return node
}

// deadWorker returns a node descriptor whose port was open once and is
// now closed, so every call to it is refused.
func deadWorker(t *testing.T) cluster.WorkerNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	node, err := cluster.ParseWorker(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())
	return node
}

// silentWorker accepts connections but never answers, to exercise the
// scatter timeout path.
func silentWorker(t *testing.T) cluster.WorkerNode {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			// Hold the connection open without responding.
			go func(c net.Conn) {
				time.Sleep(5 * time.Second)
				c.Close()
			}(conn)
		}
	}()

	node, err := cluster.ParseWorker(ln.Addr().String())
	require.NoError(t, err)
	return node
}

// startCoordinator runs a coordinator over the given workers and returns
// its dialable address.
func startCoordinator(t *testing.T, workers []cluster.WorkerNode, opts Options) string {
	t.Helper()
	srv := NewServer(workers, opts)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go srv.Serve(ln)
	t.Cleanup(func() { srv.Close() })
	return ln.Addr().String()
}

// call performs one wire-level request against addr, exactly as a client
// would.
func call(t *testing.T, addr string, req protocol.Request) []byte {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))
	require.NoError(t, protocol.WriteRequest(conn, req))
	resp, err := protocol.ReadResponse(bufio.NewReader(conn))
	require.NoError(t, err)
	return resp
}

// callStatus performs a request and decodes the status response.
func callStatus(t *testing.T, addr string, req protocol.Request) protocol.StatusResponse {
	t.Helper()
	var st protocol.StatusResponse
	require.NoError(t, protocol.DefaultCodec.Unmarshal(call(t, addr, req), &st))
	return st
}

// nameForWorker generates a store name that the router assigns to the
// given worker index, so tests can place stores deliberately.
func nameForWorker(t *testing.T, prefix string, idx, numWorkers int) string {
	t.Helper()
	for i := 0; i < 10000; i++ {
		name := fmt.Sprintf("%s-%d", prefix, i)
		if Route(name, numWorkers) == idx {
			return name
		}
	}
	t.Fatalf("no name found routing to worker %d of %d", idx, numWorkers)
	return ""
}

// marshal encodes a payload with the default codec or fails the test.
func marshal(t *testing.T, v any) []byte {
	t.Helper()
	out, err := protocol.DefaultCodec.Marshal(v)
	require.NoError(t, err)
	return out
}

// storeRecord builds a minimal store for integration tests.
func storeRecord(name, category string, lat, lon float64, products ...protocol.ProductRecord) protocol.StoreRecord {
	return protocol.StoreRecord{
		StoreName:    name,
		Latitude:     lat,
		Longitude:    lon,
		FoodCategory: category,
		Products:     products,
	}
}
