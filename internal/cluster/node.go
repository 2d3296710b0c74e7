package cluster

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/krimits/Food-App/internal/protocol"
)

// WorkerNode identifies one worker endpoint. The coordinator's ordered
// worker list is immutable for the process lifetime; the list index is the
// shard index.
type WorkerNode struct {
	ID   string
	Host string
	Port int
}

// Addr returns the dialable host:port of the node.
func (n WorkerNode) Addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// ParseWorker parses a "host:port" endpoint into a WorkerNode. The node ID
// is the endpoint itself.
func ParseWorker(endpoint string) (WorkerNode, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(endpoint))
	if err != nil {
		return WorkerNode{}, fmt.Errorf("invalid worker endpoint %q: %w", endpoint, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return WorkerNode{}, fmt.Errorf("invalid worker port in %q", endpoint)
	}
	return WorkerNode{ID: host + ":" + portStr, Host: host, Port: port}, nil
}

// Call performs one request/response exchange with the node. The timeout
// covers dialing, the write and the read; on expiry the caller must treat
// the worker's answer as lost, not wait further.
func Call(node WorkerNode, timeout time.Duration, req protocol.Request) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", node.Addr(), timeout)
	if err != nil {
		return nil, fmt.Errorf("dial worker %s: %w", node.ID, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("set deadline for worker %s: %w", node.ID, err)
	}
	if err := protocol.WriteRequest(conn, req); err != nil {
		return nil, fmt.Errorf("send to worker %s: %w", node.ID, err)
	}
	resp, err := protocol.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", node.ID, err)
	}
	return resp, nil
}
