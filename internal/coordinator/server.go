package coordinator

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/krimits/Food-App/internal/cluster"
	"github.com/krimits/Food-App/internal/protocol"
)

// Default timeouts; overridable through Options.
const (
	defaultClientTimeout  = 30 * time.Second // per-client read/write deadline
	defaultForwardTimeout = 10 * time.Second // one point-op worker call
	defaultScatterTimeout = 10 * time.Second // one aggregate worker call
)

// Options tunes a coordinator Server. Zero values pick the defaults.
type Options struct {
	ClientTimeout  time.Duration
	ForwardTimeout time.Duration
	ScatterTimeout time.Duration
	Codec          protocol.Codec
}

// Server is the coordinator: it accepts client connections, classifies
// each request as point or aggregate, and routes or scatters accordingly.
//
// The worker list is read-only after construction, so request handlers
// touch it without locking.
type Server struct {
	workers []cluster.WorkerNode
	codec   protocol.Codec

	clientTimeout  time.Duration
	forwardTimeout time.Duration
	scatterTimeout time.Duration

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// NewServer builds a coordinator over the given fixed, ordered worker
// list. The ordering determines shard assignment and must match the list
// in use when the stores were created.
func NewServer(workers []cluster.WorkerNode, opts Options) *Server {
	if opts.ClientTimeout == 0 {
		opts.ClientTimeout = defaultClientTimeout
	}
	if opts.ForwardTimeout == 0 {
		opts.ForwardTimeout = defaultForwardTimeout
	}
	if opts.ScatterTimeout == 0 {
		opts.ScatterTimeout = defaultScatterTimeout
	}
	if opts.Codec == nil {
		opts.Codec = protocol.DefaultCodec
	}
	return &Server{
		workers:        workers,
		codec:          opts.Codec,
		clientTimeout:  opts.ClientTimeout,
		forwardTimeout: opts.ForwardTimeout,
		scatterTimeout: opts.ScatterTimeout,
	}
}

// Workers returns the ordered worker list.
func (s *Server) Workers() []cluster.WorkerNode {
	return s.workers
}

// Serve accepts connections on ln until Close is called, handling each
// connection in its own goroutine.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("coordinator accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting and waits for in-flight handlers to drain.
func (s *Server) Close() error {
	s.mu.Lock()
	ln := s.ln
	s.mu.Unlock()

	var err error
	if ln != nil {
		err = ln.Close()
	}
	s.wg.Wait()
	return err
}

// handleConn serves exactly one request on conn and closes it.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(s.clientTimeout)); err != nil {
		log.Printf("coordinator: set deadline: %v", err)
		return
	}

	req, err := protocol.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		// Protocol error: answer with a failure status when the stream is
		// still usable, otherwise just drop the connection.
		log.Printf("coordinator: bad request from %s: %v", conn.RemoteAddr(), err)
		s.respondStatus(conn, protocol.Fail("", err.Error()))
		return
	}

	resp := s.dispatch(req)
	if err := protocol.WriteResponse(conn, resp); err != nil {
		log.Printf("coordinator: write response to %s: %v", conn.RemoteAddr(), err)
	}
}

// dispatch classifies and executes one request, always producing a
// single-line response payload.
func (s *Server) dispatch(req protocol.Request) []byte {
	if protocol.IsAggregate(req.Op) {
		return s.aggregate(req)
	}
	return s.forwardPoint(req)
}

// forwardPoint resolves the owning worker for a point operation and
// relays the exchange verbatim: the payload is never decoded beyond what
// routing itself needs.
func (s *Server) forwardPoint(req protocol.Request) []byte {
	if err := req.Validate(); err != nil {
		return s.statusPayload(protocol.Fail("", err.Error()))
	}

	key := req.RoutingKey
	if req.Op == protocol.OpAddStore {
		// The store name travels inside the ADD_STORE payload.
		var rec protocol.StoreRecord
		if err := s.codec.Unmarshal(req.Payload, &rec); err != nil {
			return s.statusPayload(protocol.Fail("", "could not parse store payload: "+err.Error()))
		}
		key = rec.StoreName
	}
	if strings.TrimSpace(key) == "" {
		return s.statusPayload(protocol.Fail("", req.Op+" requires a store name to route on"))
	}

	if len(s.workers) == 0 {
		return s.statusPayload(protocol.Fail(key, "no workers registered"))
	}

	node := s.workers[Route(key, len(s.workers))]
	log.Printf("coordinator: %s for %q -> worker %s", req.Op, key, node.ID)

	resp, err := cluster.Call(node, s.forwardTimeout, req)
	if err != nil {
		log.Printf("coordinator: forward %s to %s failed: %v", req.Op, node.ID, err)
		return s.statusPayload(protocol.Fail(key, "worker call failed: "+err.Error()))
	}
	return resp
}

// respondStatus writes a status line directly, for failures detected
// before dispatch.
func (s *Server) respondStatus(conn net.Conn, status protocol.StatusResponse) {
	_ = protocol.WriteResponse(conn, s.statusPayload(status))
}

// statusPayload encodes a status response, falling back to a hand-built
// line if the codec itself fails.
func (s *Server) statusPayload(status protocol.StatusResponse) []byte {
	out, err := s.codec.Marshal(status)
	if err != nil {
		return []byte(`{"status":"FAILURE","message":"internal encoding error"}`)
	}
	return out
}
