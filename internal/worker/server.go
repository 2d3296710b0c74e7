package worker

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/krimits/Food-App/internal/catalog"
	"github.com/krimits/Food-App/internal/protocol"
)

// defaultReadTimeout is the per-connection deadline for reading the
// request and writing the response.
const defaultReadTimeout = 30 * time.Second

// Server is one worker: a shard of stores, the map-task executor over it,
// and a connection-per-request TCP front end.
type Server struct {
	ID       string
	shard    *catalog.Shard
	executor *catalog.Executor
	codec    protocol.Codec
	timeout  time.Duration

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// NewServer creates a worker with an empty shard.
func NewServer(id string) *Server {
	sh := catalog.NewShard()
	return &Server{
		ID:       id,
		shard:    sh,
		executor: catalog.NewExecutor(sh),
		codec:    protocol.DefaultCodec,
		timeout:  defaultReadTimeout,
	}
}

// Shard exposes the worker's shard, mainly for tests and local tooling.
func (s *Server) Shard() *catalog.Shard { return s.shard }

// Serve accepts coordinator connections on ln until Close is called.
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
			return fmt.Errorf("worker %s accept: %w", s.ID, err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// Close stops accepting and waits for in-flight requests.
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

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		log.Printf("worker %s: set deadline: %v", s.ID, err)
		return
	}

	req, err := protocol.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		log.Printf("worker %s: bad request from %s: %v", s.ID, conn.RemoteAddr(), err)
		out, _ := s.codec.Marshal(protocol.Fail("", err.Error()))
		_ = protocol.WriteResponse(conn, out)
		return
	}

	if err := protocol.WriteResponse(conn, s.handle(req)); err != nil {
		log.Printf("worker %s: write response: %v", s.ID, err)
	}
}

// handle executes one decoded request against the shard or the executor
// and returns the encoded single-line response.
func (s *Server) handle(req protocol.Request) []byte {
	if err := req.Validate(); err != nil {
		return s.status(protocol.Fail("", err.Error()))
	}

	switch req.Op {
	case protocol.OpAddStore:
		return s.handleAddStore(req)
	case protocol.OpAddProduct:
		return s.handleAddProduct(req)
	case protocol.OpRemoveProduct:
		return s.handleRemoveProduct(req)
	case protocol.OpUpdateStock:
		return s.handleUpdateStock(req)
	case protocol.OpPurchase:
		return s.handlePurchase(req)
	case protocol.OpRateStore:
		return s.handleRateStore(req)
	case protocol.OpGetSalesByProduct:
		return s.handleSalesByProduct(req)
	case protocol.OpSearchStores:
		return s.handleSearch(req)
	case protocol.OpMapTask:
		return s.handleMapTask(req)
	default:
		return s.status(protocol.Fail("", "operation "+req.Op+" not supported by worker"))
	}
}

func (s *Server) handleAddStore(req protocol.Request) []byte {
	var rec protocol.StoreRecord
	if err := s.codec.Unmarshal(req.Payload, &rec); err != nil {
		return s.status(protocol.Fail("", "could not parse store payload: "+err.Error()))
	}
	if rec.StoreName == "" {
		return s.status(protocol.Fail("", "store payload has no StoreName"))
	}
	if err := s.shard.AddStore(rec); err != nil {
		return s.status(protocol.Fail(rec.StoreName, err.Error()))
	}
	log.Printf("worker %s: added store %q (%d products)", s.ID, rec.StoreName, len(rec.Products))
	return s.status(protocol.OK(rec.StoreName, "store added"))
}

func (s *Server) handleAddProduct(req protocol.Request) []byte {
	var p protocol.AddProductRequest
	if err := s.codec.Unmarshal(req.Payload, &p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not parse product payload: "+err.Error()))
	}
	if err := s.shard.AddProduct(req.RoutingKey, p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, err.Error()))
	}
	return s.status(protocol.OK(req.RoutingKey, fmt.Sprintf("product %q added", p.ProductName)))
}

func (s *Server) handleRemoveProduct(req protocol.Request) []byte {
	var p protocol.RemoveProductRequest
	if err := s.codec.Unmarshal(req.Payload, &p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not parse payload: "+err.Error()))
	}
	if err := s.shard.RemoveProduct(req.RoutingKey, p.ProductName); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, err.Error()))
	}
	return s.status(protocol.OK(req.RoutingKey, fmt.Sprintf("product %q marked unavailable", p.ProductName)))
}

func (s *Server) handleUpdateStock(req protocol.Request) []byte {
	var p protocol.UpdateStockRequest
	if err := s.codec.Unmarshal(req.Payload, &p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not parse payload: "+err.Error()))
	}
	newAmount, err := s.shard.UpdateStock(req.RoutingKey, p.ProductName, p.QuantityChange)
	if err != nil {
		return s.status(protocol.Fail(req.RoutingKey, err.Error()))
	}
	return s.status(protocol.OK(req.RoutingKey,
		fmt.Sprintf("stock for %q updated, new amount %d", p.ProductName, newAmount)))
}

func (s *Server) handlePurchase(req protocol.Request) []byte {
	var p protocol.PurchaseRequest
	if err := s.codec.Unmarshal(req.Payload, &p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not parse purchase payload: "+err.Error()))
	}
	storeName := req.RoutingKey
	if storeName == "" {
		storeName = p.StoreName
	}
	if len(p.Items) == 0 {
		return s.status(protocol.Fail(storeName, "purchase has no items"))
	}
	total, err := s.shard.Purchase(storeName, p.Items)
	if err != nil {
		return s.status(protocol.Fail(storeName, err.Error()))
	}
	return s.status(protocol.OK(storeName, fmt.Sprintf("purchase complete, total %.2f", total)))
}

func (s *Server) handleRateStore(req protocol.Request) []byte {
	var p protocol.RateStoreRequest
	if err := s.codec.Unmarshal(req.Payload, &p); err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not parse rating payload: "+err.Error()))
	}
	avg, votes, err := s.shard.Rate(req.RoutingKey, p.Stars)
	if err != nil {
		return s.status(protocol.Fail(req.RoutingKey, err.Error()))
	}
	return s.status(protocol.OK(req.RoutingKey,
		fmt.Sprintf("rating recorded, average now %d over %d votes", avg, votes)))
}

func (s *Server) handleSalesByProduct(req protocol.Request) []byte {
	entries, grandTotal, err := s.shard.SalesByProduct(req.RoutingKey)
	if err != nil {
		return s.status(protocol.Fail(req.RoutingKey, err.Error()))
	}
	out, err := s.codec.Marshal(protocol.SalesResponse{
		QueryType:         "SALES_BY_PRODUCT_FOR_STORE",
		QueryContext:      req.RoutingKey,
		GrandTotalRevenue: grandTotal,
		Entries:           entries,
	})
	if err != nil {
		return s.status(protocol.Fail(req.RoutingKey, "could not encode sales response"))
	}
	return out
}

func (s *Server) handleSearch(req protocol.Request) []byte {
	var q protocol.SearchQuery
	if err := s.codec.Unmarshal(req.Payload, &q); err != nil {
		return s.status(protocol.Fail("", "could not parse search payload: "+err.Error()))
	}
	results := s.executor.Search(q)
	if results == nil {
		results = []protocol.StoreSummary{}
	}
	out, err := s.codec.Marshal(protocol.SearchResponse{Results: results})
	if err != nil {
		return s.status(protocol.Fail("", "could not encode search response"))
	}
	return out
}

func (s *Server) handleMapTask(req protocol.Request) []byte {
	var task protocol.MapTask
	if err := s.codec.Unmarshal(req.Payload, &task); err != nil {
		return s.status(protocol.Fail("", "could not parse map task: "+err.Error()))
	}
	entries, err := s.executor.RunMapTask(task)
	if err != nil {
		return s.status(protocol.Fail("", err.Error()))
	}
	if entries == nil {
		entries = []protocol.SalesEntry{}
	}
	out, err := s.codec.Marshal(protocol.MapTaskResponse{MappedResults: entries})
	if err != nil {
		return s.status(protocol.Fail("", "could not encode map task response"))
	}
	return out
}

func (s *Server) status(st protocol.StatusResponse) []byte {
	out, err := s.codec.Marshal(st)
	if err != nil {
		return []byte(`{"status":"FAILURE","message":"internal encoding error"}`)
	}
	return out
}
