package coordinator

import (
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/krimits/Food-App/internal/cluster"
	"github.com/krimits/Food-App/internal/protocol"
)

// SalesQueryFilter is the client payload for the aggregate sales queries.
// Only the field matching the query shape is consulted; the routing key on
// the first line, when present, takes precedence.
type SalesQueryFilter struct {
	StoreName    string `json:"storeName,omitempty"`
	FoodCategory string `json:"foodCategory,omitempty"`
	ProductType  string `json:"productType,omitempty"`
}

// aggregate serves the scatter-gather operations: store search and the
// two sales rollups.
func (s *Server) aggregate(req protocol.Request) []byte {
	switch req.Op {
	case protocol.OpSearchStores:
		return s.aggregateSearch(req)
	case protocol.OpGetSalesByProductCategory:
		return s.aggregateSales(req, "SALES_BY_PRODUCT_CATEGORY", protocol.TaskProductCategorySales)
	case protocol.OpGetSalesByStoreType:
		return s.aggregateSales(req, "SALES_BY_STORE_TYPE", protocol.TaskStoreTypeSales)
	default:
		return s.statusPayload(protocol.Fail("", "unsupported aggregate operation "+req.Op))
	}
}

// scatter sends one request to every worker concurrently and returns the
// raw responses of the workers that answered within the per-call bound.
// Workers that fail or time out contribute nothing; the query proceeds on
// whatever arrived, with end-to-end latency bounded by the slowest
// answering worker rather than the sum of all calls.
func (s *Server) scatter(req protocol.Request) [][]byte {
	var (
		mu        sync.Mutex
		responses [][]byte
		wg        sync.WaitGroup
	)
	for _, node := range s.workers {
		wg.Add(1)
		go func(node cluster.WorkerNode) {
			defer wg.Done()
			resp, err := cluster.Call(node, s.scatterTimeout, req)
			if err != nil {
				log.Printf("coordinator: scatter %s to %s failed, degrading coverage: %v", req.Op, node.ID, err)
				return
			}
			mu.Lock()
			responses = append(responses, resp)
			mu.Unlock()
		}(node)
	}
	wg.Wait()
	return responses
}

// aggregateSearch broadcasts the search payload unchanged and reduces by
// concatenation: each worker has already applied every filter locally, so
// the coordinator only merges the partial hit lists.
func (s *Server) aggregateSearch(req protocol.Request) []byte {
	merged := protocol.SearchResponse{Results: []protocol.StoreSummary{}}
	if len(s.workers) == 0 {
		out, _ := s.codec.Marshal(merged)
		return out
	}

	for _, raw := range s.scatter(req) {
		var partial protocol.SearchResponse
		if err := s.codec.Unmarshal(raw, &partial); err != nil {
			log.Printf("coordinator: discarding unparseable search partial: %v", err)
			continue
		}
		merged.Results = append(merged.Results, partial.Results...)
	}

	log.Printf("coordinator: search aggregated %d results from %d workers", len(merged.Results), len(s.workers))
	out, err := s.codec.Marshal(merged)
	if err != nil {
		return s.statusPayload(protocol.Fail("", "could not encode search response"))
	}
	return out
}

// aggregateSales runs one of the sales map tasks across all workers and
// reduces the partial entries: grouped by store name, revenue summed, the
// grand total being the sum over all groups. Quantities are not meaningful
// for this query shape and are reported as zero.
func (s *Server) aggregateSales(req protocol.Request, queryType, taskType string) []byte {
	criterion := s.salesCriterion(req, taskType)
	resp := protocol.SalesResponse{QueryType: queryType, QueryContext: criterion, Entries: []protocol.SalesEntry{}}
	if strings.TrimSpace(criterion) == "" || len(s.workers) == 0 {
		// No criterion or no workers: an empty result set is still a valid
		// answer for an aggregate read.
		out, _ := s.codec.Marshal(resp)
		return out
	}

	task, err := s.codec.Marshal(protocol.MapTask{TaskType: taskType, Criterion: criterion})
	if err != nil {
		return s.statusPayload(protocol.Fail("", "could not encode map task"))
	}

	var collected []protocol.SalesEntry
	for _, raw := range s.scatter(protocol.Request{Op: protocol.OpMapTask, Payload: task}) {
		var partial protocol.MapTaskResponse
		if err := s.codec.Unmarshal(raw, &partial); err != nil {
			log.Printf("coordinator: discarding unparseable map-task partial: %v", err)
			continue
		}
		collected = append(collected, partial.MappedResults...)
	}

	resp.Entries, resp.GrandTotalRevenue = reduceSales(collected)
	log.Printf("coordinator: %s(%q) reduced to %d stores, grand total %.2f",
		queryType, criterion, len(resp.Entries), resp.GrandTotalRevenue)

	out, err := s.codec.Marshal(resp)
	if err != nil {
		return s.statusPayload(protocol.Fail("", "could not encode sales response"))
	}
	return out
}

// salesCriterion extracts the query criterion: the routing key when the
// client put it on the first line, otherwise the matching payload field.
func (s *Server) salesCriterion(req protocol.Request, taskType string) string {
	if strings.TrimSpace(req.RoutingKey) != "" {
		return req.RoutingKey
	}
	var filter SalesQueryFilter
	if len(req.Payload) > 0 {
		if err := s.codec.Unmarshal(req.Payload, &filter); err != nil {
			return ""
		}
	}
	if taskType == protocol.TaskStoreTypeSales {
		return filter.FoodCategory
	}
	return filter.ProductType
}

// reduceSales groups partial entries by store name, sums their revenue and
// computes the grand total. Entries come back sorted by store name so the
// reduced answer is deterministic.
func reduceSales(entries []protocol.SalesEntry) ([]protocol.SalesEntry, float64) {
	byStore := make(map[string]float64, len(entries))
	for _, e := range entries {
		byStore[e.ItemName] += e.TotalRevenue
	}

	reduced := make([]protocol.SalesEntry, 0, len(byStore))
	var grandTotal float64
	for name, revenue := range byStore {
		reduced = append(reduced, protocol.SalesEntry{ItemName: name, TotalRevenue: revenue})
		grandTotal += revenue
	}
	sort.Slice(reduced, func(i, j int) bool { return reduced[i].ItemName < reduced[j].ItemName })
	return reduced, grandTotal
}
