package catalog

import (
	"fmt"

	"github.com/krimits/Food-App/internal/protocol"
)

// maxSearchDistanceKm bounds every search: stores further than this from
// the client never match, whatever the other filters say.
const maxSearchDistanceKm = 5.0

// Executor runs the per-worker map tasks of aggregate queries against a
// shard's locally owned stores. It only ever emits compact partial
// entries, never full store state.
type Executor struct {
	shard *Shard
}

// NewExecutor wraps a shard for map-task execution.
func NewExecutor(sh *Shard) *Executor {
	return &Executor{shard: sh}
}

// Search scans the local stores against the query's distance, category,
// star and price-tier filters and returns a summary per matching store.
func (e *Executor) Search(q protocol.SearchQuery) []protocol.StoreSummary {
	var results []protocol.StoreSummary
	e.shard.forEach(func(st *Store) {
		dist := haversineKm(q.ClientLatitude, q.ClientLongitude, st.Latitude, st.Longitude)
		if dist > maxSearchDistanceKm {
			return
		}
		if q.FoodCategoryFilter != "" && st.FoodCategory != q.FoodCategoryFilter {
			return
		}
		if q.MinStarsFilter > 0 && st.Stars < q.MinStarsFilter {
			return
		}
		if q.PriceRangeFilter != "" && st.PriceCategory != q.PriceRangeFilter {
			return
		}
		results = append(results, st.summary(dist))
	})
	return results
}

// RunMapTask dispatches on the task type and returns one partial entry per
// local store with nonzero matching revenue, keyed by store name.
func (e *Executor) RunMapTask(task protocol.MapTask) ([]protocol.SalesEntry, error) {
	switch task.TaskType {
	case protocol.TaskProductCategorySales:
		return e.salesByProductType(task.Criterion), nil
	case protocol.TaskStoreTypeSales:
		return e.salesByStoreCategory(task.Criterion), nil
	default:
		return nil, fmt.Errorf("unknown map task type %q", task.TaskType)
	}
}

// salesByProductType sums, per store, the revenue of sold products whose
// type matches the criterion. Revenue uses the product's current price as
// a proxy for the historical sale price.
func (e *Executor) salesByProductType(productType string) []protocol.SalesEntry {
	var entries []protocol.SalesEntry
	e.shard.forEach(func(st *Store) {
		var revenue float64
		for name, qty := range st.SalesByProduct {
			p, ok := st.Products[name]
			if !ok || p.Type != productType {
				continue
			}
			revenue += float64(qty) * p.Price
		}
		if revenue > 0 {
			entries = append(entries, protocol.SalesEntry{ItemName: st.Name, TotalRevenue: revenue})
		}
	})
	return entries
}

// salesByStoreCategory emits the total revenue of every local store whose
// food category matches the criterion. TotalRevenue already tracks
// sale-time prices, so no proxy is needed here.
func (e *Executor) salesByStoreCategory(foodCategory string) []protocol.SalesEntry {
	var entries []protocol.SalesEntry
	e.shard.forEach(func(st *Store) {
		if st.FoodCategory != foodCategory || st.TotalRevenue == 0 {
			return
		}
		entries = append(entries, protocol.SalesEntry{ItemName: st.Name, TotalRevenue: st.TotalRevenue})
	})
	return entries
}
