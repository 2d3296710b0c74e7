package catalog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/krimits/Food-App/internal/protocol"
)

// Domain errors surfaced to callers as failure statuses.
var (
	ErrStoreExists       = errors.New("store already exists")
	ErrStoreNotFound     = errors.New("store not found")
	ErrProductExists     = errors.New("product already exists")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductHidden     = errors.New("product not available")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
)

// Shard is the set of stores one worker owns. It is an explicit repository
// handed to the request dispatcher; there is no process-wide registry.
//
// A single RWMutex serializes all mutations. Per-store locking would raise
// throughput, but the coarse lock is the correctness baseline: every
// operation below is a serializable read-modify-write on one store.
type Shard struct {
	mu     sync.RWMutex
	stores map[string]*Store
}

// NewShard creates an empty shard.
func NewShard() *Shard {
	return &Shard{stores: make(map[string]*Store)}
}

// AddStore inserts a new store built from rec. It fails if a store with
// the same name already lives on this shard.
func (sh *Shard) AddStore(rec protocol.StoreRecord) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.stores[rec.StoreName]; ok {
		return fmt.Errorf("%w: %q", ErrStoreExists, rec.StoreName)
	}
	sh.stores[rec.StoreName] = NewStore(rec)
	return nil
}

// AddProduct inserts a new product into an existing store and recomputes
// the store's price category.
func (sh *Shard) AddProduct(storeName string, req protocol.AddProductRequest) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}
	if _, ok := st.Products[req.ProductName]; ok {
		return fmt.Errorf("%w: %q in store %q", ErrProductExists, req.ProductName, storeName)
	}
	st.Products[req.ProductName] = &Product{
		Name:            req.ProductName,
		Type:            req.ProductType,
		Price:           req.Price,
		AvailableAmount: req.InitialAvailableAmount,
		Visible:         true,
	}
	st.recalcPriceCategory()
	return nil
}

// RemoveProduct soft-deletes a product: it becomes invisible to customers
// but its sales history stays intact.
func (sh *Shard) RemoveProduct(storeName, productName string) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}
	p, ok := st.Products[productName]
	if !ok {
		return fmt.Errorf("%w: %q in store %q", ErrProductNotFound, productName, storeName)
	}
	p.Visible = false
	return nil
}

// UpdateStock applies delta to a product's available amount. A delta that
// would drive the amount negative succeeds and clamps to zero; that is a
// stock correction, not an error. The resulting amount is returned.
func (sh *Shard) UpdateStock(storeName, productName string, delta int) (int, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}
	p, ok := st.Products[productName]
	if !ok {
		return 0, fmt.Errorf("%w: %q in store %q", ErrProductNotFound, productName, storeName)
	}
	p.AvailableAmount += delta
	if p.AvailableAmount < 0 {
		p.AvailableAmount = 0
	}
	return p.AvailableAmount, nil
}

// Purchase executes an all-or-nothing order: every item is validated
// against the live state before any stock moves. On success each item's
// stock is decremented and the sold quantity and revenue (at current sale
// price) are recorded. The order total is returned.
func (sh *Shard) Purchase(storeName string, items []protocol.OrderItem) (float64, error) {
	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}

	// Validation pass: nothing changes unless the whole order fits.
	// Quantities are totaled per product first, so an order naming the
	// same product on several lines is checked against stock as a whole.
	requested := make(map[string]int, len(items))
	for _, item := range items {
		p, ok := st.Products[item.ProductName]
		if !ok {
			return 0, fmt.Errorf("%w: %q in store %q", ErrProductNotFound, item.ProductName, storeName)
		}
		if !p.Visible {
			return 0, fmt.Errorf("%w: %q in store %q", ErrProductHidden, item.ProductName, storeName)
		}
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("%w: %q requested %d", ErrInsufficientStock, item.ProductName, item.Quantity)
		}
		requested[item.ProductName] += item.Quantity
		if requested[item.ProductName] > p.AvailableAmount {
			return 0, fmt.Errorf("%w: %q has %d, requested %d",
				ErrInsufficientStock, item.ProductName, p.AvailableAmount, requested[item.ProductName])
		}
	}

	var total float64
	for _, item := range items {
		p := st.Products[item.ProductName]
		p.AvailableAmount -= item.Quantity
		st.recordSale(item.ProductName, item.Quantity, p.Price)
		total += float64(item.Quantity) * p.Price
	}
	return total, nil
}

// Rate folds a 1-5 star vote into the store's running average and returns
// the new average and vote count.
func (sh *Shard) Rate(storeName string, stars int) (avg, votes int, err error) {
	if stars < 1 || stars > 5 {
		return 0, 0, fmt.Errorf("%w: got %d", ErrInvalidRating, stars)
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}
	st.applyRating(stars)
	return st.Stars, st.NoOfVotes, nil
}

// SalesByProduct reports per-product sold quantities and revenue for one
// store. Per-entry revenue uses the product's current price as a proxy;
// the grand total is the store's accumulated sale-time revenue, which is
// exact. A product removed after selling still appears, with zero revenue
// if its price is no longer known.
func (sh *Shard) SalesByProduct(storeName string) ([]protocol.SalesEntry, float64, error) {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	st, ok := sh.stores[storeName]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrStoreNotFound, storeName)
	}

	entries := make([]protocol.SalesEntry, 0, len(st.SalesByProduct))
	for name, qty := range st.SalesByProduct {
		var revenue float64
		if p, ok := st.Products[name]; ok {
			revenue = float64(qty) * p.Price
		}
		entries = append(entries, protocol.SalesEntry{
			ItemName:      name,
			TotalQuantity: qty,
			TotalRevenue:  revenue,
		})
	}
	return entries, st.TotalRevenue, nil
}

// NumStores returns how many stores this shard owns.
func (sh *Shard) NumStores() int {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.stores)
}

// forEach runs fn over every store under the read lock. fn must not
// mutate.
func (sh *Shard) forEach(fn func(*Store)) {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	for _, st := range sh.stores {
		fn(st)
	}
}
