package protocol

// Operation tokens. These are literal wire strings and must not change:
// clients and workers match on them byte-for-byte.
const (
	OpAddStore                  = "ADD_STORE_REQUEST"
	OpAddProduct                = "ADD_PRODUCT_REQUEST"
	OpRemoveProduct             = "REMOVE_PRODUCT_REQUEST"
	OpUpdateStock               = "UPDATE_STOCK_REQUEST"
	OpGetSalesByProduct         = "GET_SALES_BY_PRODUCT_REQUEST"
	OpSearchStores              = "SEARCH_STORES_REQUEST"
	OpPurchase                  = "PURCHASE_REQUEST"
	OpRateStore                 = "RATE_STORE_REQUEST"
	OpGetSalesByStoreType       = "GET_SALES_BY_STORE_TYPE_REQUEST"
	OpGetSalesByProductCategory = "GET_SALES_BY_PRODUCT_CATEGORY_REQUEST"

	// OpMapTask is only ever sent coordinator-to-worker during an
	// aggregate query's scatter phase.
	OpMapTask = "MAP_TASK_REQUEST"
)

// Map task type identifiers carried in MapTask.TaskType.
const (
	TaskProductCategorySales = "PRODUCT_CATEGORY_SALES"
	TaskStoreTypeSales       = "STORE_TYPE_SALES"
)

// Status values carried in StatusResponse.Status.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

var knownOps = map[string]bool{
	OpAddStore:                  true,
	OpAddProduct:                true,
	OpRemoveProduct:             true,
	OpUpdateStock:               true,
	OpGetSalesByProduct:         true,
	OpSearchStores:              true,
	OpPurchase:                  true,
	OpRateStore:                 true,
	OpGetSalesByStoreType:       true,
	OpGetSalesByProductCategory: true,
	OpMapTask:                   true,
}

// aggregateOps are answered by scatter-gather over every worker; everything
// else is a point operation served by the single owning worker.
var aggregateOps = map[string]bool{
	OpSearchStores:              true,
	OpGetSalesByStoreType:       true,
	OpGetSalesByProductCategory: true,
}

// routedOps require a routing key (the store name) on the first line.
// ADD_STORE_REQUEST is routed too, but its key travels inside the payload.
var routedOps = map[string]bool{
	OpAddProduct:        true,
	OpRemoveProduct:     true,
	OpUpdateStock:       true,
	OpGetSalesByProduct: true,
	OpPurchase:          true,
	OpRateStore:         true,
}

// KnownOp reports whether op is a valid operation token.
func KnownOp(op string) bool { return knownOps[op] }

// IsAggregate reports whether op must be fanned out to every worker.
func IsAggregate(op string) bool { return aggregateOps[op] }

// RequiresRoutingKey reports whether op must carry a routing key on its
// first line. Requests missing one must be rejected before any worker is
// contacted.
func RequiresRoutingKey(op string) bool { return routedOps[op] }
