package protocol

// Wire payload records. JSON tags preserve the historical field names; the
// catalog file format uses PascalCase keys (and "Available Amount" with a
// space), while command payloads use camelCase.

// StoreRecord is the ADD_STORE_REQUEST payload: a full store as it appears
// in the catalog file.
type StoreRecord struct {
	StoreName    string          `json:"StoreName"`
	Latitude     float64         `json:"Latitude"`
	Longitude    float64         `json:"Longitude"`
	FoodCategory string          `json:"FoodCategory"`
	Stars        int             `json:"Stars"`
	NoOfVotes    int             `json:"NoOfVotes"`
	StoreLogo    string          `json:"StoreLogo"`
	Products     []ProductRecord `json:"Products"`
}

// ProductRecord is one product inside a StoreRecord.
type ProductRecord struct {
	ProductName     string  `json:"ProductName"`
	ProductType     string  `json:"ProductType"`
	AvailableAmount int     `json:"Available Amount"`
	Price           float64 `json:"Price"`
}

// AddProductRequest is the ADD_PRODUCT_REQUEST payload. The target store
// travels as the routing key, not in the payload.
type AddProductRequest struct {
	ProductName            string  `json:"productName"`
	ProductType            string  `json:"productType"`
	Price                  float64 `json:"price"`
	InitialAvailableAmount int     `json:"initialAvailableAmount"`
}

// RemoveProductRequest is the REMOVE_PRODUCT_REQUEST payload.
type RemoveProductRequest struct {
	ProductName string `json:"productName"`
}

// UpdateStockRequest is the UPDATE_STOCK_REQUEST payload. QuantityChange
// may be negative; a change that would drive stock below zero clamps to
// zero on the worker.
type UpdateStockRequest struct {
	ProductName    string `json:"productName"`
	QuantityChange int    `json:"quantityChange"`
}

// OrderItem is one line of a purchase.
type OrderItem struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

// PurchaseRequest is the PURCHASE_REQUEST payload.
type PurchaseRequest struct {
	StoreName string      `json:"storeName"`
	Items     []OrderItem `json:"items"`
}

// RateStoreRequest is the RATE_STORE_REQUEST payload. Stars must be 1-5.
type RateStoreRequest struct {
	StoreName string `json:"storeName"`
	Stars     int    `json:"stars"`
}

// SearchQuery is the SEARCH_STORES_REQUEST payload. The filter fields are
// optional: empty string or zero means "don't filter".
type SearchQuery struct {
	ClientLatitude     float64 `json:"clientLatitude"`
	ClientLongitude    float64 `json:"clientLongitude"`
	FoodCategoryFilter string  `json:"foodCategoryFilter,omitempty"`
	MinStarsFilter     int     `json:"minStarsFilter,omitempty"`
	PriceRangeFilter   string  `json:"priceRangeFilter,omitempty"`
}

// StoreSummary is one search hit: a compact per-store view, never the full
// store state.
type StoreSummary struct {
	StoreName     string  `json:"storeName"`
	FoodCategory  string  `json:"foodCategory"`
	Stars         int     `json:"stars"`
	PriceCategory string  `json:"priceCategory"`
	DistanceKm    float64 `json:"distanceKm"`
	StoreLogoPath string  `json:"storeLogoPath"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
}

// SearchResponse is the SEARCH_STORES_RESPONSE payload.
type SearchResponse struct {
	Results []StoreSummary `json:"results"`
}

// MapTask is the MAP_TASK_REQUEST payload sent to every worker during an
// aggregate sales query.
type MapTask struct {
	TaskType  string `json:"taskTypeIdentifier"`
	Criterion string `json:"targetCriteria"`
}

// SalesEntry is the unit of partial result exchanged during
// scatter-gather. ItemName is a product name or a store name depending on
// the query shape.
type SalesEntry struct {
	ItemName      string  `json:"itemName"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalRevenue  float64 `json:"totalRevenue"`
}

// MapTaskResponse carries one worker's partial entries back to the
// coordinator.
type MapTaskResponse struct {
	MappedResults []SalesEntry `json:"mappedResults"`
}

// SalesResponse is the reduced answer for the sales queries, point or
// aggregate.
type SalesResponse struct {
	QueryType         string       `json:"queryType"`
	QueryContext      string       `json:"queryContext"`
	GrandTotalRevenue float64      `json:"grandTotalRevenue"`
	Entries           []SalesEntry `json:"entries"`
}

// StatusResponse is the generic acknowledgement for mutating operations
// and the uniform failure shape for every error class.
type StatusResponse struct {
	StoreName string `json:"storeName,omitempty"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// OK builds a success status for storeName.
func OK(storeName, message string) StatusResponse {
	return StatusResponse{StoreName: storeName, Status: StatusSuccess, Message: message}
}

// Fail builds a failure status for storeName.
func Fail(storeName, message string) StatusResponse {
	return StatusResponse{StoreName: storeName, Status: StatusFailure, Message: message}
}
