package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krimits/Food-App/internal/protocol"
)

// Client location used throughout: central Athens.
const (
	clientLat = 37.9838
	clientLon = 23.7275
)

func searchFixture(t *testing.T) *Executor {
	t.Helper()
	sh := NewShard()

	// Within 5km of the client, pizzeria.
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "NearPizza", Latitude: clientLat + 0.01, Longitude: clientLon,
		FoodCategory: "pizzeria", Stars: 4,
		Products: []protocol.ProductRecord{{ProductName: "margherita", ProductType: "pizza", Price: 9, AvailableAmount: 5}},
	}))
	// Within 5km, different category.
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "NearSouvlaki", Latitude: clientLat, Longitude: clientLon + 0.01,
		FoodCategory: "souvlaki", Stars: 5,
		Products: []protocol.ProductRecord{{ProductName: "kalamaki", ProductType: "souvlaki", Price: 3, AvailableAmount: 20}},
	}))
	// Same category but ~11km away.
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "FarPizza", Latitude: clientLat + 0.1, Longitude: clientLon,
		FoodCategory: "pizzeria", Stars: 5,
		Products: []protocol.ProductRecord{{ProductName: "quattro", ProductType: "pizza", Price: 11, AvailableAmount: 5}},
	}))
	return NewExecutor(sh)
}

// TestHaversine sanity-checks the distance function: zero for identical
// points and roughly 1.11km per 0.01 degrees of latitude.
func TestHaversine(t *testing.T) {
	assert.InDelta(t, 0, haversineKm(clientLat, clientLon, clientLat, clientLon), 1e-9)
	assert.InDelta(t, 1.11, haversineKm(clientLat, clientLon, clientLat+0.01, clientLon), 0.02)
	assert.InDelta(t, 11.1, haversineKm(clientLat, clientLon, clientLat+0.1, clientLon), 0.2)
}

// TestSearchDistanceBound verifies the hard 5km radius: the far store
// never matches even with no other filters.
func TestSearchDistanceBound(t *testing.T) {
	ex := searchFixture(t)

	results := ex.Search(protocol.SearchQuery{ClientLatitude: clientLat, ClientLongitude: clientLon})
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.StoreName)
	}
	assert.ElementsMatch(t, []string{"NearPizza", "NearSouvlaki"}, names)
}

// TestSearchCategoryFilter verifies that distance and category together
// select exactly one store, and that the summary carries the computed
// distance and tier.
func TestSearchCategoryFilter(t *testing.T) {
	ex := searchFixture(t)

	results := ex.Search(protocol.SearchQuery{
		ClientLatitude: clientLat, ClientLongitude: clientLon,
		FoodCategoryFilter: "pizzeria",
	})
	require.Len(t, results, 1)
	hit := results[0]
	assert.Equal(t, "NearPizza", hit.StoreName)
	assert.Equal(t, "pizzeria", hit.FoodCategory)
	assert.Equal(t, "$$", hit.PriceCategory)
	assert.Greater(t, hit.DistanceKm, 0.0)
	assert.LessOrEqual(t, hit.DistanceKm, 5.0)
}

// TestSearchStarsAndPriceFilters verifies the optional minimum-star and
// price-tier filters.
func TestSearchStarsAndPriceFilters(t *testing.T) {
	ex := searchFixture(t)

	// Min stars 5 leaves only the souvlaki place among the near stores.
	results := ex.Search(protocol.SearchQuery{
		ClientLatitude: clientLat, ClientLongitude: clientLon,
		MinStarsFilter: 5,
	})
	require.Len(t, results, 1)
	assert.Equal(t, "NearSouvlaki", results[0].StoreName)

	// Price tier $ matches the cheap souvlaki store only.
	results = ex.Search(protocol.SearchQuery{
		ClientLatitude: clientLat, ClientLongitude: clientLon,
		PriceRangeFilter: "$",
	})
	require.Len(t, results, 1)
	assert.Equal(t, "NearSouvlaki", results[0].StoreName)
}

// TestMapTaskProductCategorySales verifies the per-store revenue rollup
// for one product type, priced at current product prices.
func TestMapTaskProductCategorySales(t *testing.T) {
	sh := NewShard()
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "A", FoodCategory: "pizzeria",
		Products: []protocol.ProductRecord{
			{ProductName: "margherita", ProductType: "pizza", Price: 5, AvailableAmount: 10},
			{ProductName: "cola", ProductType: "drink", Price: 2, AvailableAmount: 10},
		},
	}))
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "B", FoodCategory: "cafe",
		Products: []protocol.ProductRecord{
			{ProductName: "espresso", ProductType: "coffee", Price: 2, AvailableAmount: 10},
		},
	}))
	ex := NewExecutor(sh)

	// Sell pizza and a drink at A, coffee at B.
	_, err := sh.Purchase("A", []protocol.OrderItem{
		{ProductName: "margherita", Quantity: 2},
		{ProductName: "cola", Quantity: 1},
	})
	require.NoError(t, err)
	_, err = sh.Purchase("B", []protocol.OrderItem{{ProductName: "espresso", Quantity: 3}})
	require.NoError(t, err)

	entries, err := ex.RunMapTask(protocol.MapTask{TaskType: protocol.TaskProductCategorySales, Criterion: "pizza"})
	require.NoError(t, err)

	// Only store A sold pizza; the cola revenue must not leak in.
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].ItemName)
	assert.InDelta(t, 10.0, entries[0].TotalRevenue, 1e-9)
}

// TestMapTaskStoreTypeSales verifies the per-store rollup keyed on food
// category, using accumulated sale-time revenue, and that zero-revenue
// stores are omitted.
func TestMapTaskStoreTypeSales(t *testing.T) {
	sh := NewShard()
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "A", FoodCategory: "pizzeria",
		Products: []protocol.ProductRecord{{ProductName: "margherita", ProductType: "pizza", Price: 5, AvailableAmount: 10}},
	}))
	require.NoError(t, sh.AddStore(protocol.StoreRecord{
		StoreName: "Quiet", FoodCategory: "pizzeria",
		Products: []protocol.ProductRecord{{ProductName: "quattro", ProductType: "pizza", Price: 8, AvailableAmount: 10}},
	}))
	ex := NewExecutor(sh)

	_, err := sh.Purchase("A", []protocol.OrderItem{{ProductName: "margherita", Quantity: 2}})
	require.NoError(t, err)

	entries, err := ex.RunMapTask(protocol.MapTask{TaskType: protocol.TaskStoreTypeSales, Criterion: "pizzeria"})
	require.NoError(t, err)

	require.Len(t, entries, 1, "store with no sales must be omitted")
	assert.Equal(t, "A", entries[0].ItemName)
	assert.InDelta(t, 10.0, entries[0].TotalRevenue, 1e-9)

	// Non-matching category yields nothing.
	entries, err = ex.RunMapTask(protocol.MapTask{TaskType: protocol.TaskStoreTypeSales, Criterion: "cafe"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestMapTaskUnknownType verifies the executor rejects task types it does
// not understand.
func TestMapTaskUnknownType(t *testing.T) {
	ex := NewExecutor(NewShard())
	_, err := ex.RunMapTask(protocol.MapTask{TaskType: "GLOBAL_DOMINATION"})
	assert.Error(t, err)
}
