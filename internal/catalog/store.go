package catalog

import (
	"math"

	"github.com/krimits/Food-App/internal/protocol"
)

// Price tier boundaries over the mean product price.
const (
	tierCheapMax = 5.0
	tierMidMax   = 15.0
)

// Product is the runtime state of one product in a store. Visible is the
// soft-delete flag: a hidden product is gone from the customer's point of
// view but keeps its sales history.
type Product struct {
	Name            string
	Type            string
	Price           float64
	AvailableAmount int
	Visible         bool
}

// Store is the runtime state of one store, owned by exactly one worker.
type Store struct {
	Name          string
	Latitude      float64
	Longitude     float64
	FoodCategory  string
	Stars         int
	NoOfVotes     int
	LogoPath      string
	PriceCategory string

	Products       map[string]*Product
	SalesByProduct map[string]int // product name -> quantity sold
	TotalRevenue   float64        // accumulated at sale-time prices
}

// NewStore builds runtime store state from its wire record and derives the
// initial price category.
func NewStore(rec protocol.StoreRecord) *Store {
	s := &Store{
		Name:           rec.StoreName,
		Latitude:       rec.Latitude,
		Longitude:      rec.Longitude,
		FoodCategory:   rec.FoodCategory,
		Stars:          rec.Stars,
		NoOfVotes:      rec.NoOfVotes,
		LogoPath:       rec.StoreLogo,
		Products:       make(map[string]*Product, len(rec.Products)),
		SalesByProduct: make(map[string]int),
	}
	for _, p := range rec.Products {
		s.Products[p.ProductName] = &Product{
			Name:            p.ProductName,
			Type:            p.ProductType,
			Price:           p.Price,
			AvailableAmount: p.AvailableAmount,
			Visible:         true,
		}
	}
	s.recalcPriceCategory()
	return s
}

// recalcPriceCategory derives the $ / $$ / $$$ tier from the mean price of
// all products, hidden ones included. A store with no products gets "-".
func (s *Store) recalcPriceCategory() {
	if len(s.Products) == 0 {
		s.PriceCategory = "-"
		return
	}
	var sum float64
	for _, p := range s.Products {
		sum += p.Price
	}
	switch avg := sum / float64(len(s.Products)); {
	case avg <= tierCheapMax:
		s.PriceCategory = "$"
	case avg <= tierMidMax:
		s.PriceCategory = "$$"
	default:
		s.PriceCategory = "$$$"
	}
}

// recordSale accumulates a sold quantity and its revenue at the price the
// sale actually happened at.
func (s *Store) recordSale(productName string, quantity int, pricePerItem float64) {
	s.SalesByProduct[productName] += quantity
	s.TotalRevenue += float64(quantity) * pricePerItem
}

// applyRating folds one vote into the running average:
// newAvg = round((oldAvg*oldVotes + stars) / (oldVotes + 1)).
func (s *Store) applyRating(stars int) {
	s.Stars = int(math.Round(float64(s.Stars*s.NoOfVotes+stars) / float64(s.NoOfVotes+1)))
	s.NoOfVotes++
}

// summary produces the compact search-result view of the store at a given
// distance from the client.
func (s *Store) summary(distanceKm float64) protocol.StoreSummary {
	return protocol.StoreSummary{
		StoreName:     s.Name,
		FoodCategory:  s.FoodCategory,
		Stars:         s.Stars,
		PriceCategory: s.PriceCategory,
		DistanceKm:    distanceKm,
		StoreLogoPath: s.LogoPath,
		Latitude:      s.Latitude,
		Longitude:     s.Longitude,
	}
}
