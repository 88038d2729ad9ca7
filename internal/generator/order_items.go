package generator

import (
	"fmt"
	"math/rand"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/Rana718/bulkgen/internal/registry"
	"github.com/google/uuid"
)

// itemCountWeights are the odds of an order holding 1 through 5 items.
var itemCountWeights = []float64{0.40, 0.30, 0.15, 0.10, 0.05}

// ProductLookup resolves the snapshot copied into an order item.
type ProductLookup interface {
	Product(id uuid.UUID) (registry.ProductSnapshot, bool)
}

// OrderItemGenerator produces all items of the order at the given index.
// Snapshots are read from lookup without locking; the product phase has
// finished merging before this generator is built.
type OrderItemGenerator struct {
	cfg      config.OrderItems
	orders   []uuid.UUID
	products []uuid.UUID
	lookup   ProductLookup
}

func NewOrderItemGenerator(cfg config.OrderItems, orders, products []uuid.UUID, lookup ProductLookup) *OrderItemGenerator {
	return &OrderItemGenerator{cfg: cfg, orders: orders, products: products, lookup: lookup}
}

func (g *OrderItemGenerator) Generate(rng *rand.Rand, index int) ([]model.OrderItem, error) {
	if index < 0 || index >= len(g.orders) {
		return nil, fmt.Errorf("order index %d out of range [0, %d)", index, len(g.orders))
	}
	if len(g.products) == 0 {
		return nil, nil
	}
	f := newFaker(rng)
	orderID := g.orders[index]

	n := f.weighted(itemCountWeights) + 1
	items := make([]model.OrderItem, 0, n)
	for i := 0; i < n; i++ {
		id, err := newID("order item")
		if err != nil {
			return nil, err
		}

		productID := pick(f, g.products)
		snap, ok := g.lookup.Product(productID)
		if !ok {
			return nil, fmt.Errorf("product %s has no snapshot", productID)
		}

		qty := f.intBetween(g.cfg.MinQuantity, g.cfg.MaxQuantity)
		discount := snap.Price.Mul(f.floatBetween(0, 0.15) * float64(qty))

		items = append(items, model.OrderItem{
			ID:             id,
			OrderID:        orderID,
			ProductID:      productID,
			ProductName:    snap.Name,
			ProductSKU:     snap.SKU,
			Quantity:       qty,
			UnitPrice:      snap.Price,
			DiscountAmount: discount,
			LineTotal:      snap.Price.Times(qty) - discount,
		})
	}
	return items, nil
}
