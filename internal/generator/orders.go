package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/google/uuid"
)

var (
	orderStatusWeights = []float64{0.10, 0.20, 0.30, 0.35, 0.05}
	shippingFees       = []int64{0, 500, 1000, 2000}
)

// OrderGenerator draws buyers from users, which the caller passes as the
// eligible head of the user registry.
type OrderGenerator struct {
	cfg   config.Orders
	users []uuid.UUID
	now   time.Time
}

func NewOrderGenerator(cfg config.Orders, users []uuid.UUID, now time.Time) *OrderGenerator {
	return &OrderGenerator{cfg: cfg, users: users, now: now}
}

func (g *OrderGenerator) Generate(rng *rand.Rand, index int) (model.Order, error) {
	id, err := newID("order")
	if err != nil {
		return model.Order{}, err
	}
	f := newFaker(rng)

	subtotal := model.MoneyFromFloat(f.floatBetween(1000, 500000))
	tax := subtotal.Mul(g.cfg.TaxRate)
	shipping := model.Units(pick(f, shippingFees))
	discount := subtotal.Mul(f.floatBetween(0, 0.2))

	start := g.now.AddDate(0, 0, -g.cfg.DateRangeDays)
	created := start.AddDate(0, 0, f.intBetween(0, g.cfg.DateRangeDays)).
		Add(time.Duration(f.intBetween(0, 23)) * time.Hour).
		Add(time.Duration(f.intBetween(0, 59)) * time.Minute)

	o := model.Order{
		ID:              id,
		OrderNumber:     fmt.Sprintf("ORD-%s-%06d", g.now.Format("20060102"), index+1),
		Subtotal:        subtotal,
		TaxAmount:       tax,
		ShippingAmount:  shipping,
		DiscountAmount:  discount,
		TotalAmount:     subtotal + tax + shipping - discount,
		Status:          model.OrderStatuses[f.weighted(orderStatusWeights)],
		ShippingAddress: fmt.Sprintf("Shipping address %d", index+1),
		BillingAddress:  fmt.Sprintf("Billing address %d", index+1),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	if len(g.users) > 0 {
		o.UserID = ptr(pick(f, g.users))
	}
	if f.chance(0.3) {
		o.Notes = ptr(fmt.Sprintf("Order notes %d", index+1))
	}
	if o.Status.IsTerminal() {
		o.CompletedAt = ptr(created.AddDate(0, 0, f.intBetween(1, 7)))
	}
	return o, nil
}
