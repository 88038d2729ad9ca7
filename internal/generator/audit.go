package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/bulkgen/internal/model"
	"github.com/google/uuid"
)

// ErrNoAuditTargets is returned when no user, product or order exists to
// attach audit entries to.
var ErrNoAuditTargets = errors.New("no users, products or orders to audit")

// AuditGenerator draws entity ids uniformly from the union of users,
// products and orders. The entity type follows the pool the id came from.
type AuditGenerator struct {
	users    []uuid.UUID
	products []uuid.UUID
	orders   []uuid.UUID
	now      time.Time
}

func NewAuditGenerator(users, products, orders []uuid.UUID, now time.Time) (*AuditGenerator, error) {
	if len(users)+len(products)+len(orders) == 0 {
		return nil, ErrNoAuditTargets
	}
	return &AuditGenerator{users: users, products: products, orders: orders, now: now}, nil
}

func (g *AuditGenerator) entity(f faker) (model.EntityType, uuid.UUID) {
	k := f.rand.Intn(len(g.users) + len(g.products) + len(g.orders))
	if k < len(g.users) {
		return model.EntityUser, g.users[k]
	}
	k -= len(g.users)
	if k < len(g.products) {
		return model.EntityProduct, g.products[k]
	}
	return model.EntityOrder, g.orders[k-len(g.products)]
}

func (g *AuditGenerator) Generate(rng *rand.Rand, index int) (model.AuditEntry, error) {
	id, err := newID("audit entry")
	if err != nil {
		return model.AuditEntry{}, err
	}
	f := newFaker(rng)

	entityType, entityID := g.entity(f)
	action := pick(f, model.AuditActions)

	a := model.AuditEntry{
		ID:         id,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		Username:   fmt.Sprintf("user_%d", f.intBetween(1, 1000)),
		IPAddress:  f.ipv4(),
		UserAgent:  f.userAgent(),
		CreatedAt:  f.daysAgo(g.now, 0, 90),
	}
	if len(g.users) > 0 {
		a.UserID = ptr(pick(f, g.users))
	}
	if action.HasNewValue() {
		a.NewValue = ptr(fmt.Sprintf(`{"field": "value_%d"}`, index))
	}
	if action.HasOldValue() {
		a.OldValue = ptr(fmt.Sprintf(`{"field": "old_value_%d"}`, index))
	}
	return a, nil
}
