package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/Rana718/bulkgen/internal/registry"
	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestUserQuota(t *testing.T) {
	tests := []struct {
		name                   string
		cfg                    config.Users
		admins, members, guest int
	}{
		{"defaults", config.Users{Total: 100000, AdminRatio: 0.1, MemberRatio: 0.3, GuestRatio: 0.6}, 10000, 30000, 60000},
		{"rounding", config.Users{Total: 7, AdminRatio: 0.1, MemberRatio: 0.3, GuestRatio: 0.6}, 1, 2, 4},
		{"overflow clamps", config.Users{Total: 3, AdminRatio: 0.5, MemberRatio: 0.5}, 2, 1, 0},
		{"empty", config.Users{Total: 0, AdminRatio: 0.1, MemberRatio: 0.3, GuestRatio: 0.6}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			a, m, g := UserQuota(tt.cfg)
			c.Assert([]int{a, m, g}, qt.DeepEquals, []int{tt.admins, tt.members, tt.guest})
			c.Assert(a+m+g, qt.Equals, tt.cfg.Total)
		})
	}
}

func TestUserVariantsPartition(t *testing.T) {
	c := qt.New(t)
	cfg := config.Users{Total: 1000, AdminRatio: 0.1, MemberRatio: 0.3, GuestRatio: 0.6}
	gen := NewUserGenerator(cfg, testNow)
	rng := newRand()

	counts := map[model.UserType]int{}
	lastKind := model.UserTypeAdmin
	order := map[model.UserType]int{model.UserTypeAdmin: 0, model.UserTypeMember: 1, model.UserTypeGuest: 2}
	for i := 0; i < cfg.Total; i++ {
		u, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		c.Assert(u.Profile, qt.IsNotNil)
		c.Assert(u.Type(), qt.Not(qt.Equals), model.UserType(""))
		c.Assert(order[u.Type()] >= order[lastKind], qt.IsTrue, qt.Commentf("index %d", i))
		lastKind = u.Type()
		counts[u.Type()]++

		switch p := u.Profile.(type) {
		case model.AdminProfile:
			c.Assert(p.AdminLevel >= 1 && p.AdminLevel <= 5, qt.IsTrue)
		case model.MemberProfile:
			c.Assert(p.PhoneNumber, qt.Matches, `090\d{8}`)
			c.Assert(p.LoyaltyPoints >= 0 && p.LoyaltyPoints <= 50000, qt.IsTrue)
		case model.GuestProfile:
			c.Assert(p.SessionExpiresAt.After(testNow), qt.IsTrue)
			c.Assert(u.CreatedAt.Before(testNow.AddDate(0, 0, -90)), qt.IsFalse)
		}
		c.Assert(u.Email, qt.Matches, u.Username+`@.+`)
	}

	c.Assert(counts[model.UserTypeAdmin], qt.Equals, 100)
	c.Assert(counts[model.UserTypeMember], qt.Equals, 300)
	c.Assert(counts[model.UserTypeGuest], qt.Equals, 600)
}

func TestPlanCategoryLevels(t *testing.T) {
	c := qt.New(t)

	levels := PlanCategoryLevels(1000, 3, 5, 50)
	c.Assert(levels, qt.DeepEquals, []CategoryLevel{
		{Depth: 0, Count: 50},
		{Depth: 1, Parents: 50, PerParent: 5, Count: 250},
		{Depth: 2, Parents: 250, PerParent: 2, Count: 500},
		{Depth: 3, Parents: 500, PerParent: 1, Count: 200},
	})

	total := 0
	for _, l := range levels {
		total += l.Count
		if l.Depth > 0 {
			c.Assert(l.PerParent <= 5, qt.IsTrue)
			c.Assert(l.Count <= l.Parents*l.PerParent, qt.IsTrue)
		}
	}
	c.Assert(total, qt.Equals, 1000)

	// Depth cap leaves quota unused.
	shallow := PlanCategoryLevels(1000, 1, 5, 50)
	c.Assert(shallow, qt.HasLen, 2)
	c.Assert(shallow[1].Count, qt.Equals, 250)

	// Fewer than ten categories yields no roots and therefore nothing.
	c.Assert(PlanCategoryLevels(9, 3, 5, 50), qt.HasLen, 0)

	// Root cap applies before fan-out.
	small := PlanCategoryLevels(100, 3, 5, 50)
	c.Assert(small[0].Count, qt.Equals, 10)
}

func TestCategoryForest(t *testing.T) {
	c := qt.New(t)
	rng := newRand()
	levels := PlanCategoryLevels(1000, 3, 5, 50)

	depthOf := map[uuid.UUID]int{}
	slugs := map[string]bool{}
	var previous []uuid.UUID
	offset := 0
	for _, level := range levels {
		gen, err := NewCategoryGenerator(level, previous, offset, testNow)
		c.Assert(err, qt.IsNil)

		current := make([]uuid.UUID, 0, level.Count)
		for i := 0; i < level.Count; i++ {
			cat, err := gen.Generate(rng, i)
			c.Assert(err, qt.IsNil)
			c.Assert(cat.Level, qt.Equals, level.Depth)
			c.Assert(slugs[cat.Slug], qt.IsFalse, qt.Commentf("duplicate slug %s", cat.Slug))
			slugs[cat.Slug] = true

			if level.Depth == 0 {
				c.Assert(cat.ParentID, qt.IsNil)
			} else {
				c.Assert(cat.ParentID, qt.IsNotNil)
				parentDepth, ok := depthOf[*cat.ParentID]
				c.Assert(ok, qt.IsTrue)
				c.Assert(parentDepth, qt.Equals, level.Depth-1)
			}
			c.Assert(cat.Level <= 3, qt.IsTrue)
			depthOf[cat.ID] = level.Depth
			current = append(current, cat.ID)
		}
		previous = current
		offset += level.Count
	}
	c.Assert(depthOf, qt.HasLen, 1000)
}

func TestCategoryGeneratorNeedsParents(t *testing.T) {
	c := qt.New(t)
	_, err := NewCategoryGenerator(CategoryLevel{Depth: 1, Parents: 5, PerParent: 2, Count: 10}, ids(3), 0, testNow)
	c.Assert(err, qt.ErrorMatches, `category level 1 needs 5 parents, only 3 available`)
}

func TestSlugify(t *testing.T) {
	c := qt.New(t)
	c.Assert(slugify("Home & Garden 12"), qt.Equals, "home-garden-12")
	c.Assert(slugify("Subcategory 2-3"), qt.Equals, "subcategory-2-3")
}

func TestProductPrices(t *testing.T) {
	c := qt.New(t)
	cfg := config.Products{MinPrice: 1000, MaxPrice: 5000000}
	categories := ids(10)
	gen := NewProductGenerator(cfg, categories, testNow)
	rng := newRand()

	known := map[uuid.UUID]bool{}
	for _, id := range categories {
		known[id] = true
	}

	skus := map[string]bool{}
	for i := 0; i < 2000; i++ {
		p, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		c.Assert(p.Price >= model.Units(cfg.MinPrice), qt.IsTrue, qt.Commentf("price %s", p.Price))
		c.Assert(p.Price <= model.Units(cfg.MaxPrice), qt.IsTrue, qt.Commentf("price %s", p.Price))
		c.Assert(p.OriginalPrice >= p.Price, qt.IsTrue)
		c.Assert(p.CategoryID, qt.IsNotNil)
		c.Assert(known[*p.CategoryID], qt.IsTrue)
		c.Assert(p.SKU, qt.Matches, `[A-Z][A-Za-z]{2}-\d{6}`)
		c.Assert(skus[p.SKU], qt.IsFalse)
		skus[p.SKU] = true
	}

	noCats := NewProductGenerator(cfg, nil, testNow)
	p, err := noCats.Generate(rng, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(p.CategoryID, qt.IsNil)
}

func TestOrderTotals(t *testing.T) {
	c := qt.New(t)
	cfg := config.Default().Orders
	users := ids(50)
	gen := NewOrderGenerator(cfg, users, testNow)
	rng := newRand()

	eligible := map[uuid.UUID]bool{}
	for _, id := range users {
		eligible[id] = true
	}

	statuses := map[model.OrderStatus]int{}
	for i := 0; i < 5000; i++ {
		o, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		c.Assert(o.TotalAmount, qt.Equals, o.Subtotal+o.TaxAmount+o.ShippingAmount-o.DiscountAmount)
		c.Assert(o.CompletedAt != nil, qt.Equals, o.Status.IsTerminal(), qt.Commentf("status %s", o.Status))
		if o.CompletedAt != nil {
			c.Assert(o.CompletedAt.After(o.CreatedAt), qt.IsTrue)
		}
		c.Assert(o.UserID, qt.IsNotNil)
		c.Assert(eligible[*o.UserID], qt.IsTrue)
		c.Assert(o.UpdatedAt, qt.Equals, o.CreatedAt)
		c.Assert(o.CreatedAt.Before(testNow.AddDate(0, 0, -cfg.DateRangeDays)), qt.IsFalse)
		statuses[o.Status]++
	}
	c.Assert(statuses, qt.HasLen, len(model.OrderStatuses))

	guestOnly := NewOrderGenerator(cfg, nil, testNow)
	o, err := guestOnly.Generate(rng, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(o.UserID, qt.IsNil)
	c.Assert(o.OrderNumber, qt.Equals, "ORD-20250601-000001")
}

func TestOrderItemSnapshots(t *testing.T) {
	c := qt.New(t)
	reg := registry.New()
	products := ids(20)
	reg.Merge(func(w *registry.Writer) {
		for i, id := range products {
			w.AddProduct(id, registry.ProductSnapshot{
				Name:  "Product " + id.String()[:8],
				SKU:   "PRD-" + id.String()[:6],
				Price: model.Units(int64(1000 + i*137)),
			})
		}
	})

	cfg := config.OrderItems{MinQuantity: 1, MaxQuantity: 10}
	orders := ids(500)
	gen := NewOrderItemGenerator(cfg, orders, reg.Products(), reg)
	rng := newRand()

	perOrder := map[int]int{}
	for i := range orders {
		items, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		c.Assert(len(items) >= 1 && len(items) <= 5, qt.IsTrue)
		perOrder[len(items)]++
		for _, it := range items {
			snap, ok := reg.Product(it.ProductID)
			c.Assert(ok, qt.IsTrue)
			c.Assert(it.OrderID, qt.Equals, orders[i])
			c.Assert(it.ProductName, qt.Equals, snap.Name)
			c.Assert(it.ProductSKU, qt.Equals, snap.SKU)
			c.Assert(it.UnitPrice, qt.Equals, snap.Price)
			c.Assert(it.Quantity >= cfg.MinQuantity && it.Quantity <= cfg.MaxQuantity, qt.IsTrue)
			c.Assert(it.LineTotal, qt.Equals, it.UnitPrice.Times(it.Quantity)-it.DiscountAmount)
			c.Assert(it.LineTotal >= 0, qt.IsTrue)
		}
	}
	// Single-item orders are the most common.
	c.Assert(perOrder[1] > perOrder[5], qt.IsTrue)

	_, err := gen.Generate(rng, len(orders))
	c.Assert(err, qt.ErrorMatches, `order index 500 out of range .*`)

	empty := NewOrderItemGenerator(cfg, orders, nil, reg)
	items, err := empty.Generate(rng, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(items, qt.HasLen, 0)
}

func TestAuditEntries(t *testing.T) {
	c := qt.New(t)
	users, products, orders := ids(10), ids(10), ids(10)
	gen, err := NewAuditGenerator(users, products, orders, testNow)
	c.Assert(err, qt.IsNil)
	rng := newRand()

	pools := map[model.EntityType]map[uuid.UUID]bool{
		model.EntityUser:    set(users),
		model.EntityProduct: set(products),
		model.EntityOrder:   set(orders),
	}

	actions := map[model.AuditAction]bool{}
	for i := 0; i < 1000; i++ {
		a, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		c.Assert(pools[a.EntityType][a.EntityID], qt.IsTrue, qt.Commentf("entity %s %s", a.EntityType, a.EntityID))
		c.Assert(a.OldValue != nil, qt.Equals, a.Action.HasOldValue())
		c.Assert(a.NewValue != nil, qt.Equals, a.Action.HasNewValue())
		c.Assert(a.UserID, qt.IsNotNil)
		c.Assert(pools[model.EntityUser][*a.UserID], qt.IsTrue)
		actions[a.Action] = true
	}
	c.Assert(actions, qt.HasLen, len(model.AuditActions))

	_, err = NewAuditGenerator(nil, nil, nil, testNow)
	c.Assert(err, qt.Equals, ErrNoAuditTargets)
}

func TestQueryHistory(t *testing.T) {
	c := qt.New(t)
	gen := NewQueryHistoryGenerator(testNow)
	rng := newRand()

	for i := 0; i < 500; i++ {
		q, err := gen.Generate(rng, i)
		c.Assert(err, qt.IsNil)
		sum := sha256.Sum256([]byte(q.QueryText))
		c.Assert(q.QueryHash, qt.Equals, hex.EncodeToString(sum[:]))
		c.Assert(q.IndexName != nil, qt.Equals, q.UsedIndex)
		c.Assert(q.RowsReturned <= q.RowsExamined, qt.IsTrue)
		c.Assert(q.RowsReturned <= 1000, qt.IsTrue)
		c.Assert(q.ExecutionTimeMS >= 10 && q.ExecutionTimeMS <= 5000, qt.IsTrue)
		c.Assert(q.QueryText, qt.Matches, `SELECT .* FROM (products|orders|users) WHERE .*`)
	}
}

func TestWeighted(t *testing.T) {
	c := qt.New(t)
	f := newFaker(newRand())
	hits := make([]int, 3)
	for i := 0; i < 10000; i++ {
		hits[f.weighted([]float64{0.8, 0.2, 0})]++
	}
	c.Assert(hits[2], qt.Equals, 0)
	c.Assert(hits[0] > hits[1], qt.IsTrue)
}

func set(in []uuid.UUID) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(in))
	for _, id := range in {
		out[id] = true
	}
	return out
}
