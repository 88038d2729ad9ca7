package generator

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/google/uuid"
)

type ProductGenerator struct {
	cfg        config.Products
	categories []uuid.UUID
	now        time.Time
}

func NewProductGenerator(cfg config.Products, categories []uuid.UUID, now time.Time) *ProductGenerator {
	return &ProductGenerator{cfg: cfg, categories: categories, now: now}
}

func (g *ProductGenerator) Generate(rng *rand.Rand, index int) (model.Product, error) {
	id, err := newID("product")
	if err != nil {
		return model.Product{}, err
	}
	f := newFaker(rng)

	base := pick(f, productNames)
	name := fmt.Sprintf("%s %s-%d", base, strings.ToUpper(f.randomString(6)), index+1)
	sku := fmt.Sprintf("%s-%06d", strings.ToUpper(base[:3]), index+1)

	price := model.Units(int64(f.intBetween(int(g.cfg.MinPrice), int(g.cfg.MaxPrice))))

	p := model.Product{
		ID:            id,
		SKU:           sku,
		Name:          name,
		Description:   "Description for " + name,
		Price:         price,
		OriginalPrice: price.Mul(f.floatBetween(1.1, 1.5)),
		StockQuantity: f.intBetween(0, 1000),
		MinStockLevel: f.intBetween(5, 50),
		ImageURL:      fmt.Sprintf("https://example.com/images/%s.jpg", sku),
		IsActive:      f.bool(),
		IsFeatured:    f.bool(),
		Weight:        math.Round(f.floatBetween(0.1, 50.0)*100) / 100,
		CreatedAt:     f.daysAgo(g.now, 1, 365),
	}
	if len(g.categories) > 0 {
		p.CategoryID = ptr(pick(f, g.categories))
	}
	return p, nil
}
