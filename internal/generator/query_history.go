package generator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/bulkgen/internal/model"
)

type queryTemplate struct {
	format string
	render func(f faker) []any
}

var queryTemplates = []queryTemplate{
	{"SELECT * FROM products WHERE category_id = '%s'", func(f faker) []any { return []any{f.randomString(8)} }},
	{"SELECT * FROM orders WHERE user_id = '%s'", func(f faker) []any { return []any{f.randomString(8)} }},
	{"SELECT * FROM users WHERE email = '%s'", func(f faker) []any { return []any{f.randomString(8)} }},
	{"SELECT COUNT(*) FROM orders WHERE status = '%s'", func(f faker) []any { return []any{pick(f, model.OrderStatuses)} }},
	{"SELECT * FROM products WHERE price BETWEEN %d AND %d", func(f faker) []any {
		return []any{f.intBetween(1000, 5000), f.intBetween(5000, 10000)}
	}},
}

type QueryHistoryGenerator struct {
	now time.Time
}

func NewQueryHistoryGenerator(now time.Time) *QueryHistoryGenerator {
	return &QueryHistoryGenerator{now: now}
}

func (g *QueryHistoryGenerator) Generate(rng *rand.Rand, index int) (model.QueryHistoryEntry, error) {
	id, err := newID("query history")
	if err != nil {
		return model.QueryHistoryEntry{}, err
	}
	f := newFaker(rng)

	tmpl := pick(f, queryTemplates)
	text := fmt.Sprintf(tmpl.format, tmpl.render(f)...)
	sum := sha256.Sum256([]byte(text))

	examined := f.intBetween(0, 100000)
	q := model.QueryHistoryEntry{
		ID:              id,
		QueryText:       text,
		QueryHash:       hex.EncodeToString(sum[:]),
		ExecutionTimeMS: f.intBetween(10, 5000),
		RowsExamined:    examined,
		RowsReturned:    f.intBetween(0, min(examined, 1000)),
		UsedIndex:       f.bool(),
		ExecutionPlan:   fmt.Sprintf(`{"plan": "plan_%d"}`, index),
		CreatedAt:       f.daysAgo(g.now, 0, 30),
	}
	if q.UsedIndex {
		q.IndexName = ptr("idx_" + f.randomString(10))
	}
	return q, nil
}
