package seeder

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/database"
	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/database/memory"
	"github.com/Rana718/bulkgen/internal/loader"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/fatih/color"
	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	color.Output = io.Discard
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Database.Provider = "memory"
	cfg.Generation.BatchSize = 50
	cfg.Generation.Workers = 4
	cfg.Generation.PoolSize = 2
	cfg.Generation.Seed = 42
	cfg.Users.Total = 200
	cfg.Categories.Total = 60
	cfg.Products.Total = 300
	cfg.Orders.Total = 400
	cfg.AuditLog.Total = 100
	cfg.QueryHistory.Total = 50
	return cfg
}

func run(c *qt.C, cfg config.Config, store database.Store) (*Seeder, *Report, error) {
	s, err := NewSeeder(cfg, store, WithClock(func() time.Time { return fixedNow }))
	c.Assert(err, qt.IsNil)
	report, err := s.Run(context.Background())
	return s, report, err
}

func column(table model.Table, name string) int {
	return slices.Index(table.Columns, name)
}

func idSet(store *memory.Store, table model.Table) map[uuid.UUID]int {
	ids := make(map[uuid.UUID]int)
	for i, row := range store.Rows(table.Name) {
		ids[row[column(table, "id")].(uuid.UUID)] = i
	}
	return ids
}

// checkReferences asserts that every non-null value of column in table is
// an id of target.
func checkReferences(c *qt.C, store *memory.Store, table model.Table, name string, target map[uuid.UUID]int) {
	idx := column(table, name)
	for _, row := range store.Rows(table.Name) {
		if row[idx] == nil {
			continue
		}
		_, ok := target[row[idx].(uuid.UUID)]
		c.Assert(ok, qt.IsTrue, qt.Commentf("%s.%s = %v", table.Name, name, row[idx]))
	}
}

func checkForeignKeys(c *qt.C, store *memory.Store) {
	users := idSet(store, model.UsersTable)
	categories := idSet(store, model.CategoriesTable)
	products := idSet(store, model.ProductsTable)
	orders := idSet(store, model.OrdersTable)

	checkReferences(c, store, model.CategoriesTable, "parent_id", categories)
	checkReferences(c, store, model.ProductsTable, "category_id", categories)
	checkReferences(c, store, model.OrdersTable, "user_id", users)
	checkReferences(c, store, model.OrderItemsTable, "order_id", orders)
	checkReferences(c, store, model.OrderItemsTable, "product_id", products)
	checkReferences(c, store, model.AuditLogTable, "user_id", users)

	// Parents are committed before their children.
	parentIdx := column(model.CategoriesTable, "parent_id")
	for i, row := range store.Rows(model.CategoriesTable.Name) {
		if row[parentIdx] != nil {
			c.Assert(categories[row[parentIdx].(uuid.UUID)] < i, qt.IsTrue)
		}
	}

	pools := map[string]map[uuid.UUID]int{
		string(model.EntityUser):    users,
		string(model.EntityProduct): products,
		string(model.EntityOrder):   orders,
	}
	typeIdx := column(model.AuditLogTable, "entity_type")
	entityIdx := column(model.AuditLogTable, "entity_id")
	for _, row := range store.Rows(model.AuditLogTable.Name) {
		_, ok := pools[row[typeIdx].(string)][row[entityIdx].(uuid.UUID)]
		c.Assert(ok, qt.IsTrue, qt.Commentf("audit entity %v %v", row[typeIdx], row[entityIdx]))
	}
}

func TestRun(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	cfg := testConfig()

	s, report, err := run(c, cfg, store)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Phase(), qt.Equals, PhaseDone)
	c.Assert(report.Status, qt.Equals, PhaseDone)
	c.Assert(report.StartedAt, qt.Equals, fixedNow)
	c.Assert(report.Error, qt.Equals, "")

	c.Assert(store.Count("users"), qt.Equals, 200)
	c.Assert(store.Count("categories"), qt.Equals, 60)
	c.Assert(store.Count("products"), qt.Equals, 300)
	c.Assert(store.Count("orders"), qt.Equals, 400)
	c.Assert(store.Count("audit_log"), qt.Equals, 100)
	c.Assert(store.Count("query_history"), qt.Equals, 50)
	items := store.Count("order_items")
	c.Assert(items >= 400 && items <= 2000, qt.IsTrue, qt.Commentf("%d order items", items))

	var phases []Phase
	for _, p := range report.Phases {
		phases = append(phases, p.Phase)
		c.Assert(p.Inserted, qt.Equals, int64(store.Count(p.Table)))
		c.Assert(p.Inserted, qt.Equals, int64(p.Generated))
	}
	c.Assert(phases, qt.DeepEquals, []Phase{
		PhaseUsers, PhaseCategories, PhaseProducts, PhaseOrders,
		PhaseOrderItems, PhaseAuditLog, PhaseQueryHistory,
	})
	c.Assert(report.Inserted("order_items"), qt.Equals, int64(items))

	var planned int
	for _, level := range report.CategoryLevels {
		planned += level.Count
	}
	c.Assert(planned, qt.Equals, 60)

	checkForeignKeys(c, store)

	counts := s.Registry().Counts()
	c.Assert(counts["users"], qt.Equals, 200)
	c.Assert(counts["orders"], qt.Equals, 400)

	open, peak, _ := store.ConnStats()
	c.Assert(open, qt.Equals, 0)
	c.Assert(peak <= cfg.Generation.PoolSize, qt.IsTrue)

	_, err = s.Run(context.Background())
	c.Assert(err, qt.ErrorMatches, "seeder already ran .*")
}

func TestRunCleansInReverseOrder(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()

	_, report, err := run(c, testConfig(), store)
	c.Assert(err, qt.IsNil)

	want := []string{
		"query_history", "audit_log", "order_items", "daily_summary",
		"orders", "products", "categories", "users",
	}
	c.Assert(store.Truncated(), qt.DeepEquals, want)

	var cleaned []string
	for _, e := range report.Cleanup {
		cleaned = append(cleaned, e.Table)
		c.Assert(e.Status, qt.Equals, common.Truncated)
	}
	c.Assert(cleaned, qt.DeepEquals, want)
}

func TestRunTwice(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	cfg := testConfig()

	for range 2 {
		_, _, err := run(c, cfg, store)
		c.Assert(err, qt.IsNil)
		c.Assert(store.Count("users"), qt.Equals, 200)
		c.Assert(store.Count("orders"), qt.Equals, 400)
		checkForeignKeys(c, store)
	}
}

func TestRunWithoutCleanup(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	cfg := testConfig()
	cfg.Generation.Cleanup = false

	_, report, err := run(c, cfg, store)
	c.Assert(err, qt.IsNil)
	c.Assert(store.Truncated(), qt.HasLen, 0)
	c.Assert(report.Cleanup, qt.IsNil)
}

func TestCleanupMissingTable(t *testing.T) {
	c := qt.New(t)
	var names []string
	for _, table := range model.Tables() {
		if table.Name != model.DailySummaryTable.Name {
			names = append(names, table.Name)
		}
	}
	store := memory.New(names...)

	s, report, err := run(c, testConfig(), store)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Phase(), qt.Equals, PhaseDone)

	i := slices.IndexFunc(report.Cleanup, func(e CleanupEntry) bool { return e.Table == "daily_summary" })
	c.Assert(i, qt.Not(qt.Equals), -1)
	c.Assert(report.Cleanup[i].Status, qt.Equals, common.NotFound)
	c.Assert(report.Cleanup[i].Error, qt.Matches, "no such table: daily_summary")
	c.Assert(report.Cleanup, qt.HasLen, 8)
}

func TestBatchFailureAbortsLaterPhases(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	boom := errors.New("connection reset")
	store.FailOn("orders", 2, boom)

	s, report, err := run(c, testConfig(), store)
	c.Assert(errors.Is(err, boom), qt.IsTrue)

	var phaseErr *PhaseError
	c.Assert(errors.As(err, &phaseErr), qt.IsTrue)
	c.Assert(phaseErr.Phase, qt.Equals, PhaseOrders)

	var batchErr *loader.BatchCommitError
	c.Assert(errors.As(err, &batchErr), qt.IsTrue)
	c.Assert(batchErr.Batch, qt.Equals, 2)
	c.Assert(batchErr.Batches, qt.Equals, 8)

	c.Assert(s.Phase(), qt.Equals, PhaseFailed)
	c.Assert(report.Status, qt.Equals, PhaseFailed)
	c.Assert(report.Error, qt.Equals, err.Error())

	c.Assert(store.Count("orders"), qt.Equals, 50)
	c.Assert(store.Count("order_items"), qt.Equals, 0)
	c.Assert(store.Count("audit_log"), qt.Equals, 0)
	c.Assert(store.Count("query_history"), qt.Equals, 0)

	c.Assert(report.Phases, qt.HasLen, 4)
	c.Assert(report.Phases[3].Inserted, qt.Equals, int64(50))

	open, _, _ := store.ConnStats()
	c.Assert(open, qt.Equals, 0)
}

func TestAuditSkippedWithoutTargets(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	cfg := testConfig()
	cfg.Users.Total = 0
	cfg.Categories.Total = 0
	cfg.Products.Total = 0
	cfg.Orders.Total = 0

	s, report, err := run(c, cfg, store)
	c.Assert(err, qt.IsNil)
	c.Assert(s.Phase(), qt.Equals, PhaseDone)
	c.Assert(store.Count("audit_log"), qt.Equals, 0)
	c.Assert(store.Count("query_history"), qt.Equals, 50)

	i := slices.IndexFunc(report.Phases, func(p PhaseReport) bool { return p.Phase == PhaseAuditLog })
	c.Assert(report.Phases[i].Skipped, qt.IsTrue)
}

func TestCleanupOnly(t *testing.T) {
	c := qt.New(t)
	store := database.NewMemoryStore()
	s, err := NewSeeder(testConfig(), store)
	c.Assert(err, qt.IsNil)

	entries, err := s.Cleanup(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 8)
	c.Assert(entries[0].Table, qt.Equals, "query_history")
	c.Assert(s.Phase(), qt.Equals, PhaseIdle)
}

func TestReportYAML(t *testing.T) {
	c := qt.New(t)
	_, report, err := run(c, testConfig(), database.NewMemoryStore())
	c.Assert(err, qt.IsNil)

	path := filepath.Join(t.TempDir(), "report.yaml")
	c.Assert(report.WriteFile(path), qt.IsNil)
	data, err := os.ReadFile(path)
	c.Assert(err, qt.IsNil)

	out := string(data)
	c.Assert(out, qt.Contains, "provider: memory")
	c.Assert(out, qt.Contains, "status: done")
	c.Assert(out, qt.Contains, "phase: gen_order_items")
	c.Assert(out, qt.Contains, "table: query_history")
	c.Assert(out, qt.Contains, "status: truncated")
}

func TestRunRendersLoadProgress(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	color.Output = &out
	c.Cleanup(func() { color.Output = io.Discard })

	cfg := testConfig()
	_, _, err := run(c, cfg, database.NewMemoryStore())
	c.Assert(err, qt.IsNil)

	text := out.String()
	c.Assert(strings.Contains(text, "⏳ users"), qt.IsTrue)
	c.Assert(strings.Contains(text, "200/200"), qt.IsTrue)
	c.Assert(strings.Contains(text, "⏳ orders"), qt.IsTrue)
	c.Assert(strings.Contains(text, "400/400"), qt.IsTrue)
}

func TestPhase(t *testing.T) {
	c := qt.New(t)
	c.Assert(PhaseOrderItems.String(), qt.Equals, "gen_order_items")
	c.Assert(PhaseFailed.String(), qt.Equals, "failed")
	c.Assert(Phase(99).String(), qt.Equals, "phase(99)")

	err := &PhaseError{Phase: PhaseProducts, Err: errors.New("boom")}
	c.Assert(err, qt.ErrorMatches, "gen_products failed: boom")
}
