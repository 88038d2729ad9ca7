// Package seeder runs the generate-then-load phases against one store.
//
// Phases are strictly sequential: a phase starts only after the previous one
// has merged its identifiers into the registry and committed every batch.
// Later generators read those identifiers without locking.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/coordinator"
	"github.com/Rana718/bulkgen/internal/database"
	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/generator"
	"github.com/Rana718/bulkgen/internal/loader"
	"github.com/Rana718/bulkgen/internal/model"
	"github.com/Rana718/bulkgen/internal/pool"
	"github.com/Rana718/bulkgen/internal/registry"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

type Seeder struct {
	config config.Config
	store  database.Store
	reg    *registry.Registry
	graph  *DependencyGraph
	clock  func() time.Time
	phase  Phase
	now    time.Time
	bar    *progressbar.ProgressBar
}

type Option func(*Seeder)

// WithClock fixes the reference time generators date records against.
func WithClock(clock func() time.Time) Option {
	return func(s *Seeder) { s.clock = clock }
}

// NewSeeder prepares a run of cfg against a connected store.
func NewSeeder(cfg config.Config, store database.Store, opts ...Option) (*Seeder, error) {
	graph := NewDependencyGraph()
	for _, table := range model.Tables() {
		graph.AddTable(table)
	}
	if _, err := graph.BuildInsertionOrder(); err != nil {
		return nil, fmt.Errorf("failed to build insertion order: %w", err)
	}

	s := &Seeder{
		config: cfg,
		store:  store,
		reg:    registry.New(),
		graph:  graph,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Phase reports the current state of the run.
func (s *Seeder) Phase() Phase { return s.phase }

func (s *Seeder) Registry() *registry.Registry { return s.reg }

func (s *Seeder) newPool() (*pool.Pool[common.Conn], error) {
	return pool.New[common.Conn](s.config.Generation.PoolSize, s.store.NewConn, func(conn common.Conn) {
		conn.Close()
	})
}

// Run executes cleanup (when enabled) and every generation phase. The
// returned report is filled in as far as the run got, also on failure.
func (s *Seeder) Run(ctx context.Context) (report *Report, err error) {
	if s.phase != PhaseIdle {
		return nil, fmt.Errorf("seeder already ran (state %s)", s.phase)
	}

	s.now = s.clock()
	report = &Report{
		Provider:  s.config.Database.Provider,
		Seed:      s.config.Generation.Seed,
		StartedAt: s.now,
	}
	started := time.Now()
	defer func() {
		if err != nil {
			s.phase = PhaseFailed
			report.Error = err.Error()
		}
		report.Status = s.phase
		report.Elapsed = time.Since(started)
	}()

	p, err := s.newPool()
	if err != nil {
		return report, &PhaseError{Phase: s.phase, Err: err}
	}
	defer p.Close()

	color.Cyan("🌱 Starting bulk data generation...")
	color.Cyan("📋 Insertion order: %s", strings.Join(s.graph.GetOrder(), " → "))

	if s.config.Generation.Cleanup {
		s.phase = PhaseCleanup
		entries, err := s.cleanup(ctx, p)
		report.Cleanup = entries
		if err != nil {
			return report, &PhaseError{Phase: PhaseCleanup, Err: err}
		}
	}

	l := loader.New(p, s.config.Generation.BatchSize, s.progress)
	for _, st := range s.steps(report) {
		s.phase = st.phase
		color.Cyan("📝 Generating %s...", st.table.Name)

		t := time.Now()
		pr, err := st.run(ctx, l)
		pr.Phase = st.phase
		pr.Table = st.table.Name
		pr.Duration = time.Since(t)
		report.Phases = append(report.Phases, pr)

		if err != nil {
			color.Red("  ❌ %s failed: %v", st.table.Name, err)
			return report, &PhaseError{Phase: st.phase, Err: err}
		}
		if !pr.Skipped {
			color.Green("  ✅ %s: %d generated, %d inserted (%s)", st.table.Name, pr.Generated, pr.Inserted, pr.Duration.Round(time.Millisecond))
		}
	}

	s.phase = PhaseDone
	color.Green("\n✅ Bulk data generation completed successfully!")
	return report, nil
}

// Cleanup empties every table without generating anything.
func (s *Seeder) Cleanup(ctx context.Context) ([]CleanupEntry, error) {
	p, err := s.newPool()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return s.cleanup(ctx, p)
}

// cleanup truncates tables in reverse insertion order on one connection. A
// table that cannot be truncated is reported and skipped.
func (s *Seeder) cleanup(ctx context.Context, p *pool.Pool[common.Conn]) ([]CleanupEntry, error) {
	color.Cyan("🧹 Cleaning up existing data...")

	var entries []CleanupEntry
	err := p.With(ctx, func(conn common.Conn) error {
		for _, table := range s.graph.CleanupOrder() {
			r := conn.Truncate(ctx, table)
			entry := CleanupEntry{Table: table, Status: r.Status}
			switch r.Status {
			case common.Truncated:
				color.Green("  ✅ %s truncated", table)
			case common.NotFound:
				color.Yellow("  ⚠️  %s does not exist, skipping", table)
			default:
				color.Yellow("  ⚠️  Failed to truncate %s: %v", table, r.Err)
			}
			if r.Err != nil {
				entry.Error = r.Err.Error()
			}
			entries = append(entries, entry)
		}
		return nil
	})
	return entries, err
}

// progress drives one bar per loaded table from the loader's batch commits.
func (s *Seeder) progress(table string, committed int64, total int) {
	if s.bar == nil || s.bar.IsFinished() {
		s.bar = newProgressBar(table, total)
	}
	_ = s.bar.Set64(committed)
}

func newProgressBar(table string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(color.Output),
		progressbar.OptionSetDescription("  ⏳ "+table),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(color.Output)
		}),
	)
}

type step struct {
	phase Phase
	table model.Table
	run   func(ctx context.Context, l *loader.Loader) (PhaseReport, error)
}

// steps lists the generation phases in insertion order. Tables nothing is
// generated for are only cleaned.
func (s *Seeder) steps(report *Report) []step {
	byTable := map[string]step{
		model.UsersTable.Name:        {PhaseUsers, model.UsersTable, s.runUsers},
		model.CategoriesTable.Name:   {PhaseCategories, model.CategoriesTable, func(ctx context.Context, l *loader.Loader) (PhaseReport, error) { return s.runCategories(ctx, l, report) }},
		model.ProductsTable.Name:     {PhaseProducts, model.ProductsTable, s.runProducts},
		model.OrdersTable.Name:       {PhaseOrders, model.OrdersTable, s.runOrders},
		model.OrderItemsTable.Name:   {PhaseOrderItems, model.OrderItemsTable, s.runOrderItems},
		model.AuditLogTable.Name:     {PhaseAuditLog, model.AuditLogTable, s.runAuditLog},
		model.QueryHistoryTable.Name: {PhaseQueryHistory, model.QueryHistoryTable, s.runQueryHistory},
	}

	var steps []step
	for _, table := range s.graph.GetOrder() {
		if st, ok := byTable[table]; ok {
			steps = append(steps, st)
		}
	}
	return steps
}

// options derives coordinator options for one phase. A fixed seed is
// offset per phase so phases do not replay the same random sequence.
func (s *Seeder) options(phase Phase, salt int) coordinator.Options {
	opts := coordinator.Options{
		Workers:   s.config.Generation.Workers,
		BatchSize: s.config.Generation.BatchSize,
	}
	if seed := s.config.Generation.Seed; seed != 0 {
		opts.Seed = seed + int64(phase)<<32 + int64(salt)<<20
	}
	return opts
}

// generateAndLoad runs one coordinator pass and loads its records.
func generateAndLoad[R model.Record](ctx context.Context, s *Seeder, l *loader.Loader, phase Phase, salt int, table model.Table, n int, gen generator.Generator[R], merge func(*registry.Writer, []R)) (PhaseReport, error) {
	records, err := coordinator.Run(ctx, table.Name, n, gen, s.options(phase, salt), s.reg, merge)
	if err != nil {
		return PhaseReport{}, err
	}
	inserted, err := loader.Load(ctx, l, table, records)
	return PhaseReport{Generated: len(records), Inserted: inserted}, err
}

func (s *Seeder) runUsers(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	cfg := s.config.Users
	admins, members, guests := generator.UserQuota(cfg)
	color.Cyan("  👥 %d admins, %d members, %d guests", admins, members, guests)

	gen := generator.NewUserGenerator(cfg, s.now)
	return generateAndLoad[model.User](ctx, s, l, PhaseUsers, 0, model.UsersTable, cfg.Total, gen, func(w *registry.Writer, users []model.User) {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		w.AddUsers(ids...)
	})
}

// runCategories generates and loads the forest one level at a time, so every
// parent is committed before its children.
func (s *Seeder) runCategories(ctx context.Context, l *loader.Loader, report *Report) (PhaseReport, error) {
	cfg := s.config.Categories
	levels := generator.PlanCategoryLevels(cfg.Total, cfg.MaxDepth, cfg.ChildrenPerParent, cfg.MaxRoots)
	report.CategoryLevels = levels

	var total PhaseReport
	offset := 0
	for _, level := range levels {
		gen, err := generator.NewCategoryGenerator(level, s.reg.CategoryLevel(level.Depth-1), offset, s.now)
		if err != nil {
			return total, err
		}

		pr, err := generateAndLoad[model.Category](ctx, s, l, PhaseCategories, level.Depth, model.CategoriesTable, level.Count, gen, func(w *registry.Writer, cats []model.Category) {
			ids := make([]uuid.UUID, len(cats))
			for i, c := range cats {
				ids[i] = c.ID
			}
			w.AddCategoryLevel(ids)
		})
		total.Generated += pr.Generated
		total.Inserted += pr.Inserted
		if err != nil {
			return total, fmt.Errorf("category level %d: %w", level.Depth, err)
		}
		offset += level.Count
	}
	return total, nil
}

func (s *Seeder) runProducts(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	gen := generator.NewProductGenerator(s.config.Products, s.reg.Categories(), s.now)
	return generateAndLoad[model.Product](ctx, s, l, PhaseProducts, 0, model.ProductsTable, s.config.Products.Total, gen, func(w *registry.Writer, products []model.Product) {
		for _, p := range products {
			w.AddProduct(p.ID, registry.ProductSnapshot{Name: p.Name, SKU: p.SKU, Price: p.Price})
		}
	})
}

func (s *Seeder) runOrders(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	cfg := s.config.Orders
	gen := generator.NewOrderGenerator(cfg, s.reg.UserHead(cfg.EligibleUserRatio), s.now)
	return generateAndLoad[model.Order](ctx, s, l, PhaseOrders, 0, model.OrdersTable, cfg.Total, gen, func(w *registry.Writer, orders []model.Order) {
		ids := make([]uuid.UUID, len(orders))
		for i, o := range orders {
			ids[i] = o.ID
		}
		w.AddOrders(ids...)
	})
}

// runOrderItems generates the items of every order. The item count per order
// is random, so the generator's unit of work is one order.
func (s *Seeder) runOrderItems(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	orders := s.reg.Orders()
	gen := generator.NewOrderItemGenerator(s.config.OrderItems, orders, s.reg.Products(), s.reg)

	perOrder, err := coordinator.Run[[]model.OrderItem](ctx, model.OrderItemsTable.Name, len(orders), gen, s.options(PhaseOrderItems, 0), nil, nil)
	if err != nil {
		return PhaseReport{}, err
	}

	var items []model.OrderItem
	for _, batch := range perOrder {
		items = append(items, batch...)
	}
	color.Cyan("  🧾 %d items for %d orders", len(items), len(orders))

	inserted, err := loader.Load(ctx, l, model.OrderItemsTable, items)
	return PhaseReport{Generated: len(items), Inserted: inserted}, err
}

func (s *Seeder) runAuditLog(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	gen, err := generator.NewAuditGenerator(s.reg.Users(), s.reg.Products(), s.reg.Orders(), s.now)
	if errors.Is(err, generator.ErrNoAuditTargets) {
		color.Yellow("  ⚠️  Skipping audit log: %v", err)
		return PhaseReport{Skipped: true}, nil
	}
	if err != nil {
		return PhaseReport{}, err
	}
	return generateAndLoad[model.AuditEntry](ctx, s, l, PhaseAuditLog, 0, model.AuditLogTable, s.config.AuditLog.Total, gen, nil)
}

func (s *Seeder) runQueryHistory(ctx context.Context, l *loader.Loader) (PhaseReport, error) {
	gen := generator.NewQueryHistoryGenerator(s.now)
	return generateAndLoad[model.QueryHistoryEntry](ctx, s, l, PhaseQueryHistory, 0, model.QueryHistoryTable, s.config.QueryHistory.Total, gen, nil)
}
