// Package registry holds the identifiers generated during one run. Later
// phases draw foreign keys from it.
//
// Mutation happens only through Merge, which the coordinator calls once per
// phase after every worker has returned. Readers do not lock: the run is
// strictly phased, so a phase only reads collections filled by earlier,
// fully merged phases, and nothing writes to them while it runs.
package registry

import (
	"sync"

	"github.com/Rana718/bulkgen/internal/model"
	"github.com/google/uuid"
)

// ProductSnapshot is the product data copied into order items at generation
// time.
type ProductSnapshot struct {
	Name  string
	SKU   string
	Price model.Money
}

type Registry struct {
	mu sync.Mutex

	users          []uuid.UUID
	categoryLevels [][]uuid.UUID
	categories     []uuid.UUID
	products       []uuid.UUID
	productInfo    map[uuid.UUID]ProductSnapshot
	orders         []uuid.UUID
}

func New() *Registry {
	return &Registry{
		productInfo: make(map[uuid.UUID]ProductSnapshot),
	}
}

// Writer is the mutation handle passed to Merge callbacks. It is only valid
// for the duration of the callback.
type Writer struct {
	r *Registry
}

// Merge runs fn with exclusive write access to the registry.
func (r *Registry) Merge(fn func(w *Writer)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&Writer{r: r})
}

func (w *Writer) AddUsers(ids ...uuid.UUID) {
	w.r.users = append(w.r.users, ids...)
}

// AddCategoryLevel records one level of the category forest. Levels must be
// added in depth order starting at the roots.
func (w *Writer) AddCategoryLevel(ids []uuid.UUID) {
	level := make([]uuid.UUID, len(ids))
	copy(level, ids)
	w.r.categoryLevels = append(w.r.categoryLevels, level)
	w.r.categories = append(w.r.categories, ids...)
}

func (w *Writer) AddProduct(id uuid.UUID, snap ProductSnapshot) {
	w.r.products = append(w.r.products, id)
	w.r.productInfo[id] = snap
}

func (w *Writer) AddOrders(ids ...uuid.UUID) {
	w.r.orders = append(w.r.orders, ids...)
}

// Users returns user ids in generation order.
func (r *Registry) Users() []uuid.UUID { return r.users }

// UserHead returns the first ratio share of users.
func (r *Registry) UserHead(ratio float64) []uuid.UUID {
	n := int(float64(len(r.users)) * ratio)
	if n > len(r.users) {
		n = len(r.users)
	}
	return r.users[:n]
}

func (r *Registry) Categories() []uuid.UUID { return r.categories }

// CategoryLevel returns the ids created at the given depth, or nil.
func (r *Registry) CategoryLevel(depth int) []uuid.UUID {
	if depth < 0 || depth >= len(r.categoryLevels) {
		return nil
	}
	return r.categoryLevels[depth]
}

func (r *Registry) CategoryDepth() int { return len(r.categoryLevels) }

func (r *Registry) Products() []uuid.UUID { return r.products }

func (r *Registry) Product(id uuid.UUID) (ProductSnapshot, bool) {
	snap, ok := r.productInfo[id]
	return snap, ok
}

func (r *Registry) Orders() []uuid.UUID { return r.orders }

// Counts reports how many identifiers of each kind are registered.
func (r *Registry) Counts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[string]int{
		model.UsersTable.Name:      len(r.users),
		model.CategoriesTable.Name: len(r.categories),
		model.ProductsTable.Name:   len(r.products),
		model.OrdersTable.Name:     len(r.orders),
	}
}
