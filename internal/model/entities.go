package model

import (
	"time"

	"github.com/google/uuid"
)

// Record is a generated row. Values returns the column values in the order of
// the owning Table's Columns.
type Record interface {
	Values() []any
}

type Category struct {
	ID           uuid.UUID
	Name         string
	Description  string
	Slug         string
	ParentID     *uuid.UUID
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time

	// Level is the depth in the category forest, roots are level 0. Not stored.
	Level int
}

func (c Category) Values() []any {
	return []any{c.ID, c.Name, c.Description, c.Slug, nullable(c.ParentID), c.DisplayOrder, c.IsActive, c.CreatedAt, nullable(c.UpdatedAt)}
}

type Product struct {
	ID            uuid.UUID
	SKU           string
	Name          string
	Description   string
	Price         Money
	OriginalPrice Money
	CategoryID    *uuid.UUID
	StockQuantity int
	MinStockLevel int
	ImageURL      string
	IsActive      bool
	IsFeatured    bool
	Weight        float64
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}

func (p Product) Values() []any {
	return []any{
		p.ID, p.SKU, p.Name, p.Description, p.Price, p.OriginalPrice, nullable(p.CategoryID),
		p.StockQuantity, p.MinStockLevel, p.ImageURL, p.IsActive, p.IsFeatured, p.Weight,
		p.CreatedAt, nullable(p.UpdatedAt),
	}
}

type Order struct {
	ID              uuid.UUID
	OrderNumber     string
	UserID          *uuid.UUID
	Subtotal        Money
	TaxAmount       Money
	ShippingAmount  Money
	DiscountAmount  Money
	TotalAmount     Money
	Status          OrderStatus
	ShippingAddress string
	BillingAddress  string
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CompletedAt     *time.Time
}

func (o Order) Values() []any {
	return []any{
		o.ID, o.OrderNumber, nullable(o.UserID), o.Subtotal, o.TaxAmount, o.ShippingAmount,
		o.DiscountAmount, o.TotalAmount, string(o.Status), o.ShippingAddress, o.BillingAddress,
		nullable(o.Notes), o.CreatedAt, o.UpdatedAt, nullable(o.CompletedAt),
	}
}

type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	ProductSKU     string
	Quantity       int
	UnitPrice      Money
	DiscountAmount Money
	LineTotal      Money
}

func (i OrderItem) Values() []any {
	return []any{i.ID, i.OrderID, i.ProductID, i.ProductName, i.ProductSKU, i.Quantity, i.UnitPrice, i.DiscountAmount, i.LineTotal}
}

type AuditEntry struct {
	ID         uuid.UUID
	EntityType EntityType
	EntityID   uuid.UUID
	Action     AuditAction
	UserID     *uuid.UUID
	Username   string
	OldValue   *string
	NewValue   *string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

func (a AuditEntry) Values() []any {
	return []any{
		a.ID, string(a.EntityType), a.EntityID, string(a.Action), nullable(a.UserID), a.Username,
		nullable(a.OldValue), nullable(a.NewValue), a.IPAddress, a.UserAgent, a.CreatedAt,
	}
}

type QueryHistoryEntry struct {
	ID              uuid.UUID
	QueryText       string
	QueryHash       string
	ExecutionTimeMS int
	RowsExamined    int
	RowsReturned    int
	UsedIndex       bool
	IndexName       *string
	ExecutionPlan   string
	CreatedAt       time.Time
}

func (q QueryHistoryEntry) Values() []any {
	return []any{
		q.ID, q.QueryText, q.QueryHash, q.ExecutionTimeMS, q.RowsExamined, q.RowsReturned,
		q.UsedIndex, nullable(q.IndexName), q.ExecutionPlan, q.CreatedAt,
	}
}

// nullable turns a nil pointer into an untyped nil so drivers bind NULL.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
