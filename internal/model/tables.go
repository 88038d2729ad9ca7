package model

// Table describes a target table: its name, insert column order and the
// tables its foreign keys point at.
type Table struct {
	Name         string
	Columns      []string
	Dependencies []string
}

var (
	UsersTable = Table{
		Name: "users",
		Columns: []string{
			"id", "user_type", "email", "username", "password_hash", "is_active", "created_at",
			"department", "admin_level",
			"first_name", "last_name", "phone_number", "membership_tier", "loyalty_points", "date_of_birth",
			"session_id", "ip_address", "user_agent", "session_expires_at", "is_converted",
		},
	}

	CategoriesTable = Table{
		Name:         "categories",
		Columns:      []string{"id", "name", "description", "slug", "parent_id", "display_order", "is_active", "created_at", "updated_at"},
		Dependencies: []string{"categories"},
	}

	ProductsTable = Table{
		Name: "products",
		Columns: []string{
			"id", "sku", "name", "description", "price", "original_price", "category_id",
			"stock_quantity", "min_stock_level", "image_url", "is_active", "is_featured", "weight",
			"created_at", "updated_at",
		},
		Dependencies: []string{"categories"},
	}

	OrdersTable = Table{
		Name: "orders",
		Columns: []string{
			"id", "order_number", "user_id", "subtotal", "tax_amount", "shipping_amount",
			"discount_amount", "total_amount", "status", "shipping_address", "billing_address",
			"notes", "created_at", "updated_at", "completed_at",
		},
		Dependencies: []string{"users"},
	}

	// DailySummaryTable is a reporting table maintained outside this tool.
	// It is never generated but must be emptied with the orders it summarizes.
	DailySummaryTable = Table{
		Name:         "daily_summary",
		Dependencies: []string{"orders"},
	}

	OrderItemsTable = Table{
		Name:         "order_items",
		Columns:      []string{"id", "order_id", "product_id", "product_name", "product_sku", "quantity", "unit_price", "discount_amount", "line_total"},
		Dependencies: []string{"orders", "products"},
	}

	AuditLogTable = Table{
		Name: "audit_log",
		Columns: []string{
			"id", "entity_type", "entity_id", "action", "user_id", "username",
			"old_value", "new_value", "ip_address", "user_agent", "created_at",
		},
		Dependencies: []string{"users", "products", "orders"},
	}

	QueryHistoryTable = Table{
		Name: "query_history",
		Columns: []string{
			"id", "query_text", "query_hash", "execution_time_ms", "rows_examined", "rows_returned",
			"used_index", "index_name", "execution_plan", "created_at",
		},
	}
)

// Tables lists every table the tool writes or cleans, in declaration order.
func Tables() []Table {
	return []Table{
		UsersTable, CategoriesTable, ProductsTable, OrdersTable, DailySummaryTable,
		OrderItemsTable, AuditLogTable, QueryHistoryTable,
	}
}
