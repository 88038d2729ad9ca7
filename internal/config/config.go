package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config is the fully resolved run configuration. It is built once by Load
// and passed by value; nothing mutates it afterwards.
type Config struct {
	Database     Database     `json:"database" mapstructure:"database" yaml:"database"`
	Generation   Generation   `json:"generation" mapstructure:"generation" yaml:"generation"`
	Users        Users        `json:"users" mapstructure:"users" yaml:"users"`
	Categories   Categories   `json:"categories" mapstructure:"categories" yaml:"categories"`
	Products     Products     `json:"products" mapstructure:"products" yaml:"products"`
	Orders       Orders       `json:"orders" mapstructure:"orders" yaml:"orders"`
	OrderItems   OrderItems   `json:"order_items" mapstructure:"order_items" yaml:"order_items"`
	AuditLog     Totals       `json:"audit_log" mapstructure:"audit_log" yaml:"audit_log"`
	QueryHistory Totals       `json:"query_history" mapstructure:"query_history" yaml:"query_history"`
	Report       Report       `json:"report" mapstructure:"report" yaml:"report"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider" yaml:"provider"`
	URL      string `json:"url" mapstructure:"url" yaml:"-"`
	URLEnv   string `json:"url_env" mapstructure:"url_env" yaml:"url_env"`
	Host     string `json:"host" mapstructure:"host" yaml:"host"`
	Port     int    `json:"port" mapstructure:"port" yaml:"port"`
	Name     string `json:"name" mapstructure:"name" yaml:"name"`
	User     string `json:"user" mapstructure:"user" yaml:"user"`
	Password string `json:"password" mapstructure:"password" yaml:"-"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode" yaml:"sslmode"`
}

type Generation struct {
	BatchSize int     `json:"batch_size" mapstructure:"batch_size" yaml:"batch_size"`
	Workers   int     `json:"workers" mapstructure:"workers" yaml:"workers"`
	PoolSize  int     `json:"pool_size" mapstructure:"pool_size" yaml:"pool_size"`
	Scale     float64 `json:"scale" mapstructure:"scale" yaml:"scale"`
	Cleanup   bool    `json:"cleanup" mapstructure:"cleanup" yaml:"cleanup"`
	Seed      int64   `json:"seed" mapstructure:"seed" yaml:"seed"`
}

type Users struct {
	Total       int     `json:"total" mapstructure:"total" yaml:"total"`
	AdminRatio  float64 `json:"admin_ratio" mapstructure:"admin_ratio" yaml:"admin_ratio"`
	MemberRatio float64 `json:"member_ratio" mapstructure:"member_ratio" yaml:"member_ratio"`
	GuestRatio  float64 `json:"guest_ratio" mapstructure:"guest_ratio" yaml:"guest_ratio"`
}

type Categories struct {
	Total             int `json:"total" mapstructure:"total" yaml:"total"`
	MaxDepth          int `json:"max_depth" mapstructure:"max_depth" yaml:"max_depth"`
	ChildrenPerParent int `json:"children_per_parent" mapstructure:"children_per_parent" yaml:"children_per_parent"`
	MaxRoots          int `json:"max_roots" mapstructure:"max_roots" yaml:"max_roots"`
}

type Products struct {
	Total    int   `json:"total" mapstructure:"total" yaml:"total"`
	MinPrice int64 `json:"min_price" mapstructure:"min_price" yaml:"min_price"`
	MaxPrice int64 `json:"max_price" mapstructure:"max_price" yaml:"max_price"`
}

type Orders struct {
	Total             int     `json:"total" mapstructure:"total" yaml:"total"`
	DateRangeDays     int     `json:"date_range_days" mapstructure:"date_range_days" yaml:"date_range_days"`
	EligibleUserRatio float64 `json:"eligible_user_ratio" mapstructure:"eligible_user_ratio" yaml:"eligible_user_ratio"`
	TaxRate           float64 `json:"tax_rate" mapstructure:"tax_rate" yaml:"tax_rate"`
}

type OrderItems struct {
	MinQuantity int `json:"min_quantity" mapstructure:"min_quantity" yaml:"min_quantity"`
	MaxQuantity int `json:"max_quantity" mapstructure:"max_quantity" yaml:"max_quantity"`
}

type Totals struct {
	Total int `json:"total" mapstructure:"total" yaml:"total"`
}

type Report struct {
	Path string `json:"path" mapstructure:"path" yaml:"path"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Database: Database{
			Provider: "postgres",
			URLEnv:   "DATABASE_URL",
			Host:     "localhost",
			Port:     5433,
			Name:     "portfolio",
			User:     "portfolio_user",
			Password: "portfolio_pass",
			SSLMode:  "disable",
		},
		Generation: Generation{
			BatchSize: 1000,
			Workers:   4,
			PoolSize:  5,
			Scale:     1.0,
			Cleanup:   true,
		},
		Users:        Users{Total: 100000, AdminRatio: 0.1, MemberRatio: 0.3, GuestRatio: 0.6},
		Categories:   Categories{Total: 1000, MaxDepth: 3, ChildrenPerParent: 5, MaxRoots: 50},
		Products:     Products{Total: 200000, MinPrice: 1000, MaxPrice: 5000000},
		Orders:       Orders{Total: 300000, DateRangeDays: 365, EligibleUserRatio: 0.4, TaxRate: 0.1},
		OrderItems:   OrderItems{MinQuantity: 1, MaxQuantity: 10},
		AuditLog:     Totals{Total: 50000},
		QueryHistory: Totals{Total: 10000},
	}
}

// SetDefaults registers every default on v so that config files, env vars and
// bound flags only need to carry overrides.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("database.provider", d.Database.Provider)
	v.SetDefault("database.url", d.Database.URL)
	v.SetDefault("database.url_env", d.Database.URLEnv)
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.port", d.Database.Port)
	v.SetDefault("database.name", d.Database.Name)
	v.SetDefault("database.user", d.Database.User)
	v.SetDefault("database.password", d.Database.Password)
	v.SetDefault("database.sslmode", d.Database.SSLMode)

	v.SetDefault("generation.batch_size", d.Generation.BatchSize)
	v.SetDefault("generation.workers", d.Generation.Workers)
	v.SetDefault("generation.pool_size", d.Generation.PoolSize)
	v.SetDefault("generation.scale", d.Generation.Scale)
	v.SetDefault("generation.cleanup", d.Generation.Cleanup)
	v.SetDefault("generation.seed", d.Generation.Seed)

	v.SetDefault("users.total", d.Users.Total)
	v.SetDefault("users.admin_ratio", d.Users.AdminRatio)
	v.SetDefault("users.member_ratio", d.Users.MemberRatio)
	v.SetDefault("users.guest_ratio", d.Users.GuestRatio)

	v.SetDefault("categories.total", d.Categories.Total)
	v.SetDefault("categories.max_depth", d.Categories.MaxDepth)
	v.SetDefault("categories.children_per_parent", d.Categories.ChildrenPerParent)
	v.SetDefault("categories.max_roots", d.Categories.MaxRoots)

	v.SetDefault("products.total", d.Products.Total)
	v.SetDefault("products.min_price", d.Products.MinPrice)
	v.SetDefault("products.max_price", d.Products.MaxPrice)

	v.SetDefault("orders.total", d.Orders.Total)
	v.SetDefault("orders.date_range_days", d.Orders.DateRangeDays)
	v.SetDefault("orders.eligible_user_ratio", d.Orders.EligibleUserRatio)
	v.SetDefault("orders.tax_rate", d.Orders.TaxRate)

	v.SetDefault("order_items.min_quantity", d.OrderItems.MinQuantity)
	v.SetDefault("order_items.max_quantity", d.OrderItems.MaxQuantity)

	v.SetDefault("audit_log.total", d.AuditLog.Total)
	v.SetDefault("query_history.total", d.QueryHistory.Total)

	v.SetDefault("report.path", d.Report.Path)
}

// Load resolves the configuration held by v: unmarshal, apply the scale
// factor to every entity total, then validate.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	cfg = cfg.Scaled(cfg.Generation.Scale)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Scaled returns a copy with every entity total multiplied by factor and
// truncated toward zero. Order items are derived from orders and have no
// total of their own.
func (c Config) Scaled(factor float64) Config {
	scale := func(n int) int { return int(float64(n) * factor) }
	c.Users.Total = scale(c.Users.Total)
	c.Categories.Total = scale(c.Categories.Total)
	c.Products.Total = scale(c.Products.Total)
	c.Orders.Total = scale(c.Orders.Total)
	c.AuditLog.Total = scale(c.AuditLog.Total)
	c.QueryHistory.Total = scale(c.QueryHistory.Total)
	c.Generation.Scale = factor
	return c
}

func (c Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3", "memory"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	g := c.Generation
	if g.BatchSize < 1 {
		return fmt.Errorf("generation.batch_size must be at least 1, got %d", g.BatchSize)
	}
	if g.Workers < 1 {
		return fmt.Errorf("generation.workers must be at least 1, got %d", g.Workers)
	}
	if g.PoolSize < 1 {
		return fmt.Errorf("generation.pool_size must be at least 1, got %d", g.PoolSize)
	}
	if g.Scale <= 0 {
		return fmt.Errorf("generation.scale must be positive, got %g", g.Scale)
	}

	totals := map[string]int{
		"users.total":         c.Users.Total,
		"categories.total":    c.Categories.Total,
		"products.total":      c.Products.Total,
		"orders.total":        c.Orders.Total,
		"audit_log.total":     c.AuditLog.Total,
		"query_history.total": c.QueryHistory.Total,
	}
	for key, n := range totals {
		if n < 0 {
			return fmt.Errorf("%s cannot be negative, got %d", key, n)
		}
	}

	u := c.Users
	for key, r := range map[string]float64{"admin_ratio": u.AdminRatio, "member_ratio": u.MemberRatio, "guest_ratio": u.GuestRatio} {
		if r < 0 || r > 1 {
			return fmt.Errorf("users.%s must be within [0, 1], got %g", key, r)
		}
	}
	if sum := u.AdminRatio + u.MemberRatio + u.GuestRatio; math.Abs(sum-1) > 0.01 {
		return fmt.Errorf("user ratios must sum to 1, got %g", sum)
	}

	if c.Categories.MaxDepth < 0 {
		return fmt.Errorf("categories.max_depth cannot be negative")
	}
	if c.Categories.ChildrenPerParent < 1 {
		return fmt.Errorf("categories.children_per_parent must be at least 1")
	}
	if c.Categories.MaxRoots < 1 {
		return fmt.Errorf("categories.max_roots must be at least 1")
	}

	if c.Products.MinPrice < 0 || c.Products.MinPrice > c.Products.MaxPrice {
		return fmt.Errorf("invalid product price range [%d, %d]", c.Products.MinPrice, c.Products.MaxPrice)
	}

	if c.Orders.DateRangeDays < 0 {
		return fmt.Errorf("orders.date_range_days cannot be negative")
	}
	if c.Orders.EligibleUserRatio < 0 || c.Orders.EligibleUserRatio > 1 {
		return fmt.Errorf("orders.eligible_user_ratio must be within [0, 1], got %g", c.Orders.EligibleUserRatio)
	}
	if c.Orders.TaxRate < 0 {
		return fmt.Errorf("orders.tax_rate cannot be negative")
	}

	if c.OrderItems.MinQuantity < 1 || c.OrderItems.MinQuantity > c.OrderItems.MaxQuantity {
		return fmt.Errorf("invalid order item quantity range [%d, %d]", c.OrderItems.MinQuantity, c.OrderItems.MaxQuantity)
	}

	return nil
}

// IsMemory reports whether the run targets the in-process store.
func (c Config) IsMemory() bool {
	return c.Database.Provider == "memory"
}

// GetDatabaseURL resolves the connection string: an explicit url wins, then
// the url_env environment variable, then the discrete connection fields.
func (c Config) GetDatabaseURL() (string, error) {
	db := c.Database
	if db.URL != "" {
		return db.URL, nil
	}
	if db.URLEnv != "" {
		if dbURL := os.Getenv(db.URLEnv); dbURL != "" {
			return dbURL, nil
		}
	}

	switch db.Provider {
	case "postgresql", "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(db.User, db.Password),
			Host:   net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
			Path:   "/" + db.Name,
		}
		if db.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": []string{db.SSLMode}}.Encode()
		}
		return u.String(), nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = db.User
		mc.Passwd = db.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
		mc.DBName = db.Name
		mc.ParseTime = true
		return mc.FormatDSN(), nil
	case "sqlite", "sqlite3":
		if db.Name == "" {
			return "", fmt.Errorf("database.name must hold the sqlite file path")
		}
		return db.Name, nil
	case "memory":
		return "memory://", nil
	}
	return "", fmt.Errorf("database URL not found in environment variable %s", db.URLEnv)
}
