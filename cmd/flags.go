package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/database"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"provider":   "database.provider",
	"url":        "database.url",
	"host":       "database.host",
	"port":       "database.port",
	"database":   "database.name",
	"user":       "database.user",
	"password":   "database.password",
	"sslmode":    "database.sslmode",
	"batch-size": "generation.batch_size",
	"workers":    "generation.workers",
	"pool-size":  "generation.pool_size",
	"scale":      "generation.scale",
	"seed":       "generation.seed",
	"report":     "report.path",
}

func addDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("provider", "", "Database provider (postgres, mysql, sqlite, memory)")
	cmd.Flags().String("url", "", "Database URL, overrides the connection flags")
	cmd.Flags().String("host", "", "Database host")
	cmd.Flags().Int("port", 0, "Database port")
	cmd.Flags().String("database", "", "Database name (file path for SQLite)")
	cmd.Flags().String("user", "", "Database user")
	cmd.Flags().String("password", "", "Database password")
	cmd.Flags().String("sslmode", "", "PostgreSQL sslmode")
	cmd.Flags().Int("pool-size", 0, "Number of pooled connections")
}

func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().Int("batch-size", 0, "Rows per insert transaction")
	cmd.Flags().Int("workers", 0, "Generation worker count")
	cmd.Flags().Float64("scale", 1.0, "Multiply every entity total by this factor")
	cmd.Flags().Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
}

// loadConfig binds the flags of the running command and builds the config.
// Flags are bound per command because several commands share flag names.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if configErr != nil {
		return config.Config{}, configErr
	}

	v := viper.GetViper()
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return config.Config{}, fmt.Errorf("failed to bind flags: %w", bindErr)
	}

	if noCleanup, _ := cmd.Flags().GetBool("no-cleanup"); noCleanup {
		v.Set("generation.cleanup", false)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openStore(ctx context.Context, cfg config.Config) (database.Store, error) {
	store, err := database.NewStore(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	url, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get database URL: %w", err)
	}

	if err := store.Connect(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}
