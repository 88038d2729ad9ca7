package cmd

import (
	"fmt"
	"io"

	"github.com/Rana718/bulkgen/internal/config"
	"github.com/Rana718/bulkgen/internal/generator"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what generate would produce",
	Long:  `Prints the resolved per-entity counts and the category level plan without connecting to a database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}

		printPlan(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	addGenerationFlags(planCmd)
	planCmd.Flags().Bool("yaml", false, "Print the resolved configuration as YAML")
}

// expectedItemsPerOrder is the mean of the order item count distribution.
const expectedItemsPerOrder = 2.1

func printPlan(w io.Writer, cfg config.Config) {
	bold := color.New(color.FgCyan, color.Bold)
	bold.Fprintf(w, "📋 Generation plan (provider %s, scale %g)\n", cfg.Database.Provider, cfg.Generation.Scale)

	admins, members, guests := generator.UserQuota(cfg.Users)
	fmt.Fprintf(w, "  %-15s %10d  (%d admins, %d members, %d guests)\n", "users", cfg.Users.Total, admins, members, guests)

	levels := generator.PlanCategoryLevels(cfg.Categories.Total, cfg.Categories.MaxDepth, cfg.Categories.ChildrenPerParent, cfg.Categories.MaxRoots)
	planned := 0
	for _, l := range levels {
		planned += l.Count
	}
	fmt.Fprintf(w, "  %-15s %10d\n", "categories", planned)
	for _, l := range levels {
		if l.Depth == 0 {
			fmt.Fprintf(w, "    level %d  %8d  (roots)\n", l.Depth, l.Count)
			continue
		}
		fmt.Fprintf(w, "    level %d  %8d  (%d parents × %d)\n", l.Depth, l.Count, l.Parents, l.PerParent)
	}

	fmt.Fprintf(w, "  %-15s %10d\n", "products", cfg.Products.Total)
	fmt.Fprintf(w, "  %-15s %10d  (%d eligible buyers)\n", "orders", cfg.Orders.Total, int(float64(cfg.Users.Total)*cfg.Orders.EligibleUserRatio))
	fmt.Fprintf(w, "  %-15s %10s\n", "order_items", fmt.Sprintf("~%d", int(float64(cfg.Orders.Total)*expectedItemsPerOrder)))
	fmt.Fprintf(w, "  %-15s %10d\n", "audit_log", cfg.AuditLog.Total)
	fmt.Fprintf(w, "  %-15s %10d\n", "query_history", cfg.QueryHistory.Total)
	fmt.Fprintf(w, "  batch size %d, %d workers, %d pooled connections\n", cfg.Generation.BatchSize, cfg.Generation.Workers, cfg.Generation.PoolSize)
}
