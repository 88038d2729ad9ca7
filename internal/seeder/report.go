package seeder

import (
	"fmt"
	"os"
	"time"

	"github.com/Rana718/bulkgen/internal/database/common"
	"github.com/Rana718/bulkgen/internal/generator"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Report summarizes a run.
type Report struct {
	Provider       string                    `yaml:"provider"`
	Seed           int64                     `yaml:"seed,omitempty"`
	StartedAt      time.Time                 `yaml:"started_at"`
	Elapsed        time.Duration             `yaml:"elapsed"`
	Status         Phase                     `yaml:"status"`
	Error          string                    `yaml:"error,omitempty"`
	Cleanup        []CleanupEntry            `yaml:"cleanup,omitempty"`
	CategoryLevels []generator.CategoryLevel `yaml:"category_levels,omitempty"`
	Phases         []PhaseReport             `yaml:"phases"`
}

type CleanupEntry struct {
	Table  string                `yaml:"table"`
	Status common.TruncateStatus `yaml:"status"`
	Error  string                `yaml:"error,omitempty"`
}

type PhaseReport struct {
	Phase     Phase         `yaml:"phase"`
	Table     string        `yaml:"table"`
	Generated int           `yaml:"generated"`
	Inserted  int64         `yaml:"inserted"`
	Skipped   bool          `yaml:"skipped,omitempty"`
	Duration  time.Duration `yaml:"duration"`
}

// Inserted returns the rows committed to table during the run.
func (r *Report) Inserted(table string) int64 {
	var n int64
	for _, p := range r.Phases {
		if p.Table == table {
			n += p.Inserted
		}
	}
	return n
}

func (r *Report) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}

// WriteFile writes the report as YAML.
func (r *Report) WriteFile(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Print writes the per-table summary to the console.
func (r *Report) Print() {
	fmt.Fprintln(color.Output)
	color.Cyan("📊 Summary")
	var total int64
	for _, p := range r.Phases {
		if p.Skipped {
			color.Yellow("  %-15s skipped", p.Table)
			continue
		}
		fmt.Fprintf(color.Output, "  %-15s %10d rows  %s\n", p.Table, p.Inserted, p.Duration.Round(time.Millisecond))
		total += p.Inserted
	}
	fmt.Fprintf(color.Output, "  %-15s %10d rows  %s\n", "total", total, r.Elapsed.Round(time.Millisecond))
}
