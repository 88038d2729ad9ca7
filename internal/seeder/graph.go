package seeder

import (
	"fmt"
	"slices"

	"github.com/Rana718/bulkgen/internal/model"
)

// DependencyGraph orders tables so that every table comes after the tables
// its foreign keys reference. Ties keep the order tables were added in.
type DependencyGraph struct {
	tables map[string]model.Table
	names  []string
	order  []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		tables: make(map[string]model.Table),
	}
}

func (g *DependencyGraph) AddTable(table model.Table) {
	if _, ok := g.tables[table.Name]; !ok {
		g.names = append(g.names, table.Name)
	}
	g.tables[table.Name] = table
}

func (g *DependencyGraph) BuildInsertionOrder() ([]string, error) {
	visited := make(map[string]bool)
	temp := make(map[string]bool)
	var order []string

	var visit func(string) error
	visit = func(tableName string) error {
		if temp[tableName] {
			return fmt.Errorf("circular dependency detected involving table: %s", tableName)
		}
		if visited[tableName] {
			return nil
		}

		table, ok := g.tables[tableName]
		if !ok {
			return fmt.Errorf("unknown table referenced: %s", tableName)
		}

		temp[tableName] = true
		for _, dep := range table.Dependencies {
			if dep != tableName { // Skip self-references
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		temp[tableName] = false
		visited[tableName] = true
		order = append(order, tableName)
		return nil
	}

	for _, tableName := range g.names {
		if !visited[tableName] {
			if err := visit(tableName); err != nil {
				return nil, err
			}
		}
	}

	g.order = order
	return order, nil
}

func (g *DependencyGraph) GetOrder() []string {
	return g.order
}

// CleanupOrder is the insertion order reversed: referencing tables first.
func (g *DependencyGraph) CleanupOrder() []string {
	order := slices.Clone(g.order)
	slices.Reverse(order)
	return order
}
