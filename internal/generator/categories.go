package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/bulkgen/internal/model"
	"github.com/google/uuid"
)

// CategoryLevel is one round of category generation. Level 0 holds the roots;
// every other level hangs PerParent children under each of the first
// Count/PerParent categories of the level above.
type CategoryLevel struct {
	Depth     int `json:"depth" yaml:"depth"`
	Parents   int `json:"parents" yaml:"parents"`
	PerParent int `json:"per_parent" yaml:"per_parent"`
	Count     int `json:"count" yaml:"count"`
}

// PlanCategoryLevels distributes total categories over a forest at most
// maxDepth levels below the roots. There are min(maxRoots, total/10) roots.
// Each deeper level gives every parent min(fanout, remaining/parents)
// children; when that is zero but quota is left, the first remaining parents
// get one child each.
func PlanCategoryLevels(total, maxDepth, fanout, maxRoots int) []CategoryLevel {
	roots := min(maxRoots, total/10)
	if roots <= 0 {
		return nil
	}

	levels := []CategoryLevel{{Depth: 0, Count: roots}}
	remaining := total - roots
	parents := roots

	for depth := 1; depth <= maxDepth && remaining > 0 && parents > 0; depth++ {
		per := max(1, min(fanout, remaining/parents))
		count := min(parents*per, remaining)
		levels = append(levels, CategoryLevel{Depth: depth, Parents: parents, PerParent: per, Count: count})
		remaining -= count
		parents = count
	}
	return levels
}

// CategoryGenerator produces one level of the forest. Offset is the number of
// categories generated by earlier levels and keeps slugs unique across the
// run.
type CategoryGenerator struct {
	level   CategoryLevel
	parents []uuid.UUID
	offset  int
	now     time.Time
}

func NewCategoryGenerator(level CategoryLevel, parents []uuid.UUID, offset int, now time.Time) (*CategoryGenerator, error) {
	if level.Depth > 0 {
		needed := (level.Count + level.PerParent - 1) / level.PerParent
		if needed > len(parents) {
			return nil, fmt.Errorf("category level %d needs %d parents, only %d available", level.Depth, needed, len(parents))
		}
	}
	return &CategoryGenerator{level: level, parents: parents, offset: offset, now: now}, nil
}

func (g *CategoryGenerator) Generate(rng *rand.Rand, index int) (model.Category, error) {
	id, err := newID("category")
	if err != nil {
		return model.Category{}, err
	}
	f := newFaker(rng)
	global := g.offset + index + 1

	c := model.Category{
		ID:        id,
		IsActive:  true,
		CreatedAt: f.daysAgo(g.now, 1, 365),
		Level:     g.level.Depth,
	}

	if g.level.Depth == 0 {
		c.Name = fmt.Sprintf("%s %d", pick(f, categoryNames), index+1)
		c.DisplayOrder = index
	} else {
		parent := g.parents[index/g.level.PerParent]
		c.ParentID = &parent
		c.DisplayOrder = index % g.level.PerParent
		c.Name = fmt.Sprintf("Subcategory %d-%d", g.level.Depth, c.DisplayOrder+1)
	}

	c.Description = "Description for " + c.Name
	c.Slug = fmt.Sprintf("slug-%s-%d", slugify(c.Name), global)
	return c, nil
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
