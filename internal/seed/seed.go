// Package seed loads a fixed set of sample engineers into an empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/engineers-api/internal/storage"
	"github.com/aanand-mishra/engineers-api/internal/types"
)

// Engineers is the sample data. None of them carry a learning path.
var Engineers = []types.Engineer{
	{Name: "Ricardo Hernandez", TechStack: []string{"Java", "Spring Boot", "Kafka", "AWS", "Kubernetes"}},
	{Name: "Maria Garcia", TechStack: []string{"Python", "Django", "PostgreSQL", "Docker", "Redis"}},
	{Name: "Carlos Lopez", TechStack: []string{"JavaScript", "React", "Node.js", "MongoDB", "TypeScript"}},
	{Name: "Ana Martinez", TechStack: []string{"Go", "Kubernetes", "Docker", "Terraform", "AWS"}},
	{Name: "Luis Rodriguez", TechStack: []string{"C#", ".NET Core", "Azure", "SQL Server", "Microservices"}},
}

// Load inserts Engineers when the store is empty and reports how many
// rows it wrote. A store that already holds data is left alone.
func Load(ctx context.Context, store storage.Storage) (int, error) {
	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: count: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "store not empty, skipping seed", slog.Int64("engineers", n))
		return 0, nil
	}

	for i, e := range Engineers {
		e.TechStack = append([]string(nil), e.TechStack...)
		if _, err := store.Save(ctx, e); err != nil {
			return i, fmt.Errorf("seed: save %q: %w", e.Name, err)
		}
	}

	slog.InfoContext(ctx, "seeded engineers", slog.Int("count", len(Engineers)))
	return len(Engineers), nil
}
