package store

import (
	"fmt"
	"slices"
	"strings"
)

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "name = EXCLUDED.name, slug = EXCLUDED.slug, ..."
func buildUpdateClause(columns []string, skip ...string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if slices.Contains(skip, c) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	return strings.Join(parts, ", ")
}
