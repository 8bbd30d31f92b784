package catalog

import (
	"strings"

	models "github.com/productivity-engines/website/dbmodels"
	"github.com/productivity-engines/website/pkg/xstrings"
)

// Categories returns the sorted set of category names used by the agents.
func Categories(agents []models.AgentConfig) []string {
	var all []string
	for _, a := range agents {
		all = append(all, a.Categories...)
	}
	return xstrings.SortedUnique(all)
}

// Filter keeps agents tagged with any selected category (all of them when
// nothing is selected) whose name or description contains query.
func Filter(agents []models.AgentConfig, selected []string, query string) []models.AgentConfig {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]models.AgentConfig, 0, len(agents))
	for _, a := range agents {
		if len(selected) > 0 && !a.HasCategory(selected...) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Name), query) &&
			!strings.Contains(strings.ToLower(a.Description), query) {
			continue
		}
		out = append(out, a)
	}
	return out
}
