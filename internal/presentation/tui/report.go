package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/runner"
)

// Report formats a run result as markdown. Bubbles are listed in topology order.
func Report(name string, topo *domain.Topology, res *runner.Result) string {
	var sb strings.Builder

	title := "Run report"
	if name != "" {
		title = "Run report: " + name
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- **Run**: `%s`\n", res.RunID)
	fmt.Fprintf(&sb, "- **Stopped**: %s\n", res.Reason)
	fmt.Fprintf(&sb, "- **Events fired**: %d\n", res.Events)
	fmt.Fprintf(&sb, "- **Final time**: %g\n\n", res.Time)

	total := 0
	for _, n := range res.Occupancy {
		total += n
	}

	sb.WriteString("## Occupancy\n\n")
	sb.WriteString("| Bubble | Description | Agents | Share |\n")
	sb.WriteString("|---|---|---:|---:|\n")
	for _, b := range topo.Bubbles() {
		n := res.Occupancy[b.Slug]
		share := 0.0
		if total > 0 {
			share = float64(n) / float64(total) * 100
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %.1f%% |\n", b.Slug, cell(b.Description), n, share)
	}

	if len(res.Failures) > 0 {
		sb.WriteString("\n## Failures\n\n")
		sb.WriteString("| Agent | Bubble | Time | Error |\n")
		sb.WriteString("|---|---|---:|---|\n")
		for _, f := range res.Failures {
			fmt.Fprintf(&sb, "| `%s` | %s | %g | %s |\n", f.AgentID, f.Bubble, f.Time, cell(f.Err.Error()))
		}
	}

	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
