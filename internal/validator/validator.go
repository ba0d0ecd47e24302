package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/policy"
)

// Finding is one static defect of a project.
type Finding struct {
	Bubble  string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Bubble, f.Message)
}

// Check inspects the topology and routing table starting from start.
// Findings are ordered by topology order, then by routing-table slug.
func Check(topo *domain.Topology, routes policy.Routes, start string) []Finding {
	startBubble, ok := topo.Bubble(start)
	if !ok {
		return []Finding{{Bubble: start, Message: "start bubble not found"}}
	}

	var findings []Finding
	reachable := crawl(startBubble)

	for _, b := range topo.Bubbles() {
		if !reachable[b.Slug] {
			findings = append(findings, Finding{b.Slug, "unreachable from " + start})
			continue
		}
		if _, ok := routes[b.Slug]; !ok {
			findings = append(findings, Finding{b.Slug, "no policy entry"})
		}

		seen := make(map[string]bool)
		for _, c := range b.Connections() {
			if seen[c.Slug] {
				findings = append(findings, Finding{b.Slug, "duplicate edge to " + c.Slug})
			}
			seen[c.Slug] = true
		}
	}

	for _, slug := range routes.Slugs() {
		b, ok := topo.Bubble(slug)
		if !ok {
			findings = append(findings, Finding{slug, "policy entry for unknown bubble"})
			continue
		}
		if _, err := policy.Compile(policy.Routes{slug: routes[slug]}, nil); err != nil {
			findings = append(findings, Finding{slug, err.Error()})
			continue
		}
		for _, target := range routes.Targets(slug) {
			if b.ConnectedBubble(target) == nil {
				findings = append(findings, Finding{slug, "policy target " + target + " has no edge"})
			}
		}
	}

	return findings
}

// Validate runs Check and folds the findings into one error.
func Validate(topo *domain.Topology, routes policy.Routes, start string) error {
	findings := Check(topo, routes, start)
	if len(findings) == 0 {
		return nil
	}

	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.String()
	}
	return fmt.Errorf("%w: found %d errors:\n- %s",
		domain.ErrConfiguration, len(findings), strings.Join(lines, "\n- "))
}

// crawl returns the slugs reachable from start through edges.
func crawl(start *domain.Bubble) map[string]bool {
	visited := map[string]bool{start.Slug: true}
	queue := []*domain.Bubble{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range current.Connections() {
			if !visited[next.Slug] {
				visited[next.Slug] = true
				queue = append(queue, next)
			}
		}
	}
	return visited
}
