package graph

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/policy"
)

// Overlay contains run data to visualize on the graph.
type Overlay struct {
	Occupancy map[string]int
}

// Options controls what GenerateMermaid draws besides the bubbles and edges.
type Options struct {
	// Start is drawn as a circle.
	Start string
	// Routes labels edges with their selection share and marks stay bubbles.
	Routes policy.Routes
	// Overlay highlights occupied bubbles.
	Overlay *Overlay
}

// GenerateMermaid produces a Mermaid flowchart of the topology.
// It applies semantic styling:
// - Start: ((Circle))
// - Stay (terminal): ([Stadium])
// - Default: [Rectangle]
// Edges that the routing table never selects are dotted.
func GenerateMermaid(topo *domain.Topology, opts Options) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, b := range topo.Bubbles() {
		safeID := sanitizeMermaidID(b.Slug)

		opener, closer := "[", "]"
		switch {
		case b.Slug == opts.Start:
			opener, closer = "((", "))"
		case isStay(opts.Routes, b.Slug):
			opener, closer = "([", "])"
		}

		label := b.Slug
		if b.Description != "" {
			label = fmt.Sprintf("%s <br/> %s", b.Slug, escape(b.Description))
		}
		if opts.Overlay != nil {
			if n, ok := opts.Overlay.Occupancy[b.Slug]; ok {
				label = fmt.Sprintf("%s <br/> 👥 %d", label, n)
			}
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		shares := routeShares(opts.Routes, b.Slug)
		for _, target := range b.Connections() {
			safeTo := sanitizeMermaidID(target.Slug)
			arrow := "-->"
			if opts.Routes != nil {
				if share, ok := shares[target.Slug]; ok {
					arrow = fmt.Sprintf("-- \"%s\" -->", formatShare(share))
				} else {
					arrow = "-.->"
				}
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, safeTo))
		}
	}

	if opts.Overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef occupied fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		for _, b := range topo.Bubbles() {
			if opts.Overlay.Occupancy[b.Slug] > 0 {
				sb.WriteString(fmt.Sprintf("    class %s occupied;\n", sanitizeMermaidID(b.Slug)))
			}
		}
	}

	return sb.String()
}

func isStay(routes policy.Routes, slug string) bool {
	r, ok := routes[slug]
	if !ok {
		return false
	}
	kind, err := r.TransitionKind()
	return err == nil && kind == domain.KindStay
}

// routeShares returns the probability of each destination of a bubble's route.
func routeShares(routes policy.Routes, slug string) map[string]float64 {
	targets := routes.Targets(slug)
	if len(targets) == 0 {
		return nil
	}
	weights := routes[slug].Weights
	if len(weights) != len(targets) {
		weights = make([]float64, len(targets))
		for i := range weights {
			weights[i] = 1
		}
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	shares := make(map[string]float64, len(targets))
	if total <= 0 {
		return shares
	}
	for i, t := range targets {
		shares[t] += weights[i] / total
	}
	return shares
}

func formatShare(p float64) string {
	return fmt.Sprintf("%g%%", math.Round(p*1000)/10)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
