package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/pathway/internal/presentation/graph"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/dsl"
	"github.com/aretw0/pathway/pkg/policy"
)

func sample(t *testing.T) (*domain.Topology, policy.Routes) {
	t.Helper()
	b := dsl.New()
	b.Add("intake").Describe(`Intake "triage"`).Go("ad", "ap").Weights(3, 1).Connect("exit")
	b.Add("ad").Go("remission")
	b.Add("ap").Go("remission")
	b.Add("remission").Stay()
	b.Add("exit")
	topo, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	return topo, b.Routes()
}

func TestGenerateMermaid(t *testing.T) {
	topo, routes := sample(t)

	tests := []struct {
		name     string
		opts     graph.Options
		contains []string
		excludes []string
	}{
		{
			name: "Plain Edges",
			opts: graph.Options{},
			contains: []string{
				"graph TD",
				`ad["ad"]`,
				"intake --> ad",
				"intake --> exit",
			},
		},
		{
			name: "Start And Stay Shapes",
			opts: graph.Options{Start: "intake", Routes: routes},
			contains: []string{
				`intake(("intake <br/> Intake 'triage'"))`,
				`remission(["remission"])`,
			},
		},
		{
			name: "Route Shares",
			opts: graph.Options{Routes: routes},
			contains: []string{
				`intake -- "75%" --> ad`,
				`intake -- "25%" --> ap`,
				`ad -- "100%" --> remission`,
				"intake -.-> exit",
			},
		},
		{
			name: "Occupancy Overlay",
			opts: graph.Options{Overlay: &graph.Overlay{Occupancy: map[string]int{"ad": 4, "ap": 0}}},
			contains: []string{
				`ad["ad <br/> 👥 4"]`,
				"class ad occupied;",
			},
			excludes: []string{
				"class ap occupied;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(topo, tt.opts)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestGenerateMermaid_Sanitization(t *testing.T) {
	topo := domain.NewTopology()
	for _, slug := range []string{"path/to.x", "hyphen-ated"} {
		if err := topo.Add(domain.NewBubble(slug, "", 0)); err != nil {
			t.Fatal(err)
		}
	}
	got := graph.GenerateMermaid(topo, graph.Options{})
	for _, want := range []string{`path_to_x["path/to.x"]`, `hyphen_ated["hyphen-ated"]`} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in\n%s", want, got)
		}
	}
}
