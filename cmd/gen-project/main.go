// Command gen-project writes a staged sample project to disk.
//
//	go run ./cmd/gen-project [dir] [stages]
//
// Each stage sends agents to the next stage or to remission; the last stage
// always ends in remission.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/pathway/internal/compiler"
	"github.com/aretw0/pathway/pkg/dsl"
	"gopkg.in/yaml.v3"
)

func main() {
	targetDir := "examples/staged"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}
	stages := 3
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		check(err)
		stages = n
	}

	proj, err := scaffold(filepath.Base(targetDir), stages)
	check(err)

	data, err := encode(proj)
	check(err)

	check(os.MkdirAll(targetDir, 0o755))
	path := filepath.Join(targetDir, compiler.DefaultFile)
	check(os.WriteFile(path, data, 0o644))

	fmt.Printf("Generated %d-stage project in: %s\n", stages, path)
}

// scaffold builds the staged pathway with the DSL and flattens it into a Project.
func scaffold(name string, stages int) (*compiler.Project, error) {
	if stages < 1 {
		return nil, fmt.Errorf("stages must be at least 1, got %d", stages)
	}

	b := dsl.New()
	b.Add("intake").Describe("Intake assessment").Go("stage-1").Delay(1)
	for i := 1; i <= stages; i++ {
		stage := b.Add(fmt.Sprintf("stage-%d", i)).
			Describe(fmt.Sprintf("Treatment line %d", i)).
			Depth(i)
		if i < stages {
			stage.Go(fmt.Sprintf("stage-%d", i+1), "remission").Weights(0.6, 0.4).Delay(8)
		} else {
			stage.Go("remission").Delay(8)
		}
	}
	b.Add("remission").Describe("Remission").Stay()

	topo, err := b.Build()
	if err != nil {
		return nil, err
	}

	seed := int64(1)
	proj := &compiler.Project{
		Name:   name,
		Seed:   &seed,
		Start:  "intake",
		Agents: 100,
		Policy: map[string]any{},
		Population: map[string]any{
			"severity_dist":   []float64{0.5, 0.3, 0.2},
			"severity_states": []string{"mild", "moderate", "severe"},
		},
		Storage: compiler.StorageSpec{File: &compiler.FileSpec{Dir: ".pathway/runs"}},
	}
	for _, bub := range topo.Bubbles() {
		spec := compiler.BubbleSpec{Slug: bub.Slug, Description: bub.Description, Depth: bub.Depth}
		for _, c := range bub.Connections() {
			spec.Connections = append(spec.Connections, c.Slug)
		}
		proj.Bubbles = append(proj.Bubbles, spec)
	}
	for slug, route := range b.Routes() {
		proj.Policy[slug] = route
	}
	return proj, nil
}

func encode(proj *compiler.Project) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(proj); err != nil {
		return nil, fmt.Errorf("failed to encode project: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func check(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
