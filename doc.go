/*
Package pathway is an agent-based, discrete-event simulation library for
modelling how a population moves through a graph of states.

States are bubbles connected by directed edges. Each agent occupies one
bubble, consults its policy for a decision (stay, or move to a connected
bubble after a delay) and hands movements to an event environment. A runner
fires the events in time order and is the only place where bubble membership
changes.

# Usage

A project is described in a YAML file (pathway.yaml) holding the bubbles, the
routing policy, the population distributions and optional storage backends.

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/pathway"
	)

	func main() {
		eng, err := pathway.New("./examples/trd", pathway.WithSeed(42))
		if err != nil {
			log.Fatal(err)
		}
		defer eng.Close()

		res, _, err := eng.Run(context.Background(), "")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(res.Occupancy)
	}

Custom agent variants are plugged in with WithVariant, or by name through
WithRegistry and the project's variant key. The lower-level
packages (pkg/domain, pkg/factory, pkg/runner) can also be used directly.
*/
package pathway
