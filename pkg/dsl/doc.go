/*
Package dsl provides a fluent builder for pathway topologies.

It lets callers declare bubbles, their edges and their routing entries in Go
instead of a project file. This is useful for tests and for simulations whose
structure is generated programmatically.

Example usage:

	b := dsl.New()

	b.Add("intake").
		Describe("Intake assessment").
		Go("ad", "ap").
		Weights(2, 1).
		Delay(1)

	b.Add("ad").Describe("Antidepressant").Go("remission")
	b.Add("ap").Describe("Antipsychotic").Go("remission")
	b.Add("remission").Stay()

	topology, err := b.Build()
	routes := b.Routes()
*/
package dsl
