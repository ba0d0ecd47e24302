// Package policy turns declarative routing tables into domain.Policy values.
//
// A routing table maps a bubble slug to a Route: the candidate destinations,
// their relative weights, the transition kind and a scheduling delay. Tables
// are usually read from the "policy" section of a project file, but can also
// be produced by the dsl builder.
package policy
