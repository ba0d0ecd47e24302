/*
Package domain contains the core model of a pathway simulation.

It defines the transition graph, the entities that move through it and the
protocol an entity follows to decide where it goes next. The package has no I/O
and no persistence; the clock and the event queue are reached only through the
Environment interface.

# Key Entities

  - Bubble: a named state or location. Owns its occupants and its outgoing edges.
  - Connection: a directed edge. Constructing one mutates the source Bubble.
  - Topology: the set of Bubbles of one simulation, keyed by slug.
  - Agent: an entity with an identity, a current Bubble and a per-bubble Policy.
  - Decision: what a Policy resolves to (next slug + TransitionKind).
  - MovementEvent: a scheduled move of one Agent between two Bubbles.
*/
package domain
