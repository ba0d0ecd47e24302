/*
Package factory generates agent populations whose attributes are sampled from
configured discrete distributions.

Attributes are discovered from the configuration itself: every key ending in
"_dist" declares an attribute, and a matching "_states" key must list its values.

	severity_dist:   [1, 2, 1]
	severity_states: [mild, moderate, severe]

Weights are relative and need not sum to one. A new agent variant adds
attributes purely through configuration; the variant's constructor receives
the sampled values in Params.Attributes and decodes them with Params.Decode.
*/
package factory
