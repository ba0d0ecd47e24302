/*
Package observability provides tools for monitoring a running simulation.

It includes Prometheus metrics and structured audit logging, both exposed as
domain.Hooks so they can be merged and attached to agents, bubbles and the
runner without those types knowing about either.
*/
package observability
