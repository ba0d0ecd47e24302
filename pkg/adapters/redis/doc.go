// Package redis provides a Redis-backed ports.SnapshotStore so that run
// snapshots can be shared between the CLI and the HTTP server.
package redis
