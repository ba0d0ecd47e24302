// Package file provides a SnapshotStore that keeps one JSON file per run
// in a local directory. It needs no server, which makes it the default
// choice for the CLI.
package file
