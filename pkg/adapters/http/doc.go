// Package http exposes a project and its run snapshots over a chi router.
package http
