// Package server serves tree documents over HTTP and websockets.
//
// Routes:
//
//	GET  /healthz   liveness probe
//	GET  /metrics   Prometheus metrics
//	POST /render    renders a YAML tree document and returns its HTML
//	GET  /live      websocket session
//
// A live session owns one host document, one reconcile.Root and one island
// runtime. Every text message is a tree document: the session renders it
// into its root (mounting first, patching afterwards), runs island change
// detection and replies with one binary mutations frame holding the host
// mutations that produced the new tree. A document that fails to load or
// build is answered with an error frame and the session continues. A
// failed reconciliation is answered with an error frame and the session
// is closed, since the host tree may be partially updated.
package server
