// Package http is the request-response boundary of go-anki-bridge: one
// JSON action endpoint on POST /, a greeting for probes, and the
// middleware stack (trace IDs, logging, CORS, optional bearer auth).
//
// The endpoint itself never blocks on anything but the service lock:
// concurrency control lives in the service layer, shaping and
// authentication live here.
package http
