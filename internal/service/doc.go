// Package service implements the concurrency core of go-anki-bridge: a
// request serializer holding the single store lock, a modification
// tracker deciding when a write happened, a debounce/periodic scheduler
// arming background syncs, and a coordinator driving the incremental
// versus full sync state machine.
//
// All store access, from API dispatch and timer fires alike, funnels
// through [Serializer.Guarded]; the rest of the package assumes that
// lock discipline rather than re-implementing it.
package service
