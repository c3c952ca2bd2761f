// Package pgetl defines the public types and interfaces of the pgetl loader:
// the row records written to the analytics tables, the load configuration,
// sentinel errors with their exit codes, and the seams (Connector, Store,
// FileDiscoverer, Logger) the internal packages implement.
package pgetl
