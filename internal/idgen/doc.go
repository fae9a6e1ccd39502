// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// The kernel uses it for boot identifiers that tag events and trace spans;
// callers should treat identifiers as opaque strings.
package idgen
