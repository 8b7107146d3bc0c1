/*
Package fonts resolves logical font names to renderable faces.

A Registry is initialized once from a font directory (and optionally the
system font directories). Every logical font that cannot be loaded is
degraded to a fixed substitute face, embedded in the binary, so resolution
never fails. After NewRegistry returns the registry is read-only and may be
shared between goroutines.
*/
package fonts

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'certpress.fonts'
func tracer() tracing.Trace {
	return tracing.Select("certpress.fonts")
}
