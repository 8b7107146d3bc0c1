/*
Package compose turns one record and a background template into a finished
single-page PDF.

A Compositor lays the record's text out with the layout engine, renders that
text layer to PDF with canvas, and stacks it onto the first page of the
template with fpdf and gofpdi. Templates are parsed once (LoadTemplate) and
may then be shared between concurrent Compose calls.

Every error returned by Compose wraps ErrComposition.
*/
package compose

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'certpress.compose'
func tracer() tracing.Trace {
	return tracing.Select("certpress.compose")
}
