/*
Package batch renders a sequence of records into one document each and
reports the outcome as a Summary.

Failures are isolated per record: a record which cannot be validated,
composed or written becomes an error row in the summary, and the remaining
records are still attempted. Only conditions outside a single record, an
unusable template or an unwritable output directory, abort a run with
ErrBatch.

Records may be processed by several workers; the summary is always reduced
in input order, so it does not depend on scheduling.
*/
package batch

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'certpress.batch'
func tracer() tracing.Trace {
	return tracing.Select("certpress.batch")
}
