// Package schema is the static catalog the SQL compiler consults: which
// base table backs each subject, which columns need table qualification
// after joins, which LEFT JOINs a dimension or filter pulls in, and
// which display-name columns accompany id-valued dimensions.
//
// The catalog is pure data: no I/O, no discovery, no mutation. All of
// it is injectable through New, so synthesizer logic never hard-codes
// schema knowledge; Default holds the restaurant schema.
package schema
