// Package sanitize restricts arbitrary Go values to the closed ir.Value set
// before they are written to a blob column.
//
// Only structurally plain data survives: text, integers, floats, booleans,
// timestamps, and lists, sets and text-keyed maps of those. Application
// types that may disappear after a code change never reach storage, so
// blobs written today stay readable later.
//
// Failure is asymmetric. A top-level value of an unsupported type is an
// error; an unsupported member inside a map, list or set is dropped and the
// rest of the composite is kept.
package sanitize
