// Package compare provides comparison wrappers whose operators work on
// loaded values and also produce query expressions.
//
// Word compares text ignoring case. QualityComparator compares a stored
// quality name by the rank the registry assigns it.
package compare
