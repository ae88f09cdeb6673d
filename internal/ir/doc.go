// Package ir provides the closed value representation written to blob
// columns.
//
// This package contains type definitions and the blob codec only. Other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Value is sealed: String, Int, Float, Bool, Time, List, Set, Map
//   - Map keys are always text
//   - Set elements are unique by content and encoded in sorted order
//   - Blobs carry no version header; the kind set never grows silently
package ir
