// Package quality defines ranked release qualities and the registry that
// maps stored quality names to them.
//
// A stored row keeps only the quality name. Ordering and comparison happen on
// rank, which is reconstructed through a Registry. Registries are passed
// explicitly to every consumer; there is no global catalog.
//
// Registries can be loaded from CUE files validated against the embedded
// schema.cue.
package quality
