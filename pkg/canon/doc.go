// Package canon produces canonical, order-independent string forms of JSON-LD
// values for equality and hashing.
//
// # Canonical Form
//
// The canonical form of a value is its JSON encoding with two rules applied:
//
//   - Object keys are sorted lexicographically before encoding, so two
//     objects that differ only in property order compare equal.
//   - Arrays keep their element order. Array order is meaningful in
//     structured data (breadcrumb positions, author lists) and is never
//     normalized.
//
// Scalars follow encoding/json rules without HTML escaping. Values that refer
// back to one of their own ancestors are cut with the string "[Circular]"
// instead of recursing forever.
//
// # Comparison Keys
//
// [Key] derives the identity used to match "the same logical node" across two
// independently captured graphs: the node's @id when present, otherwise a
// best-effort structural key built from its type, name and URL.
//
// # Fingerprints
//
// [Fingerprint] is the canonical string of a whole document. The differ uses
// fingerprints to detect wholesale additions and removals of structured-data
// blocks; [Hash] compresses them for display.
package canon
