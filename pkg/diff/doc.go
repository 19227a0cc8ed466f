// Package diff compares two captured structured-data graphs.
//
// Comparison happens at two granularities:
//
//   - Blocks: every document in a slot is fingerprinted with
//     [canon.Fingerprint]. Fingerprints only on the right are added blocks;
//     fingerprints only on the left are removed blocks. This catches a
//     structured-data block appearing or vanishing wholesale.
//   - Nodes: documents are flattened to node lists and each node is indexed
//     by its [canon.Key]. Keys only on one side are added or removed; keys on
//     both sides whose canonical strings differ are changed.
//
// Nodes without a usable key are left out of the node comparison but still
// count toward their document's fingerprint.
//
// When either side is missing, [Compare] returns a result with status
// "unavailable" instead of a partial diff. Callers must not read an
// unavailable result as "no differences".
package diff
