// Package canonical provides RFC 8785 canonical JSON and domain-separated
// SHA-256 digests.
//
// Result logs are fingerprinted with these functions so that identical
// runs produce identical digests in the run history and golden files
// compare byte for byte.
package canonical
