// Package fingerprint computes SHA-256 content digests in fixed-size blocks.
//
// The same digest feeds manifest records and the copy engine's pre-transfer
// readability check, so it must be deterministic regardless of how the bytes
// arrive: chunked and single-shot reads of identical content always produce
// identical hex digests.
package fingerprint
