// Package destination abstracts where transferred files land.
//
// A configured target is classified exactly once: smb://host/share/path
// addresses get the SMB writer (lazy-dialed, credential-aware), anything
// else the local filesystem writer. Both variants hash the bytes they write
// so the copy engine can verify a transfer without re-reading the
// destination.
package destination
