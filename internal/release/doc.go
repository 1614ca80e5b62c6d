// Package release fetches, verifies, and installs the platform-specific
// p2pool release archive.
//
// One Fetch performs one attempt: resolve the platform descriptor, download
// the archive over HTTPS (following at most one redirect), verify its SHA-256
// digest against the pinned value, extract it into the install directory, and
// confirm the binary appeared. Each attempt ends in exactly one outcome and
// is never retried automatically.
package release
