// Package hash computes the bucket hash used by the root package's
// exact-match headword lookup index.
package hash

import "github.com/cespare/xxhash/v2"

// Key computes the xxHash64 of a normalized headword, for use as a map key
// in the lookup index built by Dictionary's OpenBytes.
func Key(normalizedHeadword string) uint64 {
	return xxhash.Sum64String(normalizedHeadword)
}
