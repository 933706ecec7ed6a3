// Package lookupindex builds a hash-bucketed exact-match index over a
// dictionary's normalized headwords, so Dictionary.Lookup doesn't have to
// scan every entry.
package lookupindex

import "github.com/mdxlib/mdx/internal/hash"

// Index maps a headword's bucket hash to every entry position sharing that
// hash. Entries sharing a bucket are not necessarily equal — xxHash64
// collisions are rare but possible at dictionary scale — so Lookup always
// confirms the match against the caller's own key slice before returning.
type Index struct {
	buckets map[uint64][]int
}

// Build indexes every string in normalizedKeys by its bucket hash. The
// slice's positions are what Lookup returns, so callers must pass the same
// slice (or one with identical ordering) to both Build and Lookup.
func Build(normalizedKeys []string) *Index {
	idx := &Index{buckets: make(map[uint64][]int, len(normalizedKeys))}
	for i, k := range normalizedKeys {
		h := hash.Key(k)
		idx.buckets[h] = append(idx.buckets[h], i)
	}

	return idx
}

// Lookup returns the first position whose entry in normalizedKeys equals
// query exactly, or false if none does.
func (idx *Index) Lookup(query string, normalizedKeys []string) (int, bool) {
	for _, i := range idx.buckets[hash.Key(query)] {
		if normalizedKeys[i] == query {
			return i, true
		}
	}

	return 0, false
}
