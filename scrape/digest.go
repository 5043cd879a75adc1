package scrape

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Digest fingerprints a set of identifiers. Order and repetition do not
// affect the result.
func Digest(ids []string) uint64 {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := xxhash.New()
	for _, id := range sorted {
		_, _ = h.WriteString(id)
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
