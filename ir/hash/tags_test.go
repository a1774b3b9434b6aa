package hash

import "testing"

func TestTagsAreDistinct(t *testing.T) {
	seen := make(map[byte]bool, len(allTags))
	for _, tag := range allTags {
		if seen[tag] {
			t.Fatalf("duplicate tag byte %d", tag)
		}
		seen[tag] = true
	}
}
