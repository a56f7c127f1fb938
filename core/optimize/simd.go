// Package optimize holds a CPU-feature-gated string comparison. Its one
// caller is router.Query, which compares query-string keys with
// SegmentEqual; the routing trie's literal segments are matched by map
// lookup and the header-block delimiter scan uses bytes.Index, so neither
// goes through this package.
package optimize

import (
	"golang.org/x/sys/cpu"
)

var (
	hasAVX2  bool
	hasASIMD bool
)

func init() {
	hasAVX2 = cpu.X86.HasAVX2
	hasASIMD = cpu.ARM64.HasASIMD
}

// WideCompareAvailable reports whether the current CPU has a wide vector
// unit (AVX2 on x86_64, ASIMD on arm64). SegmentEqual uses this to decide
// whether to compare long strings in eight-byte chunks.
func WideCompareAvailable() bool {
	return hasAVX2 || hasASIMD
}

// SegmentEqual compares two path segments for equality. Short segments
// (the overwhelming majority of path segments in practice) are compared
// directly; segments long enough to benefit from word-at-a-time comparison
// go through equalWide when the CPU supports it.
func SegmentEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) < 16 || !WideCompareAvailable() {
		return a == b
	}
	return equalWide(a, b)
}

// equalWide compares two equal-length strings eight bytes at a time.
func equalWide(a, b string) bool {
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		if a[i:i+8] != b[i:i+8] {
			return false
		}
	}
	return a[i:] == b[i:]
}
