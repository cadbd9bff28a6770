//go:build !amd64

package simd

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// On non-AMD64 platforms, this function uses an optimized pure Go implementation
// with SWAR (SIMD Within A Register) technique, which processes 8 bytes at a time
// using uint64 bitwise operations.
//
// Performance characteristics (pure Go SWAR):
//   - Small inputs (< 8 bytes): byte-by-byte comparison
//   - Medium/large inputs: 2-5x faster than naive byte-by-byte
//   - Not as fast as AVX2, but significantly better than simple loops
//
// See memchrGeneric for implementation details.
func Memchr(haystack []byte, needle byte) int {
	return memchrGeneric(haystack, needle)
}

// MemchrPair finds the first position where byte1 appears at offset 0 and
// byte2 appears at the given offset from byte1, or -1 if no such position
// exists. Memmem's two-rare-byte heuristic relies on this on every
// platform, not just amd64, so the fallback build needs it too.
//
// On non-AMD64 platforms, this function uses the pure Go SWAR technique to
// check both byte positions in parallel within 8-byte chunks.
func MemchrPair(haystack []byte, byte1, byte2 byte, offset int) int {
	if offset < 0 || len(haystack) <= offset {
		return -1
	}
	if offset == 0 {
		if byte1 != byte2 {
			return -1
		}
		return Memchr(haystack, byte1)
	}
	return memchrPairGeneric(haystack, byte1, byte2, offset)
}
