//go:build !amd64

package prefilter

// requiredByteScan falls back to the plain byte-at-a-time scan on
// architectures without the word-at-a-time path in scan_amd64.go.
func requiredByteScan(haystack []byte, at int, must byte, ignoreCase bool) int {
	return scalarByteScan(haystack, at, must, ignoreCase)
}
