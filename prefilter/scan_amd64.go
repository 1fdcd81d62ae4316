//go:build amd64

package prefilter

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/sys/cpu"

	"github.com/telephil9/vim/chartab"
)

// wideScanAvailable gates the 8-byte-at-a-time scan below on the same
// feature-detection signal the source's SIMD byte scans used. There is no
// hand-written AVX2 kernel here; the word-at-a-time path below is plain
// Go arithmetic (SWAR), so the flag really just distinguishes "this core
// is recent enough to be worth the wider stride" from the byte-at-a-time
// fallback in scalarByteScan.
var wideScanAvailable = cpu.X86.HasAVX2

const (
	loMask = 0x0101010101010101
	hiMask = 0x8080808080808080
)

// swarHasByte sets the high bit of each byte lane of v that equals target,
// zero elsewhere: the standard find-zero-byte trick run against v^target
// instead of v directly.
func swarHasByte(v uint64, target byte) uint64 {
	x := v ^ (loMask * uint64(target))
	return (x - loMask) &^ x & hiMask
}

func requiredByteScan(haystack []byte, at int, must byte, ignoreCase bool) int {
	if !wideScanAvailable {
		return scalarByteScan(haystack, at, must, ignoreCase)
	}
	lower, upper := must, must
	if ignoreCase {
		lower, upper = chartab.ToLower(must), chartab.ToUpper(must)
	}
	i := at
	for ; i+8 <= len(haystack); i += 8 {
		word := binary.LittleEndian.Uint64(haystack[i : i+8])
		mask := swarHasByte(word, lower)
		if ignoreCase && upper != lower {
			mask |= swarHasByte(word, upper)
		}
		if mask != 0 {
			return i + bits.TrailingZeros64(mask)/8
		}
	}
	return scalarByteScan(haystack, i, must, ignoreCase)
}
