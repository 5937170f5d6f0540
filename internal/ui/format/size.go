// Package format holds small display helpers shared by the UI surfaces.
package format

import (
	"strconv"
	"strings"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// HumanSize renders a byte count with binary prefixes: the unit is
// 1024^n where n = floor(log1024(b)), the value keeps at most two
// decimals with trailing zeros stripped. Zero renders as "0 Bytes".
func HumanSize(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}

	value := float64(b)
	n := 0
	for value >= 1024 && n < len(sizeUnits)-1 {
		value /= 1024
		n++
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + sizeUnits[n]
}
