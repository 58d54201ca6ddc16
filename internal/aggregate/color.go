package aggregate

import (
	"fmt"
	"hash/fnv"
)

// DisplayColor derives a chart color for a category name. Deterministic
// so the same category keeps its color across queries; channels are
// lifted away from black so slices stay readable on dark backgrounds.
func DisplayColor(category string) string {
	h := fnv.New32a()
	h.Write([]byte(category))
	sum := h.Sum32()

	r := 64 + (sum>>16)&0x7F
	g := 64 + (sum>>8)&0x7F
	b := 64 + sum&0x7F
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
