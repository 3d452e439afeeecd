package aggregate

import (
	"strconv"
	"strings"
)

// Format renders blocks one per line as address/prefix.
func Format(blocks []Block, fam Family) string {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(fam.Addr(b.Base).String())
		sb.WriteByte('/')
		sb.WriteString(strconv.Itoa(b.PrefixLen))
		sb.WriteByte('\n')
	}
	return sb.String()
}
