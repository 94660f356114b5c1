package touchstone

import (
	"strconv"
	"strings"
)

// tokenizeFloats splits a data line into whitespace-separated decimal
// tokens (spec §4.5). Any parse failure reports a KindSyntax error
// naming the offending token.
func tokenizeFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, newErrorf(KindSyntax, "malformed numeric token %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
