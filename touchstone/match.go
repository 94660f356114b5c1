package touchstone

import "strings"

// MatchConfidence is the matcher's confidence that a candidate is a
// Touchstone file, out of 100 (spec §4.12).
type MatchConfidence int

// ErrNoMatch is returned by Match when the filename does not carry a
// recognized Touchstone extension.
var ErrNoMatch = newError(KindSyntax, "filename does not carry a .sNp extension")

// Match scores a candidate filename the way rinex.ObsReader's version
// line sniffs content, but reduced to the filename-only heuristic
// spec §4.12 calls for: ".s1p" through ".s8p" score 10/100, anything
// else fails. Content sniffing is explicitly out of scope.
func Match(filename string) (MatchConfidence, error) {
	lower := strings.ToLower(filename)
	if len(lower) < 4 || lower[len(lower)-4] != '.' || lower[len(lower)-3] != 's' || lower[len(lower)-1] != 'p' {
		return 0, ErrNoMatch
	}
	digit := lower[len(lower)-2]
	if digit < '1' || digit > '8' {
		return 0, ErrNoMatch
	}
	return 10, nil
}
