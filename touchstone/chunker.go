package touchstone

import "strings"

// lexLines normalizes an incoming byte chunk and splits it into
// complete logical lines, buffering any trailing partial line across
// calls (spec §4.2). At EOF (eof == true) the buffered tail, if any,
// is treated as a final complete line.
func (p *Parser) lexLines(chunk []byte, eof bool) []string {
	p.chunk.buf = append(p.chunk.buf, chunk...)

	normalizeInPlace(p.chunk.buf)

	cut := len(p.chunk.buf)
	if !eof {
		cut = lastIndexByte(p.chunk.buf, '\n')
		if cut < 0 {
			// No complete line yet; keep buffering.
			return nil
		}
		cut++ // include the newline in the processed prefix
	}

	prefix := string(p.chunk.buf[:cut])
	remainder := append([]byte(nil), p.chunk.buf[cut:]...)
	p.chunk.buf = remainder

	rawLines := strings.Split(prefix, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, raw := range rawLines {
		line := raw
		if idx := strings.IndexByte(line, '!'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// normalizeInPlace upper-cases ASCII letters, replaces tabs with
// spaces, and replaces carriage returns with newlines, per spec §4.2
// steps 1-2.
func normalizeInPlace(b []byte) {
	for i, c := range b {
		switch {
		case c == '\t':
			b[i] = ' '
		case c == '\r':
			b[i] = '\n'
		case c >= 'a' && c <= 'z':
			b[i] = c - ('a' - 'A')
		}
	}
}

func lastIndexByte(b []byte, c byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == c {
			return i
		}
	}
	return -1
}
