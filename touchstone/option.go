package touchstone

import "strings"

// parseOptionLine parses the "#" option line: frequency unit, number
// format, parameter kind, and reference resistance tokens in any
// order, space-separated, case-insensitive (spec §4.3). The leading
// "#" must already be present in line.
func (p *Parser) parseOptionLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "#" {
		return newErrorf(KindSyntax, "malformed option line: %q", line)
	}

	p.frequencyUnit = unitGHz
	p.numberFormat = MagnitudeAngle
	p.parameterKind = KindS
	p.refResistance = defaultReferenceResistance

	for i := 1; i < len(fields); i++ {
		tok := fields[i]
		switch tok {
		case "HZ":
			p.frequencyUnit = unitHz
		case "KHZ":
			p.frequencyUnit = unitKHz
		case "MHZ":
			p.frequencyUnit = unitMHz
		case "GHZ":
			p.frequencyUnit = unitGHz
		case "DB":
			p.numberFormat = DecibelAngle
		case "MA":
			p.numberFormat = MagnitudeAngle
		case "RI":
			p.numberFormat = RealImaginary
		case "S":
			p.parameterKind = KindS
		case "Y":
			p.parameterKind = KindY
		case "Z":
			p.parameterKind = KindZ
		case "G":
			p.parameterKind = KindG
		case "H":
			p.parameterKind = KindH
		case "R":
			i++
			if i >= len(fields) {
				return newError(KindSyntax, "option line: R requires a value")
			}
			v, err := parseFloatField(fields[i])
			if err != nil {
				return newErrorf(KindSyntax, "option line: bad R value %q: %w", fields[i], err)
			}
			p.refResistance = v
		default:
			return newErrorf(KindSyntax, "option line: unrecognized token %q", tok)
		}
	}

	p.optionLineSeen = true
	return nil
}

func parseFloatField(s string) (float64, error) {
	v, err := tokenizeFloats(s)
	if err != nil {
		return 0, err
	}
	if len(v) != 1 {
		return 0, newErrorf(KindSyntax, "expected one numeric value, got %q", s)
	}
	return v[0], nil
}
