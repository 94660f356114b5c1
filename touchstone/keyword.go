package touchstone

import "strings"

// parseBracketLine splits a keyword line of the form "[NAME] rest..."
// into its name and remainder. The line has already been upper-cased
// and trimmed by the lexical chunker.
func parseBracketLine(line string) (name, rest string, ok bool) {
	if len(line) == 0 || line[0] != '[' {
		return "", "", false
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[1:end])
	rest = strings.TrimSpace(line[end+1:])
	return name, rest, true
}

// handleKeyword dispatches a parsed "[NAME] rest" line per spec §4.4.
// It may change p.st to reflect a state transition.
func (p *Parser) handleKeyword(name, rest string) error {
	switch name {
	case "VERSION":
		return p.kwVersion(rest)
	case "NUMBER OF PORTS":
		return p.kwNumberOfPorts(rest)
	case "TWO-PORT ORDER":
		return p.kwTwoPortOrder(rest)
	case "NUMBER OF FREQUENCIES":
		return p.kwNumberOfFrequencies(rest)
	case "NUMBER OF NOISE FREQUENCIES":
		return p.kwNumberOfNoiseFrequencies(rest)
	case "REFERENCE":
		return p.kwReference(rest)
	case "MATRIX FORMAT":
		return p.kwMatrixFormat(rest)
	case "MIXED-MODE ORDER":
		return newError(KindUnsupported, "[MIXED-MODE ORDER] is not supported")
	case "BEGIN INFORMATION":
		p.st = stateSkipInfo
		return nil
	case "END INFORMATION":
		// Only valid while already in SKIP_INFO; statemachine.go
		// handles the transition back to KEYWORDS before calling here
		// for any other case, so reaching this branch directly is a
		// stray END INFORMATION.
		return newError(KindSemantic, "[END INFORMATION] without matching [BEGIN INFORMATION]")
	case "NETWORK DATA":
		return p.kwNetworkData()
	case "NOISE DATA":
		return p.kwNoiseData()
	case "END":
		return p.kwEnd()
	default:
		return newErrorf(KindSyntax, "unrecognized keyword [%s]", name)
	}
}

func (p *Parser) kwVersion(rest string) error {
	if rest != "2.0" {
		return newErrorf(KindUnsupported, "unsupported [VERSION] %q", rest)
	}
	p.fileVersion = 2
	p.st = stateOptionLineExpected
	return nil
}

func (p *Parser) kwNumberOfPorts(rest string) error {
	n, err := parseIntField(rest)
	if err != nil {
		return newErrorf(KindSyntax, "[NUMBER OF PORTS]: %w", err)
	}
	if n <= 0 {
		return newErrorf(KindSemantic, "[NUMBER OF PORTS] must be positive, got %d", n)
	}
	p.numPorts = n
	p.numValsPerSet = 2*n*n + 1
	return p.emitReferences()
}

func (p *Parser) kwTwoPortOrder(rest string) error {
	switch rest {
	case "12_21":
		p.twoPortOrder = Order12Then21
	case "21_12":
		p.twoPortOrder = Order21Then12
	default:
		return newErrorf(KindSyntax, "[TWO-PORT ORDER]: unrecognized value %q", rest)
	}
	return nil
}

func (p *Parser) kwNumberOfFrequencies(rest string) error {
	n, err := parseIntField(rest)
	if err != nil {
		return newErrorf(KindSyntax, "[NUMBER OF FREQUENCIES]: %w", err)
	}
	p.sweepPointsHint = n
	p.growSweepCapacity(n)
	return nil
}

func (p *Parser) kwNumberOfNoiseFrequencies(rest string) error {
	n, err := parseIntField(rest)
	if err != nil {
		return newErrorf(KindSyntax, "[NUMBER OF NOISE FREQUENCIES]: %w", err)
	}
	p.noisePointsHint = n
	p.growSweepCapacity(n)
	p.expectNoiseBlock = true
	return nil
}

func (p *Parser) kwReference(rest string) error {
	if p.numPorts <= 0 {
		return newError(KindSemantic, "[REFERENCE] requires [NUMBER OF PORTS] first")
	}
	p.refResistances = p.refResistances[:0]
	p.st = stateReferences
	p.referencesPending = p.numPorts
	if rest == "" {
		return nil
	}
	return p.consumeReferenceTokens(rest)
}

// consumeReferenceTokens appends reference-resistance tokens, which
// may wrap across multiple input lines, and emits the vector once
// num_ports values have been collected (spec §4.4 [REFERENCE]).
func (p *Parser) consumeReferenceTokens(line string) error {
	vals, err := tokenizeFloats(line)
	if err != nil {
		return err
	}
	for _, v := range vals {
		if v <= 0 {
			return newErrorf(KindSemantic, "[REFERENCE] value must be > 0, got %g", v)
		}
		p.refResistances = append(p.refResistances, v)
		p.referencesPending--
		if p.referencesPending < 0 {
			return newError(KindSemantic, "[REFERENCE] has more values than num_ports")
		}
	}
	if p.referencesPending == 0 {
		p.st = stateKeywords
		return p.emitReferences()
	}
	return nil
}

func (p *Parser) kwMatrixFormat(rest string) error {
	if p.numPorts <= 0 {
		return newError(KindSemantic, "[MATRIX FORMAT] requires [NUMBER OF PORTS] first")
	}
	n := p.numPorts
	switch rest {
	case "FULL":
		p.matrixFormat = Full
		p.numValsPerSet = 2*n*n + 1
	case "LOWER":
		p.matrixFormat = Lower
		p.numValsPerSet = n*n + n + 1
	case "UPPER":
		p.matrixFormat = Upper
		p.numValsPerSet = n*n + n + 1
	default:
		return newErrorf(KindSyntax, "[MATRIX FORMAT]: unrecognized value %q", rest)
	}
	return nil
}

func (p *Parser) kwNetworkData() error {
	if p.numPorts <= 0 {
		return newError(KindSemantic, "[NETWORK DATA] requires [NUMBER OF PORTS] first")
	}
	p.st = stateDataLines
	p.dataSetCount = 0
	return nil
}

func (p *Parser) kwNoiseData() error {
	if p.numPorts != 2 {
		return newErrorf(KindSemantic, "[NOISE DATA] requires num_ports == 2, got %d", p.numPorts)
	}
	if err := p.flushSweep(); err != nil {
		return err
	}
	p.transitionToNoise()
	p.expectNoiseBlock = false
	return nil
}

func (p *Parser) kwEnd() error {
	return p.flushSweep()
}

func parseIntField(s string) (int, error) {
	v, err := parseFloatField(s)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
