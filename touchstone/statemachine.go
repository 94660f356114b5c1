package touchstone

import "strings"

// Receive feeds the next chunk of input bytes into the parser. It may
// invoke any of the On* callbacks any number of times, synchronously,
// before returning. An error aborts the parse; no further calls
// should be made until Reset (spec §5, §7).
func (p *Parser) Receive(chunk []byte) error {
	return p.processLines(p.lexLines(chunk, false))
}

// End signals end-of-stream: it flushes any pending version-1 port
// inference and the final in-progress sweep, then returns (spec
// §4.11 "Terminal states"). A non-empty, unresolved data-set at this
// point is a truncated record, not a silently-dropped remainder (spec
// §7, §4.11).
func (p *Parser) End() error {
	if err := p.processLines(p.lexLines(nil, true)); err != nil {
		return err
	}
	if p.fileVersion == 1 && p.numValsPerSet == 0 {
		if err := p.finalizeInference(); err != nil {
			return err
		}
	}
	if p.dataSetCount != 0 {
		return newErrorf(KindSyntax,
			"truncated record at end of stream: %d of %d values", p.dataSetCount, p.numValsPerSet)
	}
	if p.expectNoiseBlock {
		return newError(KindSemantic,
			"[NUMBER OF NOISE FREQUENCIES] declared but [NOISE DATA] never followed")
	}
	if err := p.flushSweep(); err != nil {
		return err
	}
	if p.frameBegun && p.OnFrameEnd != nil {
		return p.OnFrameEnd()
	}
	return nil
}

func (p *Parser) processLines(lines []string) error {
	for _, line := range lines {
		if err := p.handleLine(line); err != nil {
			return err
		}
	}
	return nil
}

// handleLine dispatches a single normalized, non-empty, comment-free
// line according to the current state (spec §4.11).
func (p *Parser) handleLine(line string) error {
	switch p.st {
	case stateStart:
		return p.handleStart(line)
	case stateOptionLineExpected:
		return p.handleOptionLineExpected(line)
	case stateNumPortsExpected, stateKeywords:
		return p.handleKeywordsState(line)
	case stateReferences:
		return p.consumeReferenceTokens(line)
	case stateSkipInfo:
		return p.handleSkipInfo(line)
	case stateDataLines, stateNoiseData:
		return p.handleDataLineState(line)
	default:
		return newErrorf(KindSemantic, "unreachable parser state %d", p.st)
	}
}

// handleStart recognizes the first non-empty line of the file: a "#"
// option line means version 1, a "[VERSION]" keyword means version 2
// (spec §4.11 START transitions).
func (p *Parser) handleStart(line string) error {
	switch {
	case strings.HasPrefix(line, "#"):
		p.fileVersion = 1
		if err := p.parseOptionLine(line); err != nil {
			return err
		}
		p.st = stateDataLines
		return nil
	case strings.HasPrefix(line, "["):
		name, rest, ok := parseBracketLine(line)
		if !ok {
			return newErrorf(KindSyntax, "malformed keyword line: %q", line)
		}
		if name != "VERSION" {
			return newErrorf(KindSemantic, "expected [VERSION] as the first line, got [%s]", name)
		}
		return p.kwVersion(rest)
	default:
		return newErrorf(KindSyntax, "expected an option line or [VERSION], got %q", line)
	}
}

// handleOptionLineExpected requires the option line to immediately
// follow "[VERSION] 2.0" (spec §3: "In version 2, option line must
// follow [VERSION] 2.0").
func (p *Parser) handleOptionLineExpected(line string) error {
	if !strings.HasPrefix(line, "#") {
		return newErrorf(KindSemantic, "expected option line after [VERSION] 2.0, got %q", line)
	}
	if err := p.parseOptionLine(line); err != nil {
		return err
	}
	p.st = stateNumPortsExpected
	return nil
}

// handleKeywordsState processes a keyword line, or -- if a bare data
// line appears without an explicit [NETWORK DATA] -- transitions
// implicitly into DATA_LINES (spec §4.11 "KEYWORDS --data token--> DATA_LINES").
func (p *Parser) handleKeywordsState(line string) error {
	if strings.HasPrefix(line, "[") {
		name, rest, ok := parseBracketLine(line)
		if !ok {
			return newErrorf(KindSyntax, "malformed keyword line: %q", line)
		}
		if p.st == stateNumPortsExpected && name != "NUMBER OF PORTS" {
			return newErrorf(KindSemantic, "expected [NUMBER OF PORTS], got [%s]", name)
		}
		wasNumPortsExpected := p.st == stateNumPortsExpected
		if err := p.handleKeyword(name, rest); err != nil {
			return err
		}
		if wasNumPortsExpected && p.st == stateNumPortsExpected {
			p.st = stateKeywords
		}
		return nil
	}

	if p.numPorts <= 0 {
		return newError(KindSemantic, "data line encountered before [NUMBER OF PORTS]")
	}
	p.st = stateDataLines
	if p.numValsPerSet == 0 {
		p.numValsPerSet = 2*p.numPorts*p.numPorts + 1
	}
	return p.handleDataLineState(line)
}

// handleSkipInfo discards everything until the matching
// [END INFORMATION] (spec §4.4 [BEGIN INFORMATION]).
func (p *Parser) handleSkipInfo(line string) error {
	if name, _, ok := parseBracketLine(line); ok && name == "END INFORMATION" {
		p.st = stateKeywords
	}
	return nil
}

// handleDataLineState processes a data or noise row, or one of the
// two keywords legal mid-stream ([NOISE DATA], [END]).
func (p *Parser) handleDataLineState(line string) error {
	if strings.HasPrefix(line, "[") {
		name, _, ok := parseBracketLine(line)
		if !ok {
			return newErrorf(KindSyntax, "malformed keyword line: %q", line)
		}
		switch name {
		case "NOISE DATA":
			if p.st == stateNoiseData {
				return newError(KindSemantic, "[NOISE DATA] already in effect")
			}
			return p.kwNoiseData()
		case "END":
			return p.kwEnd()
		default:
			return newErrorf(KindSemantic, "unexpected keyword [%s] in data section", name)
		}
	}

	vals, err := tokenizeFloats(line)
	if err != nil {
		return err
	}
	return p.handleDataTokens(vals)
}
