package touchstone

// handleDataTokens feeds one logical line's worth of tokens into the
// sweep accumulator (spec §4.6). In version 1 it also drives
// port-count inference while num_vals_per_set is unknown (spec §4.7),
// and the data-to-noise boundary heuristic once it is known (spec §4.9).
func (p *Parser) handleDataTokens(vals []float64) error {
	if len(vals) == 0 {
		return nil
	}

	if p.st == stateDataLines && p.fileVersion == 1 && p.numValsPerSet != 0 &&
		p.dataSetCount == 0 && p.started && vals[0]*p.frequencyUnit < p.lastFreq {
		// Version-1 boundary heuristic (spec §4.9): a record boundary
		// whose frequency restarts below the last seen data frequency
		// marks the start of the noise block.
		if err := p.flushSweep(); err != nil {
			return err
		}
		p.transitionToNoise()
	}

	if p.numValsPerSet == 0 {
		return p.accumulateForInference(vals)
	}
	return p.accumulateKnown(vals)
}

// accumulateKnown appends vals to the in-progress data-set, flushing
// complete sets to the sweep store as they fill (spec §4.6). A line
// that supplies more tokens than needed to complete the current set
// spills the excess into the next set, with a warning.
func (p *Parser) accumulateKnown(vals []float64) error {
	idx := 0
	for idx < len(vals) {
		remaining := p.numValsPerSet - p.dataSetCount
		available := len(vals) - idx
		if available > remaining {
			p.warn("more tokens than expected in last data-set; excess spills into next set")
		}
		take := remaining
		if take > available {
			take = available
		}
		p.dataSet = append(p.dataSet, vals[idx:idx+take]...)
		p.dataSetCount += take
		idx += take

		if p.dataSetCount >= p.numValsPerSet {
			if err := p.moveToSweep(); err != nil {
				return err
			}
			p.dataSet = p.dataSet[:0]
			p.dataSetCount = 0
		}
	}
	return nil
}

// accumulateForInference handles version-1 data lines before
// num_ports is known. It accumulates tokens and, once the running
// count is odd (consistent with 1 + 2*N^2 for some N), attempts the
// perfect-square check from spec §4.7 / §8 property 7.
func (p *Parser) accumulateForInference(vals []float64) error {
	p.dataSet = append(p.dataSet, vals...)
	p.dataSetCount += len(vals)

	if p.dataSetCount%2 == 0 {
		// Not yet a candidate for a complete odd-length record; wait
		// for a continuation line.
		return nil
	}

	n, exact := isqrt((p.dataSetCount - 1) / 2)
	if !exact || 2*n*n+1 != p.dataSetCount {
		return newErrorf(KindSemantic,
			"version 1: cannot infer port count from %d values", p.dataSetCount)
	}

	p.numPorts = n
	p.numValsPerSet = p.dataSetCount
	if err := p.emitReferences(); err != nil {
		return err
	}
	if err := p.moveToSweep(); err != nil {
		return err
	}
	p.dataSet = p.dataSet[:0]
	p.dataSetCount = 0
	return nil
}

// finalizeInference is called from End when version-1 input ends
// with an unresolved, non-empty data-set (the "only one sweep point"
// deferred case from spec §4.7).
func (p *Parser) finalizeInference() error {
	if p.dataSetCount == 0 {
		return nil
	}
	n, exact := isqrt((p.dataSetCount - 1) / 2)
	if p.dataSetCount%2 == 0 || !exact || 2*n*n+1 != p.dataSetCount {
		return newErrorf(KindSemantic,
			"version 1: cannot infer port count from %d values at end of stream", p.dataSetCount)
	}
	p.numPorts = n
	p.numValsPerSet = p.dataSetCount
	if err := p.emitReferences(); err != nil {
		return err
	}
	if err := p.moveToSweep(); err != nil {
		return err
	}
	p.dataSet = p.dataSet[:0]
	p.dataSetCount = 0
	return nil
}

func (p *Parser) warn(msg string) {
	if p.OnWarning != nil {
		p.OnWarning(msg)
	}
}
