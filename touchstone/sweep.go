package touchstone

// growSweepCapacity is an advisory preallocation hint driven by
// [NUMBER OF FREQUENCIES] / [NUMBER OF NOISE FREQUENCIES] (spec §3
// sweep_points/sweep_points_noise). Go's append already grows
// geometrically on demand ("a straight double-on-demand policy is
// acceptable and simpler", spec §9), so this only pre-reserves
// capacity; correctness does not depend on it.
func (p *Parser) growSweepCapacity(points int) {
	if points <= 0 {
		return
	}
	if cap(p.sweepFreq)-len(p.sweepFreq) < points {
		grown := make([]float64, len(p.sweepFreq), len(p.sweepFreq)+points)
		copy(grown, p.sweepFreq)
		p.sweepFreq = grown
	}
	e := p.elementSize()
	if e > 0 && cap(p.sweepData)-len(p.sweepData) < points*e {
		grown := make([]float64, len(p.sweepData), len(p.sweepData)+points*e)
		copy(grown, p.sweepData)
		p.sweepData = grown
	}
}

// moveToSweep assembles the just-completed data-set into the sweep
// store (spec §4.8). p.dataSet holds [f, v0, v1, ...] with exactly
// p.numValsPerSet entries.
func (p *Parser) moveToSweep() error {
	f := p.dataSet[0] * p.frequencyUnit
	if f <= 0 {
		return newErrorf(KindSemantic, "frequency must be strictly positive, got %g Hz", f)
	}
	payload := p.dataSet[1:]

	if p.st == stateNoiseData {
		return p.moveNoiseToSweep(f, payload)
	}
	return p.moveDataToSweep(f, payload)
}

func (p *Parser) moveDataToSweep(f float64, payload []float64) error {
	n := p.numPorts
	m := make([]float64, 2*n*n)

	switch p.matrixFormat {
	case Full:
		copy(m, payload)
	case Upper:
		idx := 0
		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				dst := 2 * (i*n + j)
				m[dst], m[dst+1] = payload[2*idx], payload[2*idx+1]
				idx++
			}
		}
		fillLower(m, n)
	case Lower:
		idx := 0
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				dst := 2 * (i*n + j)
				m[dst], m[dst+1] = payload[2*idx], payload[2*idx+1]
				idx++
			}
		}
		fillUpper(m, n)
	}

	convertMatrix(p.numberFormat, m, n)

	if n == 2 && p.twoPortOrder == Order21Then12 {
		swap21_12(m)
	}

	p.sweepFreq = append(p.sweepFreq, f)
	p.sweepData = append(p.sweepData, m...)
	p.sweepCount++
	p.lastFreq = f
	p.started = true
	return nil
}

// moveNoiseToSweep stores a 5-double noise block: frequency plus the
// 4 converted payload fields (spec §4.8 noise case, and open question
// #2's resolution of "4 payload doubles + frequency = 5 stored").
func (p *Parser) moveNoiseToSweep(f float64, payload []float64) error {
	if len(payload) != 4 {
		return newErrorf(KindSyntax, "noise record requires 4 values after frequency, got %d", len(payload))
	}
	nfMinLinear := convertNoiseFigure(payload[0])
	gammaOptMag := payload[1]
	gammaOptPhase := degreesToRadians(payload[2])
	rnNorm := payload[3]

	p.sweepFreq = append(p.sweepFreq, f)
	p.sweepData = append(p.sweepData, f, nfMinLinear, gammaOptMag, gammaOptPhase, rnNorm)
	p.sweepCount++
	p.lastFreq = f
	p.started = true
	return nil
}

// ensureFrameBegin fires OnFrameBegin the first time any packet is
// about to be emitted this session (spec §6).
func (p *Parser) ensureFrameBegin() error {
	if p.frameBegun {
		return nil
	}
	p.frameBegun = true
	if p.OnFrameBegin != nil {
		return p.OnFrameBegin()
	}
	return nil
}

// flushSweep publishes the accumulated sweep (frequency axis plus
// either parameter or noise payload) to the consumer and resets
// sweep_count, retaining buffer capacity (spec §4.10).
func (p *Parser) flushSweep() error {
	if p.sweepCount == 0 {
		return nil
	}

	if err := p.ensureFrameBegin(); err != nil {
		return err
	}

	freq := p.sweepFreq[:p.sweepCount]
	if p.OnFrequency != nil {
		if err := p.OnFrequency(append([]float64(nil), freq...)); err != nil {
			return err
		}
	}

	if p.st == stateNoiseData {
		data := p.sweepData[:p.sweepCount*5]
		if p.OnNoise != nil {
			if err := p.OnNoise(append([]float64(nil), data...)); err != nil {
				return err
			}
		}
	} else {
		e := p.elementSize()
		data := p.sweepData[:p.sweepCount*e]
		if p.OnParameters != nil {
			if err := p.OnParameters(p.parameterKind, p.numPorts, append([]float64(nil), data...)); err != nil {
				return err
			}
		}
	}

	p.sweepFreq = p.sweepFreq[:0]
	p.sweepData = p.sweepData[:0]
	p.sweepCount = 0
	return nil
}

// transitionToNoise switches the parser into NOISE_DATA, resetting
// the per-record accumulator for 5-wide noise records (spec §4.9,
// §4.4 [NOISE DATA]).
func (p *Parser) transitionToNoise() {
	p.st = stateNoiseData
	p.numValsPerSet = 5
	p.dataSet = p.dataSet[:0]
	p.dataSetCount = 0
}

// emitReferences publishes the reference-resistance vector whenever
// num_ports first becomes known or [REFERENCE] updates it (spec §4.10
// item 1). Non-S version-2 parameters are normalized to 1.0 per port.
func (p *Parser) emitReferences() error {
	if p.numPorts <= 0 {
		return nil
	}
	ohms := make([]float64, p.numPorts)
	switch {
	case len(p.refResistances) == p.numPorts:
		copy(ohms, p.refResistances)
	case p.fileVersion == 2 && p.parameterKind != KindS:
		for i := range ohms {
			ohms[i] = 1.0
		}
	default:
		for i := range ohms {
			ohms[i] = p.refResistance
		}
	}
	if p.OnReference != nil {
		if err := p.ensureFrameBegin(); err != nil {
			return err
		}
		return p.OnReference(ohms)
	}
	return nil
}
