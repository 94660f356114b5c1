// Package touchstone decodes Touchstone network-parameter files
// (.s1p through .s8p) into a stream of typed sweep packets. It does
// not handle file I/O, transport, or instrument control; callers feed
// it byte chunks and receive packets through callback fields on
// Parser, the way rinex.ObsReader is driven by an io.Reader and
// reports through HeaderFunc/ObsFunc.
package touchstone

// state names a phase of the Touchstone state machine (spec §3, §4.11).
type state int

const (
	stateStart state = iota
	stateOptionLineExpected
	stateNumPortsExpected
	stateKeywords
	stateReferences
	stateSkipInfo
	stateDataLines
	stateNoiseData
)

// NumberFormat is the numeric encoding of a parameter pair on a data
// line (spec §3 number_format).
type NumberFormat int

const (
	MagnitudeAngle NumberFormat = iota // MA, the default
	DecibelAngle                       // DB
	RealImaginary                      // RI
)

// ParameterKind is the network-parameter family a file carries
// (spec §3 parameter_kind).
type ParameterKind int

const (
	KindS ParameterKind = iota // the default
	KindY
	KindZ
	KindG
	KindH
)

func (k ParameterKind) String() string {
	switch k {
	case KindS:
		return "S"
	case KindY:
		return "Y"
	case KindZ:
		return "Z"
	case KindG:
		return "G"
	case KindH:
		return "H"
	default:
		return "?"
	}
}

// MatrixFormat is the on-wire storage layout of the N-port matrix
// (spec §3 matrix_format).
type MatrixFormat int

const (
	Full MatrixFormat = iota // the default
	Lower
	Upper
)

// TwoPortOrder selects how a 2-port payload's off-diagonal terms are
// ordered on the wire (spec §3 two_port_data_order).
type TwoPortOrder int

const (
	Order21Then12 TwoPortOrder = iota // the default, legacy convention
	Order12Then21
)

// frequency unit multipliers recognized on the option line (spec §4.3).
const (
	unitHz  = 1.0
	unitKHz = 1e3
	unitMHz = 1e6
	unitGHz = 1e9
)

const defaultReferenceResistance = 50.0

// growthQuantum is the 512-double growth step named for the
// in-progress sweep-point buffer (spec §3 data_set, §9 growth
// discipline). No buffer refers to it: the data-set and sweep buffers
// grow through append.
const growthQuantum = 512

// Parser holds all state for decoding one Touchstone input stream.
// It is created zero-valued, driven by Receive/End, and is not safe
// for concurrent use; one Parser serves exactly one input session,
// mirroring rinex.ObsReader's single-session lifetime.
type Parser struct {
	// OnReference is called whenever the reference-resistance vector
	// for the file becomes known or changes (spec §4.10 item 1).
	OnReference func(ohms []float64) error

	// OnFrequency is called once per sweep flush with the frequency
	// axis in Hz (spec §4.10 item 2).
	OnFrequency func(hz []float64) error

	// OnParameters is called once per sweep flush with the flattened
	// N-port matrix payload for every point on the frequency axis
	// (spec §4.10 item 3).
	OnParameters func(kind ParameterKind, numPorts int, data []float64) error

	// OnNoise is called once per noise-sweep flush with the flattened
	// noise payload (spec §4.8): 5 doubles per point, namely the
	// frequency in Hz followed by the 4 noise fields; the same
	// frequencies are also delivered via OnFrequency.
	OnNoise func(data []float64) error

	// OnWarning reports non-fatal conditions (spec §7), such as a
	// data-set with more tokens than num_vals_per_set. The default
	// (nil) discards warnings.
	OnWarning func(msg string)

	// OnFrameBegin is called once, before the first OnReference,
	// OnFrequency, OnParameters, or OnNoise call of a parse session
	// (spec §6: "the parser emits a 'frame begin' at first output").
	OnFrameBegin func() error

	// OnFrameEnd is called once from End, after the final flush, but
	// only if OnFrameBegin already fired (spec §6: "and a 'frame end'
	// at end()").
	OnFrameEnd func() error

	st state

	fileVersion int // 1 or 2; 0 before determined

	frequencyUnit    float64
	numberFormat     NumberFormat
	parameterKind    ParameterKind
	refResistance    float64
	refResistances   []float64
	numPorts         int
	numValsPerSet    int
	matrixFormat     MatrixFormat
	twoPortOrder     TwoPortOrder
	sweepPointsHint  int
	noisePointsHint  int
	expectNoiseBlock bool

	optionLineSeen bool

	dataSet      []float64
	dataSetCount int

	sweepFreq  []float64
	sweepData  []float64
	sweepCount int
	sweepSize  int

	lastFreq float64
	started  bool

	// frameBegun records whether OnFrameBegin has fired yet this
	// session, so OnFrameEnd only fires in End when there was a
	// matching begin (spec §6).
	frameBegun bool

	// referencesPending counts how many more tokens are needed to
	// complete a [REFERENCE] line that wrapped across input lines.
	referencesPending int

	chunk pendingChunk
}

// pendingChunk holds the lexical chunker's buffered, not-yet-delimited
// tail across Receive calls (spec §4.2).
type pendingChunk struct {
	buf []byte
}

// Reset re-arms the Parser for a new input stream, discarding all
// accumulated state but keeping underlying slice allocations where it
// is safe to do so -- mirroring rinex.ObsReader.Parse, which
// reinitializes or.inHeader/or.version/or.Observations at the top of
// every call instead of requiring a fresh ObsReader per file.
func (p *Parser) Reset() {
	p.st = stateStart
	p.fileVersion = 0
	p.frequencyUnit = unitGHz
	p.numberFormat = MagnitudeAngle
	p.parameterKind = KindS
	p.refResistance = defaultReferenceResistance
	p.refResistances = p.refResistances[:0]
	p.numPorts = 0
	p.numValsPerSet = 0
	p.matrixFormat = Full
	p.twoPortOrder = Order21Then12
	p.sweepPointsHint = 0
	p.noisePointsHint = 0
	p.expectNoiseBlock = false
	p.optionLineSeen = false
	p.dataSet = p.dataSet[:0]
	p.dataSetCount = 0
	p.sweepFreq = p.sweepFreq[:0]
	p.sweepData = p.sweepData[:0]
	p.sweepCount = 0
	p.sweepSize = 0
	p.lastFreq = 0
	p.started = false
	p.frameBegun = false
	p.referencesPending = 0
	p.chunk.buf = p.chunk.buf[:0]
}

// Cleanup releases all buffers owned by the Parser. No further Receive
// or End call may be made after Cleanup until Reset runs.
func (p *Parser) Cleanup() {
	p.dataSet = nil
	p.sweepFreq = nil
	p.sweepData = nil
	p.refResistances = nil
	p.chunk.buf = nil
}

// elementSize returns E, the number of stored doubles per sweep point
// for the current state (2*N^2 for data, 5 for noise).
func (p *Parser) elementSize() int {
	if p.st == stateNoiseData {
		return 5
	}
	return 2 * p.numPorts * p.numPorts
}
