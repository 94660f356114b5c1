package touchstone

// PacketKind tags the semantic meaning of an emitted vector, per spec
// §4.10's "typed vector of doubles with a semantic tag". The Parser
// callbacks (OnReference, OnFrequency, OnParameters, OnNoise) already
// carry this information structurally; PacketKind exists for
// consumers -- such as cmd/snpcat -- that want to log or format a
// packet generically instead of branching on which callback fired.
type PacketKind int

const (
	PacketReference PacketKind = iota
	PacketFrequency
	PacketParameters
	PacketNoise
)

func (k PacketKind) String() string {
	switch k {
	case PacketReference:
		return "reference"
	case PacketFrequency:
		return "frequency"
	case PacketParameters:
		return "parameters"
	case PacketNoise:
		return "noise"
	default:
		return "unknown"
	}
}

// Tags returns the unit/marker a consumer should attach to a packet
// of the given kind (spec §4.10): ohms for references, Hz for the
// frequency axis, the parameter kind letter for parameter blocks, and
// "noise" for the noise block.
func Tags(kind PacketKind, pk ParameterKind) string {
	switch kind {
	case PacketReference:
		return "ohms"
	case PacketFrequency:
		return "Hz"
	case PacketParameters:
		return pk.String()
	case PacketNoise:
		return "noise"
	default:
		return ""
	}
}
