package touchstone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture collects every callback invocation a Parser makes, the way
// obsreader_test.go's checker collects header/observation calls.
type capture struct {
	references  [][]float64
	frequency   [][]float64
	parameters  []paramCall
	noise       [][]float64
	warnings    []string
	frameBegins int
	frameEnds   int
}

type paramCall struct {
	kind     ParameterKind
	numPorts int
	data     []float64
}

func newCaptureParser() (*Parser, *capture) {
	c := &capture{}
	p := &Parser{
		OnReference: func(ohms []float64) error {
			c.references = append(c.references, append([]float64(nil), ohms...))
			return nil
		},
		OnFrequency: func(hz []float64) error {
			c.frequency = append(c.frequency, append([]float64(nil), hz...))
			return nil
		},
		OnParameters: func(kind ParameterKind, numPorts int, data []float64) error {
			c.parameters = append(c.parameters, paramCall{kind, numPorts, append([]float64(nil), data...)})
			return nil
		},
		OnNoise: func(data []float64) error {
			c.noise = append(c.noise, append([]float64(nil), data...))
			return nil
		},
		OnWarning: func(msg string) {
			c.warnings = append(c.warnings, msg)
		},
		OnFrameBegin: func() error {
			c.frameBegins++
			return nil
		},
		OnFrameEnd: func() error {
			c.frameEnds++
			return nil
		},
	}
	return p, c
}

// Scenario 1: minimal one-port, version 1, MA format (spec §8.1).
func TestParseOnePortV1(t *testing.T) {
	p, c := newCaptureParser()
	require.NoError(t, p.Receive([]byte("# GHZ S MA R 50\n1.0 0.5 90\n")))
	require.NoError(t, p.End())

	require.Len(t, c.references, 1)
	assert.Equal(t, []float64{50.0}, c.references[0])

	require.Len(t, c.frequency, 1)
	assert.Equal(t, []float64{1e9}, c.frequency[0])

	require.Len(t, c.parameters, 1)
	assert.Equal(t, KindS, c.parameters[0].kind)
	assert.Equal(t, 1, c.parameters[0].numPorts)
	require.Len(t, c.parameters[0].data, 2)
	assert.InDelta(t, 0.5, c.parameters[0].data[0], 1e-9)
	assert.InDelta(t, math.Pi/2, c.parameters[0].data[1], 1e-9)

	assert.Equal(t, 1, c.frameBegins, "frame begin fires once, at first output")
	assert.Equal(t, 1, c.frameEnds, "frame end fires once, from End")
}

// A session that never emits anything (End with no input fed at all)
// never opens a frame, so it never closes one either.
func TestParseEmptyStreamHasNoFrame(t *testing.T) {
	p, c := newCaptureParser()
	require.NoError(t, p.End())
	assert.Equal(t, 0, c.frameBegins)
	assert.Equal(t, 0, c.frameEnds)
}

// A data-set left incomplete at end of stream is a truncated record,
// not a silently-dropped remainder (spec §7, §4.11).
func TestParseTruncatedTrailingRecordErrors(t *testing.T) {
	p, _ := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA\n" +
		"[NUMBER OF PORTS] 1\n" +
		"[NETWORK DATA]\n" +
		"1.0 0.5 90\n" +
		"2.0 0.6\n" // missing the angle field
	require.NoError(t, p.Receive([]byte(input)))
	err := p.End()
	require.Error(t, err)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindSyntax, te.Kind)
}

// [NUMBER OF NOISE FREQUENCIES] promises a [NOISE DATA] block; a file
// that ends without ever providing one is malformed (spec §4.4).
func TestParseNoiseHintWithoutNoiseDataErrors(t *testing.T) {
	p, _ := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA\n" +
		"[NUMBER OF PORTS] 2\n" +
		"[NUMBER OF NOISE FREQUENCIES] 1\n" +
		"[NETWORK DATA]\n" +
		"1.0 .99 0 .01 180 .5 45 .98 5\n" +
		"[END]\n"
	require.NoError(t, p.Receive([]byte(input)))
	err := p.End()
	require.Error(t, err)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindSemantic, te.Kind)
}

// Scenario 2: two-port, default 21_12 order (spec §8.2).
func TestParseTwoPortSwap(t *testing.T) {
	p, c := newCaptureParser()
	require.NoError(t, p.Receive([]byte("# HZ S MA R 50\n1e9 .99 0 .01 180 .5 45 .98 5\n")))
	require.NoError(t, p.End())

	require.Len(t, c.parameters, 1)
	data := c.parameters[0].data
	require.Len(t, data, 8)
	mags := []float64{data[0], data[2], data[4], data[6]}
	assert.InDeltaSlice(t, []float64{.99, .5, .01, .98}, mags, 1e-9)
}

// Scenario 3: version-1 two-port data followed by a noise block
// detected via the frequency-restart heuristic (spec §8.3, §4.9).
func TestParseV1NoiseBoundary(t *testing.T) {
	p, c := newCaptureParser()
	input := "" +
		"# GHZ S MA R 50\n" +
		"1.0 .99 0 .01 180 .5 45 .98 5\n" +
		"2.0 .98 1 .02 179 .49 44 .97 6\n" +
		"1.0 2.0 .8 90 0.2\n" +
		"2.0 2.1 .8 91 0.2\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.End())

	require.Len(t, c.parameters, 1, "data sweep should flush once, at the noise boundary")
	assert.Len(t, c.parameters[0].data, 2*8) // two data points, 2*2*2 each

	require.Len(t, c.noise, 1)
	assert.Len(t, c.noise[0], 2*5) // two noise points, 5 doubles each
	// NFmin dB->linear conversion on the first noise point's NFmin field.
	assert.InDelta(t, math.Pow(10, 2.0/10), c.noise[0][1], 1e-9)
}

// Scenario 4: version 2, three ports, UPPER matrix format (spec §8.4).
func TestParseV2UpperMatrix(t *testing.T) {
	p, c := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA R 50\n" +
		"[NUMBER OF PORTS] 3\n" +
		"[MATRIX FORMAT] UPPER\n" +
		"[NETWORK DATA]\n" +
		"1.0 " +
		".9 0 .1 10 .2 20 " + // row 0: (0,0) (0,1) (0,2)
		".3 30 .4 40 " + // row 1: (1,1) (1,2)
		".5 50 " + // row 2: (2,2)
		"\n" +
		"[END]\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.End())

	require.Len(t, c.parameters, 1)
	data := c.parameters[0].data
	require.Len(t, data, 2*9)

	get := func(i, j int) (float64, float64) {
		idx := 2 * (i*3 + j)
		return data[idx], data[idx+1]
	}
	// Mirrored: M[i,j] == M[j,i] for the strict lower triangle.
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			a1, a2 := get(i, j)
			b1, b2 := get(j, i)
			assert.Equal(t, a1, b1)
			assert.Equal(t, a2, b2)
		}
	}
}

// Scenario 5: [REFERENCE] overrides the option-line R default (spec §8.5).
func TestParseReferenceOverride(t *testing.T) {
	p, c := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA R 50\n" +
		"[NUMBER OF PORTS] 4\n" +
		"[REFERENCE] 50 75 50 75\n" +
		"[NETWORK DATA]\n" +
		"[END]\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.End())

	require.NotEmpty(t, c.references)
	last := c.references[len(c.references)-1]
	assert.Equal(t, []float64{50, 75, 50, 75}, last)
}

// Scenario 6: [MIXED-MODE ORDER] is rejected outright (spec §8.6).
func TestParseMixedModeRejected(t *testing.T) {
	p, c := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA R 50\n" +
		"[NUMBER OF PORTS] 2\n" +
		"[MIXED-MODE ORDER]\n"
	err := p.Receive([]byte(input))
	require.Error(t, err)

	var te *Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindUnsupported, te.Kind)
	assert.Empty(t, c.parameters)
}

func TestParseReferenceRejectsNonPositive(t *testing.T) {
	p, _ := newCaptureParser()
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA R 50\n" +
		"[NUMBER OF PORTS] 2\n" +
		"[REFERENCE] 50 -75\n"
	err := p.Receive([]byte(input))
	require.Error(t, err)
}

func TestParseExcessTokensWarns(t *testing.T) {
	p, c := newCaptureParser()
	// num_vals_per_set is known (3, for N=1) before this line arrives,
	// so a line carrying two records' worth of tokens spills the
	// excess into the next set and warns (spec §4.6).
	input := "" +
		"[VERSION] 2.0\n" +
		"# GHZ S MA\n" +
		"[NUMBER OF PORTS] 1\n" +
		"[NETWORK DATA]\n" +
		"1.0 0.5 90 2.0 0.6 91\n" +
		"[END]\n"
	require.NoError(t, p.Receive([]byte(input)))
	require.NoError(t, p.End())
	assert.NotEmpty(t, c.warnings)
	require.Len(t, c.parameters, 1)
	assert.Len(t, c.parameters[0].data, 4) // two points, 2 doubles each, one flush
}

func TestMatchFilename(t *testing.T) {
	tests := []struct {
		name string
		want MatchConfidence
		ok   bool
	}{
		{"device.s2p", 10, true},
		{"device.S8P", 10, true},
		{"device.s9p", 0, false},
		{"device.txt", 0, false},
	}
	for _, tt := range tests {
		got, err := Match(tt.name)
		if tt.ok {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
		assert.Equal(t, tt.want, got)
	}
}
