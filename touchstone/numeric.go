package touchstone

import "math"

// convertPair converts a single complex value (a, b) from its
// on-wire NumberFormat into (magnitude, phase-radians) and returns
// the converted pair, per spec §4.1.
func convertPair(format NumberFormat, a, b float64) (float64, float64) {
	switch format {
	case RealImaginary:
		if a == 0 && b == 0 {
			return 0, 0
		}
		return math.Hypot(a, b), math.Atan2(b, a)
	case DecibelAngle:
		return math.Pow(10, a/20), b * math.Pi / 180
	default: // MagnitudeAngle
		return a, b * math.Pi / 180
	}
}

// convertNoiseFigure converts a noise figure from dB to a linear ratio
// per spec §4.1.
func convertNoiseFigure(db float64) float64 {
	return math.Pow(10, db/10)
}

// degreesToRadians converts an angle in degrees to radians; used for
// the noise-parameter Gamma-opt angle (spec §4.8).
func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// convertMatrix applies convertPair element-wise to an N*N*2 block in
// place (spec §4.8 step 4).
func convertMatrix(format NumberFormat, m []float64, n int) {
	for i := 0; i < n*n; i++ {
		a, b := m[2*i], m[2*i+1]
		m[2*i], m[2*i+1] = convertPair(format, a, b)
	}
}

// fillLower copies the strict upper triangle of an N*N complex matrix
// (row-major, 2 doubles per element) to the strict lower triangle,
// per spec §4.1 fill_lower.
func fillLower(m []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			src := 2 * (i*n + j)
			dst := 2 * (j*n + i)
			m[dst], m[dst+1] = m[src], m[src+1]
		}
	}
}

// fillUpper mirrors fillLower: copies the strict lower triangle to
// the strict upper triangle, per spec §4.1 fill_upper.
func fillUpper(m []float64, n int) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			src := 2 * (j*n + i)
			dst := 2 * (i*n + j)
			m[dst], m[dst+1] = m[src], m[src+1]
		}
	}
}

// swap21_12 exchanges the off-diagonal complex pairs of a 2-port
// matrix so that the stored order becomes row-major (S11, S12, S21,
// S22), per spec §4.1 swap21_12. m must have length 8 (2*2*2).
func swap21_12(m []float64) {
	// positions: 0,1=S11 2,3=S12(slot) 4,5=S21(slot) 6,7=S22
	// on-wire 21_12 order places S21 before S12, so the slots at
	// indices 2,3 and 4,5 must be exchanged.
	m[2], m[3], m[4], m[5] = m[4], m[5], m[2], m[3]
}

// isqrt returns the integer square root of a non-negative integer,
// and whether n is a perfect square -- used by the version-1 port
// count inference (spec §4.7, §8 property 7).
func isqrt(n int) (root int, exact bool) {
	if n < 0 {
		return 0, false
	}
	root = int(math.Sqrt(float64(n)))
	// Correct for floating-point rounding at the boundary.
	for root*root > n {
		root--
	}
	for (root+1)*(root+1) <= n {
		root++
	}
	return root, root*root == n
}
