package spectral

import "math"

// Goertzel evaluates the discrete-time Fourier transform of a real signal at
// one arbitrary frequency. Unlike an FFT it is not tied to bin centers, which
// is what lets the spectrogram sample a geometric frequency grid exactly.
// One evaluator holds the recurrence state for one frequency; Reset and reuse
// it across frames.
type Goertzel struct {
	w     float64 // angular frequency, radians per sample
	coeff float64 // 2·cos(w)
	cosW  float64
	sinW  float64
	s0    float64 // newest recurrence state
	s1    float64
	n     int // samples processed since Reset
}

// NewGoertzel creates an evaluator for freqHz at the given sampling rate.
func NewGoertzel(freqHz, sampleRate float64) *Goertzel {
	w := 2 * math.Pi * freqHz / sampleRate
	return &Goertzel{
		w:     w,
		coeff: 2 * math.Cos(w),
		cosW:  math.Cos(w),
		sinW:  math.Sin(w),
	}
}

// ProcessSample advances the recurrence by one input sample.
func (g *Goertzel) ProcessSample(x float64) {
	s := x + g.coeff*g.s0 - g.s1
	g.s1 = g.s0
	g.s0 = s
	g.n++
}

// ProcessBlock advances the recurrence over a block of samples.
func (g *Goertzel) ProcessBlock(x []float64) {
	for _, v := range x {
		g.ProcessSample(v)
	}
}

// Value closes the recurrence and returns X = Σ x[n]·e^(-iwn) over the
// samples processed since the last Reset. The closing identity is
// X = (s0 - e^(-iw)·s1) · e^(-iw(N-1)).
func (g *Goertzel) Value() complex128 {
	if g.n == 0 {
		return 0
	}
	c := complex(g.s0-g.cosW*g.s1, g.sinW*g.s1)
	phi := g.w * float64(g.n-1)
	return c * complex(math.Cos(phi), -math.Sin(phi))
}

// Power returns |X|² without closing the complex rotation, since magnitude
// is rotation-invariant.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Amplitude returns |X|.
func (g *Goertzel) Amplitude() float64 {
	return math.Sqrt(g.Power())
}

// Reset clears the recurrence for the next frame.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
	g.n = 0
}
