package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Tunables for the carrier check. The band covers the biphase-mark
// fundamentals (960 Hz for a run of zeros, 1920 Hz for ones) plus the
// first odd harmonic of the lower one.
const (
	analysisWindow = 1024
	analysisHop    = 256
	analysisLimit  = 64 // windows examined; enough for ~1/3s at 48 kHz

	carrierLowHz    = 700.0
	carrierHighHz   = 2900.0
	carrierPresence = 0.35
)

// CarrierReport summarises how much of a channel's spectral energy sits
// in the LTC band. Advisory only: a low ratio means the channel probably
// does not carry timecode, but decoding is attempted regardless.
type CarrierReport struct {
	BandRatio float64 // LTC-band magnitude over total magnitude
	Windows   int     // analysis windows examined
	Present   bool    // BandRatio cleared the presence threshold
}

// AnalyzeCarrier runs a Hamming-windowed STFT over the start of a
// normalized signal and measures the energy fraction inside the LTC
// band.
func AnalyzeCarrier(signal []float64, sampleRate int) CarrierReport {
	if len(signal) < analysisWindow || sampleRate <= 0 {
		return CarrierReport{}
	}

	win := hamming(analysisWindow)
	binHz := float64(sampleRate) / analysisWindow

	var band, total float64
	windows := 0
	frame := make([]float64, analysisWindow)
	for start := 0; start+analysisWindow <= len(signal) && windows < analysisLimit; start += analysisHop {
		for i := range frame {
			frame[i] = signal[start+i] * win[i]
		}
		spec := fft.FFTReal(frame)
		// positive frequencies only, skip DC
		for k := 1; k < analysisWindow/2; k++ {
			m := cmplx.Abs(spec[k])
			total += m
			if f := float64(k) * binHz; f >= carrierLowHz && f <= carrierHighHz {
				band += m
			}
		}
		windows++
	}

	if total == 0 {
		return CarrierReport{Windows: windows}
	}
	ratio := band / total
	return CarrierReport{
		BandRatio: ratio,
		Windows:   windows,
		Present:   ratio >= carrierPresence,
	}
}

// hamming returns a Hamming window of length n.
func hamming(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}
