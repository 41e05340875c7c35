package ltc

import (
	"math"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
)

// Decoder turns one frame's worth of PCM samples into a Frame using
// zero-crossing transition detection. A Decoder holds only derived
// window sizes, so concurrent decodes on independent buffers need no
// locking.
type Decoder struct {
	sampleRate    int
	samplesPerBit int
}

// NewDecoder derives the per-cell window size from the sample rate
// (sampleRate / 1920, integer division: 25 samples per cell at 48 kHz).
func NewDecoder(sampleRate int) *Decoder {
	return &Decoder{
		sampleRate:    sampleRate,
		samplesPerBit: sampleRate / BitRate,
	}
}

// FrameWindow is the fixed per-frame sample count, sampleRate/24. This
// approximates one frame's duration without regard to the true frame
// rate, so bit cells can drift out of alignment for genuine 24/25/30 fps
// sources. Known accuracy gap, kept as-is.
func (d *Decoder) FrameWindow() int {
	return d.sampleRate / 24
}

// Normalize maps integer PCM to [-1, 1]: first by the full-scale value
// of the sample width (16-bit: 32768, 32-bit: 2^31), then rescaled by
// the peak magnitude so the maximum excursion is exactly +/-1. Silence
// is left untouched. Empty input yields an empty slice, not an error;
// callers treat empty as "cannot decode".
func Normalize(buf *audio.Buffer) []float64 {
	if buf == nil || len(buf.Data) == 0 {
		return nil
	}
	depth := buf.BitDepth
	if depth != 16 && depth != 32 {
		depth = 16
	}
	scale := 1.0 / float64(int64(1)<<uint(depth-1))

	out := make([]float64, len(buf.Data))
	peak := 0.0
	for i, s := range buf.Data {
		v := float64(s) * scale
		out[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i := range out {
			out[i] /= peak
		}
	}
	return out
}

// ExtractBits slices signal into FrameBits equal cells and emits 1 for
// every cell containing at least one sign change between consecutive
// samples (the mid-cell transition of biphase-mark coding). A cell with
// fewer than two samples yields 0, no decision possible.
//
// This is a transition detector, not a correlator against expected clock
// timing: it tolerates moderate jitter but can misread cells on noisy or
// DC-biased input. Known limitation.
func (d *Decoder) ExtractBits(signal []float64) []int {
	bits := make([]int, FrameBits)
	for i := 0; i < FrameBits; i++ {
		start := i * d.samplesPerBit
		end := start + d.samplesPerBit
		if end > len(signal) {
			end = len(signal)
		}
		if end-start < 2 {
			continue
		}
		prev := sign(signal[start])
		for _, v := range signal[start+1 : end] {
			s := sign(v)
			if s != prev {
				bits[i] = 1
				break
			}
			prev = s
		}
	}
	return bits
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// DecodeBuffer runs the internal pipeline against the start of buf:
// normalize, window out one nominal frame, extract 80 cells, assemble.
// It always returns a Frame; anything short of a full, in-range frame
// yields the zero sentinel.
func (d *Decoder) DecodeBuffer(buf *audio.Buffer) Frame {
	if d.samplesPerBit < 1 {
		return Frame{}
	}
	signal := Normalize(buf)
	window := d.FrameWindow()
	if len(signal) < window {
		return Frame{}
	}
	bits := d.ExtractBits(signal[:window])
	if !hasTransition(bits) {
		return Frame{}
	}
	return AssembleFrame(bits)
}

// hasTransition reports whether any cell saw a transition. An all-zero
// cell sequence is silence, not a frame: even an all-zero timecode
// carries the sync word's transitions.
func hasTransition(bits []int) bool {
	for _, b := range bits {
		if b == 1 {
			return true
		}
	}
	return false
}
