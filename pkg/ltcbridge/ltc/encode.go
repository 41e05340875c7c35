package ltc

import (
	"math"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
)

// EncodeOptions controls synthetic LTC generation.
type EncodeOptions struct {
	SampleRate int     // 48000 when zero
	BitDepth   int     // 16 or 32, 16 when zero
	FrameRate  float64 // frame counter rollover rate, 25 when zero
	Amplitude  float64 // fraction of full scale, 0.8 when zero
	DropFrame  bool
}

// Encode renders count frames of biphase-mark LTC audio starting at
// start. The level inverts at every cell boundary and once more at the
// midpoint of a 1 cell, so the zero-crossing extractor reads the stream
// back exactly. Intended for test material and slate generation, not
// broadcast-grade output (square wave, no rise-time shaping).
func Encode(start Timecode, count int, opts EncodeOptions) *audio.Buffer {
	if opts.SampleRate == 0 {
		opts.SampleRate = 48000
	}
	if opts.BitDepth != 16 && opts.BitDepth != 32 {
		opts.BitDepth = 16
	}
	if opts.FrameRate == 0 {
		opts.FrameRate = 25
	}
	if opts.Amplitude <= 0 || opts.Amplitude > 1 {
		opts.Amplitude = 0.8
	}

	spb := opts.SampleRate / BitRate
	fullScale := int64(1)<<uint(opts.BitDepth-1) - 1
	amp := int(opts.Amplitude * float64(fullScale))
	fps := int(math.Ceil(opts.FrameRate))

	data := make([]int, 0, count*FrameBits*spb)
	level := 1
	tc := start
	for f := 0; f < count; f++ {
		bits := frameBits(tc, opts.DropFrame)
		for _, b := range bits {
			level = -level // cell boundary transition
			if b == 1 {
				half := spb / 2
				for i := 0; i < half; i++ {
					data = append(data, level*amp)
				}
				level = -level // mid-cell transition marks a 1
				for i := half; i < spb; i++ {
					data = append(data, level*amp)
				}
			} else {
				for i := 0; i < spb; i++ {
					data = append(data, level*amp)
				}
			}
		}
		tc = tc.Next(fps)
	}

	return &audio.Buffer{Data: data, SampleRate: opts.SampleRate, BitDepth: opts.BitDepth}
}

// frameBits lays out one frame's 80 cells, the inverse of AssembleFrame.
// BCD groups are written with the first cell in the eights place and the
// sync word fills bits 64-79.
func frameBits(tc Timecode, dropFrame bool) [FrameBits]int {
	var bits [FrameBits]int

	put4 := func(off, v int) {
		bits[off] = v >> 3 & 1
		bits[off+1] = v >> 2 & 1
		bits[off+2] = v >> 1 & 1
		bits[off+3] = v & 1
	}

	put4(0, tc.Frames%10)
	put4(4, tc.Frames/10)
	if dropFrame {
		bits[8] = 1
	}
	put4(10, tc.Seconds%10)
	put4(14, tc.Seconds/10)
	put4(20, tc.Minutes%10)
	put4(24, tc.Minutes/10)
	put4(30, tc.Hours%10)
	tens := tc.Hours / 10
	bits[34] = tens >> 1 & 1
	bits[35] = tens & 1

	const sync = uint16(0x3FFC)
	for i := 0; i < 16; i++ {
		bits[64+i] = int(sync >> (15 - i) & 1)
	}
	return bits
}
