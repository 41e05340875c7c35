package ltc

import (
	"math"
	"testing"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
)

func TestNormalize(t *testing.T) {
	t.Run("nil buffer", func(t *testing.T) {
		if got := Normalize(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		buf := &audio.Buffer{SampleRate: 48000, BitDepth: 16}
		if got := Normalize(buf); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})

	t.Run("peak rescale", func(t *testing.T) {
		// Half scale input must come out at exactly +/-1 after the
		// peak rescale.
		buf := &audio.Buffer{
			Data:       []int{16384, -16384, 8192},
			SampleRate: 48000,
			BitDepth:   16,
		}
		got := Normalize(buf)
		if len(got) != 3 {
			t.Fatalf("expected 3 samples, got %d", len(got))
		}
		if math.Abs(got[0]-1) > 1e-9 || math.Abs(got[1]+1) > 1e-9 {
			t.Errorf("peak samples = %v, expected +/-1", got[:2])
		}
		if math.Abs(got[2]-0.5) > 1e-9 {
			t.Errorf("half-peak sample = %v, expected 0.5", got[2])
		}
	})

	t.Run("silence untouched", func(t *testing.T) {
		buf := &audio.Buffer{Data: []int{0, 0, 0}, SampleRate: 48000, BitDepth: 16}
		for i, v := range Normalize(buf) {
			if v != 0 {
				t.Errorf("sample %d = %v, expected 0", i, v)
			}
		}
	})

	t.Run("unknown depth treated as 16-bit", func(t *testing.T) {
		buf := &audio.Buffer{Data: []int{32768}, SampleRate: 48000, BitDepth: 24}
		got := Normalize(buf)
		if math.Abs(got[0]-1) > 1e-9 {
			t.Errorf("sample = %v, expected 1", got[0])
		}
	})
}

func TestExtractBits(t *testing.T) {
	d := NewDecoder(48000) // 25 samples per cell

	t.Run("constant signal yields zeros", func(t *testing.T) {
		signal := make([]float64, d.FrameWindow())
		for i := range signal {
			signal[i] = 0.5
		}
		for i, b := range d.ExtractBits(signal) {
			if b != 0 {
				t.Fatalf("cell %d = 1 on constant signal", i)
			}
		}
	})

	t.Run("sign change marks a one", func(t *testing.T) {
		signal := make([]float64, d.FrameWindow())
		for i := range signal {
			signal[i] = 0.5
		}
		// Flip the second half of cell 3.
		for i := 3*25 + 12; i < 4*25; i++ {
			signal[i] = -0.5
		}
		bits := d.ExtractBits(signal)
		if bits[3] != 1 {
			t.Error("expected cell 3 to decode as 1")
		}
		if bits[2] != 0 || bits[5] != 0 {
			t.Error("neighboring cells disturbed")
		}
	})

	t.Run("truncated cells yield zero", func(t *testing.T) {
		// Only one cell's worth of samples: cells past the end have
		// fewer than two samples and must stay 0.
		signal := []float64{0.5, -0.5, 0.5, -0.5}
		bits := d.ExtractBits(signal)
		if bits[0] != 1 {
			t.Error("expected cell 0 to decode as 1")
		}
		for i := 1; i < FrameBits; i++ {
			if bits[i] != 0 {
				t.Fatalf("cell %d nonzero past end of signal", i)
			}
		}
	})
}

func TestDecodeBufferRoundTrip(t *testing.T) {
	tests := []struct {
		tc        Timecode
		dropFrame bool
	}{
		{Timecode{Hours: 1, Minutes: 23, Seconds: 45, Frames: 12}, false},
		{Timecode{Hours: 23, Minutes: 59, Seconds: 59, Frames: 24}, false},
		{Timecode{}, false},
		{Timecode{Hours: 10, Minutes: 30, Seconds: 15, Frames: 2}, true},
	}

	for _, tt := range tests {
		buf := Encode(tt.tc, 2, EncodeOptions{SampleRate: 48000, DropFrame: tt.dropFrame})
		frame := NewDecoder(buf.SampleRate).DecodeBuffer(buf)

		if !frame.Valid {
			t.Errorf("decode of encoded %v produced sentinel", tt.tc)
			continue
		}
		if got := frame.Timecode(); got != tt.tc {
			t.Errorf("round trip = %v, expected %v", got, tt.tc)
		}
		if frame.DropFrame != tt.dropFrame {
			t.Errorf("DropFrame = %v, expected %v", frame.DropFrame, tt.dropFrame)
		}
	}
}

func TestDecodeBufferSentinel(t *testing.T) {
	t.Run("silence", func(t *testing.T) {
		buf := &audio.Buffer{Data: make([]int, 48000), SampleRate: 48000, BitDepth: 16}
		frame := NewDecoder(48000).DecodeBuffer(buf)
		if frame.Valid {
			t.Error("expected sentinel for silence")
		}
	})

	t.Run("sample rate below cell rate", func(t *testing.T) {
		buf := &audio.Buffer{Data: make([]int, 1000), SampleRate: 1000, BitDepth: 16}
		frame := NewDecoder(1000).DecodeBuffer(buf)
		if frame != (Frame{}) {
			t.Errorf("expected zero Frame, got %+v", frame)
		}
	})

	t.Run("buffer shorter than one frame window", func(t *testing.T) {
		buf := &audio.Buffer{Data: make([]int, 100), SampleRate: 48000, BitDepth: 16}
		frame := NewDecoder(48000).DecodeBuffer(buf)
		if frame.Valid {
			t.Error("expected sentinel for short buffer")
		}
	})
}

func TestDecodeBufferSilenceIsNotZeroTimecode(t *testing.T) {
	// A genuine 00:00:00:00 frame decodes valid thanks to its sync
	// word transitions; a signal with no transitions at all must stay
	// the sentinel even though all-zero fields are in range.
	d := NewDecoder(48000)

	encoded := Encode(Timecode{}, 2, EncodeOptions{SampleRate: 48000})
	frame := d.DecodeBuffer(encoded)
	if !frame.Valid {
		t.Error("encoded zero timecode rejected")
	}
	if got := frame.Timecode(); got != (Timecode{}) {
		t.Errorf("encoded zero timecode = %v", got)
	}

	dc := &audio.Buffer{Data: make([]int, 48000), SampleRate: 48000, BitDepth: 16}
	for i := range dc.Data {
		dc.Data[i] = 1000
	}
	if frame := d.DecodeBuffer(dc); frame != (Frame{}) {
		t.Errorf("transition-free signal decoded as %+v, expected sentinel", frame)
	}
}

func TestFrameWindow(t *testing.T) {
	tests := []struct {
		rate     int
		expected int
	}{
		{48000, 2000},
		{44100, 1837},
		{96000, 4000},
	}

	for _, tt := range tests {
		if got := NewDecoder(tt.rate).FrameWindow(); got != tt.expected {
			t.Errorf("FrameWindow at %d Hz = %d, expected %d", tt.rate, got, tt.expected)
		}
	}
}

func TestEncodeDefaults(t *testing.T) {
	buf := Encode(Timecode{}, 1, EncodeOptions{})
	if buf.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, expected 48000", buf.SampleRate)
	}
	if buf.BitDepth != 16 {
		t.Errorf("BitDepth = %d, expected 16", buf.BitDepth)
	}
	// One frame at 48 kHz is 80 cells of 25 samples.
	if len(buf.Data) != 2000 {
		t.Errorf("len(Data) = %d, expected 2000", len(buf.Data))
	}
}

func TestEncodeFrameCounterAdvances(t *testing.T) {
	// Second frame of the stream must decode one frame later than the
	// start.
	start := Timecode{Hours: 1, Minutes: 0, Seconds: 0, Frames: 24}
	buf := Encode(start, 2, EncodeOptions{SampleRate: 48000, FrameRate: 25})

	second := &audio.Buffer{
		Data:       buf.Data[2000:],
		SampleRate: buf.SampleRate,
		BitDepth:   buf.BitDepth,
	}
	frame := NewDecoder(48000).DecodeBuffer(second)
	if !frame.Valid {
		t.Fatal("second frame did not decode")
	}
	expected := Timecode{Hours: 1, Minutes: 0, Seconds: 1, Frames: 0}
	if got := frame.Timecode(); got != expected {
		t.Errorf("second frame = %v, expected %v", got, expected)
	}
}
