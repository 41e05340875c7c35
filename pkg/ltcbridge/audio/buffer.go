package audio

// Buffer holds one channel of signed PCM handed to the decode engine.
// The engine only reads it; ownership stays with the caller for the
// duration of a decode call.
type Buffer struct {
	Data       []int // signed samples
	SampleRate int   // Hz
	BitDepth   int   // 16 or 32
}

// DurationMs returns the buffer length in milliseconds.
func (b *Buffer) DurationMs() int {
	if b == nil || b.SampleRate == 0 {
		return 0
	}
	return len(b.Data) * 1000 / b.SampleRate
}
