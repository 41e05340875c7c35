package audio

import (
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWav writes a mono PCM buffer to path as a WAV file.
func WriteWav(path string, buf *Buffer) error {
	if buf == nil || len(buf.Data) == 0 {
		return fmt.Errorf("nothing to write")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, buf.SampleRate, buf.BitDepth, 1, 1)
	ib := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: 1,
			SampleRate:  buf.SampleRate,
		},
		Data:           buf.Data,
		SourceBitDepth: buf.BitDepth,
	}
	if err := enc.Write(ib); err != nil {
		return fmt.Errorf("writing PCM data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing WAV: %w", err)
	}
	return nil
}
