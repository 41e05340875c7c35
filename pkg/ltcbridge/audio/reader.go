package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadWav loads a PCM WAV file into a Buffer. Multi-channel files are
// downmixed by averaging; 16- and 32-bit signed PCM are supported.
func ReadWav(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	depth := int(dec.BitDepth)
	if depth != 16 && depth != 32 {
		return nil, fmt.Errorf("unsupported bit depth %d: only 16- and 32-bit PCM", depth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading PCM data: %w", err)
	}

	ch := pcm.Format.NumChannels
	var data []int
	if ch <= 1 {
		data = pcm.Data
	} else {
		frames := len(pcm.Data) / ch
		data = make([]int, frames)
		for i := 0; i < frames; i++ {
			sum := 0
			for c := 0; c < ch; c++ {
				sum += pcm.Data[i*ch+c]
			}
			data[i] = sum / ch
		}
	}

	return &Buffer{
		Data:       data,
		SampleRate: int(dec.SampleRate),
		BitDepth:   depth,
	}, nil
}
