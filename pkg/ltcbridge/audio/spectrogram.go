package audio

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/eligwz/spectrogram"
)

const (
	spectrogramWidth  = 2048
	spectrogramHeight = 512
)

// RenderSpectrogram draws a magnitude spectrogram of a WAV file to a
// PNG. Handy for eyeballing whether a channel carries the LTC square
// wave (a pair of hard horizontal bands around 1-2 kHz) before blaming
// the decoder.
func RenderSpectrogram(wavPath, pngPath string) error {
	buf, err := ReadWav(wavPath)
	if err != nil {
		return err
	}
	if len(buf.Data) == 0 {
		return fmt.Errorf("no samples in %s", wavPath)
	}

	maxVal := float64(int64(1) << uint(buf.BitDepth-1))
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / maxVal
	}

	img := spectrogram.NewImage128(image.Rect(0, 0, spectrogramWidth, spectrogramHeight))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	// FFT with Hamming window, magnitude, linear scale
	spectrogram.Drawfft(
		img,
		samples,
		uint32(buf.SampleRate),
		uint32(spectrogramHeight),
		false, // RECTANGLE: use Hamming window
		false, // DFT: use FFT
		true,  // MAG
		false, // LOG10
	)

	if err := spectrogram.SavePng(img, pngPath); err != nil {
		return fmt.Errorf("saving PNG: %w", err)
	}
	return nil
}
