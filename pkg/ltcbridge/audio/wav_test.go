package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWavRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "roundtrip.wav")

	original := &Buffer{
		Data:       []int{0, 1000, -1000, 32767, -32768, 12345},
		SampleRate: 48000,
		BitDepth:   16,
	}

	if err := WriteWav(path, original); err != nil {
		t.Fatalf("WriteWav failed: %v", err)
	}

	got, err := ReadWav(path)
	if err != nil {
		t.Fatalf("ReadWav failed: %v", err)
	}

	if got.SampleRate != original.SampleRate {
		t.Errorf("SampleRate = %d, expected %d", got.SampleRate, original.SampleRate)
	}
	if got.BitDepth != original.BitDepth {
		t.Errorf("BitDepth = %d, expected %d", got.BitDepth, original.BitDepth)
	}
	if len(got.Data) != len(original.Data) {
		t.Fatalf("len(Data) = %d, expected %d", len(got.Data), len(original.Data))
	}
	for i := range got.Data {
		if got.Data[i] != original.Data[i] {
			t.Errorf("sample %d = %d, expected %d", i, got.Data[i], original.Data[i])
		}
	}
}

func TestWriteWavEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")

	if err := WriteWav(path, nil); err == nil {
		t.Error("expected error for nil buffer")
	}
	if err := WriteWav(path, &Buffer{SampleRate: 48000, BitDepth: 16}); err == nil {
		t.Error("expected error for empty buffer")
	}
}

func TestReadWavMissingFile(t *testing.T) {
	if _, err := ReadWav(filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadWavInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadWav(path); err == nil {
		t.Error("expected error for non-WAV content")
	}
}
