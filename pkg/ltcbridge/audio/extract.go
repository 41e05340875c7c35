package audio

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wavebinder/ltcbridge/pkg/utils"
)

// ExtractConfig controls which channel of the source carries timecode
// and whether to resample on the way out.
type ExtractConfig struct {
	Channel    int // source channel index; LTC conventionally rides the right channel (1)
	SampleRate int // optional resample rate, source rate kept when 0
}

// ExtractTimecodeChannel pulls one audio channel out of a media file as
// a mono 16-bit PCM WAV in outputDir and returns its path. The ffmpeg
// invocation is context-bounded; the partial temp file is removed on
// every failure path.
func ExtractTimecodeChannel(ctx context.Context, inputPath, outputDir string, cfg ExtractConfig) (string, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 60*time.Second)
		defer cancel()
	}

	if err := utils.MakeDir(outputDir); err != nil {
		return "", err
	}

	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outputPath := filepath.Join(outputDir, base+"_ltc.wav")

	tmpPath := outputPath + ".tmp.wav"
	defer utils.DeleteFile(tmpPath)

	args := []string{
		"-y",
		"-v", "error",
		"-i", inputPath,
		"-map", "0:a",
		"-ac", "1",
		"-af", fmt.Sprintf("pan=mono|c0=c%d", cfg.Channel),
		"-c:a", "pcm_s16le",
	}
	if cfg.SampleRate > 0 {
		args = append(args, "-ar", fmt.Sprintf("%d", cfg.SampleRate))
	}
	args = append(args, tmpPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}

	if err := utils.MoveFile(tmpPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}
