// Package video embeds a recovered timecode back into a media container
// with ffmpeg. The video stream is copied untouched; audio is re-encoded
// because the LTC channel gets panned out of the deliverable.
package video

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/ltc"
)

// FormatTimecode renders the container metadata form of a timecode.
// Drop-frame notation (semicolon frame separator) is only used when the
// frame rate actually supports drop-frame counting; for integer rates
// the flag is ignored rather than producing a tag ffmpeg will reject.
func FormatTimecode(tc ltc.Timecode, dropFrame bool, frameRate float64) string {
	s := tc.String()
	if dropFrame && (frameRate == 0 || ltc.DropFrameRate(frameRate)) {
		return s[:8] + ";" + s[9:]
	}
	return s
}

// WriteTimecode remuxes inputPath into outputPath with timecode set as
// container metadata. The first audio channel is panned to both stereo
// channels and re-encoded as AAC, dropping the LTC channel from the
// output.
func WriteTimecode(ctx context.Context, inputPath, outputPath string, tc ltc.Timecode, dropFrame bool, frameRate float64) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
	}

	cmd := exec.CommandContext(
		ctx,
		"ffmpeg",
		"-y",
		"-v", "error",
		"-i", inputPath,
		"-timecode", FormatTimecode(tc, dropFrame, frameRate),
		"-c:v", "copy",
		"-af", "pan=stereo|c0=c0|c1=c0",
		"-c:a", "aac",
		outputPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg failed: %v (%s)", err, out)
	}
	return nil
}
