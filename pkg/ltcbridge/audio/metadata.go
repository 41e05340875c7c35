package audio

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Metadata describes the streams of a source media file as reported by
// ffprobe.
type Metadata struct {
	Filename      string
	Format        string
	DurationSec   float64
	AudioChannels int
	SampleRate    int
	BitDepth      int
	FrameRate     float64 // video frame rate, 0 for audio-only sources
	TimecodeTag   string  // existing container timecode metadata, if any
}

type ffprobeOutput struct {
	Format struct {
		Filename string            `json:"filename"`
		Duration string            `json:"duration"`
		Format   string            `json:"format_name"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType     string            `json:"codec_type"`
	SampleRate    string            `json:"sample_rate"`
	Channels      int               `json:"channels"`
	BitsPerSample int               `json:"bits_per_sample"`
	AvgFrameRate  string            `json:"avg_frame_rate"`
	Tags          map[string]string `json:"tags"`
}

func (p *ffprobeOutput) firstStream(codecType string) *ffprobeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == codecType {
			return &p.Streams[i]
		}
	}
	return nil
}

// Probe inspects a media file with ffprobe. Used to learn the audio
// layout before channel extraction and to verify a written timecode tag
// afterwards.
func Probe(ctx context.Context, path string) (*Metadata, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(
		ctx,
		"ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, err
	}
	if len(probe.Streams) == 0 {
		return nil, errors.New("no streams in ffprobe output")
	}

	meta := &Metadata{
		Filename: filepath.Base(probe.Format.Filename),
		Format:   probe.Format.Format,
	}
	if probe.Format.Duration != "" {
		meta.DurationSec, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}
	if tc, ok := probe.Format.Tags["timecode"]; ok {
		meta.TimecodeTag = tc
	}

	if a := probe.firstStream("audio"); a != nil {
		meta.AudioChannels = a.Channels
		meta.BitDepth = a.BitsPerSample
		if a.SampleRate != "" {
			meta.SampleRate, _ = strconv.Atoi(a.SampleRate)
		}
	}
	if v := probe.firstStream("video"); v != nil {
		meta.FrameRate = parseFrameRate(v.AvgFrameRate)
		if tc, ok := v.Tags["timecode"]; ok && meta.TimecodeTag == "" {
			meta.TimecodeTag = tc
		}
	}
	return meta, nil
}

// parseFrameRate converts ffprobe's rational "30000/1001" form to a
// float, rounded to three decimals so pulled-down rates land on the
// conventional names (29.97, 23.976).
func parseFrameRate(s string) float64 {
	if s == "" || s == "0/0" {
		return 0
	}
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	den := 1.0
	if len(parts) == 2 {
		den, err = strconv.ParseFloat(parts[1], 64)
		if err != nil || den == 0 {
			return 0
		}
	}
	rate := num / den
	return float64(int(rate*1000+0.5)) / 1000
}
