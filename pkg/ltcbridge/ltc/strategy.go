package ltc

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
)

// Method identifies which decode strategy produced a result.
type Method string

const (
	MethodLTCDump  Method = "ltcdump"
	MethodInternal Method = "internal"
	MethodNone     Method = "none"
)

// Strategy is one way of producing a Frame from a decode attempt. An
// error means "I could not answer, try the next one"; a returned Frame
// (sentinel included) is an answer.
type Strategy interface {
	Name() Method
	Decode(ctx context.Context, buf *audio.Buffer, wavPath string) (Frame, error)
}

// Logger is the narrow logging surface the selector needs.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}

// DumpStrategy shells out to the ltcdump tool from ltc-tools and parses
// its textual report. Higher fidelity than the transition detector when
// the tool is installed; its absence is a quality degradation, never an
// error surfaced past the selector.
type DumpStrategy struct {
	Tool    string        // binary name or path, "ltcdump" when empty
	Timeout time.Duration // bounded subprocess wait, 10s when zero
}

func (s *DumpStrategy) Name() Method { return MethodLTCDump }

// Decode runs ltcdump against the extracted channel artifact. The
// subprocess is context-bounded and reaped on every exit path.
func (s *DumpStrategy) Decode(ctx context.Context, _ *audio.Buffer, wavPath string) (Frame, error) {
	if wavPath == "" {
		return Frame{}, errors.New("no audio artifact available")
	}
	tool := s.Tool
	if tool == "" {
		tool = "ltcdump"
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool, "-c", "1", "-F", wavPath)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Frame{}, fmt.Errorf("%s: %w", tool, ctx.Err())
		}
		return Frame{}, fmt.Errorf("%s: %w", tool, err)
	}
	return parseDumpOutput(string(out))
}

// parseDumpOutput scans report lines for the first HH:MM:SS:FF token.
// Header lines ("#", "Timecode") and lines without a colon-delimited
// 4-field token are skipped.
func parseDumpOutput(out string) (Frame, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, ":") || strings.Contains(line, "#") || strings.Contains(line, "Timecode") {
			continue
		}
		for _, field := range strings.Fields(line) {
			tc, err := ParseTimecode(field)
			if err != nil {
				continue
			}
			if tc.Hours > 23 || tc.Minutes > 59 || tc.Seconds > 59 || tc.Frames > 59 {
				continue
			}
			return Frame{
				Hours:   tc.Hours,
				Minutes: tc.Minutes,
				Seconds: tc.Seconds,
				Frames:  tc.Frames,
				SyncOK:  true,
				Valid:   true,
			}, nil
		}
	}
	return Frame{}, errors.New("no timecode token in output")
}

// InternalStrategy runs the in-memory pipeline: normalize, extract,
// assemble. It answers with the sentinel rather than erroring whenever a
// full frame cannot be recovered, matching the best-effort contract.
type InternalStrategy struct{}

func (InternalStrategy) Name() Method { return MethodInternal }

func (InternalStrategy) Decode(_ context.Context, buf *audio.Buffer, _ string) (Frame, error) {
	if buf == nil || buf.SampleRate < BitRate {
		return Frame{}, errors.New("no usable sample data")
	}
	return NewDecoder(buf.SampleRate).DecodeBuffer(buf), nil
}

// Selector tries strategies in priority order with uniform failure
// handling: a failing strategy is logged and skipped, never propagated.
// The worst case is the zero sentinel with MethodNone, so callers are
// never forced into error handling for the common "no usable timecode"
// case.
type Selector struct {
	strategies []Strategy
	log        Logger
}

// NewSelector builds a selector over the given strategies, defaulting to
// ltcdump-first with internal fallback. A nil logger is replaced with a
// no-op one.
func NewSelector(log Logger, strategies ...Strategy) *Selector {
	if log == nil {
		log = nopLogger{}
	}
	if len(strategies) == 0 {
		strategies = []Strategy{&DumpStrategy{}, InternalStrategy{}}
	}
	return &Selector{strategies: strategies, log: log}
}

// Decode returns the first answer any strategy produces, together with
// the strategy's name. When every strategy fails it returns the zero
// sentinel and MethodNone; it never returns an error.
func (s *Selector) Decode(ctx context.Context, buf *audio.Buffer, wavPath string) (Frame, Method) {
	for _, st := range s.strategies {
		frame, err := st.Decode(ctx, buf, wavPath)
		if err != nil {
			s.log.Infof("%s decode unavailable: %v", st.Name(), err)
			continue
		}
		if frame.Valid {
			s.log.Debugf("decoded %s via %s", frame.Timecode(), st.Name())
		} else {
			s.log.Debugf("%s produced no trustworthy frame", st.Name())
		}
		return frame, st.Name()
	}
	return Frame{}, MethodNone
}
