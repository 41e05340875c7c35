package ltc

import (
	"context"
	"testing"
	"time"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
)

func TestParseDumpOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected Timecode
		wantErr  bool
	}{
		{
			name: "typical report",
			output: "#User bits  Timecode   |    Pos. (samples)\n" +
				"#DISCONTINUITY\n" +
				"00000000   01:02:03:04 |        0        1999\n" +
				"00000000   01:02:03:05 |     2000        3999\n",
			expected: Timecode{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4},
		},
		{
			name:     "token mid line",
			output:   "frame 12:34:56:07 ok\n",
			expected: Timecode{Hours: 12, Minutes: 34, Seconds: 56, Frames: 7},
		},
		{
			name:    "header only",
			output:  "#User bits  Timecode   |    Pos. (samples)\n",
			wantErr: true,
		},
		{
			name:    "empty output",
			output:  "",
			wantErr: true,
		},
		{
			name: "out of range token skipped",
			output: "00000000   99:99:99:99 |        0        1999\n" +
				"00000000   02:03:04:05 |     2000        3999\n",
			expected: Timecode{Hours: 2, Minutes: 3, Seconds: 4, Frames: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, err := parseDumpOutput(tt.output)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %+v", frame)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !frame.Valid {
				t.Fatal("expected a valid frame")
			}
			if got := frame.Timecode(); got != tt.expected {
				t.Errorf("timecode = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestDumpStrategyMissingTool(t *testing.T) {
	s := &DumpStrategy{Tool: "/nonexistent/ltcdump", Timeout: time.Second}
	_, err := s.Decode(context.Background(), nil, "some.wav")
	if err == nil {
		t.Error("expected error for missing tool")
	}
}

func TestDumpStrategyNoArtifact(t *testing.T) {
	s := &DumpStrategy{}
	_, err := s.Decode(context.Background(), nil, "")
	if err == nil {
		t.Error("expected error for empty artifact path")
	}
}

func TestInternalStrategy(t *testing.T) {
	t.Run("nil buffer", func(t *testing.T) {
		_, err := InternalStrategy{}.Decode(context.Background(), nil, "")
		if err == nil {
			t.Error("expected error for nil buffer")
		}
	})

	t.Run("sample rate below cell rate", func(t *testing.T) {
		buf := &audio.Buffer{Data: make([]int, 1000), SampleRate: 1000, BitDepth: 16}
		_, err := InternalStrategy{}.Decode(context.Background(), buf, "")
		if err == nil {
			t.Error("expected error for unusable sample rate")
		}
	})

	t.Run("silence answers with sentinel", func(t *testing.T) {
		buf := &audio.Buffer{Data: make([]int, 48000), SampleRate: 48000, BitDepth: 16}
		frame, err := InternalStrategy{}.Decode(context.Background(), buf, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if frame.Valid {
			t.Error("expected sentinel for silence")
		}
	})
}

func TestSelectorFallsBackToInternal(t *testing.T) {
	expected := Timecode{Hours: 4, Minutes: 5, Seconds: 6, Frames: 7}
	buf := Encode(expected, 2, EncodeOptions{SampleRate: 48000})

	sel := NewSelector(nil,
		&DumpStrategy{Tool: "/nonexistent/ltcdump", Timeout: time.Second},
		InternalStrategy{},
	)
	frame, method := sel.Decode(context.Background(), buf, "missing.wav")

	if method != MethodInternal {
		t.Errorf("method = %s, expected %s", method, MethodInternal)
	}
	if !frame.Valid {
		t.Fatal("expected valid frame from internal fallback")
	}
	if got := frame.Timecode(); got != expected {
		t.Errorf("timecode = %v, expected %v", got, expected)
	}
}

func TestSelectorAllStrategiesFail(t *testing.T) {
	sel := NewSelector(nil)
	frame, method := sel.Decode(context.Background(), nil, "")

	if method != MethodNone {
		t.Errorf("method = %s, expected %s", method, MethodNone)
	}
	if frame != (Frame{}) {
		t.Errorf("expected zero sentinel, got %+v", frame)
	}
}

func TestSelectorReturnsSentinelAnswer(t *testing.T) {
	// The internal strategy answering with a sentinel is still an
	// answer; the selector must not keep searching past it.
	buf := &audio.Buffer{Data: make([]int, 48000), SampleRate: 48000, BitDepth: 16}
	sel := NewSelector(nil, InternalStrategy{})

	frame, method := sel.Decode(context.Background(), buf, "")
	if method != MethodInternal {
		t.Errorf("method = %s, expected %s", method, MethodInternal)
	}
	if frame.Valid {
		t.Error("expected sentinel frame")
	}
}
