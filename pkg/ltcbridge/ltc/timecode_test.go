package ltc

import "testing"

func TestTimecodeString(t *testing.T) {
	tests := []struct {
		tc       Timecode
		expected string
	}{
		{Timecode{}, "00:00:00:00"},
		{Timecode{Hours: 1, Minutes: 23, Seconds: 45, Frames: 12}, "01:23:45:12"},
		{Timecode{Hours: 23, Minutes: 59, Seconds: 59, Frames: 29}, "23:59:59:29"},
		{Timecode{Hours: 9, Minutes: 5, Seconds: 0, Frames: 3}, "09:05:00:03"},
	}

	for _, tt := range tests {
		if got := tt.tc.String(); got != tt.expected {
			t.Errorf("String() = %q, expected %q", got, tt.expected)
		}
	}
}

func TestTimecodeNext(t *testing.T) {
	tests := []struct {
		name     string
		tc       Timecode
		fps      int
		expected Timecode
	}{
		{"simple increment", Timecode{Frames: 3}, 25, Timecode{Frames: 4}},
		{"frame rollover", Timecode{Seconds: 10, Frames: 24}, 25, Timecode{Seconds: 11}},
		{"second rollover", Timecode{Minutes: 5, Seconds: 59, Frames: 29}, 30, Timecode{Minutes: 6}},
		{"minute rollover", Timecode{Hours: 2, Minutes: 59, Seconds: 59, Frames: 23}, 24, Timecode{Hours: 3}},
		{"midnight wrap", Timecode{Hours: 23, Minutes: 59, Seconds: 59, Frames: 24}, 25, Timecode{}},
		{"invalid fps falls back to 25", Timecode{Frames: 24}, 0, Timecode{Seconds: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tc.Next(tt.fps); got != tt.expected {
				t.Errorf("Next(%d) = %v, expected %v", tt.fps, got, tt.expected)
			}
		})
	}
}

func TestParseTimecode(t *testing.T) {
	tests := []struct {
		input    string
		expected Timecode
		wantErr  bool
	}{
		{"01:23:45:12", Timecode{Hours: 1, Minutes: 23, Seconds: 45, Frames: 12}, false},
		{"00:00:00:00", Timecode{}, false},
		{"23:59:59:29", Timecode{Hours: 23, Minutes: 59, Seconds: 59, Frames: 29}, false},
		{"01:23:45", Timecode{}, true},
		{"01:23:45:12:07", Timecode{}, true},
		{"aa:bb:cc:dd", Timecode{}, true},
		{"01:23:-5:12", Timecode{}, true},
		{"", Timecode{}, true},
	}

	for _, tt := range tests {
		tc, err := ParseTimecode(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimecode(%q) expected error, got %v", tt.input, tc)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimecode(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if tc != tt.expected {
			t.Errorf("ParseTimecode(%q) = %v, expected %v", tt.input, tc, tt.expected)
		}
	}
}
