package ltc

import (
	"fmt"
	"strconv"
	"strings"
)

// Timecode is the canonical display form of a decoded LTC frame.
type Timecode struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int
}

// String renders the zero-padded HH:MM:SS:FF form. Presentation only:
// out-of-range fields render as given, so an upstream validation bug
// stays visible instead of being clamped away.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds, t.Frames)
}

// Next returns the timecode one frame later, rolling over at fps frames
// per second.
func (t Timecode) Next(fps int) Timecode {
	if fps < 1 {
		fps = 25
	}
	t.Frames++
	if t.Frames >= fps {
		t.Frames = 0
		t.Seconds++
	}
	if t.Seconds >= 60 {
		t.Seconds = 0
		t.Minutes++
	}
	if t.Minutes >= 60 {
		t.Minutes = 0
		t.Hours++
	}
	if t.Hours >= 24 {
		t.Hours = 0
	}
	return t
}

// ParseTimecode parses a colon-delimited HH:MM:SS:FF token.
func ParseTimecode(s string) (Timecode, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Timecode{}, fmt.Errorf("invalid timecode %q: expected HH:MM:SS:FF", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Timecode{}, fmt.Errorf("invalid timecode %q: %w", s, err)
		}
		if v < 0 {
			return Timecode{}, fmt.Errorf("invalid timecode %q: negative field", s)
		}
		vals[i] = v
	}
	return Timecode{Hours: vals[0], Minutes: vals[1], Seconds: vals[2], Frames: vals[3]}, nil
}
