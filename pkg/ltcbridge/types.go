package ltcbridge

import (
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/ltc"
)

// Report is the outcome of one decode run. It is always populated: when
// no trustworthy timecode could be recovered, Timecode is the zero
// sentinel, Valid is false and Method is "none".
type Report struct {
	Timecode  ltc.Timecode
	DropFrame bool
	Valid     bool
	Method    ltc.Method

	SampleRate int
	DurationMs int
	FrameRate  float64 // source video frame rate when known
	Carrier    audio.CarrierReport

	SourcePath string
	OutputPath string
	RecordID   string // catalog entry, empty when recording failed
}
