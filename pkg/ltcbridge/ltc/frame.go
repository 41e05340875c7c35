package ltc

// FrameBits is the length of one LTC frame in bit-cells.
const FrameBits = 80

// BitRate is the nominal LTC cell rate: 1920 bit-cells per second of
// program audio (80 cells x 24 frames).
const BitRate = 1920

// SyncWords holds the accepted 16-bit frame-sync patterns found in bits
// 64-79. The set covers both bit orders and both polarity variants
// reported by common LTC sources. Membership is advisory: range
// validation is authoritative, a sync mismatch alone never rejects a
// frame.
var SyncWords = map[uint16]bool{
	0x3FFC: true,
	0xBFFD: true,
	0x3FFD: true,
	0xBFFC: true,
}

// FrameRates maps nominal frame rates to their rational numerator and
// denominator. The 1000-denominator entries are the pulled-down NTSC
// family, the only rates where drop-frame counting applies.
var FrameRates = map[float64][2]int{
	23.976: {23976, 1000},
	24:     {24, 1},
	25:     {25, 1},
	29.97:  {29970, 1000},
	30:     {30, 1},
	59.94:  {59940, 1000},
	60:     {60, 1},
}

// DropFrameRate reports whether rate is one where drop-frame timecode is
// meaningful (29.97/59.94 and friends).
func DropFrameRate(rate float64) bool {
	r, ok := FrameRates[rate]
	return ok && r[1] == 1000
}

// Frame is one decoded 80-bit LTC frame. The zero value doubles as the
// sentinel returned whenever decoding cannot produce a trustworthy
// result: all fields zero, Valid false.
type Frame struct {
	Hours   int
	Minutes int
	Seconds int
	Frames  int

	DropFrame bool
	UserBits  uint32 // bits 36-63, carried but not interpreted
	SyncOK    bool   // advisory: sync word matched a known pattern
	Valid     bool
}

// Timecode returns the display form of the frame. The sentinel maps to
// 00:00:00:00.
func (f Frame) Timecode() Timecode {
	return Timecode{Hours: f.Hours, Minutes: f.Minutes, Seconds: f.Seconds, Frames: f.Frames}
}

// bcd decodes a 4-cell group with the first cell in the eights place:
// value = sum(bit[i] * 2^(3-i)).
func bcd(bits []int) int {
	v := 0
	for i := 0; i < 4; i++ {
		v += bits[i] << (3 - i)
	}
	return v
}

// AssembleFrame extracts named fields from the first 80 symbols of bits
// and range-validates them. Any out-of-range composed field rejects the
// frame wholesale: the caller never sees a mix of correct and garbage
// fields.
//
// Cell layout:
//
//	0-3   frame units (BCD)      4-7   frame tens (BCD)
//	8     drop-frame flag        9     color-frame flag
//	10-13 seconds units          14-17 seconds tens
//	20-23 minutes units          24-27 minutes tens
//	30-33 hours units            34-35 hours tens (2-bit value)
//	36-63 user/binary groups     64-79 sync word
func AssembleFrame(bits []int) Frame {
	if len(bits) < FrameBits {
		return Frame{}
	}

	frames := bcd(bits[4:8])*10 + bcd(bits[0:4])
	seconds := bcd(bits[14:18])*10 + bcd(bits[10:14])
	minutes := bcd(bits[24:28])*10 + bcd(bits[20:24])
	hours := (bits[34]<<1|bits[35])*10 + bcd(bits[30:34])

	if hours > 23 || minutes > 59 || seconds > 59 || frames > 59 {
		return Frame{}
	}

	var user uint32
	for i, b := range bits[36:64] {
		user |= uint32(b) << (27 - i)
	}
	var sync uint16
	for i, b := range bits[64:80] {
		sync |= uint16(b) << (15 - i)
	}

	return Frame{
		Hours:     hours,
		Minutes:   minutes,
		Seconds:   seconds,
		Frames:    frames,
		DropFrame: bits[8] == 1,
		UserBits:  user,
		SyncOK:    SyncWords[sync],
		Valid:     true,
	}
}
