package main

import "time"

// MaxUploadBytes caps the accepted WAV payload (roughly ten minutes of
// 48 kHz stereo PCM).
const MaxUploadBytes = 200 << 20

// DecodeResponse is the response for POST /api/decode
type DecodeResponse struct {
	Timecode   string  `json:"timecode"`
	DropFrame  bool    `json:"drop_frame"`
	Valid      bool    `json:"valid"`
	Method     string  `json:"method"`
	SampleRate int     `json:"sample_rate,omitempty"`
	DurationMs int     `json:"duration_ms,omitempty"`
	BandRatio  float64 `json:"ltc_band_ratio,omitempty"`
	RecordID   string  `json:"record_id,omitempty"`
}

// RecordDTO represents a catalog entry in API responses
type RecordDTO struct {
	ID         string    `json:"id"`
	SourcePath string    `json:"source_path"`
	OutputPath string    `json:"output_path,omitempty"`
	Timecode   string    `json:"timecode"`
	DropFrame  bool      `json:"drop_frame"`
	Method     string    `json:"method"`
	SampleRate int       `json:"sample_rate"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListRecordsResponse is the response for GET /api/records
type ListRecordsResponse struct {
	Records []RecordDTO `json:"records"`
	Count   int         `json:"count"`
}

// DeleteRecordResponse is the response for DELETE /api/records/{id}
type DeleteRecordResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MetricsResponse provides server health and catalog metrics
type MetricsResponse struct {
	Status       string `json:"status"`
	DatabasePath string `json:"database_path"`
	RecordCount  int    `json:"record_count"`
	Channel      int    `json:"channel"`
}

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
