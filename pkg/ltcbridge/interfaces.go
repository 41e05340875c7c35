package ltcbridge

import (
	"context"

	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/storage"
)

// Service is the public face of the library: recover timecode from
// media, keep a history of what was recovered.
type Service interface {
	// Process extracts the LTC channel from inputPath, decodes it and
	// writes the result into outputPath as container timecode metadata.
	// A failed decode is not an error: the sentinel 00:00:00:00 is
	// written instead and the report says so.
	Process(ctx context.Context, inputPath, outputPath string) (*Report, error)

	// DecodeFile decodes an already-extracted single-channel WAV.
	DecodeFile(ctx context.Context, wavPath string) (*Report, error)

	ListRecords() ([]storage.Record, error)
	GetRecord(id string) (*storage.Record, error)
	DeleteRecord(id string) error
	Close() error
}

// Storage is the catalog surface the service needs; satisfied by
// storage.Catalog.
type Storage interface {
	SaveRecord(r *storage.Record) error
	ListRecords() ([]storage.Record, error)
	GetRecordByID(id string) (*storage.Record, error)
	DeleteRecordByID(id string) error
	Close() error
}

// Logger is the logging surface consumed by the service.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
