package ltcbridge

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/wavebinder/ltcbridge/pkg/logger"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/ltc"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/storage"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/video"
)

// bridgeService is the default implementation of the Service interface.
type bridgeService struct {
	storage  Storage
	log      Logger
	config   *Config
	selector *ltc.Selector
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = storage.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
	}

	selector := ltc.NewSelector(
		cfg.Logger,
		&ltc.DumpStrategy{Tool: cfg.LTCDumpPath, Timeout: cfg.DecodeTimeout},
		ltc.InternalStrategy{},
	)

	return &bridgeService{
		storage:  stor,
		log:      cfg.Logger,
		config:   cfg,
		selector: selector,
	}, nil
}

// CheckTools verifies the external collaborators are reachable: ffmpeg
// is required, ltcdump is optional (the internal decoder covers its
// absence).
func CheckTools() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("required tool ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ltcdump"); err != nil {
		logger.Infof("ltcdump not found, internal decoder will be used")
	}
	return nil
}

// Process runs the full pipeline: probe, extract the LTC channel,
// decode, mux the timecode into the output, record the run.
func (s *bridgeService) Process(ctx context.Context, inputPath, outputPath string) (*Report, error) {
	if _, err := os.Stat(inputPath); err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}
	s.log.Infof("Processing %s", inputPath)

	// 1. Probe the source layout. Failure here only costs us the frame
	// rate and channel sanity check.
	meta, err := audio.Probe(ctx, inputPath)
	if err != nil {
		s.log.Warnf("ffprobe failed, continuing blind: %v", err)
		meta = nil
	} else if meta.AudioChannels < 2 {
		s.log.Warnf("source has %d audio channel(s), expected stereo with LTC on channel %d",
			meta.AudioChannels, s.config.Channel)
	}

	// 2. Extract the timecode channel as a mono WAV artifact.
	wavPath, err := audio.ExtractTimecodeChannel(ctx, inputPath, s.config.TempDir, audio.ExtractConfig{
		Channel: s.config.Channel,
	})
	if err != nil {
		return nil, fmt.Errorf("channel extraction failed: %w", err)
	}
	defer os.Remove(wavPath)

	report := s.decode(ctx, wavPath)
	report.SourcePath = inputPath
	report.OutputPath = outputPath
	if meta != nil {
		report.FrameRate = meta.FrameRate
	}

	// 5. Write the timecode into the output container. The sentinel is
	// written too: downstream tooling prefers an explicit zero over a
	// missing tag.
	s.log.Infof("Writing timecode %s to %s", report.Timecode, outputPath)
	if err := video.WriteTimecode(ctx, inputPath, outputPath, report.Timecode, report.DropFrame, report.FrameRate); err != nil {
		return nil, fmt.Errorf("timecode write failed: %w", err)
	}

	s.record(report)
	return report, nil
}

// DecodeFile decodes an already-extracted single-channel WAV and
// records the result.
func (s *bridgeService) DecodeFile(ctx context.Context, wavPath string) (*Report, error) {
	if _, err := os.Stat(wavPath); err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}
	report := s.decode(ctx, wavPath)
	report.SourcePath = wavPath
	s.record(report)
	return report, nil
}

// decode runs the strategy selector over one WAV artifact. It always
// produces a Report; per the best-effort contract there is no error
// path.
func (s *bridgeService) decode(ctx context.Context, wavPath string) *Report {
	// 3. Load samples for the internal strategy and diagnostics. The
	// authoritative strategy works off the file, so a read failure is
	// not fatal.
	buf, err := audio.ReadWav(wavPath)
	if err != nil {
		s.log.Warnf("could not read extracted WAV: %v", err)
		buf = nil
	}

	report := &Report{}
	if buf != nil {
		report.SampleRate = buf.SampleRate
		report.DurationMs = buf.DurationMs()
		report.Carrier = audio.AnalyzeCarrier(ltc.Normalize(buf), buf.SampleRate)
		if report.Carrier.Windows > 0 && !report.Carrier.Present {
			s.log.Warnf("channel does not look like LTC (band ratio %.2f), decoding anyway",
				report.Carrier.BandRatio)
		}
	}

	// 4. Authoritative first, internal fallback, sentinel worst case.
	frame, method := s.selector.Decode(ctx, buf, wavPath)
	if !frame.Valid {
		method = ltc.MethodNone
		s.log.Warnf("no trustworthy timecode recovered, using sentinel %s", frame.Timecode())
	} else {
		s.log.Infof("Decoded timecode %s via %s", frame.Timecode(), method)
	}

	report.Timecode = frame.Timecode()
	report.DropFrame = frame.DropFrame
	report.Valid = frame.Valid
	report.Method = method
	return report
}

// record files the run in the catalog. Catalog trouble downgrades to a
// warning: history is bookkeeping, not part of the decode contract.
func (s *bridgeService) record(report *Report) {
	rec := &storage.Record{
		SourcePath: report.SourcePath,
		OutputPath: report.OutputPath,
		Timecode:   report.Timecode.String(),
		DropFrame:  report.DropFrame,
		Method:     string(report.Method),
		SampleRate: report.SampleRate,
		DurationMs: report.DurationMs,
	}
	if err := s.storage.SaveRecord(rec); err != nil {
		s.log.Warnf("failed to record decode run: %v", err)
		return
	}
	report.RecordID = rec.ID
}

// ListRecords returns the decode history, newest first.
func (s *bridgeService) ListRecords() ([]storage.Record, error) {
	return s.storage.ListRecords()
}

// GetRecord fetches one history entry.
func (s *bridgeService) GetRecord(id string) (*storage.Record, error) {
	return s.storage.GetRecordByID(id)
}

// DeleteRecord removes one history entry.
func (s *bridgeService) DeleteRecord(id string) error {
	return s.storage.DeleteRecordByID(id)
}

// Close releases the catalog.
func (s *bridgeService) Close() error {
	return s.storage.Close()
}
