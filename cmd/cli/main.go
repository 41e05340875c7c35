package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/wavebinder/ltcbridge/internal/cli"
	"github.com/wavebinder/ltcbridge/pkg/logger"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/audio"
	"github.com/wavebinder/ltcbridge/pkg/ltcbridge/ltc"
)

// version is set via ldflags at build time.
var version = "dev"

var CLI struct {
	DB      string `help:"Path to the decode history catalog." env:"LTC_DB_PATH" default:"ltcbridge.sqlite3"`
	Temp    string `help:"Directory for temporary audio artifacts." env:"LTC_TEMP_DIR"`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Process  ProcessCmd  `cmd:"" help:"Recover LTC from a media file and write it back as SMPTE container metadata."`
	Decode   DecodeCmd   `cmd:"" help:"Decode LTC from an already-extracted mono WAV file."`
	Generate GenerateCmd `cmd:"" help:"Generate synthetic LTC audio as a WAV file."`
	Inspect  InspectCmd  `cmd:"" help:"Analyze a WAV file and render its spectrogram to PNG."`
	Records  RecordsCmd  `cmd:"" help:"Work with the decode history catalog."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

func newService() (ltcbridge.Service, error) {
	opts := []ltcbridge.Option{
		ltcbridge.WithDBPath(CLI.DB),
	}
	if CLI.Temp != "" {
		opts = append(opts, ltcbridge.WithTempDir(CLI.Temp))
	}
	return ltcbridge.NewService(opts...)
}

func printReport(report *ltcbridge.Report) {
	cli.PrintSection("Decode result")
	cli.PrintTimecode(report.Timecode.String())
	cli.PrintInfo("Method", string(report.Method))
	cli.PrintInfo("Drop frame", fmt.Sprintf("%v", report.DropFrame))
	if report.SampleRate > 0 {
		cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", report.SampleRate))
	}
	if report.Carrier.Windows > 0 {
		cli.PrintInfo("LTC band ratio", fmt.Sprintf("%.2f", report.Carrier.BandRatio))
	}
	if report.RecordID != "" {
		cli.PrintInfo("Record", report.RecordID)
	}
	if !report.Valid {
		cli.PrintWarning("no trustworthy timecode was recovered; the zero sentinel was used")
	}
}

// ProcessCmd runs the full recover-and-remux pipeline.
type ProcessCmd struct {
	Input   string `arg:"" help:"Input media file."`
	Output  string `arg:"" optional:"" help:"Output file (default: input name with _tc suffix)."`
	Channel int    `help:"Source audio channel carrying LTC." default:"1"`
}

func (p *ProcessCmd) Run() error {
	if err := ltcbridge.CheckTools(); err != nil {
		return err
	}

	output := p.Output
	if output == "" {
		ext := filepath.Ext(p.Input)
		output = strings.TrimSuffix(p.Input, ext) + "_tc" + ext
	}

	svc, err := ltcbridge.NewService(
		ltcbridge.WithDBPath(CLI.DB),
		ltcbridge.WithTempDir(tempDir()),
		ltcbridge.WithChannel(p.Channel),
	)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := svc.Process(ctx, p.Input, output)
	if err != nil {
		return err
	}

	printReport(report)
	if info, err := os.Stat(output); err == nil {
		cli.PrintInfo("Output", fmt.Sprintf("%s (%s)", output, humanize.Bytes(uint64(info.Size()))))
	}
	cli.PrintSuccess("done")
	return nil
}

// DecodeCmd decodes a mono WAV without touching any container.
type DecodeCmd struct {
	Wav string `arg:"" help:"Extracted single-channel WAV file."`
}

func (d *DecodeCmd) Run() error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := svc.DecodeFile(ctx, d.Wav)
	if err != nil {
		return err
	}
	printReport(report)
	return nil
}

// GenerateCmd writes synthetic LTC audio, mainly for exercising the
// decode pipeline without a camera feed.
type GenerateCmd struct {
	Timecode  string  `short:"t" help:"Start timecode HH:MM:SS:FF." default:"01:23:45:12"`
	Duration  int     `short:"d" help:"Duration in seconds." default:"5"`
	Rate      int     `help:"Sample rate in Hz." default:"48000"`
	FPS       float64 `help:"Frame rate for the frame counter." default:"25"`
	DropFrame bool    `help:"Set the drop-frame flag."`
	Output    string  `short:"o" help:"Output WAV file." default:"ltc.wav"`
}

func (g *GenerateCmd) Run() error {
	start, err := ltc.ParseTimecode(g.Timecode)
	if err != nil {
		return err
	}
	if g.Duration < 1 {
		return fmt.Errorf("duration must be at least 1 second")
	}
	if g.DropFrame && !ltc.DropFrameRate(g.FPS) {
		cli.PrintWarning(fmt.Sprintf("drop frame requested for non-drop rate %g", g.FPS))
	}

	fps := int(math.Ceil(g.FPS))
	buf := ltc.Encode(start, g.Duration*fps, ltc.EncodeOptions{
		SampleRate: g.Rate,
		FrameRate:  g.FPS,
		DropFrame:  g.DropFrame,
	})
	if err := audio.WriteWav(g.Output, buf); err != nil {
		return err
	}

	cli.PrintInfo("Timecode", start.String())
	cli.PrintInfo("Frames", fmt.Sprintf("%d at %g fps", g.Duration*fps, g.FPS))
	cli.PrintSuccess(fmt.Sprintf("wrote %s (%s)", g.Output,
		humanize.Bytes(uint64(len(buf.Data)*buf.BitDepth/8))))
	return nil
}

// InspectCmd reports signal diagnostics and renders a spectrogram.
type InspectCmd struct {
	Wav    string `arg:"" help:"WAV file to inspect."`
	Output string `short:"o" optional:"" help:"Output PNG (default: <wav>.png)."`
}

func (i *InspectCmd) Run() error {
	output := i.Output
	if output == "" {
		output = i.Wav + ".png"
	}

	buf, err := audio.ReadWav(i.Wav)
	if err != nil {
		return err
	}
	report := audio.AnalyzeCarrier(ltc.Normalize(buf), buf.SampleRate)

	cli.PrintSection("Signal")
	cli.PrintInfo("Sample rate", fmt.Sprintf("%d Hz", buf.SampleRate))
	cli.PrintInfo("Duration", fmt.Sprintf("%.1fs", float64(buf.DurationMs())/1000))
	cli.PrintInfo("LTC band ratio", fmt.Sprintf("%.2f", report.BandRatio))
	if report.Present {
		cli.PrintSuccess("channel looks like LTC")
	} else {
		cli.PrintWarning("channel does not look like LTC")
	}

	if err := audio.RenderSpectrogram(i.Wav, output); err != nil {
		return err
	}
	cli.PrintSuccess(fmt.Sprintf("spectrogram written to %s", output))
	return nil
}

// RecordsCmd groups catalog operations.
type RecordsCmd struct {
	List   RecordsListCmd   `cmd:"" default:"1" help:"List decode history."`
	Delete RecordsDeleteCmd `cmd:"" help:"Delete a history record."`
}

type RecordsListCmd struct{}

func (RecordsListCmd) Run() error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	records, err := svc.ListRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no decode records")
		return nil
	}

	cli.PrintSection(fmt.Sprintf("%d record(s)", len(records)))
	for _, r := range records {
		fmt.Printf("%s  %s  %-8s  %s  (%s)\n",
			r.ID,
			cli.TimecodeStyle.Render(r.Timecode),
			r.Method,
			filepath.Base(r.SourcePath),
			humanize.Time(r.CreatedAt),
		)
	}
	return nil
}

type RecordsDeleteCmd struct {
	ID string `arg:"" help:"Record ID to delete."`
}

func (d *RecordsDeleteCmd) Run() error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.DeleteRecord(d.ID); err != nil {
		return err
	}
	cli.PrintSuccess(fmt.Sprintf("deleted record %s", d.ID))
	return nil
}

type VersionCmd struct{}

func (VersionCmd) Run() error {
	cli.PrintVersion(version)
	return nil
}

func tempDir() string {
	if CLI.Temp != "" {
		return CLI.Temp
	}
	return os.TempDir()
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("ltcbridge"),
		kong.Description("Recover LTC audio timecode from media files and write it back as SMPTE metadata."),
		kong.UsageOnError(),
	)

	if CLI.Verbose {
		logger.GetLogger().SetLevel(logger.DEBUG)
	}

	if err := ctx.Run(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}
