package ltcbridge

import (
	"os"
	"time"
)

// Config collects service settings; populate it through Options.
type Config struct {
	DBPath        string
	TempDir       string
	Channel       int // source audio channel carrying LTC
	LTCDumpPath   string
	DecodeTimeout time.Duration
	Logger        Logger
	Storage       Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithTempDir(dir string) Option {
	return func(c *Config) {
		c.TempDir = dir
	}
}

// WithChannel selects which source channel carries the timecode signal.
func WithChannel(channel int) Option {
	return func(c *Config) {
		c.Channel = channel
	}
}

// WithLTCDumpPath overrides the ltcdump binary used by the
// authoritative decode strategy.
func WithLTCDumpPath(path string) Option {
	return func(c *Config) {
		c.LTCDumpPath = path
	}
}

// WithDecodeTimeout bounds the authoritative decoder's subprocess wait.
func WithDecodeTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.DecodeTimeout = d
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(s Storage) Option {
	return func(c *Config) {
		c.Storage = s
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:        "ltcbridge.sqlite3",
		TempDir:       os.TempDir(),
		Channel:       1, // right channel by slate convention
		DecodeTimeout: 10 * time.Second,
	}
}
