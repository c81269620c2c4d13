// Package config assembles the settings of one grader invocation from built-in defaults,
// an optional TOML file and the environment. Command line flags are layered on top by the
// caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/programme-lv/grader/internal/discovery"
)

// FileName is the config file looked up in the working directory.
const FileName = "grader.toml"

// EnvPrefix prefixes every environment variable the grader reads.
const EnvPrefix = "GRADER_"

type Config struct {
	TimeLimit time.Duration
	Grace     time.Duration
	Epsilon   float64

	Input  string
	Answer string

	Checker string
	Debug   bool

	Parallel     int
	SweepPattern string

	LanguagesFile string
	NoCache       bool

	NATSURL     string
	NATSSubject string
	SQSURL      string
	SQSRegion   string

	ReportPath string
}

func Default() Config {
	return Config{
		TimeLimit:    2 * time.Second,
		Grace:        500 * time.Millisecond,
		Epsilon:      1e-6,
		Input:        "$.in",
		Answer:       "$.out",
		Parallel:     1,
		SweepPattern: `^j\d{8}`,
		NATSSubject:  "grader.events",
		SQSRegion:    "eu-central-1",
	}
}

// fileConfig mirrors grader.toml. Pointers tell unset keys apart from zero values.
type fileConfig struct {
	TimeLimit    *float64 `toml:"time_limit"`
	Grace        *float64 `toml:"grace"`
	Epsilon      *float64 `toml:"epsilon"`
	Input        *string  `toml:"input"`
	Answer       *string  `toml:"answer"`
	Checker      *string  `toml:"checker"`
	Debug        *bool    `toml:"debug"`
	Parallel     *int     `toml:"parallel"`
	SweepPattern *string  `toml:"sweep_pattern"`
	Languages    *string  `toml:"languages"`
	NoCache      *bool    `toml:"no_cache"`
	Report       *string  `toml:"report"`

	NATS struct {
		URL     *string `toml:"url"`
		Subject *string `toml:"subject"`
	} `toml:"nats"`

	SQS struct {
		URL    *string `toml:"url"`
		Region *string `toml:"region"`
	} `toml:"sqs"`
}

// Load returns the defaults overridden by the TOML file at path. A missing file is an
// error only when required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cfg.apply(data); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	var f fileConfig
	if err := toml.Unmarshal(data, &f); err != nil {
		return err
	}
	setSeconds(&c.TimeLimit, f.TimeLimit)
	setSeconds(&c.Grace, f.Grace)
	set(&c.Epsilon, f.Epsilon)
	set(&c.Input, f.Input)
	set(&c.Answer, f.Answer)
	set(&c.Checker, f.Checker)
	set(&c.Debug, f.Debug)
	set(&c.Parallel, f.Parallel)
	set(&c.SweepPattern, f.SweepPattern)
	set(&c.LanguagesFile, f.Languages)
	set(&c.NoCache, f.NoCache)
	set(&c.ReportPath, f.Report)
	set(&c.NATSURL, f.NATS.URL)
	set(&c.NATSSubject, f.NATS.Subject)
	set(&c.SQSURL, f.SQS.URL)
	set(&c.SQSRegion, f.SQS.Region)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setSeconds(dst *time.Duration, v *float64) {
	if v != nil {
		*dst = Seconds(*v)
	}
}

// Seconds converts a possibly fractional number of seconds to a duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// LoadEnv loads .env style files into the process environment without overriding
// variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Validate checks the settings that cannot be checked while parsing.
func (c Config) Validate() error {
	if c.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", c.TimeLimit)
	}
	if c.Grace < 0 {
		return fmt.Errorf("grace must not be negative, got %s", c.Grace)
	}
	if c.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative, got %g", c.Epsilon)
	}
	if _, _, _, err := c.Layout(); err != nil {
		return err
	}
	if _, err := c.SweepRegexp(); err != nil {
		return err
	}
	return nil
}

// Layout splits the input pattern into the directory tests live in and a file name
// pattern. The answer pattern is relative to that directory, so tests/$.in with the
// default $.out looks for tests/1.out.
func (c Config) Layout() (dir string, in, ans discovery.Pattern, err error) {
	dir = filepath.Dir(c.Input)
	in, err = discovery.ParsePattern(filepath.Base(c.Input))
	if err != nil {
		return dir, in, ans, fmt.Errorf("invalid input pattern: %w", err)
	}
	ans, err = discovery.ParsePattern(filepath.Clean(c.Answer))
	if err != nil {
		return dir, in, ans, fmt.Errorf("invalid answer pattern: %w", err)
	}
	return dir, in, ans, nil
}

// SweepRegexp compiles the pattern submission file names must match to be swept.
func (c Config) SweepRegexp() (*regexp.Regexp, error) {
	re, err := regexp.Compile(c.SweepPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep pattern: %w", err)
	}
	return re, nil
}
