// Package config builds the configuration of a pipeviewer run from the command line and
// PV_ prefixed environment variables. Flags take precedence over the environment.
package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultChunkSize    = 64 * 1024
	DefaultDataCapacity = 1024
	DefaultRenderPeriod = time.Second
	DefaultLogLevel     = "warn"

	envPrefix = "PV"
)

var (
	ErrTooManyArgs     = errors.New("at most one input file can be given")
	ErrInvalidChunk    = errors.New("chunk size must be greater than 0")
	ErrInvalidCapacity = errors.New("buffer must be greater than 0")
	ErrInvalidPeriod   = errors.New("interval must be greater than 0")
	ErrInvalidEnv      = errors.New("invalid environment value")
)

// Config holds everything a run needs. It is built once and never mutated afterwards.
type Config struct {
	// InputPath is read from, standard input when empty.
	InputPath string
	// OutputPath is created or truncated, standard output when empty.
	OutputPath string
	// Silent disables the status line.
	Silent bool

	ChunkSize    int
	DataCapacity int
	RenderPeriod time.Duration
	// GraphFile receives the DOT drawing of the stages when set.
	GraphFile string
	LogLevel  zerolog.Level
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		DataCapacity: DefaultDataCapacity,
		RenderPeriod: DefaultRenderPeriod,
		LogLevel:     zerolog.WarnLevel,
	}
}

var envParsers = map[string]func(string) (interface{}, error){
	"outfile":    asString,
	"chunk-size": func(val string) (interface{}, error) { return cast.ToIntE(val) },
	"buffer":     func(val string) (interface{}, error) { return cast.ToIntE(val) },
	"interval":   func(val string) (interface{}, error) { return cast.ToDurationE(val) },
	"graph":      asString,
	"log-level":  asString,
}

func asString(val string) (interface{}, error) {
	return val, nil
}

// Load parses args (without the program name) and the environment returned by getenv.
// It returns pflag.ErrHelp when the usage was requested; the usage is written to usage.
func Load(args []string, getenv func(string) string, usage io.Writer) (Config, error) {
	fs := pflag.NewFlagSet("pipeviewer", pflag.ContinueOnError)
	fs.SetOutput(usage)
	fs.Usage = func() {
		_, _ = io.WriteString(usage, "Usage: pipeviewer [flags] [infile]\n\nRead infile (or stdin) and write it to outfile (or stdout) while reporting progress on stderr.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	fs.StringP("outfile", "o", "", "write output to a file instead of stdout")
	fs.BoolP("silent", "s", false, "do not report progress; PV_SILENT set to any non-empty value, even \"0\", does the same")
	fs.Int("chunk-size", DefaultChunkSize, "maximum size in bytes of a chunk read from the input")
	fs.Int("buffer", DefaultDataCapacity, "maximum number of chunks waiting to be written")
	fs.Duration("interval", DefaultRenderPeriod, "time between two progress updates")
	fs.String("graph", "", "write a Graphviz DOT drawing of the stages to this file")
	fs.String("log-level", DefaultLogLevel, "log level: trace, debug, info, warn, error")

	err := fs.Parse(args)
	if err != nil {
		return Config{}, err
	}

	vpr := viper.New()
	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	err = vpr.BindPFlags(fs)
	if err != nil {
		return Config{}, errors.Wrap(err, "unable to bind flags")
	}

	// viper reads the environment through os.Getenv, bind explicit values instead so
	// that callers control it.
	for key, parse := range envParsers {
		envKey := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))

		val := getenv(envKey)
		if val == "" || fs.Changed(key) {
			continue
		}

		parsed, err := parse(val)
		if err != nil {
			return Config{}, errors.Wrapf(ErrInvalidEnv, "%s=%q: %v", envKey, val, err)
		}

		vpr.Set(key, parsed)
	}

	if fs.NArg() > 1 {
		return Config{}, errors.Wrapf(ErrTooManyArgs, "got %d", fs.NArg())
	}

	cfg := Config{
		InputPath:    fs.Arg(0),
		OutputPath:   vpr.GetString("outfile"),
		Silent:       vpr.GetBool("silent") || getenv(envPrefix+"_SILENT") != "",
		ChunkSize:    vpr.GetInt("chunk-size"),
		DataCapacity: vpr.GetInt("buffer"),
		RenderPeriod: vpr.GetDuration("interval"),
		GraphFile:    vpr.GetString("graph"),
	}

	cfg.LogLevel, err = zerolog.ParseLevel(vpr.GetString("log-level"))
	if err != nil {
		return Config{}, errors.Wrap(err, "invalid log level")
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromOS loads the configuration from os.Args and the process environment.
func LoadFromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv, os.Stderr)
}

// Validate checks the tunables of the configuration.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return errors.Wrapf(ErrInvalidChunk, "got %d", c.ChunkSize)
	}

	if c.DataCapacity <= 0 {
		return errors.Wrapf(ErrInvalidCapacity, "got %d", c.DataCapacity)
	}

	if c.RenderPeriod <= 0 {
		return errors.Wrapf(ErrInvalidPeriod, "got %s", c.RenderPeriod)
	}

	return nil
}
