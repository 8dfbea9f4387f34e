// Package config handles application configuration and setup
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/shibukawa/configdir"
)

// Supported frontends.
const (
	FrontendSDL    = "sdl"
	FrontendEbiten = "ebiten"
	FrontendTerm   = "term"
)

const (
	vendorName      = "mnafees"
	applicationName = "chopper"
	settingsFile    = "settings.json"
)

// Options contains the settings of a single emulator run.
type Options struct {
	Program  string
	Frontend string

	InstructionsPerSecond int
	Scale                 int
	Seed                  int64
	KeyHold               int

	// RGB colors of the window frontends
	ScreenColor uint32
	SpriteColor uint32

	// ansi color names of the terminal frontend
	TermScreenColor string
	TermSpriteColor string

	Mute    bool
	Debug   bool
	Quiet   bool
	Version bool
}

// Default returns the options used when neither settings nor flags change them.
func Default() Options {
	return Options{
		Frontend:              FrontendSDL,
		InstructionsPerSecond: 700,
		Scale:                 20,
		KeyHold:               6,
		ScreenColor:           0x000000,
		SpriteColor:           0xFFFFFF,
		TermScreenColor:       "black",
		TermSpriteColor:       "white",
	}
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

// ShowUsage prints the command line usage to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chopper [options] <CHIP-8 program>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses the command line arguments on top of the given options.
// Values not passed on the command line keep their value from opts.
func ParseFlags(args []string, opts Options) (Options, error) {
	flags := flag.NewFlagSet(applicationName, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	flags.StringVar(&opts.Frontend, "frontend", opts.Frontend, "frontend to run the program with (sdl/ebiten/term)")
	flags.IntVar(&opts.InstructionsPerSecond, "ips", opts.InstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&opts.Scale, "scale", opts.Scale, "size in pixels of a single CHIP-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", opts.Seed, "seed of the random number generator, 0 seeds from the clock")
	flags.BoolVar(&opts.Mute, "mute", opts.Mute, "disable the sound output")
	flags.BoolVar(&opts.Debug, "debug", opts.Debug, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", opts.Quiet, "perform operations quietly")
	flags.BoolVar(&opts.Version, "version", opts.Version, "print the version and exit")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if opts.Version {
		return opts, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "no program given"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("unexpected argument %s, please pass the program as last argument", rest[1]),
		}
	}
	opts.Program = rest[0]

	opts.Frontend = strings.ToLower(opts.Frontend)
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Validate checks the option values for consistency.
func (o Options) Validate() error {
	switch o.Frontend {
	case FrontendSDL, FrontendEbiten, FrontendTerm:
	default:
		return errors.Errorf("unsupported frontend: %s. Valid options: %s",
			o.Frontend, strings.Join([]string{FrontendSDL, FrontendEbiten, FrontendTerm}, ", "))
	}
	if o.InstructionsPerSecond <= 0 {
		return errors.Errorf("invalid instructions per second: %d", o.InstructionsPerSecond)
	}
	if o.Scale <= 0 {
		return errors.Errorf("invalid scale: %d", o.Scale)
	}
	if o.KeyHold < 0 {
		return errors.Errorf("invalid key hold: %d", o.KeyHold)
	}
	return nil
}

// settings is the layout of the settings file, zero values leave the
// corresponding option unchanged.
type settings struct {
	Frontend              string `json:"frontend"`
	InstructionsPerSecond int    `json:"ips"`
	Scale                 int    `json:"scale"`
	KeyHold               int    `json:"key_hold"`
	Mute                  bool   `json:"mute"`
	ScreenColor           string `json:"screen_color"`
	SpriteColor           string `json:"sprite_color"`
	TermScreenColor       string `json:"term_screen_color"`
	TermSpriteColor       string `json:"term_sprite_color"`
}

// LoadSettings applies the settings file found in the user or system config
// folders to opts. A missing file is not an error.
func LoadSettings(opts *Options) (string, error) {
	dirs := configdir.New(vendorName, applicationName)
	folder := dirs.QueryFolderContainsFile(settingsFile)
	if folder == nil {
		return "", nil
	}

	data, err := folder.ReadFile(settingsFile)
	if err != nil {
		return folder.Path, errors.Wrap(err, "reading settings")
	}
	if err := ApplySettings(opts, data); err != nil {
		return folder.Path, errors.Wrapf(err, "loading settings from %s", folder.Path)
	}
	return folder.Path, nil
}

// ApplySettings decodes a settings document and applies its values to opts.
func ApplySettings(opts *Options, data []byte) error {
	var s settings
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decoding settings")
	}

	result := *opts
	if s.Frontend != "" {
		result.Frontend = strings.ToLower(s.Frontend)
	}
	if s.InstructionsPerSecond != 0 {
		result.InstructionsPerSecond = s.InstructionsPerSecond
	}
	if s.Scale != 0 {
		result.Scale = s.Scale
	}
	if s.KeyHold != 0 {
		result.KeyHold = s.KeyHold
	}
	if s.Mute {
		result.Mute = true
	}
	if s.TermScreenColor != "" {
		result.TermScreenColor = s.TermScreenColor
	}
	if s.TermSpriteColor != "" {
		result.TermSpriteColor = s.TermSpriteColor
	}

	var err error
	if s.ScreenColor != "" {
		if result.ScreenColor, err = parseColor(s.ScreenColor); err != nil {
			return errors.Wrap(err, "screen color")
		}
	}
	if s.SpriteColor != "" {
		if result.SpriteColor, err = parseColor(s.SpriteColor); err != nil {
			return errors.Wrap(err, "sprite color")
		}
	}

	if err := result.Validate(); err != nil {
		return err
	}
	*opts = result
	return nil
}

// parseColor parses a RRGGBB hex color with an optional leading #.
func parseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, errors.Errorf("invalid color '%s'", s)
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, errors.Errorf("invalid color '%s'", s)
	}
	return uint32(value), nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// PrintBanner logs the application name and version unless quiet is set.
func PrintBanner(logger *log.Logger, quiet bool, version string) {
	if quiet {
		return
	}
	logger.Info("chopper", log.String("version", version))
}
