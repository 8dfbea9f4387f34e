// Package main implements the chopper CHIP-8 emulator
package main

import (
	"context"
	"os"
	"time"

	"github.com/mnafees/c8core/internal"
	"github.com/mnafees/c8core/internal/config"
	"github.com/mnafees/c8core/pkg/ebitengine"
	"github.com/mnafees/c8core/pkg/sdl"
	"github.com/mnafees/c8core/pkg/term"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const title = "Chopper | CHIP-8 Emulator"

func main() {
	ctx := app.Context()

	opts := config.Default()
	settingsPath, settingsErr := config.LoadSettings(&opts)

	opts, err := config.ParseFlags(os.Args[1:], opts)
	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	versionString := buildinfo.Version(version, commit, date)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			config.PrintBanner(logger, opts.Quiet, versionString)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}
	if settingsErr != nil {
		logger.Error("Invalid settings", log.Err(settingsErr))
		os.Exit(1)
	}

	config.PrintBanner(logger, opts.Quiet, versionString)
	if opts.Version {
		return
	}
	if settingsPath != "" {
		logger.Debug("Settings loaded", log.String("path", settingsPath))
	}

	if err := run(ctx, logger, opts); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *log.Logger, opts config.Options) error {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	// the frontend producing the sound is created after the VM
	var beeper internal.Beeper
	vm := internal.NewC8VM(
		internal.WithRandomSource(internal.NewRandomSource(seed)),
		internal.WithBeeper(internal.BeeperFunc(func() {
			if beeper != nil {
				beeper.Beep()
			}
		})),
		internal.WithLogger(logger),
	)
	if err := vm.LoadProgram(opts.Program); err != nil {
		return errors.Wrapf(err, "loading program '%s'", opts.Program)
	}
	logger.Info("Program loaded",
		log.String("file", opts.Program),
		log.String("frontend", opts.Frontend),
		log.Int("ips", opts.InstructionsPerSecond))

	runner := internal.NewRunner(vm, opts.InstructionsPerSecond, logger)

	switch opts.Frontend {
	case config.FrontendEbiten:
		game := ebitengine.NewGame(runner, ebitengine.Config{
			PixelSize:   opts.Scale,
			ScreenColor: opts.ScreenColor,
			SpriteColor: opts.SpriteColor,
			Mute:        opts.Mute,
		}, logger)
		beeper = game
		return game.Run(ctx, title)

	case config.FrontendTerm:
		terminal := term.New(vm, term.Config{
			SpriteColor: opts.TermSpriteColor,
			ScreenColor: opts.TermScreenColor,
			Mute:        opts.Mute,
			KeyHold:     opts.KeyHold,
		}, os.Stdin, os.Stdout, logger)
		if err := terminal.Start(); err != nil {
			return errors.Wrap(err, "starting terminal")
		}
		defer terminal.Stop()
		beeper = terminal
		return runner.Run(ctx, terminal)

	default:
		io := sdl.NewIO(vm, sdl.Config{
			PixelSize:   opts.Scale,
			ScreenColor: opts.ScreenColor,
			SpriteColor: opts.SpriteColor,
			Mute:        opts.Mute,
		}, logger)
		defer io.Destroy()
		if err := io.SetupWindow(title); err != nil {
			return err
		}
		beeper = io
		return runner.Run(ctx, io)
	}
}
