// Package ebitengine implements an Ebitengine frontend for the VM.
package ebitengine

import (
	"bytes"
	"context"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/mnafees/c8core/internal"
	"github.com/mnafees/c8core/pkg/beep"
	"github.com/retroenv/retrogolib/log"
)

// Config holds the presentation settings of the Ebitengine frontend
type Config struct {
	PixelSize   int
	ScreenColor uint32
	SpriteColor uint32
	Mute        bool
}

// Game implements ebiten.Game, running one VM frame per tick.
type Game struct {
	ctx    context.Context
	runner *internal.Runner
	vm     *internal.C8VM
	cfg    Config
	logger *log.Logger

	pixels []byte // RGBA framebuffer uploaded on every draw

	audio  *oto.Context
	player *oto.Player
	tone   []byte
}

// NewGame returns a new game driving the given runner
func NewGame(runner *internal.Runner, cfg Config, logger *log.Logger) *Game {
	g := &Game{
		ctx:    context.Background(),
		runner: runner,
		vm:     runner.VM(),
		cfg:    cfg,
		logger: logger,
		pixels: make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
	fb := g.vm.Display()
	fillPixels(g.pixels, &fb, cfg.SpriteColor, cfg.ScreenColor)
	return g
}

// Run opens the window and blocks until it is closed, ctx is cancelled or
// execution fails.
func (g *Game) Run(ctx context.Context, title string) error {
	g.ctx = ctx
	if !g.cfg.Mute {
		g.setupAudio()
	}

	ebiten.SetWindowSize(internal.ScreenWidth*g.cfg.PixelSize, internal.ScreenHeight*g.cfg.PixelSize)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(internal.TimerFrequency)
	return ebiten.RunGame(g)
}

func (g *Game) setupAudio() {
	op := &oto.NewContextOptions{
		SampleRate:   beep.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	audio, ready, err := oto.NewContext(op)
	if err != nil {
		g.logger.Warn("Audio disabled", log.Err(err))
		return
	}
	<-ready

	g.audio = audio
	g.tone = beep.Tone()
}

// Beep plays the beep tone, cutting off a tone that is still playing
func (g *Game) Beep() {
	if g.audio == nil {
		return
	}
	if g.player != nil {
		_ = g.player.Close()
	}
	g.player = g.audio.NewPlayer(bytes.NewReader(g.tone))
	g.player.Play()
}

// Update polls the keyboard and runs one frame of the VM
func (g *Game) Update() error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.vm.Reset()
	}

	for key, code := range keymap {
		_ = g.vm.SetKey(code, ebiten.IsKeyPressed(key))
	}

	if err := g.runner.Frame(); err != nil {
		g.logger.Error("Execution halted", log.Err(err))
		return err
	}

	if g.vm.IsDrawFlagSet() {
		fb := g.vm.Display()
		fillPixels(g.pixels, &fb, g.cfg.SpriteColor, g.cfg.ScreenColor)
		g.vm.UnsetDrawFlag()
	}
	return nil
}

// Draw uploads the framebuffer, ebiten scales it to the window
func (g *Game) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.pixels)
}

// Layout keeps the logical screen at the native resolution
func (g *Game) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
//
//	1 2 3 4    1 2 3 C
//	Q W E R    4 5 6 D
//	A S D F    7 8 9 E
//	Z X C V    A 0 B F
var keymap = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}

// fillPixels converts the framebuffer to RGBA using 0xRRGGBB colors.
func fillPixels(dst []byte, fb *internal.Framebuffer, on, off uint32) {
	for i, lit := range fb {
		color := off
		if lit {
			color = on
		}
		dst[i*4] = byte(color >> 16)
		dst[i*4+1] = byte(color >> 8)
		dst[i*4+2] = byte(color)
		dst[i*4+3] = 0xFF
	}
}
