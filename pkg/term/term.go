// Package term implements a terminal frontend for the VM. Two display rows
// share one character cell using the upper half block glyph.
package term

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/mgutz/ansi"
	"github.com/mnafees/c8core/internal"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

const (
	keyEscape = 0x1B
	keyCtrlC  = 0x03

	// terminals report no key releases, a key stays pressed for this many
	// frames after its last input byte
	defaultKeyHold = 6

	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	halfBlock   = "▀"
)

// Config holds the presentation settings of the terminal frontend
type Config struct {
	SpriteColor string // ansi color name of lit pixels
	ScreenColor string // ansi color name of unlit pixels
	Mute        bool
	KeyHold     int
}

// Terminal renders the framebuffer with ANSI colors and reads the keypad
// from raw stdin.
type Terminal struct {
	vm     *internal.C8VM
	cfg    Config
	logger *log.Logger

	in       io.Reader
	out      *bufio.Writer
	fd       int
	oldState *term.State

	events chan byte
	held   [internal.KeyCount]int
	quit   bool

	// cell colors indexed by [top lit][bottom lit]
	cells [2][2]string
}

// New returns a terminal frontend reading keys from in and drawing to out.
func New(vm *internal.C8VM, cfg Config, in io.Reader, out io.Writer, logger *log.Logger) *Terminal {
	if cfg.KeyHold <= 0 {
		cfg.KeyHold = defaultKeyHold
	}
	t := &Terminal{
		vm:     vm,
		cfg:    cfg,
		logger: logger,
		in:     in,
		out:    bufio.NewWriter(out),
		fd:     -1,
		events: make(chan byte, 64),
	}

	colors := [2]string{cfg.ScreenColor, cfg.SpriteColor}
	for top := 0; top < 2; top++ {
		for bottom := 0; bottom < 2; bottom++ {
			t.cells[top][bottom] = ansi.ColorCode(colors[top] + ":" + colors[bottom])
		}
	}
	return t
}

// Start switches an interactive terminal to raw mode and starts reading input.
func (t *Terminal) Start() error {
	if f, ok := t.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		t.fd = int(f.Fd())
		if width, height, err := term.GetSize(t.fd); err == nil {
			if width < internal.ScreenWidth || height < internal.ScreenHeight/2 {
				t.logger.Warn("Terminal too small for the display",
					log.Int("width", width), log.Int("height", height))
			}
		}

		oldState, err := term.MakeRaw(t.fd)
		if err != nil {
			return errors.Wrap(err, "setting raw mode")
		}
		t.oldState = oldState
	}

	_, _ = t.out.WriteString(hideCursor + clearScreen)
	_ = t.out.Flush()

	go t.readLoop()
	return nil
}

// Stop restores the terminal state.
func (t *Terminal) Stop() {
	_, _ = t.out.WriteString(ansi.Reset + showCursor + "\r\n")
	_ = t.out.Flush()
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}

// readLoop forwards input bytes until the reader fails. A blocked read on
// stdin ends with the process.
func (t *Terminal) readLoop() {
	buf := make([]byte, 16)
	for {
		n, err := t.in.Read(buf)
		for _, b := range buf[:n] {
			t.events <- b
		}
		if err != nil {
			return
		}
	}
}

// PollInput applies pending key presses to the VM and releases keys whose
// hold time ran out.
func (t *Terminal) PollInput() bool {
	for i, frames := range t.held {
		if frames > 0 {
			t.held[i]--
			if t.held[i] == 0 {
				_ = t.vm.SetKey(uint8(i), false)
			}
		}
	}

	for {
		select {
		case b := <-t.events:
			t.handleByte(b)
		default:
			return t.quit
		}
	}
}

func (t *Terminal) handleByte(b byte) {
	switch b {
	case keyEscape, keyCtrlC:
		t.quit = true
		return
	}

	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	code, ok := keymap[b]
	if !ok {
		return
	}
	t.held[code] = t.cfg.KeyHold
	_ = t.vm.SetKey(code, true)
}

// Render draws the framebuffer.
func (t *Terminal) Render(fb internal.Framebuffer) {
	_, _ = t.out.WriteString(cursorHome)
	_, _ = t.out.WriteString(t.frame(&fb))
	_ = t.out.Flush()
}

// Beep rings the terminal bell.
func (t *Terminal) Beep() {
	if t.cfg.Mute {
		return
	}
	_, _ = t.out.WriteString("\a")
	_ = t.out.Flush()
}

// frame renders the framebuffer as ScreenHeight/2 lines of half blocks.
func (t *Terminal) frame(fb *internal.Framebuffer) string {
	var sb strings.Builder
	for y := 0; y < internal.ScreenHeight; y += 2 {
		current := ""
		for x := 0; x < internal.ScreenWidth; x++ {
			code := t.cells[bit(fb.At(x, y))][bit(fb.At(x, y+1))]
			if code != current {
				sb.WriteString(code)
				current = code
			}
			sb.WriteString(halfBlock)
		}
		sb.WriteString(ansi.Reset)
		sb.WriteString("\r\n")
	}
	return sb.String()
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
//
//	1 2 3 4    1 2 3 C
//	Q W E R    4 5 6 D
//	A S D F    7 8 9 E
//	Z X C V    A 0 B F
var keymap = map[byte]uint8{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}
