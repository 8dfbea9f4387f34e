package sdl

import (
	"github.com/mnafees/c8core/internal"
	"github.com/mnafees/c8core/pkg/beep"
	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// Config holds the presentation settings of the SDL frontend
type Config struct {
	PixelSize   int
	ScreenColor uint32
	SpriteColor uint32
	Mute        bool
}

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface
	audio   sdl.AudioDeviceID
	tone    []byte

	cfg    Config
	vm     *internal.C8VM
	logger *log.Logger
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, cfg Config, logger *log.Logger) *IO {
	return &IO{
		cfg:    cfg,
		vm:     vm,
		logger: logger,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return errors.Wrap(err, "initialising SDL")
	}

	pixelSize := int32(io.cfg.PixelSize)
	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*pixelSize, internal.ScreenHeight*pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return errors.Wrap(err, "getting window surface")
	}
	io.surface.FillRect(nil, io.cfg.ScreenColor)

	if !io.cfg.Mute {
		io.setupAudio()
	}
	return nil
}

// setupAudio opens the audio device, sound stays disabled if that fails.
func (io *IO) setupAudio() {
	spec := &sdl.AudioSpec{
		Freq:     beep.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  2048,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		io.logger.Warn("Audio disabled", log.Err(err))
		return
	}
	io.audio = dev
	io.tone = beep.Tone()
	sdl.PauseAudioDevice(dev, false)
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.audio != 0 {
		sdl.CloseAudioDevice(io.audio)
	}
	if io.window != nil {
		io.window.Destroy()
	}
	sdl.Quit()
}

// Beep queues the beep tone on the audio device
func (io *IO) Beep() {
	if io.audio == 0 {
		return
	}
	sdl.ClearQueuedAudio(io.audio)
	if err := sdl.QueueAudio(io.audio, io.tone); err != nil {
		io.logger.Warn("Queueing beep failed", log.Err(err))
	}
}

// PollInput forwards keyboard events to the VM and reports whether the
// window was closed or Escape was pressed.
func (io *IO) PollInput() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			keycode := t.Keysym.Scancode
			switch t.GetType() {
			case sdl.KEYDOWN:
				switch keycode {
				case sdl.SCANCODE_ESCAPE:
					return true
				case sdl.SCANCODE_F5:
					io.vm.Reset()
				default:
					io.setKey(keycode, true)
				}
			case sdl.KEYUP:
				io.setKey(keycode, false)
			}
		case *sdl.QuitEvent:
			return true
		}
	}
	return false
}

// Render draws the current framebuffer on screen
func (io *IO) Render(fb internal.Framebuffer) {
	pixelSize := int32(io.cfg.PixelSize)
	io.surface.FillRect(nil, io.cfg.ScreenColor)
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if fb.At(int(w), int(h)) {
				rect := &sdl.Rect{X: w * pixelSize, Y: h * pixelSize, W: pixelSize, H: pixelSize}
				io.surface.FillRect(rect, io.cfg.SpriteColor)
			}
		}
	}
	io.window.UpdateSurface()
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) int8 {
	switch code {
	case sdl.SCANCODE_1:
		return 0x1
	case sdl.SCANCODE_2:
		return 0x2
	case sdl.SCANCODE_3:
		return 0x3
	case sdl.SCANCODE_4:
		return 0xC
	case sdl.SCANCODE_Q:
		return 0x4
	case sdl.SCANCODE_W:
		return 0x5
	case sdl.SCANCODE_E:
		return 0x6
	case sdl.SCANCODE_R:
		return 0xD
	case sdl.SCANCODE_A:
		return 0x7
	case sdl.SCANCODE_S:
		return 0x8
	case sdl.SCANCODE_D:
		return 0x9
	case sdl.SCANCODE_F:
		return 0xE
	case sdl.SCANCODE_Z:
		return 0xA
	case sdl.SCANCODE_X:
		return 0x0
	case sdl.SCANCODE_C:
		return 0xB
	case sdl.SCANCODE_V:
		return 0xF
	default:
		return -1
	}
}

func (io *IO) setKey(keycode sdl.Scancode, pressed bool) {
	code := keymap(keycode)
	if code != -1 {
		_ = io.vm.SetKey(uint8(code), pressed)
	}
}
