package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			want: func() Options {
				o := Default()
				o.Program = "pong.ch8"
				return o
			}(),
		},
		{
			name: "all flags",
			args: []string{"-frontend", "TERM", "-ips", "1200", "-scale", "10", "-seed", "42",
				"-mute", "-debug", "-q", "pong.ch8"},
			want: func() Options {
				o := Default()
				o.Program = "pong.ch8"
				o.Frontend = FrontendTerm
				o.InstructionsPerSecond = 1200
				o.Scale = 10
				o.Seed = 42
				o.Mute = true
				o.Debug = true
				o.Quiet = true
				return o
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args, Default())
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no program", args: nil},
		{name: "unknown flag", args: []string{"-turbo", "pong.ch8"}},
		{name: "flag after program", args: []string{"pong.ch8", "-mute"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args, Default())
			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.True(t, strings.HasPrefix(buf.String(), "usage: chopper"))
			assert.True(t, strings.Contains(buf.String(), "-frontend"))
		})
	}
}

func TestParseFlagsVersion(t *testing.T) {
	opts, err := ParseFlags([]string{"-version"}, Default())
	assert.NoError(t, err)
	assert.True(t, opts.Version)
	assert.Equal(t, "", opts.Program)
}

func TestParseFlagsInvalidValues(t *testing.T) {
	_, err := ParseFlags([]string{"-frontend", "opengl", "pong.ch8"}, Default())
	assert.Error(t, err)
	var usageErr *UsageError
	assert.False(t, errors.As(err, &usageErr))

	_, err = ParseFlags([]string{"-ips", "0", "pong.ch8"}, Default())
	assert.Error(t, err)

	_, err = ParseFlags([]string{"-scale", "-1", "pong.ch8"}, Default())
	assert.Error(t, err)
}

func TestApplySettings(t *testing.T) {
	opts := Default()
	data := []byte(`{
		"frontend": "ebiten",
		"ips": 540,
		"scale": 12,
		"key_hold": 4,
		"mute": true,
		"screen_color": "#102030",
		"sprite_color": "A0B0C0",
		"term_screen_color": "blue",
		"term_sprite_color": "yellow"
	}`)
	assert.NoError(t, ApplySettings(&opts, data))

	assert.Equal(t, FrontendEbiten, opts.Frontend)
	assert.Equal(t, 540, opts.InstructionsPerSecond)
	assert.Equal(t, 12, opts.Scale)
	assert.Equal(t, 4, opts.KeyHold)
	assert.True(t, opts.Mute)
	assert.Equal(t, uint32(0x102030), opts.ScreenColor)
	assert.Equal(t, uint32(0xA0B0C0), opts.SpriteColor)
	assert.Equal(t, "blue", opts.TermScreenColor)
	assert.Equal(t, "yellow", opts.TermSpriteColor)
}

func TestApplySettingsPartial(t *testing.T) {
	opts := Default()
	assert.NoError(t, ApplySettings(&opts, []byte(`{"scale": 8}`)))

	want := Default()
	want.Scale = 8
	assert.Equal(t, want, opts)
}

func TestApplySettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "malformed json", data: `{"scale": `},
		{name: "wrong type", data: `{"scale": "big"}`},
		{name: "short color", data: `{"screen_color": "#FFF"}`},
		{name: "non hex color", data: `{"sprite_color": "GGGGGG"}`},
		{name: "unknown frontend", data: `{"frontend": "vulkan"}`},
		{name: "negative rate", data: `{"ips": -5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Default()
			assert.Error(t, ApplySettings(&opts, []byte(tt.data)))
			assert.Equal(t, Default(), opts, "options must be unchanged on error")
		})
	}
}

func TestFlagsOverrideSettings(t *testing.T) {
	opts := Default()
	assert.NoError(t, ApplySettings(&opts, []byte(`{"frontend": "term", "ips": 600}`)))

	opts, err := ParseFlags([]string{"-ips", "900", "pong.ch8"}, opts)
	assert.NoError(t, err)
	assert.Equal(t, FrontendTerm, opts.Frontend)
	assert.Equal(t, 900, opts.InstructionsPerSecond)
}

func TestCreateLogger(t *testing.T) {
	assert.True(t, CreateLogger(false, false) != nil)
	assert.True(t, CreateLogger(true, false) != nil)
	assert.True(t, CreateLogger(false, true) != nil)
}
