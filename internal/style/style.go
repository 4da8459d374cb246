// Package style maps style modifier names, as written in the tag
// configuration, onto terminal color attributes.
//
// The names follow the chalk vocabulary: modifiers such as "bold" or
// "underline", foreground colors such as "red" or "cyanBright" and
// background colors such as "bgYellow".
package style

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ErrUnknownStyle is returned when a style name has no color attribute.
var ErrUnknownStyle = errors.New("unknown style")

// ErrInvalidMode is returned by ParseMode for an unrecognised color mode.
var ErrInvalidMode = errors.New("invalid color mode: must be auto, always or never")

var attributes = map[string]color.Attribute{
	"reset":         color.Reset,
	"bold":          color.Bold,
	"dim":           color.Faint,
	"italic":        color.Italic,
	"underline":     color.Underline,
	"inverse":       color.ReverseVideo,
	"hidden":        color.Concealed,
	"strikethrough": color.CrossedOut,

	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
	"gray":    color.FgHiBlack,
	"grey":    color.FgHiBlack,

	"blackBright":   color.FgHiBlack,
	"redBright":     color.FgHiRed,
	"greenBright":   color.FgHiGreen,
	"yellowBright":  color.FgHiYellow,
	"blueBright":    color.FgHiBlue,
	"magentaBright": color.FgHiMagenta,
	"cyanBright":    color.FgHiCyan,
	"whiteBright":   color.FgHiWhite,

	"bgBlack":   color.BgBlack,
	"bgRed":     color.BgRed,
	"bgGreen":   color.BgGreen,
	"bgYellow":  color.BgYellow,
	"bgBlue":    color.BgBlue,
	"bgMagenta": color.BgMagenta,
	"bgCyan":    color.BgCyan,
	"bgWhite":   color.BgWhite,
	"bgGray":    color.BgHiBlack,
	"bgGrey":    color.BgHiBlack,

	"bgBlackBright":   color.BgHiBlack,
	"bgRedBright":     color.BgHiRed,
	"bgGreenBright":   color.BgHiGreen,
	"bgYellowBright":  color.BgHiYellow,
	"bgBlueBright":    color.BgHiBlue,
	"bgMagentaBright": color.BgHiMagenta,
	"bgCyanBright":    color.BgHiCyan,
	"bgWhiteBright":   color.BgHiWhite,
}

// visible prints the text only when colors are enabled. It has no
// attribute of its own.
const visible = "visible"

// Validate returns an error wrapping ErrUnknownStyle for the first name
// that is not a known style.
func Validate(names []string) error {
	for _, name := range names {
		if !Known(name) {
			return fmt.Errorf("%w: %q", ErrUnknownStyle, name)
		}
	}
	return nil
}

// Known reports whether name is a recognised style.
func Known(name string) bool {
	_, ok := attributes[name]
	return ok || name == visible
}

// Mode controls when escape sequences are emitted.
type Mode string

const (
	// ModeAuto colors output only when it is a terminal and NO_COLOR is unset.
	ModeAuto Mode = "auto"
	// ModeAlways always colors output.
	ModeAlways Mode = "always"
	// ModeNever never colors output.
	ModeNever Mode = "never"
)

// ParseMode converts s into a Mode. An empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways:
		return ModeAlways, nil
	case ModeNever:
		return ModeNever, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Palette builds colors for a single output destination.
type Palette struct {
	enabled bool
}

// NewPalette returns a Palette for w. In ModeAuto colors are enabled only
// when w is a terminal.
func NewPalette(w io.Writer, mode Mode) *Palette {
	switch mode {
	case ModeAlways:
		return &Palette{enabled: true}
	case ModeNever:
		return &Palette{enabled: false}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return &Palette{enabled: false}
	}
	f, ok := w.(*os.File)
	if !ok {
		return &Palette{enabled: false}
	}
	fd := f.Fd()
	return &Palette{enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// Enabled reports whether the palette emits escape sequences.
func (p *Palette) Enabled() bool {
	return p != nil && p.enabled
}

// Resolve returns a color combining every named style in order.
func (p *Palette) Resolve(names []string) (*color.Color, error) {
	if err := Validate(names); err != nil {
		return nil, err
	}
	c := color.New()
	for _, name := range names {
		if attr, ok := attributes[name]; ok {
			c.Add(attr)
		}
	}
	return p.apply(c), nil
}

// Sprint renders s with the named styles. Unknown names render s unstyled.
// With "visible" among the names, s is dropped when colors are disabled.
func (p *Palette) Sprint(s string, names ...string) string {
	c, err := p.Resolve(names)
	if err != nil {
		return s
	}
	if !p.Enabled() && slices.Contains(names, visible) {
		return ""
	}
	return c.Sprint(s)
}

// Red renders s in red. Used for diagnostics and the warning banner.
func (p *Palette) Red(s string) string {
	return p.apply(color.New(color.FgRed)).Sprint(s)
}

// White renders s in white. Used for the line prefix.
func (p *Palette) White(s string) string {
	return p.apply(color.New(color.FgWhite)).Sprint(s)
}

func (p *Palette) apply(c *color.Color) *color.Color {
	if p.Enabled() {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}
