package command

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is a color with channels in [0, 255].
type RGB [3]int

// Color tints the element.
type Color struct {
	header
	From, To RGB
}

// NewColor creates a color command, clamping every channel to [0, 255].
func NewColor(easing Easing, start, end any, from, to RGB) *Color {
	return &Color{
		header: newHeader(KindColor, easing, start, end),
		From:   from.Clamped(),
		To:     to.Clamped(),
	}
}

// NewColorFromHex creates a color command from "#RRGGBB" strings.
func NewColorFromHex(easing Easing, start, end any, from, to string) *Color {
	return NewColor(easing, start, end, HexToRGB(from), HexToRGB(to))
}

// NewColorFrom creates a color command from colorful colors. Out of gamut
// colors are clamped first.
func NewColorFrom(easing Easing, start, end any, from, to colorful.Color) *Color {
	return NewColor(easing, start, end, RGBOf(from), RGBOf(to))
}

func (c *Color) Render() string {
	return c.render(formatInts(c.From[0], c.From[1], c.From[2], c.To[0], c.To[1], c.To[2])...)
}

// ClampChannel limits a color channel to [0, 255].
func ClampChannel(v int) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return v
}

// Clamped returns c with every channel clamped.
func (c RGB) Clamped() RGB {
	return RGB{ClampChannel(c[0]), ClampChannel(c[1]), ClampChannel(c[2])}
}

// Colorful converts c to a colorful color.
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255.0, G: float64(c[1]) / 255.0, B: float64(c[2]) / 255.0}
}

// RGBOf converts a colorful color to 8-bit channels.
func RGBOf(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{int(r), int(g), int(b)}
}

// HexToRGB reads a color written as hex pairs, with or without a leading
// "#". Missing or malformed pairs leave their channel at 0, so "FF" is red.
func HexToRGB(hex string) RGB {
	s := strings.TrimLeft(hex, "#")
	var rgb RGB
	for i := range rgb {
		lo := i * 2
		if lo+2 > len(s) {
			break
		}
		v, err := strconv.ParseUint(s[lo:lo+2], 16, 8)
		if err != nil {
			continue
		}
		rgb[i] = int(v)
	}
	return rgb
}
