package storyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Okorin/osu-sbgen/command"
)

// Layer is the storyboard layer an element is drawn on.
type Layer string

const (
	LayerBackground Layer = "Background"
	LayerFail       Layer = "Fail"
	LayerPass       Layer = "Pass"
	LayerForeground Layer = "Foreground"
	LayerOverlay    Layer = "Overlay"
)

// Layers in drawing order.
var Layers = []Layer{LayerBackground, LayerFail, LayerPass, LayerForeground, LayerOverlay}

// Origin is the point of the image that sits on the element's position.
type Origin string

const (
	OriginTopLeft      Origin = "TopLeft"
	OriginTopCentre    Origin = "TopCentre"
	OriginTopRight     Origin = "TopRight"
	OriginCentreLeft   Origin = "CentreLeft"
	OriginCentre       Origin = "Centre"
	OriginCentreRight  Origin = "CentreRight"
	OriginBottomLeft   Origin = "BottomLeft"
	OriginBottomCentre Origin = "BottomCentre"
	OriginBottomRight  Origin = "BottomRight"
	OriginCustom       Origin = "Custom"
)

// LoopType controls whether an animation repeats its frames.
type LoopType string

const (
	LoopForever LoopType = "LoopForever"
	LoopOnce    LoopType = "LoopOnce"
)

// Defaults used when an element is created without a position.
const (
	DefaultX          = 320
	DefaultY          = 240
	DefaultFrameCount = 2
	DefaultFrameDelay = 500
)

// Element is a visual element that can be written to a storyboard.
type Element interface {
	Base() *Object
	Render() string
}

// Object holds what sprites and animations share: placement and the
// commands attached to them.
type Object struct {
	Kind   string
	Layer  Layer
	Origin Origin
	Path   string
	X, Y   int

	commands []command.Command
}

// Base returns o itself so embedding types satisfy Element.
func (o *Object) Base() *Object { return o }

// Add attaches a command. Nil commands are ignored.
func (o *Object) Add(c command.Command) {
	if c != nil {
		o.commands = append(o.commands, c)
	}
}

// Remove detaches the first command equal to c.
func (o *Object) Remove(c command.Command) {
	for i, attached := range o.commands {
		if command.Equal(attached, c) {
			o.commands = append(o.commands[:i:i], o.commands[i+1:]...)
			return
		}
	}
}

// Commands returns the attached commands in insertion order.
func (o *Object) Commands() []command.Command {
	return append([]command.Command(nil), o.commands...)
}

// render writes the header line, the arranged commands and the blank line
// closing the block. The attached commands are not modified.
func (o *Object) render(extra ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s,%s,%s,\"%s\",%d,%d", o.Kind, o.Layer, o.Origin, o.Path, o.X, o.Y)
	for _, e := range extra {
		b.WriteByte(',')
		b.WriteString(e)
	}
	b.WriteByte('\n')
	b.WriteString(command.RenderAll(o.commands, ""))
	b.WriteByte('\n')
	return b.String()
}

// Sprite is a static image.
type Sprite struct {
	Object
}

// NewSprite creates a sprite without commands.
func NewSprite(path string, layer Layer, origin Origin, x, y int) *Sprite {
	return &Sprite{Object{Kind: "Sprite", Layer: layer, Origin: origin, Path: path, X: x, Y: y}}
}

func (s *Sprite) Render() string {
	return s.render()
}

// Animation cycles through numbered frame images.
type Animation struct {
	Object
	FrameCount int
	FrameDelay int
	LoopType   LoopType
}

// NewAnimation creates an animation without commands.
func NewAnimation(path string, layer Layer, origin Origin, frameCount, frameDelay int, loopType LoopType, x, y int) *Animation {
	return &Animation{
		Object:     Object{Kind: "Animation", Layer: layer, Origin: origin, Path: path, X: x, Y: y},
		FrameCount: frameCount,
		FrameDelay: frameDelay,
		LoopType:   loopType,
	}
}

func (a *Animation) Render() string {
	return a.render(strconv.Itoa(a.FrameCount), strconv.Itoa(a.FrameDelay), string(a.LoopType))
}
