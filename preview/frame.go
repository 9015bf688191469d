// Package preview evaluates a storyboard at a point in song time, the way
// the player would interpolate its commands.
package preview

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/storyboard"
)

// State is the look of one element at an instant.
type State struct {
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Opacity  float64        `json:"opacity"`
	ScaleX   float64        `json:"scaleX"`
	ScaleY   float64        `json:"scaleY"`
	Rotation float64        `json:"rotation"`
	Color    colorful.Color `json:"-"`
	Hex      string         `json:"color"`
	FlipH    bool           `json:"flipH"`
	FlipV    bool           `json:"flipV"`
	Additive bool           `json:"additive"`
}

// Visible reports whether the element draws anything.
func (s State) Visible() bool {
	return s.Opacity > 0 && s.ScaleX > 0 && s.ScaleY > 0
}

// ElementState pairs an element with its state.
type ElementState struct {
	Path  string           `json:"path"`
	Layer storyboard.Layer `json:"layer"`
	State State            `json:"state"`
}

// Frame is the state of every element of a storyboard at TimeMs.
type Frame struct {
	TimeMs   int            `json:"time"`
	Elements []ElementState `json:"elements"`
}

// CalculateFrame samples every element of sb at runtimeMs.
func CalculateFrame(sb *storyboard.Storyboard, runtimeMs int) *Frame {
	f := &Frame{TimeMs: runtimeMs}
	for _, e := range sb.Elements() {
		o := e.Base()
		f.Elements = append(f.Elements, ElementState{
			Path:  o.Path,
			Layer: o.Layer,
			State: Sample(o, runtimeMs),
		})
	}
	return f
}

// Visible returns the elements that draw anything in this frame.
func (f *Frame) Visible() []ElementState {
	var out []ElementState
	for _, e := range f.Elements {
		if e.State.Visible() {
			out = append(out, e)
		}
	}
	return out
}

// timed is a command placed on the song timeline; loop children are
// shifted by the start of their iteration.
type timed struct {
	cmd    command.Command
	offset int
}

func (t timed) start() int { return t.cmd.Start() + t.offset }
func (t timed) end() int   { return t.cmd.End() + t.offset }

// progress is the eased progress of the command at ms, 0 before it starts
// and 1 after it ends.
func (t timed) progress(ms int) float64 {
	switch {
	case ms <= t.start():
		return 0
	case ms >= t.end():
		return 1
	}
	p := float64(ms-t.start()) / float64(t.end()-t.start())
	return t.cmd.Easing().Func()(p)
}

// timeline flattens the commands the player would see at ms. Of each loop
// only the iteration running at ms and the one before it are expanded;
// earlier iterations repeat the same commands and never win in active.
func timeline(o *storyboard.Object, ms int) []timed {
	var out []timed
	for _, c := range command.Arrange(o.Commands()) {
		l, ok := c.(*command.Loop)
		if !ok {
			out = append(out, timed{cmd: c})
			continue
		}
		if l.LoopCount <= 0 {
			continue
		}
		length := l.IterationLength()
		children := command.Arrange(l.Children())
		current := 0
		if length > 0 && ms > l.Start() {
			current = min((ms-l.Start())/length, l.LoopCount-1)
		}
		for i := max(current-1, 0); i <= current; i++ {
			for _, child := range children {
				out = append(out, timed{cmd: child, offset: l.Start() + i*length})
			}
		}
	}
	return out
}

// active picks the command of the given kinds that controls a property at
// ms: the latest one already started, or the first one when none has.
func active(tl []timed, ms int, kinds ...command.Kind) (timed, bool) {
	var (
		best, first       timed
		haveBest, haveAny bool
	)
	for _, t := range tl {
		if !hasKind(kinds, t.cmd.Kind()) {
			continue
		}
		if !haveAny || t.start() < first.start() {
			first, haveAny = t, true
		}
		if t.start() <= ms && (!haveBest || t.start() >= best.start()) {
			best, haveBest = t, true
		}
	}
	if haveBest {
		return best, true
	}
	return first, haveAny
}

func hasKind(kinds []command.Kind, k command.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

func lerp(from, to, p float64) float64 {
	return from + (to-from)*p
}

// Sample evaluates the state of o at ms. Properties without commands keep
// the element's defaults: its position, full opacity, unit scale, no
// rotation and white.
func Sample(o *storyboard.Object, ms int) State {
	s := State{
		X:       float64(o.X),
		Y:       float64(o.Y),
		Opacity: 1,
		ScaleX:  1,
		ScaleY:  1,
		Color:   colorful.Color{R: 1, G: 1, B: 1},
	}
	tl := timeline(o, ms)

	if t, ok := active(tl, ms, command.KindFade); ok {
		c := t.cmd.(*command.Fade)
		s.Opacity = lerp(c.From, c.To, t.progress(ms))
	}
	if t, ok := active(tl, ms, command.KindMove, command.KindMoveX); ok {
		p := t.progress(ms)
		switch c := t.cmd.(type) {
		case *command.Move:
			s.X = lerp(float64(c.FromX), float64(c.ToX), p)
		case *command.MoveX:
			s.X = lerp(float64(c.From), float64(c.To), p)
		}
	}
	if t, ok := active(tl, ms, command.KindMove, command.KindMoveY); ok {
		p := t.progress(ms)
		switch c := t.cmd.(type) {
		case *command.Move:
			s.Y = lerp(float64(c.FromY), float64(c.ToY), p)
		case *command.MoveY:
			s.Y = lerp(float64(c.From), float64(c.To), p)
		}
	}
	if t, ok := active(tl, ms, command.KindScale, command.KindVectorScale); ok {
		p := t.progress(ms)
		switch c := t.cmd.(type) {
		case *command.Scale:
			s.ScaleX = lerp(c.From, c.To, p)
			s.ScaleY = s.ScaleX
		case *command.VectorScale:
			s.ScaleX = lerp(c.FromX, c.ToX, p)
			s.ScaleY = lerp(c.FromY, c.ToY, p)
		}
	}
	if t, ok := active(tl, ms, command.KindRotate); ok {
		c := t.cmd.(*command.Rotate)
		s.Rotation = lerp(c.From, c.To, t.progress(ms))
	}
	if t, ok := active(tl, ms, command.KindColor); ok {
		c := t.cmd.(*command.Color)
		s.Color = c.From.Colorful().BlendRgb(c.To.Colorful(), t.progress(ms))
	}
	for _, t := range tl {
		p, ok := t.cmd.(*command.Parameter)
		if !ok || !parameterOn(t, ms) {
			continue
		}
		switch p.Token {
		case "H":
			s.FlipH = true
		case "V":
			s.FlipV = true
		case "A":
			s.Additive = true
		}
	}
	s.Hex = s.Color.Clamped().Hex()
	return s
}

// parameterOn reports whether a parameter applies at ms. A parameter with
// equal start and end stays on for the rest of the storyboard.
func parameterOn(t timed, ms int) bool {
	if t.start() == t.end() {
		return ms >= t.start()
	}
	return ms >= t.start() && ms <= t.end()
}
