// Package command models timed storyboard commands and renders them in the
// osu! storyboard text format.
package command

import (
	"strconv"
	"strings"
)

// Command is a timed animation directive attached to one visual element.
// The set of implementations is closed to this package.
type Command interface {
	Kind() Kind
	Easing() Easing
	Start() int
	End() int
	// Render returns the command line including its leading space but
	// without a trailing newline.
	Render() string

	isCommand()
}

// Key identifies commands for deduplication. Parameter values are not
// part of it.
type Key struct {
	Kind  Kind
	Start int
	End   int
}

// KeyOf returns the equality key of c.
func KeyOf(c Command) Key {
	return Key{Kind: c.Kind(), Start: c.Start(), End: c.End()}
}

// Equal reports whether a and b share kind, start and end.
func Equal(a, b Command) bool {
	return KeyOf(a) == KeyOf(b)
}

// Less orders commands by start time only.
func Less(a, b Command) bool {
	return a.Start() < b.Start()
}

type header struct {
	kind   Kind
	easing Easing
	start  int
	end    int
}

func newHeader(kind Kind, easing Easing, start, end any) header {
	h := header{kind: kind, easing: easing, start: Millis(start), end: Millis(end)}
	if h.start > h.end {
		h.start, h.end = h.end, h.start
	}
	return h
}

func (h header) Kind() Kind     { return h.kind }
func (h header) Easing() Easing { return h.easing }
func (h header) Start() int     { return h.start }
func (h header) End() int       { return h.end }
func (header) isCommand()       {}

func (h header) render(params ...string) string {
	var b strings.Builder
	b.WriteByte(' ')
	b.WriteString(string(h.kind))
	for _, field := range []string{h.easing.String(), strconv.Itoa(h.start), strconv.Itoa(h.end)} {
		b.WriteByte(',')
		b.WriteString(field)
	}
	for _, p := range params {
		b.WriteByte(',')
		b.WriteString(p)
	}
	return b.String()
}

// formatFloat writes f in its shortest exact form, always with a decimal
// point so whole numbers read as "1.0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func formatInts(vs ...int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func formatFloats(vs ...float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}

// Fade changes opacity.
type Fade struct {
	header
	From, To float64
}

// NewFade creates a fade command, clamping both opacities to [0, 1].
func NewFade(easing Easing, start, end any, from, to float64) *Fade {
	return &Fade{
		header: newHeader(KindFade, easing, start, end),
		From:   ClampOpacity(from),
		To:     ClampOpacity(to),
	}
}

func (f *Fade) Render() string { return f.render(formatFloats(f.From, f.To)...) }

// Move moves the element on both axes.
type Move struct {
	header
	FromX, FromY int
	ToX, ToY     int
}

// NewMove creates a move command. Positions are truncated to whole pixels.
func NewMove(easing Easing, start, end any, fromX, fromY, toX, toY float64) *Move {
	return &Move{
		header: newHeader(KindMove, easing, start, end),
		FromX:  int(fromX),
		FromY:  int(fromY),
		ToX:    int(toX),
		ToY:    int(toY),
	}
}

func (m *Move) Render() string { return m.render(formatInts(m.FromX, m.FromY, m.ToX, m.ToY)...) }

// MoveX moves the element horizontally.
type MoveX struct {
	header
	From, To int
}

func NewMoveX(easing Easing, start, end any, from, to float64) *MoveX {
	return &MoveX{header: newHeader(KindMoveX, easing, start, end), From: int(from), To: int(to)}
}

func (m *MoveX) Render() string { return m.render(formatInts(m.From, m.To)...) }

// MoveY moves the element vertically.
type MoveY struct {
	header
	From, To int
}

func NewMoveY(easing Easing, start, end any, from, to float64) *MoveY {
	return &MoveY{header: newHeader(KindMoveY, easing, start, end), From: int(from), To: int(to)}
}

func (m *MoveY) Render() string { return m.render(formatInts(m.From, m.To)...) }

// Scale scales the element uniformly.
type Scale struct {
	header
	From, To float64
}

// NewScale creates a scale command; negative factors become 0.
func NewScale(easing Easing, start, end any, from, to float64) *Scale {
	return &Scale{
		header: newHeader(KindScale, easing, start, end),
		From:   ClampScale(from),
		To:     ClampScale(to),
	}
}

func (s *Scale) Render() string { return s.render(formatFloats(s.From, s.To)...) }

// VectorScale scales each axis separately.
type VectorScale struct {
	header
	FromX, FromY float64
	ToX, ToY     float64
}

func NewVectorScale(easing Easing, start, end any, fromX, fromY, toX, toY float64) *VectorScale {
	return &VectorScale{
		header: newHeader(KindVectorScale, easing, start, end),
		FromX:  ClampScale(fromX),
		FromY:  ClampScale(fromY),
		ToX:    ClampScale(toX),
		ToY:    ClampScale(toY),
	}
}

func (v *VectorScale) Render() string {
	return v.render(formatFloats(v.FromX, v.FromY, v.ToX, v.ToY)...)
}

// Rotate rotates the element, angles in radians.
type Rotate struct {
	header
	From, To float64
}

func NewRotate(easing Easing, start, end any, from, to float64) *Rotate {
	return &Rotate{header: newHeader(KindRotate, easing, start, end), From: from, To: to}
}

func (r *Rotate) Render() string { return r.render(formatFloats(r.From, r.To)...) }

// Parameter toggles a blending or flip flag for the duration.
type Parameter struct {
	header
	Token string
}

// NewParameter creates a parameter command. The token is upper-cased
// ("h", "v", "a").
func NewParameter(easing Easing, start, end any, token string) *Parameter {
	return &Parameter{header: newHeader(KindParameter, easing, start, end), Token: strings.ToUpper(token)}
}

func (p *Parameter) Render() string { return p.render(p.Token) }

// ClampOpacity limits an opacity to [0, 1].
func ClampOpacity(o float64) float64 {
	if o > 1.0 {
		return 1.0
	}
	if o < 0.0 {
		return 0.0
	}
	return o
}

// ClampScale limits a scale factor to >= 0.
func ClampScale(s float64) float64 {
	if s < 0.0 {
		return 0.0
	}
	return s
}
