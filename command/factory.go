package command

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// TimingSource is the read-only timing table a Factory resolves beat
// durations against. Entries are visited in index order.
type TimingSource interface {
	Len() int
	At(i int) (offset int, msPerBeat float64)
}

type beats struct {
	num, den decimal.Decimal
}

// Factory accumulates the parts of a command. It is a value: every setter
// returns an updated copy, so a configured Factory can be reused as a
// template.
//
//	f := command.NewFactory(timing).
//		Type(command.KindMove).
//		StartCoord(300, 200).
//		EndCoord(320, 240).
//		Start("00:13:281").
//		Duration("2/1")
//	move, err := f.Build()
//	again, err := f.Start("00:14:690").Build()
type Factory struct {
	timing TimingSource

	kind        Kind
	easing      *Easing
	start       *int
	end         *int
	duration    *beats
	startParams []float64
	endParams   []float64
	token       *string
}

// NewFactory creates an empty factory bound to a timing table.
func NewFactory(timing TimingSource) Factory {
	return Factory{timing: timing}
}

// Reset returns an empty factory bound to the same timing table.
func (f Factory) Reset() Factory {
	return NewFactory(f.timing)
}

func (f Factory) Type(k Kind) Factory {
	f.kind = Kind(strings.ToUpper(string(k)))
	return f
}

func (f Factory) Easing(e Easing) Factory {
	f.easing = &e
	return f
}

// Start sets the start time; see Millis for accepted forms.
func (f Factory) Start(t any) Factory {
	ms := Millis(t)
	f.start = &ms
	return f
}

// End sets an explicit end time and discards any pending duration.
func (f Factory) End(t any) Factory {
	ms := Millis(t)
	f.end = &ms
	f.duration = nil
	return f
}

// Duration sets the length as a fraction of a beat, e.g. "1/2" or "2/1",
// and discards any explicit end. Anything that is not a fraction with a
// non-zero denominator leaves the factory unchanged.
func (f Factory) Duration(fraction string) Factory {
	parts := strings.Split(fraction, "/")
	if len(parts) != 2 {
		return f
	}
	num, err := decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return f
	}
	den, err := decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil || den.IsZero() {
		return f
	}
	f.duration = &beats{num: num, den: den}
	f.end = nil
	return f
}

// Beats is Duration with numeric numerator and denominator.
func (f Factory) Beats(num, den float64) Factory {
	if den == 0 || !finite(num) || !finite(den) {
		return f
	}
	f.duration = &beats{num: decimal.NewFromFloat(num), den: decimal.NewFromFloat(den)}
	f.end = nil
	return f
}

// StartParams sets the raw start tuple.
func (f Factory) StartParams(vs ...float64) Factory {
	f.startParams = append([]float64(nil), vs...)
	return f
}

// EndParams sets the raw end tuple. Without it the end tuple equals the
// start tuple.
func (f Factory) EndParams(vs ...float64) Factory {
	f.endParams = append([]float64(nil), vs...)
	return f
}

func (f Factory) StartX(x float64) Factory { return f.StartParams(float64(int(x))) }
func (f Factory) EndX(x float64) Factory   { return f.EndParams(float64(int(x))) }
func (f Factory) StartY(y float64) Factory { return f.StartX(y) }
func (f Factory) EndY(y float64) Factory   { return f.EndX(y) }

func (f Factory) StartCoord(x, y float64) Factory {
	return f.StartParams(float64(int(x)), float64(int(y)))
}

func (f Factory) EndCoord(x, y float64) Factory {
	return f.EndParams(float64(int(x)), float64(int(y)))
}

func (f Factory) StartScale(s float64) Factory { return f.StartParams(ClampScale(s)) }
func (f Factory) EndScale(s float64) Factory   { return f.EndParams(ClampScale(s)) }

func (f Factory) StartVector(x, y float64) Factory {
	return f.StartParams(ClampScale(x), ClampScale(y))
}

func (f Factory) EndVector(x, y float64) Factory {
	return f.EndParams(ClampScale(x), ClampScale(y))
}

func (f Factory) StartRotate(r float64) Factory { return f.StartParams(r) }
func (f Factory) EndRotate(r float64) Factory   { return f.EndParams(r) }

func (f Factory) StartOpacity(o float64) Factory { return f.StartParams(ClampOpacity(o)) }
func (f Factory) EndOpacity(o float64) Factory   { return f.EndParams(ClampOpacity(o)) }

func (f Factory) StartColor(r, g, b int) Factory {
	return f.StartParams(float64(r), float64(g), float64(b))
}

func (f Factory) EndColor(r, g, b int) Factory {
	return f.EndParams(float64(r), float64(g), float64(b))
}

func (f Factory) StartHex(hex string) Factory {
	c := HexToRGB(hex)
	return f.StartColor(c[0], c[1], c[2])
}

func (f Factory) EndHex(hex string) Factory {
	c := HexToRGB(hex)
	return f.EndColor(c[0], c[1], c[2])
}

// Token sets the flag of a parameter command.
func (f Factory) Token(t string) Factory {
	f.token = &t
	return f
}

// ResolveEndTime returns the end time the factory would build with. A beat
// duration is measured with the ms per beat of the first timing point, in
// table order, whose offset is not after the start; when there is none the
// table's first entry is used.
func (f Factory) ResolveEndTime() int {
	if f.duration != nil {
		var start int
		if f.start != nil {
			start = *f.start
		}
		msPerBeat := decimal.NewFromFloat(f.msPerBeat(start))
		end := decimal.NewFromInt(int64(start)).
			Add(msPerBeat.Mul(f.duration.num).Div(f.duration.den))
		return int(end.RoundBank(0).IntPart())
	}
	if f.end != nil {
		return *f.end
	}
	return 0
}

func (f Factory) msPerBeat(start int) float64 {
	if f.timing == nil || f.timing.Len() == 0 {
		return 0
	}
	for i := 0; i < f.timing.Len(); i++ {
		if offset, ms := f.timing.At(i); offset <= start {
			return orZero(ms)
		}
	}
	_, ms := f.timing.At(0)
	return orZero(ms)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// orZero maps NaN and infinities to 0.
func orZero(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return v
}

// draft is the resolved factory state handed to a builder.
type draft struct {
	easing   Easing
	start    int
	end      int
	from, to []float64
	token    *string
}

type builder func(d draft) (Command, bool)

var builders = map[Kind]builder{
	KindFade: single(func(d draft, from, to float64) Command {
		return NewFade(d.easing, d.start, d.end, from, to)
	}),
	KindMoveX: single(func(d draft, from, to float64) Command {
		return NewMoveX(d.easing, d.start, d.end, from, to)
	}),
	KindScale: single(func(d draft, from, to float64) Command {
		return NewScale(d.easing, d.start, d.end, from, to)
	}),
	KindRotate: single(func(d draft, from, to float64) Command {
		return NewRotate(d.easing, d.start, d.end, from, to)
	}),
	KindMove: pair(func(d draft, fx, fy, tx, ty float64) Command {
		return NewMove(d.easing, d.start, d.end, fx, fy, tx, ty)
	}),
	KindVectorScale: pair(func(d draft, fx, fy, tx, ty float64) Command {
		return NewVectorScale(d.easing, d.start, d.end, fx, fy, tx, ty)
	}),
	KindMoveY:     buildMoveY,
	KindColor:     buildColor,
	KindParameter: buildParameter,
}

// single builds kinds with one value per side; the first element of a one
// or two element tuple is used, so an x/y tuple feeds MX directly.
func single(ctor func(d draft, from, to float64) Command) builder {
	return func(d draft) (Command, bool) {
		if !between(len(d.from), 1, 2) || !between(len(d.to), 1, 2) {
			return nil, false
		}
		return ctor(d, d.from[0], d.to[0]), true
	}
}

func pair(ctor func(d draft, fx, fy, tx, ty float64) Command) builder {
	return func(d draft) (Command, bool) {
		if len(d.from) != 2 || len(d.to) != 2 {
			return nil, false
		}
		return ctor(d, d.from[0], d.from[1], d.to[0], d.to[1]), true
	}
}

// buildMoveY takes the last element of a one or two element tuple, so an
// x/y tuple feeds MY with its y.
func buildMoveY(d draft) (Command, bool) {
	if d.from == nil || d.to == nil {
		return nil, false
	}
	return NewMoveY(d.easing, d.start, d.end, lastOfPair(d.from), lastOfPair(d.to)), true
}

func lastOfPair(vs []float64) float64 {
	switch len(vs) {
	case 1:
		return vs[0]
	case 2:
		return vs[1]
	}
	return 0
}

func buildColor(d draft) (Command, bool) {
	if len(d.from) != 3 || len(d.to) != 3 {
		return nil, false
	}
	from := RGB{int(d.from[0]), int(d.from[1]), int(d.from[2])}
	to := RGB{int(d.to[0]), int(d.to[1]), int(d.to[2])}
	return NewColor(d.easing, d.start, d.end, from, to), true
}

func buildParameter(d draft) (Command, bool) {
	if d.token == nil {
		return nil, false
	}
	return NewParameter(d.easing, d.start, d.end, *d.token), true
}

func between(n, lo, hi int) bool {
	return n >= lo && n <= hi
}

// Build resolves the end time, applies defaults (easing 0, start 0, end
// tuple = start tuple) and constructs the command. It fails with a
// *ConstructionError when the kind is not buildable or the tuples do not
// match it.
func (f Factory) Build() (Command, error) {
	d := draft{
		end:   f.ResolveEndTime(),
		from:  f.startParams,
		to:    f.endParams,
		token: f.token,
	}
	if f.easing != nil {
		d.easing = *f.easing
	}
	if f.start != nil {
		d.start = *f.start
	}
	if d.to == nil {
		d.to = d.from
	}

	fail := func(reason string) error {
		return &ConstructionError{
			Kind:        f.kind,
			Easing:      d.easing,
			Start:       d.start,
			End:         d.end,
			StartParams: append([]float64(nil), d.from...),
			EndParams:   append([]float64(nil), d.to...),
			Reason:      reason,
		}
	}

	if !f.kind.Valid() {
		return nil, fail("unknown command type")
	}
	build, ok := builders[f.kind]
	if !ok {
		return nil, fail("command type is not built by the factory")
	}
	c, ok := build(d)
	if !ok {
		return nil, fail("parameters do not match the command type")
	}
	return c, nil
}
