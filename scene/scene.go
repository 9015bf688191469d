// Package scene reads storyboard scripts written in YAML and applies them to
// a storyboard.
//
//	sprites:
//	  - path: bg.jpg
//	    layer: Background
//	    commands:
//	      - {type: F, start: "00:01:000", duration: "4/1", from: [0], to: [1]}
//	    loops:
//	      - start: "00:05:000"
//	        count: 8
//	        commands:
//	          - {type: R, start: 0, duration: "1/1", from: [0], to: [3.14]}
//	scatter:
//	  - {path: star.png, start: 1000, end: 8000, count: 20, fade: "1/2"}
package scene

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/effect"
	"github.com/Okorin/osu-sbgen/storyboard"
)

// ErrNoPath is returned for a sprite without an image path.
var ErrNoPath = errors.New("sprite has no path")

// Command describes one factory call. Start and End accept anything
// command.Millis does; a Duration wins over End.
type Command struct {
	Type     string    `yaml:"type"`
	Easing   int       `yaml:"easing"`
	Start    any       `yaml:"start"`
	End      any       `yaml:"end"`
	Duration string    `yaml:"duration"`
	From     []float64 `yaml:"from"`
	To       []float64 `yaml:"to"`
	FromHex  string    `yaml:"fromHex"`
	ToHex    string    `yaml:"toHex"`
	Token    string    `yaml:"token"`
}

// Loop groups commands whose times are relative to the loop start.
type Loop struct {
	Start    any       `yaml:"start"`
	Count    int       `yaml:"count"`
	Commands []Command `yaml:"commands"`
}

// Animation turns a sprite into an animation.
type Animation struct {
	Frames int    `yaml:"frames"`
	Delay  int    `yaml:"delay"`
	Loop   string `yaml:"loop"`
}

// Sprite is an element and everything attached to it. Missing positions
// default to the centre of the playfield.
type Sprite struct {
	Path      string     `yaml:"path"`
	Layer     string     `yaml:"layer"`
	Origin    string     `yaml:"origin"`
	X         *int       `yaml:"x"`
	Y         *int       `yaml:"y"`
	Animation *Animation `yaml:"animation"`
	Commands  []Command  `yaml:"commands"`
	Loops     []Loop     `yaml:"loops"`
	Gradient  *Gradient  `yaml:"gradient"`
}

// Gradient tints a sprite through a hue table, the rainbow by default.
// Without chroma and luminance a light pastel is used.
type Gradient struct {
	Start     any                  `yaml:"start"`
	End       any                  `yaml:"end"`
	Steps     int                  `yaml:"steps"`
	Chroma    float64              `yaml:"chroma"`
	Luminance float64              `yaml:"luminance"`
	Easing    int                  `yaml:"easing"`
	Table     effect.GradientTable `yaml:"table"`
}

// Scatter configures an effect.Scatter. A zero seed uses the global source.
type Scatter struct {
	Path     string  `yaml:"path"`
	Layer    string  `yaml:"layer"`
	Start    any     `yaml:"start"`
	End      any     `yaml:"end"`
	Count    int     `yaml:"count"`
	Fade     string  `yaml:"fade"`
	MinScale float64 `yaml:"minScale"`
	MaxScale float64 `yaml:"maxScale"`
	Seed     int64   `yaml:"seed"`
}

// Scene is a whole script.
type Scene struct {
	Sprites []Sprite  `yaml:"sprites"`
	Scatter []Scatter `yaml:"scatter"`
}

// Parse decodes a scene from r.
func Parse(r io.Reader) (*Scene, error) {
	s := new(Scene)
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(s); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return s, nil
}

// Load reads the scene at path.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"path": path, "sprites": len(s.Sprites), "scatter": len(s.Scatter)}).Debug("Loaded scene")
	return s, nil
}

// Apply creates the scene's elements on sb. Elements created before an
// error stay on sb.
func (s *Scene) Apply(sb *storyboard.Storyboard) error {
	for i, sp := range s.Sprites {
		if err := sp.apply(sb); err != nil {
			return fmt.Errorf("sprite %d (%s): %w", i, sp.Path, err)
		}
	}
	for i, sc := range s.Scatter {
		if err := sc.apply(sb); err != nil {
			return fmt.Errorf("scatter %d (%s): %w", i, sc.Path, err)
		}
	}
	return nil
}

func (sp Sprite) apply(sb *storyboard.Storyboard) error {
	if sp.Path == "" {
		return ErrNoPath
	}

	var cmds []command.Command
	for i, c := range sp.Commands {
		built, err := c.build(sb.NewFactory())
		if err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
		cmds = append(cmds, built)
	}
	for i, l := range sp.Loops {
		loop := command.NewLoop(l.Start, l.Count)
		for j, c := range l.Commands {
			built, err := c.build(sb.NewFactory())
			if err != nil {
				return fmt.Errorf("loop %d command %d: %w", i, j, err)
			}
			loop.Add(built)
		}
		cmds = append(cmds, loop)
	}

	x, y := storyboard.DefaultX, storyboard.DefaultY
	if sp.X != nil {
		x = *sp.X
	}
	if sp.Y != nil {
		y = *sp.Y
	}
	layer := storyboard.Layer(orDefault(sp.Layer, string(storyboard.LayerBackground)))
	origin := storyboard.Origin(orDefault(sp.Origin, string(storyboard.OriginCentre)))

	var e storyboard.Element
	if a := sp.Animation; a != nil {
		frames, delay := a.Frames, a.Delay
		if frames == 0 {
			frames = storyboard.DefaultFrameCount
		}
		if delay == 0 {
			delay = storyboard.DefaultFrameDelay
		}
		loopType := storyboard.LoopType(orDefault(a.Loop, string(storyboard.LoopForever)))
		e = sb.NewAnimation(sp.Path, layer, origin, frames, delay, loopType, x, y)
	} else {
		e = sb.NewSprite(sp.Path, layer, origin, x, y)
	}
	for _, c := range cmds {
		e.Base().Add(c)
	}
	if g := sp.Gradient; g != nil {
		table := g.Table
		if len(table) == 0 {
			table = effect.Rainbow
		}
		chroma, luminance := g.Chroma, g.Luminance
		if chroma == 0 && luminance == 0 {
			chroma, luminance = 0.5, 0.6
		}
		ge := &effect.Gradient{
			Effect:    effect.New(g.Start, g.End, nil),
			Table:     table,
			Steps:     g.Steps,
			Chroma:    chroma,
			Luminance: luminance,
			Easing:    command.Easing(g.Easing),
		}
		if err := ge.Apply(sb, e); err != nil {
			return err
		}
	}
	return nil
}

func (c Command) build(f command.Factory) (command.Command, error) {
	f = f.Type(command.Kind(c.Type)).
		Easing(command.Easing(c.Easing)).
		Start(c.Start)
	if c.Duration != "" {
		f = f.Duration(c.Duration)
	} else if c.End != nil {
		f = f.End(c.End)
	}

	switch {
	case c.FromHex != "":
		f = f.StartHex(c.FromHex)
	case c.From != nil:
		f = f.StartParams(c.From...)
	}
	switch {
	case c.ToHex != "":
		f = f.EndHex(c.ToHex)
	case c.To != nil:
		f = f.EndParams(c.To...)
	}
	if c.Token != "" {
		f = f.Token(c.Token)
	}
	return f.Build()
}

func (sc Scatter) apply(sb *storyboard.Storyboard) error {
	var rng *rand.Rand
	if sc.Seed != 0 {
		rng = rand.New(rand.NewSource(sc.Seed))
	}
	e := &effect.Scatter{
		Effect:   effect.New(sc.Start, sc.End, rng),
		Path:     sc.Path,
		Layer:    storyboard.Layer(sc.Layer),
		Count:    sc.Count,
		Fade:     sc.Fade,
		MinScale: sc.MinScale,
		MaxScale: sc.MaxScale,
	}
	return e.Apply(sb)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
