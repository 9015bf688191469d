package effect

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/storyboard"
)

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// Rainbow cycles through the hue circle once.
var Rainbow = GradientTable{
	{0.0, 0.0},
	{6.0, 0.04},   // Pink
	{87.0, 0.14},  // Red
	{88.0, 0.28},  // Orange
	{98.0, 0.42},  // Yellow
	{180.0, 0.56}, // Green
	{190.0, 0.70}, // Turquoise
	{320.0, 0.84}, // Blue
	{328.0, 0.91}, // Violet
	{360.0, 1.0},  // Pink wrap
}

// GetColor gets a colour at the specified point on the look-up table.
func (g GradientTable) GetColor(t, c, l float64) colorful.Color {
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := (((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)) + c1.Hue
			return colorful.Hcl(h, c, l)
		}
	}

	// At or past the last keypoint.
	return colorful.Hcl(g[len(g)-1].Hue, c, l)
}

// ErrEmptyGradient is returned when a Gradient has no table entries.
var ErrEmptyGradient = errors.New("gradient table is empty")

// Gradient tints a target element through a gradient table in Steps color
// commands spread evenly over the effect's span.
type Gradient struct {
	*Effect
	Table     GradientTable
	Steps     int
	Chroma    float64
	Luminance float64
	Easing    command.Easing
}

// Apply adds the color commands to target.
func (g *Gradient) Apply(sb *storyboard.Storyboard, target storyboard.Element) error {
	if len(g.Table) == 0 {
		return ErrEmptyGradient
	}
	steps := g.Steps
	if steps < 1 {
		steps = 1
	}

	f := sb.NewFactory().Type(command.KindColor).Easing(g.Easing)
	span := g.End - g.Start
	prev := g.Table.GetColor(0, g.Chroma, g.Luminance)
	for i := 1; i <= steps; i++ {
		next := g.Table.GetColor(float64(i)/float64(steps), g.Chroma, g.Luminance)
		from, to := command.RGBOf(prev), command.RGBOf(next)
		c, err := f.Start(g.Start + span*(i-1)/steps).
			End(g.Start + span*i/steps).
			StartColor(from[0], from[1], from[2]).
			EndColor(to[0], to[1], to[2]).
			Build()
		if err != nil {
			return fmt.Errorf("gradient step %d: %w", i, err)
		}
		target.Base().Add(c)
		prev = next
	}
	log.WithFields(log.Fields{"path": target.Base().Path, "steps": steps, "start": g.Start, "end": g.End}).Debug("Applied gradient effect")
	return nil
}
