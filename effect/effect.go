// Package effect places groups of sprites that share a time span.
package effect

import (
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/storyboard"
	"github.com/Okorin/osu-sbgen/util"
)

// Playfield bounds in storyboard pixels, including the widescreen margin.
const (
	PlayfieldMinX = -107
	PlayfieldMaxX = 747
	PlayfieldMinY = 0
	PlayfieldMaxY = 480
)

// Effect is the time span sprites are placed in.
type Effect struct {
	Start int
	End   int

	rng *rand.Rand
}

// New creates an effect between start and end; see command.Millis for the
// accepted forms. A nil rng uses the global source.
func New(start, end any, rng *rand.Rand) *Effect {
	return &Effect{Start: command.Millis(start), End: command.Millis(end), rng: rng}
}

// RandomPlayfieldPoint picks a point anywhere on the widescreen playfield.
func (e *Effect) RandomPlayfieldPoint() (x, y int) {
	return util.RandomRange(e.rng, PlayfieldMinX, PlayfieldMaxX), util.RandomRange(e.rng, PlayfieldMinY, PlayfieldMaxY)
}

// Scatter fades Count copies of an image in at random points when the
// effect starts and fades them out when it ends.
type Scatter struct {
	*Effect
	Path     string
	Layer    storyboard.Layer
	Count    int
	Fade     string  // beat fraction, e.g. "1/2"
	MinScale float64 // scale picked in [MinScale, MaxScale)
	MaxScale float64
}

// Apply creates the sprites on sb.
func (s *Scatter) Apply(sb *storyboard.Storyboard) error {
	// Without a valid fraction the fades are instant.
	fade := sb.NewFactory().Type(command.KindFade)
	fadeIn := fade.Start(s.Start).End(s.Start).Duration(s.Fade).StartOpacity(0).EndOpacity(1)
	fadeOut := fade.Start(s.End).End(s.End).Duration(s.Fade).StartOpacity(1).EndOpacity(0)

	layer := s.Layer
	if layer == "" {
		layer = storyboard.LayerForeground
	}
	for i := 0; i < s.Count; i++ {
		in, err := fadeIn.Build()
		if err != nil {
			return fmt.Errorf("scatter fade in: %w", err)
		}
		out, err := fadeOut.Build()
		if err != nil {
			return fmt.Errorf("scatter fade out: %w", err)
		}

		x, y := s.RandomPlayfieldPoint()
		sprite := sb.NewSprite(s.Path, layer, storyboard.OriginCentre, x, y)
		sprite.Add(in)
		sprite.Add(out)
		if s.MaxScale > 0 {
			scale := util.RandomFloat(s.rng, s.MinScale, s.MaxScale)
			sprite.Add(command.NewScale(command.EasingLinear, s.Start, s.End, scale, scale))
		}
	}
	log.WithFields(log.Fields{"path": s.Path, "count": s.Count, "start": s.Start, "end": s.End}).Debug("Applied scatter effect")
	return nil
}
