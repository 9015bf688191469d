// Package storyboard holds the visual elements of an osu! storyboard and
// writes them in the .osb text format.
package storyboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Okorin/osu-sbgen/command"
)

// Storyboard owns the elements of one beatmap set's storyboard and the
// timing table of the difficulty it was created from.
type Storyboard struct {
	songFolder string
	sbFolder   string
	osbName    string
	difficulty Difficulty
	elements   []Element
}

// New loads the timing of difficultyFile inside songFolder. Element paths
// are prefixed with sbFolder, relative to the song folder.
func New(songFolder, difficultyFile, sbFolder string) (*Storyboard, error) {
	d, err := LoadDifficulty(filepath.Join(songFolder, difficultyFile))
	if err != nil {
		return nil, err
	}
	sb := NewFromDifficulty(d, sbFolder)
	sb.songFolder = songFolder
	sb.osbName = OSBName(difficultyFile, d.Version)
	return sb, nil
}

// NewFromDifficulty creates a storyboard for an already parsed difficulty.
func NewFromDifficulty(d Difficulty, sbFolder string) *Storyboard {
	return &Storyboard{difficulty: d, sbFolder: sbFolder}
}

// Difficulty is the parsed difficulty the storyboard was created for.
func (sb *Storyboard) Difficulty() Difficulty { return sb.difficulty }

func (sb *Storyboard) Timing() TimingTable { return sb.difficulty.Timing }

// OSBName is the file name the storyboard is saved under.
func (sb *Storyboard) OSBName() string { return sb.osbName }

// NewFactory returns an empty command factory bound to the storyboard's
// timing.
func (sb *Storyboard) NewFactory() command.Factory {
	return command.NewFactory(sb.Timing())
}

func (sb *Storyboard) elementPath(p string) string {
	if sb.sbFolder == "" {
		return p
	}
	return path.Join(filepath.ToSlash(sb.sbFolder), p)
}

// NewSprite creates a sprite and adds it to the storyboard.
func (sb *Storyboard) NewSprite(p string, layer Layer, origin Origin, x, y int) *Sprite {
	s := NewSprite(sb.elementPath(p), layer, origin, x, y)
	sb.Add(s)
	return s
}

// NewAnimation creates an animation and adds it to the storyboard.
func (sb *Storyboard) NewAnimation(p string, layer Layer, origin Origin, frameCount, frameDelay int, loopType LoopType, x, y int) *Animation {
	a := NewAnimation(sb.elementPath(p), layer, origin, frameCount, frameDelay, loopType, x, y)
	sb.Add(a)
	return a
}

// Add appends an element; elements are written in the order added.
func (sb *Storyboard) Add(e Element) {
	if e != nil {
		sb.elements = append(sb.elements, e)
	}
}

// Elements returns the elements in the order added.
func (sb *Storyboard) Elements() []Element {
	return append([]Element(nil), sb.elements...)
}

// Render concatenates the blocks of all elements.
func (sb *Storyboard) Render() string {
	var b strings.Builder
	for _, e := range sb.elements {
		b.WriteString(e.Render())
	}
	return b.String()
}

// WriteTo renders the whole storyboard and hands it to w in one write.
func (sb *Storyboard) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, sb.Render())
	return int64(n), err
}

// RenderOSB renders a complete [Events] section, grouping elements under
// the comment header of their layer.
func (sb *Storyboard) RenderOSB() string {
	byLayer := make(map[Layer][]Element, len(Layers))
	for _, e := range sb.elements {
		l := e.Base().Layer
		byLayer[l] = append(byLayer[l], e)
	}

	var b strings.Builder
	b.WriteString("[Events]\n")
	b.WriteString("//Background and Video events\n")
	for i, l := range Layers {
		fmt.Fprintf(&b, "//Storyboard Layer %d (%s)\n", i, l)
		for _, e := range byLayer[l] {
			b.WriteString(e.Render())
		}
		delete(byLayer, l)
	}
	for l, elements := range byLayer {
		log.WithFields(log.Fields{"layer": l, "elements": len(elements)}).Warn("Skipping elements on unknown layer")
	}
	b.WriteString("//Storyboard Sound Samples\n")
	return b.String()
}

// WriteOSB writes RenderOSB to w in one write.
func (sb *Storyboard) WriteOSB(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, sb.RenderOSB())
	return int64(n), err
}

// SaveOSB writes the .osb file into the song folder, or to out when it is
// not empty, and returns the path written.
func (sb *Storyboard) SaveOSB(out string) (p string, err error) {
	p = out
	if p == "" {
		if sb.osbName == "" {
			return "", errors.New("save storyboard: no output path and no difficulty file name")
		}
		p = filepath.Join(sb.songFolder, sb.osbName)
	}

	f, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("create storyboard: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close storyboard: %w", cerr)
		}
	}()

	if _, err := sb.WriteOSB(f); err != nil {
		return "", fmt.Errorf("write storyboard: %w", err)
	}
	log.WithFields(log.Fields{"path": p, "elements": len(sb.elements)}).Info("Saved storyboard")
	return p, nil
}
