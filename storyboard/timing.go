package storyboard

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// TimingPoint is one uninherited line of a difficulty's [TimingPoints]
// section.
type TimingPoint struct {
	Offset      int
	MsPerBeat   float64
	BPM         float64
	Meter       int
	SampleSet   int
	SampleIndex int
	Volume      int
	Inherited   bool
	Kiai        bool
}

// TimingTable holds timing points indexed in file order.
type TimingTable []TimingPoint

func (t TimingTable) Len() int { return len(t) }

func (t TimingTable) At(i int) (int, float64) { return t[i].Offset, t[i].MsPerBeat }

// Difficulty is the part of a .osu file the storyboard needs.
type Difficulty struct {
	Version string
	Timing  TimingTable
}

const timingFields = 8

// ReadDifficulty reads the difficulty name and the uninherited timing
// points. Reading stops at the [Colours] section.
func ReadDifficulty(r io.Reader) (Difficulty, error) {
	var d Difficulty
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	inTiming := false
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if strings.EqualFold(line, "[Colours]") {
				break
			}
			inTiming = strings.EqualFold(line, "[TimingPoints]")
			continue
		}
		if v, ok := strings.CutPrefix(line, "Version:"); ok {
			d.Version = strings.TrimSpace(v)
			continue
		}
		if !inTiming {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) != timingFields || strings.TrimSpace(parts[6]) != "1" {
			continue
		}
		tp, err := parseTimingPoint(parts)
		if err != nil {
			return Difficulty{}, fmt.Errorf("parse timing point on line %d: %w", n, err)
		}
		d.Timing = append(d.Timing, tp)
	}
	if err := sc.Err(); err != nil {
		return Difficulty{}, fmt.Errorf("read difficulty: %w", err)
	}
	return d, nil
}

func parseTimingPoint(parts []string) (TimingPoint, error) {
	ints := make([]int, len(parts))
	for _, i := range []int{0, 2, 3, 4, 5, 6, 7} {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			// Some editors write the offset as a float.
			f, ferr := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
			if i != 0 || ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return TimingPoint{}, fmt.Errorf("field %d: %w", i, err)
			}
			v = int(f)
		}
		ints[i] = v
	}
	ms, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return TimingPoint{}, fmt.Errorf("field 1: %w", err)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) {
		return TimingPoint{}, fmt.Errorf("field 1: beat length %v is not finite", ms)
	}
	if ms <= 0 {
		return TimingPoint{}, fmt.Errorf("field 1: beat length %v is not positive", ms)
	}

	return TimingPoint{
		Offset:      ints[0],
		MsPerBeat:   ms,
		BPM:         math.Round(60000/ms*1000) / 1000,
		Meter:       ints[2],
		SampleSet:   ints[3],
		SampleIndex: ints[4],
		Volume:      ints[5],
		Inherited:   ints[6] != 1,
		Kiai:        ints[7]&1 != 0,
	}, nil
}

// LoadDifficulty reads a .osu file from disk.
func LoadDifficulty(path string) (Difficulty, error) {
	f, err := os.Open(path)
	if err != nil {
		return Difficulty{}, fmt.Errorf("open difficulty: %w", err)
	}
	defer f.Close()

	d, err := ReadDifficulty(f)
	if err != nil {
		return Difficulty{}, fmt.Errorf("%s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":          path,
		"version":       d.Version,
		"timing_points": len(d.Timing),
	}).Debug("Loaded difficulty")
	return d, nil
}

// OSBName derives the storyboard file name from a difficulty file name:
// "Artist - Title (Mapper) [Insane].osu" becomes
// "Artist - Title (Mapper).osb".
func OSBName(difficultyFile, version string) string {
	name := strings.TrimSuffix(difficultyFile, ".osu")
	if version != "" {
		if trimmed, ok := strings.CutSuffix(name, " ["+version+"]"); ok {
			return trimmed + ".osb"
		}
	}
	if i := strings.LastIndex(name, " ["); i >= 0 && strings.HasSuffix(name, "]") {
		name = name[:i]
	}
	return name + ".osb"
}
