package storyboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Okorin/osu-sbgen/command"
)

const difficultyFixture = `osu file format v14

[General]
AudioFilename: audio.mp3

[Metadata]
Title:I Want You To Hold Me
Version:Insane

[TimingPoints]
264,352.941176470588,4,2,1,60,1,0
13281,400,4,2,1,70,1,1
14000,-100,4,2,1,70,0,0
bad line

[Colours]
Combo1 : 255,0,0
99999,1,4,2,1,60,1,0
`

func TestReadDifficulty(t *testing.T) {
	d, err := ReadDifficulty(strings.NewReader(difficultyFixture))
	if err != nil {
		t.Fatalf("read difficulty: %v", err)
	}
	if d.Version != "Insane" {
		t.Fatalf("expected version Insane, got %q", d.Version)
	}
	if len(d.Timing) != 2 {
		t.Fatalf("expected 2 uninherited timing points, got %d", len(d.Timing))
	}

	first := d.Timing[0]
	if first.Offset != 264 || first.BPM != 170 || first.Meter != 4 || first.Volume != 60 || first.Kiai {
		t.Fatalf("unexpected first timing point: %+v", first)
	}
	second := d.Timing[1]
	if second.Offset != 13281 || second.MsPerBeat != 400 || second.BPM != 150 || !second.Kiai || second.Inherited {
		t.Fatalf("unexpected second timing point: %+v", second)
	}

	if offset, ms := d.Timing.At(1); offset != 13281 || ms != 400 {
		t.Fatalf("expected At(1) = 13281, 400, got %d, %v", offset, ms)
	}
}

func TestReadDifficultyMalformedTimingPoint(t *testing.T) {
	_, err := ReadDifficulty(strings.NewReader("[TimingPoints]\nabc,400,4,2,1,70,1,0\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestReadDifficultyNonFiniteBeatLength(t *testing.T) {
	for _, ms := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		t.Run(ms, func(t *testing.T) {
			_, err := ReadDifficulty(strings.NewReader("[TimingPoints]\n0," + ms + ",4,2,0,100,1,0\n"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "not finite") {
				t.Fatalf("expected a non-finite beat length error, got %v", err)
			}
		})
	}
}

func TestReadDifficultyNonFiniteOffset(t *testing.T) {
	if _, err := ReadDifficulty(strings.NewReader("[TimingPoints]\nNaN,400,4,2,0,100,1,0\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestOSBName(t *testing.T) {
	tests := []struct {
		file, version, want string
	}{
		{file: "4 Elements - I Want You To Hold Me (Okoratu) [Insane].osu", version: "Insane", want: "4 Elements - I Want You To Hold Me (Okoratu).osb"},
		{file: "Artist - Song (Mapper) [Hard].osu", version: "", want: "Artist - Song (Mapper).osb"},
		{file: "plain.osu", version: "Easy", want: "plain.osb"},
	}
	for _, tt := range tests {
		if got := OSBName(tt.file, tt.version); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestSpriteRender(t *testing.T) {
	s := NewSprite("sb/bg.png", LayerBackground, OriginCentre, DefaultX, DefaultY)
	s.Add(command.NewFade(command.EasingLinear, 0, 1000, 0, 1))
	s.Add(command.NewFade(command.EasingLinear, 100, 200, 1, 0))
	s.Add(command.NewFade(command.EasingLinear, 1100, 1200, 1, 0))
	s.Add(command.NewFade(command.EasingLinear, 0, 1000, 0.3, 0.3))
	s.Add(nil)

	want := "Sprite,Background,Centre,\"sb/bg.png\",320,240\n" +
		" F,0,0,1000,0.0,1.0\n" +
		" F,0,1100,1200,1.0,0.0\n" +
		"\n"
	if got := s.Render(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := s.Render(); got != want {
		t.Fatalf("expected render to be idempotent, got %q", got)
	}
	if len(s.Commands()) != 4 {
		t.Fatalf("expected attached commands to be kept, got %d", len(s.Commands()))
	}
}

func TestAnimationRender(t *testing.T) {
	a := NewAnimation("sb/spin.png", LayerForeground, OriginTopLeft, 8, 50, LoopOnce, 0, 0)
	a.Add(command.NewParameter(command.EasingLinear, 0, 100, "a"))

	want := "Animation,Foreground,TopLeft,\"sb/spin.png\",0,0,8,50,LoopOnce\n P,0,0,100,A\n\n"
	if got := a.Render(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestObjectRemove(t *testing.T) {
	s := NewSprite("a.png", LayerBackground, OriginCentre, 0, 0)
	s.Add(command.NewFade(command.EasingLinear, 0, 100, 0, 1))
	s.Add(command.NewScale(command.EasingLinear, 0, 100, 1, 2))

	s.Remove(command.NewFade(command.EasingOut, 0, 100, 1, 1))
	cmds := s.Commands()
	if len(cmds) != 1 || cmds[0].Kind() != command.KindScale {
		t.Fatalf("expected only the scale to remain, got %d commands", len(cmds))
	}
}

func TestStoryboardRenderAndWrite(t *testing.T) {
	sb := NewFromDifficulty(Difficulty{Timing: TimingTable{{Offset: 0, MsPerBeat: 500}}}, "sb")
	bg := sb.NewSprite("bg.png", LayerBackground, OriginCentre, DefaultX, DefaultY)
	fg := sb.NewAnimation("star.png", LayerForeground, OriginCentre, 2, 100, LoopForever, 10, 20)

	c, err := sb.NewFactory().Type(command.KindFade).Start(1000).Duration("1/2").StartOpacity(0).EndOpacity(1).Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bg.Add(c)
	fg.Add(command.NewMoveX(command.EasingLinear, 0, 10, 1, 2))

	want := "Sprite,Background,Centre,\"sb/bg.png\",320,240\n F,0,1000,1250,0.0,1.0\n\n" +
		"Animation,Foreground,Centre,\"sb/star.png\",10,20,2,100,LoopForever\n MX,0,0,10,1,2\n\n"
	if got := sb.Render(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	w := &countingWriter{}
	n, err := sb.WriteTo(w)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if w.writes != 1 || int(n) != len(want) || w.buf.String() != want {
		t.Fatalf("expected one write of %d bytes, got %d writes of %d", len(want), w.writes, n)
	}
}

func TestRenderOSB(t *testing.T) {
	sb := NewFromDifficulty(Difficulty{}, "")
	sb.NewSprite("fg.png", LayerForeground, OriginCentre, 1, 2)
	sb.NewSprite("bg.png", LayerBackground, OriginCentre, 3, 4)

	want := "[Events]\n" +
		"//Background and Video events\n" +
		"//Storyboard Layer 0 (Background)\n" +
		"Sprite,Background,Centre,\"bg.png\",3,4\n\n" +
		"//Storyboard Layer 1 (Fail)\n" +
		"//Storyboard Layer 2 (Pass)\n" +
		"//Storyboard Layer 3 (Foreground)\n" +
		"Sprite,Foreground,Centre,\"fg.png\",1,2\n\n" +
		"//Storyboard Layer 4 (Overlay)\n" +
		"//Storyboard Sound Samples\n"
	if got := sb.RenderOSB(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestNewAndSaveOSB(t *testing.T) {
	dir := t.TempDir()
	file := "Artist - Song (Mapper) [Insane].osu"
	if err := os.WriteFile(filepath.Join(dir, file), []byte(difficultyFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sb, err := New(dir, file, "sb")
	if err != nil {
		t.Fatalf("new storyboard: %v", err)
	}
	if sb.Timing().Len() != 2 {
		t.Fatalf("expected 2 timing points, got %d", sb.Timing().Len())
	}
	if d := sb.Difficulty(); d.Version != "Insane" || len(d.Timing) != 2 {
		t.Fatalf("unexpected difficulty %+v", d)
	}
	sb.NewSprite("bg.png", LayerBackground, OriginCentre, DefaultX, DefaultY)

	p, err := sb.SaveOSB("")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(p) != "Artist - Song (Mapper).osb" {
		t.Fatalf("unexpected output name %q", p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != sb.RenderOSB() {
		t.Fatalf("expected file to hold the rendered storyboard, got %q", data)
	}
}

func TestNewMissingDifficulty(t *testing.T) {
	if _, err := New(t.TempDir(), "missing.osu", ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveOSBWithoutName(t *testing.T) {
	sb := NewFromDifficulty(Difficulty{}, "")
	if _, err := sb.SaveOSB(""); err == nil {
		t.Fatal("expected error")
	}
}

type countingWriter struct {
	buf    strings.Builder
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.buf.Write(p)
}
