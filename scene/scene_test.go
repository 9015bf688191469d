package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/storyboard"
)

const testScene = `
sprites:
  - path: bg.jpg
    layer: Background
    x: 300
    y: 200
    commands:
      - {type: f, start: "00:01:000", duration: "1/2", from: [0], to: [1]}
      - {type: C, start: 1000, end: 2000, fromHex: "#FF8000", toHex: "#000000"}
      - {type: P, start: 1000, end: 1000, token: a}
    loops:
      - start: 3000
        count: 2
        commands:
          - {type: R, easing: 1, start: 0, end: 100, from: [0], to: [1.5]}
  - path: anim.png
    layer: Foreground
    origin: TopLeft
    animation: {frames: 4, delay: 100, loop: LoopOnce}
    gradient: {start: 0, end: 1000, steps: 2}
scatter:
  - {path: dot.png, start: 0, end: 1000, count: 3, fade: "1/1", seed: 1}
`

func newStoryboard() *storyboard.Storyboard {
	d := storyboard.Difficulty{Timing: storyboard.TimingTable{{Offset: 0, MsPerBeat: 500}}}
	return storyboard.NewFromDifficulty(d, "sb")
}

func TestApply(t *testing.T) {
	s, err := Parse(strings.NewReader(testScene))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sb := newStoryboard()
	if err := s.Apply(sb); err != nil {
		t.Fatalf("apply: %v", err)
	}

	elements := sb.Elements()
	if len(elements) != 5 {
		t.Fatalf("expected 5 elements, got %d", len(elements))
	}

	expected := `Sprite,Background,Centre,"sb/bg.jpg",300,200
 F,0,1000,1250,0.0,1.0
 C,0,1000,2000,255,128,0,0,0,0
 P,0,1000,1000,A
 L,3000,2
  R,1,0,100,0.0,1.5

`
	if got := elements[0].Render(); got != expected {
		t.Fatalf("expected:\n%q\ngot:\n%q", expected, got)
	}

	expected = "Animation,Foreground,TopLeft,\"sb/anim.png\",320,240,4,100,LoopOnce\n C,0,0,500,"
	if got := elements[1].Render(); !strings.HasPrefix(got, expected) {
		t.Fatalf("expected prefix %q, got %q", expected, got)
	}
	if n := len(elements[1].Base().Commands()); n != 2 {
		t.Fatalf("expected 2 gradient steps, got %d", n)
	}

	for _, e := range elements[2:] {
		if e.Base().Path != "sb/dot.png" || len(e.Base().Commands()) != 2 {
			t.Fatalf("unexpected scatter sprite %q", e.Render())
		}
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name   string
		scene  string
		target error
	}{
		{
			name:   "missing path",
			scene:  "sprites:\n  - layer: Background\n",
			target: ErrNoPath,
		},
		{
			name:   "move with one value",
			scene:  "sprites:\n  - path: a.png\n    commands:\n      - {type: M, start: 0, end: 10, from: [1]}\n",
			target: command.ErrConstruction,
		},
		{
			name:   "unknown type",
			scene:  "sprites:\n  - path: a.png\n    loops:\n      - start: 0\n        count: 1\n        commands:\n          - {type: X, from: [1]}\n",
			target: command.ErrConstruction,
		},
	}
	for _, tt := range tests {
		s, err := Parse(strings.NewReader(tt.scene))
		if err != nil {
			t.Fatalf("%s: parse: %v", tt.name, err)
		}
		sb := newStoryboard()
		if err := s.Apply(sb); !errors.Is(err, tt.target) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
		if len(sb.Elements()) != 0 {
			t.Fatalf("%s: expected no elements, got %d", tt.name, len(sb.Elements()))
		}
	}
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.Sprites) != 0 || len(s.Scatter) != 0 {
		t.Fatalf("expected an empty scene, got %+v", s)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(strings.NewReader("sprites: [")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(testScene), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Sprites) != 2 || len(s.Scatter) != 1 {
		t.Fatalf("unexpected scene %+v", s)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing scene")
	}
}
