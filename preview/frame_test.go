package preview

import (
	"math"
	"testing"

	"github.com/Okorin/osu-sbgen/command"
	"github.com/Okorin/osu-sbgen/storyboard"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSampleDefaults(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 100, 200)
	got := Sample(&s.Object, 0)
	if got.X != 100 || got.Y != 200 || got.Opacity != 1 || got.ScaleX != 1 || got.Rotation != 0 {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if got.Hex != "#ffffff" {
		t.Fatalf("expected white, got %s", got.Hex)
	}
}

func TestSampleFade(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	s.Add(command.NewFade(command.EasingLinear, 1000, 2000, 0, 1))
	s.Add(command.NewFade(command.EasingQuadIn, 3000, 4000, 1, 0))

	tests := []struct {
		ms   int
		want float64
	}{
		{ms: 0, want: 0},
		{ms: 1500, want: 0.5},
		{ms: 2500, want: 1},
		{ms: 3500, want: 0.75},
		{ms: 5000, want: 0},
	}
	for _, tt := range tests {
		if got := Sample(&s.Object, tt.ms).Opacity; !near(got, tt.want) {
			t.Fatalf("at %d: expected opacity %v, got %v", tt.ms, tt.want, got)
		}
	}
}

func TestSampleMoveAxes(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	s.Add(command.NewMove(command.EasingLinear, 0, 1000, 0, 0, 100, 200))
	s.Add(command.NewMoveX(command.EasingLinear, 1000, 2000, 100, 300))

	got := Sample(&s.Object, 1500)
	if !near(got.X, 200) || !near(got.Y, 200) {
		t.Fatalf("expected 200,200, got %v,%v", got.X, got.Y)
	}
}

func TestSampleScaleColorAndParameters(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	s.Add(command.NewVectorScale(command.EasingLinear, 0, 100, 1, 1, 2, 3))
	s.Add(command.NewColor(command.EasingLinear, 0, 100, command.RGB{0, 0, 0}, command.RGB{255, 0, 0}))
	s.Add(command.NewParameter(command.EasingLinear, 50, 50, "h"))
	s.Add(command.NewParameter(command.EasingLinear, 0, 10, "a"))

	got := Sample(&s.Object, 100)
	if !near(got.ScaleX, 2) || !near(got.ScaleY, 3) {
		t.Fatalf("expected scale 2x3, got %vx%v", got.ScaleX, got.ScaleY)
	}
	if got.Hex != "#ff0000" {
		t.Fatalf("expected red, got %s", got.Hex)
	}
	if !got.FlipH || got.Additive {
		t.Fatalf("expected flip to persist and additive to end, got %+v", got)
	}
}

func TestSampleLoop(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	l := command.NewLoop(1000, 3)
	l.Add(command.NewRotate(command.EasingLinear, 0, 100, 0, 1))
	s.Add(l)

	if got := Sample(&s.Object, 1150).Rotation; !near(got, 0.5) {
		t.Fatalf("expected second iteration half way, got %v", got)
	}
	if got := Sample(&s.Object, 5000).Rotation; !near(got, 1) {
		t.Fatalf("expected last iteration finished, got %v", got)
	}
}

func TestSampleLoopUsesRunningIteration(t *testing.T) {
	s := storyboard.NewSprite("a.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	l := command.NewLoop(0, 1_000_000_000)
	l.Add(command.NewRotate(command.EasingLinear, 0, 100, 0, 1))
	l.Add(command.NewFade(command.EasingLinear, 50, 100, 0, 1))
	s.Add(l)

	st := Sample(&s.Object, 500_000_000*100+25)
	if !near(st.Rotation, 0.25) {
		t.Fatalf("expected rotation 0.25, got %v", st.Rotation)
	}
	if !near(st.Opacity, 1) {
		t.Fatalf("expected the previous fade to hold, got %v", st.Opacity)
	}
	if st = Sample(&s.Object, -10); !near(st.Rotation, 0) || !near(st.Opacity, 0) {
		t.Fatalf("expected first iteration values before the loop, got %+v", st)
	}
}

func TestCalculateFrame(t *testing.T) {
	sb := storyboard.NewFromDifficulty(storyboard.Difficulty{}, "")
	hidden := sb.NewSprite("hidden.png", storyboard.LayerBackground, storyboard.OriginCentre, 0, 0)
	hidden.Add(command.NewFade(command.EasingLinear, 0, 100, 0, 0))
	sb.NewSprite("shown.png", storyboard.LayerForeground, storyboard.OriginCentre, 0, 0)

	f := CalculateFrame(sb, 50)
	if f.TimeMs != 50 || len(f.Elements) != 2 {
		t.Fatalf("unexpected frame: %+v", f)
	}
	visible := f.Visible()
	if len(visible) != 1 || visible[0].Path != "shown.png" {
		t.Fatalf("expected only shown.png visible, got %+v", visible)
	}
}
