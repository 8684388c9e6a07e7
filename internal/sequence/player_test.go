package sequence

import (
	"errors"
	"testing"
)

func TestEnvelopeEval(t *testing.T) {
	env := Envelope{Keys: []Keyframe{
		{T: 0, V: 0, Ease: "linear"},
		{T: 10, V: 10, Ease: "linear"},
	}}
	if v := env.Eval(-1); v != 0 {
		t.Fatalf("expected 0 before start, got %v", v)
	}
	if v := env.Eval(0); v != 0 {
		t.Fatalf("expected 0 at t=0, got %v", v)
	}
	if v := env.Eval(5); v != 5 {
		t.Fatalf("expected 5 at t=5, got %v", v)
	}
	if v := env.Eval(10); v != 10 {
		t.Fatalf("expected 10 at t=10, got %v", v)
	}
	if v := env.Eval(11); v != 10 {
		t.Fatalf("expected 10 after end, got %v", v)
	}
}

func TestEnvelopeSmoothMidpoint(t *testing.T) {
	env := Envelope{Keys: []Keyframe{{T: 0, V: 0, Ease: "smooth"}, {T: 2, V: 100}}}
	if v := env.Eval(1); v != 50 {
		t.Fatalf("expected 50 halfway, got %v", v)
	}
	if v := env.Eval(0.5); v >= 25 {
		t.Fatalf("expected ease-in below linear, got %v", v)
	}
}

func TestPlayerRunsClipsInOrder(t *testing.T) {
	var log []string
	p := NewPlayer(Hooks{Run: func(line string) error { log = append(log, line); return nil }})
	prog := Program{Clips: []Clip{
		{Name: "A", Commands: []string{"addon spiral"}, DurationS: 2},
		{Name: "B", Commands: []string{"addon helix", "animate on"}, DurationS: 2},
	}}
	if err := p.Load(prog); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	_ = p.Tick(1.5)
	if name, _ := p.Clip(); name != "A" {
		t.Fatalf("expected clip A, got %s", name)
	}
	_ = p.Tick(1.0)
	if name, at := p.Clip(); name != "B" || at != 0.5 {
		t.Fatalf("expected B at 0.5s, got %s at %v", name, at)
	}
	_ = p.Tick(5)
	if p.State != Idle {
		t.Fatalf("expected idle after the last clip, got %s", p.State)
	}
	want := []string{"addon spiral", "addon helix", "animate on"}
	if len(log) != len(want) {
		t.Fatalf("unexpected commands: %#v", log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("unexpected commands: %#v", log)
		}
	}
}

func TestPlayerLoopsAndPauses(t *testing.T) {
	runs := 0
	p := NewPlayer(Hooks{Run: func(string) error { runs++; return nil }})
	if err := p.Load(Program{Loop: true, Clips: []Clip{{Name: "only", Commands: []string{"x"}, DurationS: 1}}}); err != nil {
		t.Fatal(err)
	}
	_ = p.Start()
	_ = p.Tick(3.5)
	if runs != 4 || p.State != Running {
		t.Fatalf("expected 4 runs while looping, got %d (%s)", runs, p.State)
	}
	p.Pause()
	_ = p.Tick(10)
	_ = p.Start()
	if runs != 4 {
		t.Fatalf("resume must not rerun the clip, got %d", runs)
	}
}

func TestPlayerBrightnessAutomation(t *testing.T) {
	var got []uint8
	p := NewPlayer(Hooks{SetBrightness: func(b uint8) { got = append(got, b) }})
	prog := Program{Clips: []Clip{{
		Name:      "fade",
		DurationS: 4,
		Brightness: &Envelope{Keys: []Keyframe{
			{T: 0, V: 0},
			{T: 4, V: 200},
		}},
	}}}
	if err := p.Load(prog); err != nil {
		t.Fatal(err)
	}
	_ = p.Start()
	_ = p.Tick(1)
	_ = p.Tick(1)
	_ = p.Tick(0) // no-op
	want := []uint8{0, 50, 100}
	if len(got) != len(want) {
		t.Fatalf("unexpected brightness writes %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected brightness writes %v", got)
		}
	}
}

func TestPlayerCollectsCommandErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewPlayer(Hooks{Run: func(line string) error {
		if line == "bad" {
			return boom
		}
		return nil
	}})
	_ = p.Load(Program{Clips: []Clip{{Name: "A", Commands: []string{"ok", "bad"}, DurationS: 1}}})
	if err := p.Start(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestLoadRejectsBadPrograms(t *testing.T) {
	p := NewPlayer(Hooks{})
	if err := p.Load(Program{}); !errors.Is(err, ErrEmptyProgram) {
		t.Fatalf("expected ErrEmptyProgram, got %v", err)
	}
	if err := p.Load(Program{Clips: []Clip{{Name: "zero"}}}); err == nil {
		t.Fatal("expected error for zero duration")
	}
}
