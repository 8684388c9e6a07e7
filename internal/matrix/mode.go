package matrix

import (
	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
)

// Mode is the rendering mode. Exactly one is active at a time:
// StaticMode, AddonMode or GameMode.
type Mode interface {
	modeName() string
}

// StaticMode shows a fixed frame; with animate on it scrolls down one row
// per animation step.
type StaticMode struct{ Pattern pattern.Pattern }

// AddonMode re-renders a procedural animation every tick.
type AddonMode struct{ Animation addon.Animation }

// GameMode hands each tick to the external game subsystem.
type GameMode struct{ Game *GameState }

func (m StaticMode) modeName() string { return "static:" + m.Pattern.String() }
func (m AddonMode) modeName() string  { return "addon:" + m.Animation.String() }
func (m GameMode) modeName() string {
	if m.Game == nil {
		return "game"
	}
	return "game:" + m.Game.Kind.String()
}

// ModeName is a short human readable label, e.g. "addon:splashes".
func ModeName(m Mode) string {
	if m == nil {
		return "none"
	}
	return m.modeName()
}

// sameMode reports whether switching from a to b would be a no-op.
func sameMode(a, b Mode) bool {
	switch a := a.(type) {
	case StaticMode:
		b, ok := b.(StaticMode)
		return ok && a.Pattern == b.Pattern
	case AddonMode:
		b, ok := b.(AddonMode)
		return ok && a.Animation == b.Animation
	case GameMode:
		b, ok := b.(GameMode)
		return ok && a.Game != nil && b.Game != nil && a.Game.Kind == b.Game.Kind
	}
	return false
}
