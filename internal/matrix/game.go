package matrix

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

type GameKind uint8

const (
	Snake      GameKind = 0
	Pong       GameKind = 1
	GameOfLife GameKind = 3
)

func (k GameKind) String() string {
	switch k {
	case Snake:
		return "snake"
	case Pong:
		return "pong"
	case GameOfLife:
		return "game-of-life"
	}
	return fmt.Sprintf("game(%d)", uint8(k))
}

func ParseGameKind(name string) (GameKind, error) {
	switch strings.ReplaceAll(strings.ToLower(name), "_", "-") {
	case "snake", "0":
		return Snake, nil
	case "pong", "1":
		return Pong, nil
	case "game-of-life", "gameoflife", "life", "3":
		return GameOfLife, nil
	}
	return 0, fmt.Errorf("unknown game %q", name)
}

// GameState is owned by the game subsystem. The matrix only stores it and
// drops it when another mode takes over.
type GameState struct {
	Kind GameKind
	Data any
}

// GameHook lets the game subsystem advance its state and draw into the frame
// being composed. The frame starts as a copy of the one currently shown.
type GameHook func(g *GameState, frame *render.Grid)
