package addon

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/internal/vmath"
)

// Side is which half of a split keyboard a module (or a key) belongs to.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

func (s Side) IsLeft() bool  { return s == Left }
func (s Side) IsRight() bool { return s == Right }

func ParseSide(v string) (Side, error) {
	switch strings.ToLower(v) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	}
	return Left, fmt.Errorf("unknown side %q", v)
}

// KeypressCapacity bounds the number of splashes tracked at once.
const KeypressCapacity = 64

// VisualKeypress is one recent key-down feeding keypress-reactive animations.
// Rand0/Rand1 are derived from the keycode once at creation so a splash keeps
// a fixed position for its whole life.
type VisualKeypress struct {
	Keycode uint16
	Side    Side
	Life    uint8
	Alive   bool
	Rand0   float32
	Rand1   float32
}

func NewVisualKeypress(keycode uint16, side Side, life uint8) VisualKeypress {
	return VisualKeypress{
		Keycode: keycode,
		Side:    side,
		Life:    life,
		Alive:   life > 0,
		Rand0:   vmath.Rand(uint32(keycode)),
		Rand1:   vmath.Rand(uint32(keycode + 50)),
	}
}

// Keypresses is a fixed-capacity, densely packed list ordered oldest first.
// The zero value is an empty list.
type Keypresses struct {
	buf [KeypressCapacity]VisualKeypress
	n   int
}

// Push appends kp. When the list is full the oldest entry is evicted to make
// room; the return value reports whether that happened.
func (k *Keypresses) Push(kp VisualKeypress) (evicted bool) {
	if !kp.Alive {
		return false
	}
	if k.n == KeypressCapacity {
		copy(k.buf[:], k.buf[1:])
		k.n--
		evicted = true
	}
	k.buf[k.n] = kp
	k.n++
	return evicted
}

// Decay lowers every entry's life by step and drops the ones that reach 0,
// keeping the survivors in order. It returns how many were removed.
func (k *Keypresses) Decay(step uint8) (removed int) {
	live := 0
	for i := 0; i < k.n; i++ {
		kp := k.buf[i]
		if kp.Life <= step {
			kp.Life = 0
			kp.Alive = false
		} else {
			kp.Life -= step
		}
		if !kp.Alive {
			removed++
			continue
		}
		k.buf[live] = kp
		live++
	}
	for i := live; i < k.n; i++ {
		k.buf[i] = VisualKeypress{}
	}
	k.n = live
	return removed
}

// All returns a view of the live entries. It is only valid until the next
// mutation.
func (k *Keypresses) All() []VisualKeypress { return k.buf[:k.n] }

func (k *Keypresses) Len() int { return k.n }

func (k *Keypresses) Clear() {
	k.buf = [KeypressCapacity]VisualKeypress{}
	k.n = 0
}
