package term

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
)

// USB HID usage ids for the keys a QWERTY terminal reports.
const (
	hidA     = 0x04
	hid1     = 0x1E
	hid0     = 0x27
	hidEnter = 0x28
	hidEsc   = 0x29
	hidBksp  = 0x2A
	hidTab   = 0x2B
	hidSpace = 0x2C
)

var punct = map[rune]uint16{
	'-': 0x2D, '=': 0x2E, '[': 0x2F, ']': 0x30, '\\': 0x31,
	';': 0x33, '\'': 0x34, '`': 0x35, ',': 0x36, '.': 0x37, '/': 0x38,
}

// leftHand lists the keys typed with the left hand on a split QWERTY board.
const leftHand = "`12345qwertasdfgzxcvb"

// Keypress maps a terminal key event to a HID keycode and the keyboard half
// it belongs to. Keys without a code report ok=false.
func Keypress(ev *tcell.EventKey) (code uint16, side addon.Side, ok bool) {
	switch ev.Key() {
	case tcell.KeyEnter:
		return hidEnter, addon.Right, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return hidBksp, addon.Right, true
	case tcell.KeyTab:
		return hidTab, addon.Left, true
	case tcell.KeyEscape:
		return hidEsc, addon.Left, true
	case tcell.KeyRune:
	default:
		return 0, addon.Left, false
	}
	r := unicode.ToLower(ev.Rune())
	if r == ' ' {
		// The space bar straddles both halves; give it to the left thumb.
		return hidSpace, addon.Left, true
	}
	code, ok = RuneCode(r)
	if !ok {
		return 0, addon.Left, false
	}
	side = addon.Right
	if strings.ContainsRune(leftHand, r) {
		side = addon.Left
	}
	return code, side, true
}

// RuneCode returns the HID keycode of a lower-case QWERTY character.
func RuneCode(r rune) (uint16, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return hidA + uint16(r-'a'), true
	case r >= '1' && r <= '9':
		return hid1 + uint16(r-'1'), true
	case r == '0':
		return hid0, true
	}
	c, ok := punct[r]
	return c, ok
}
