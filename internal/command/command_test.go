package command

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/layout"
	"github.com/coreman2200/funtimes-ledmatrix/internal/matrix"
)

func newState() *matrix.State {
	return matrix.New(matrix.Options{Debug: true})
}

func run(t *testing.T, s *matrix.State, line string) Reply {
	t.Helper()
	r, err := Run(s, line)
	require.NoError(t, err, line)
	return r
}

func TestParse(t *testing.T) {
	c, err := Parse(`  Pattern   "percentage"  40 `)
	require.NoError(t, err)
	assert.Equal(t, "pattern", c.Name)
	assert.Equal(t, []string{"percentage", "40"}, c.Args)
	assert.Equal(t, "pattern percentage 40", c.String())

	_, err = Parse("")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = Parse("explode now")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	_, err = Parse(`brightness "unterminated`)
	assert.Error(t, err)
}

func TestEveryNameHasHandler(t *testing.T) {
	for _, n := range Names() {
		_, ok := handlers[n]
		assert.True(t, ok, n)
	}
	assert.Len(t, handlers, len(Names()))
}

func TestGetOrSet(t *testing.T) {
	s := newState()
	assert.Equal(t, uint8(matrix.DefaultBrightness), run(t, s, "brightness").Value)
	assert.Equal(t, uint8(200), run(t, s, "brightness 200").Value)
	assert.Equal(t, uint8(200), s.Brightness())

	assert.Equal(t, "off", run(t, s, "animate").Value)
	assert.Equal(t, "on", run(t, s, "animate on").Value)

	assert.Equal(t, 50, run(t, s, "fps 50").Value)
	assert.Equal(t, 1200, run(t, s, "pwm 1200hz").Value)
	assert.Equal(t, "right", run(t, s, "side r").Value)
	assert.Equal(t, "off", run(t, s, "debug off").Value)
}

func TestBadArguments(t *testing.T) {
	s := newState()
	for _, line := range []string{
		"brightness 256",
		"brightness bright",
		"sleep maybe",
		"pattern percentage",
		"pattern percentage 101",
		"pattern lotus",
		"addon fireworks",
		"game tetris",
		"key 70000",
		"key 4 middle",
		"fps 0",
		"pwm 1000",
		"grid zz",
		"grid 00ff",
	} {
		_, err := Run(s, line)
		assert.Error(t, err, line)
	}
	_, err := Run(s, "pwm 1000")
	assert.ErrorIs(t, err, matrix.ErrInvalidPWMFreq)
	_, err = Run(s, "addon fireworks")
	assert.ErrorIs(t, err, addon.ErrUnknownAnimation)
}

func TestSleepAndWake(t *testing.T) {
	s := newState()
	run(t, s, "pattern all-on")
	assert.Equal(t, "on", run(t, s, "sleep on").Value)
	assert.True(t, s.Sleeping())
	assert.Equal(t, "off", run(t, s, "wake").Value)
	g := s.Grid()
	assert.Equal(t, layout.Count, g.Lit())
}

func TestModes(t *testing.T) {
	s := newState()
	assert.Equal(t, "addon:splashes", run(t, s, "addon splashes").Value)
	assert.Equal(t, "game:snake", run(t, s, "game snake").Value)
	assert.Equal(t, "game:snake", run(t, s, "addon stop").Value, "stop only affects addons")
	assert.Equal(t, "static:custom", run(t, s, "game stop").Value)
	assert.Equal(t, "static:percentage(40)", run(t, s, "pattern percentage 40").Value)
}

func TestKeyCommand(t *testing.T) {
	s := newState()
	assert.Equal(t, 1, run(t, s, "key 42").Value)
	assert.Equal(t, 2, run(t, s, "key 0x2b right down").Value)
	assert.Equal(t, 2, run(t, s, "key 44 left up").Value, "releases are ignored")
	kps := s.Keypresses()
	require.Len(t, kps, 2)
	assert.Equal(t, addon.Left, kps[0].Side)
	assert.Equal(t, uint16(0x2b), kps[1].Keycode)
	assert.Equal(t, addon.Right, kps[1].Side)
}

func TestGridUpload(t *testing.T) {
	s := newState()
	raw := make([]byte, layout.Count)
	raw[layout.Height+3] = 0x80
	run(t, s, "grid "+hex.EncodeToString(raw))
	g := s.Grid()
	assert.Equal(t, uint8(0x80), g[1][3])

	back := run(t, s, "grid").Value.(string)
	assert.Equal(t, strings.Repeat("00", layout.Height+3), back[:2*(layout.Height+3)])
}

func TestStatus(t *testing.T) {
	s := newState()
	run(t, s, "addon helix")
	snap, ok := run(t, s, "status").Value.(matrix.Snapshot)
	require.True(t, ok)
	assert.Equal(t, "addon:helix", snap.Mode)
	assert.True(t, snap.Debug)
}
