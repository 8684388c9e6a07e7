package matrix

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/addon"
	"github.com/coreman2200/funtimes-ledmatrix/internal/pattern"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
)

func TestNewDefaults(t *testing.T) {
	s := New(Options{})
	assert.Equal(t, uint8(DefaultBrightness), s.Brightness())
	assert.Equal(t, uint8(DefaultBrightness), s.OutputBrightness())
	assert.Equal(t, DefaultAnimationPeriod, s.AnimationPeriod())
	assert.Equal(t, PWM29k, s.PWMFreq())
	assert.False(t, s.Sleeping())
	assert.IsType(t, StaticMode{}, s.Mode())
	assert.Equal(t, 32, s.Snapshot().FPS)
}

func TestSleepRoundTripRestoresFrameAndBrightness(t *testing.T) {
	s := New(Options{Debug: true})
	s.SetPattern(pattern.Pattern{Kind: pattern.Gradient})
	s.SetBrightness(100)
	before := s.Grid()

	s.SetSleeping(true)
	assert.True(t, s.Sleeping())
	assert.Equal(t, uint8(0), s.OutputBrightness(), "debug mode switches off instantly")

	s.Tick(time.Second)
	assert.Equal(t, before, s.Grid(), "nothing renders while asleep")

	s.SetSleeping(false)
	assert.False(t, s.Sleeping())
	assert.Equal(t, before, s.Grid())
	assert.Equal(t, uint8(100), s.Brightness())
	assert.Equal(t, uint8(100), s.OutputBrightness())
}

func TestSleepIsIdempotent(t *testing.T) {
	s := New(Options{Debug: true})
	s.SetPattern(pattern.Pattern{Kind: pattern.AllOn})
	s.SetSleeping(true)
	s.SetPattern(pattern.Pattern{Kind: pattern.Zigzag})
	// A second sleep must not overwrite the saved frame with the current one.
	s.SetSleeping(true)
	s.SetSleeping(false)

	var want render.Grid
	pattern.Pattern{Kind: pattern.Zigzag}.Draw(&want)
	assert.Equal(t, want, s.Grid())

	s.SetSleeping(false)
	assert.False(t, s.Sleeping())
}

func TestBrightnessWhileAsleepAppliesOnWake(t *testing.T) {
	s := New(Options{Debug: true, Brightness: 80})
	s.SetSleeping(true)
	s.SetBrightness(200)
	assert.Equal(t, uint8(80), s.Brightness())
	s.SetSleeping(false)
	assert.Equal(t, uint8(200), s.Brightness())
	assert.Equal(t, uint8(200), s.OutputBrightness())
}

func TestSleepFades(t *testing.T) {
	s := New(Options{Brightness: 200, SleepFade: time.Second})
	s.SetSleeping(true)
	assert.Equal(t, uint8(200), s.OutputBrightness(), "fade starts at current level")

	s.Tick(500 * time.Millisecond)
	mid := s.OutputBrightness()
	assert.Greater(t, mid, uint8(0))
	assert.Less(t, mid, uint8(200))

	s.Tick(600 * time.Millisecond)
	assert.Equal(t, uint8(0), s.OutputBrightness())

	s.SetSleeping(false)
	s.Tick(1100 * time.Millisecond)
	assert.Equal(t, uint8(200), s.OutputBrightness())
	assert.Equal(t, uint8(200), s.Brightness())
}

func TestDebugModeFinishesFade(t *testing.T) {
	s := New(Options{Brightness: 120})
	s.SetSleeping(true)
	s.Tick(100 * time.Millisecond)
	s.SetDebugMode(true)
	assert.True(t, s.DebugMode())
	assert.Equal(t, uint8(0), s.OutputBrightness())
}

func TestModesAreExclusive(t *testing.T) {
	s := New(Options{})
	s.SetGame(GameState{Kind: Snake})
	require.IsType(t, GameMode{}, s.Mode())

	require.NoError(t, s.SetAddonAnimation(addon.Spiral))
	assert.Equal(t, AddonMode{Animation: addon.Spiral}, s.Mode())

	s.SetPattern(pattern.Pattern{Kind: pattern.AllOn})
	assert.Equal(t, StaticMode{Pattern: pattern.Pattern{Kind: pattern.AllOn}}, s.Mode())
	assert.Equal(t, 306, func() int { g := s.Grid(); return g.Lit() }())
}

func TestGameReplacesRunningAddon(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.SetAddonAnimation(addon.Spiral))
	a := s.Tick(s.AnimationPeriod())
	b := s.Tick(5 * s.AnimationPeriod())
	require.NotEqual(t, a, b, "spiral moves with the timer")

	s.SetGame(GameState{Kind: Snake})
	held := s.Tick(s.AnimationPeriod())
	for i := 0; i < 5; i++ {
		assert.Equal(t, held, s.Tick(5*s.AnimationPeriod()), "no hook: the last frame is held")
	}

	var seen []GameKind
	s.SetGameHook(func(g *GameState, _ *render.Grid) { seen = append(seen, g.Kind) })
	s.Tick(s.AnimationPeriod())
	s.Tick(s.AnimationPeriod())
	assert.Equal(t, []GameKind{Snake, Snake}, seen)
}

func TestSameModeIsNoop(t *testing.T) {
	s := New(Options{})
	s.SetGame(GameState{Kind: Pong, Data: 1})
	first := s.Mode().(GameMode).Game
	s.SetGame(GameState{Kind: Pong, Data: 2})
	assert.Same(t, first, s.Mode().(GameMode).Game)

	s.SetGame(GameState{Kind: Snake})
	assert.Equal(t, Snake, s.Mode().(GameMode).Game.Kind)
}

func TestInvalidAnimationRejected(t *testing.T) {
	s := New(Options{})
	err := s.SetAddonAnimation(addon.Animation(0x7F))
	assert.ErrorIs(t, err, addon.ErrUnknownAnimation)
	assert.IsType(t, StaticMode{}, s.Mode())
}

func TestStopAddonFreezesFrame(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.SetAddonAnimation(addon.Spiral))
	frame := s.Tick(s.AnimationPeriod())
	s.StopAddonAnimation()
	assert.IsType(t, StaticMode{}, s.Mode())
	assert.Equal(t, frame, s.Tick(s.AnimationPeriod()))

	// Stop is a no-op in other modes.
	s.SetGame(GameState{Kind: Snake})
	s.StopAddonAnimation()
	assert.IsType(t, GameMode{}, s.Mode())
	s.StopGame()
	assert.IsType(t, StaticMode{}, s.Mode())
}

func TestSplashLightsThenFades(t *testing.T) {
	s := New(Options{Side: addon.Left})
	require.NoError(t, s.SetAddonAnimation(addon.Splashes))

	g := s.Tick(s.AnimationPeriod())
	assert.Equal(t, 0, g.Lit(), "no keypresses, dark panel")

	s.EnqueueKeypress(42, addon.Left, true)
	s.EnqueueKeypress(43, addon.Left, false)
	require.Len(t, s.Keypresses(), 1, "releases are ignored")

	g = s.Tick(s.AnimationPeriod())
	assert.Greater(t, g.Lit(), 0)

	for i := 1; i < DefaultKeypressLife; i++ {
		g = s.Tick(s.AnimationPeriod())
	}
	assert.Empty(t, s.Keypresses())
	assert.Equal(t, 0, g.Lit())
}

func TestOtherSideKeypressStaysDark(t *testing.T) {
	s := New(Options{Side: addon.Right})
	require.NoError(t, s.SetAddonAnimation(addon.Splashes))
	s.EnqueueKeypress(30, addon.Left, true)
	g := s.Tick(s.AnimationPeriod())
	assert.Equal(t, 0, g.Lit())
}

func TestKeypressCapacityEvictsOldest(t *testing.T) {
	s := New(Options{})
	for i := 0; i < addon.KeypressCapacity+5; i++ {
		s.EnqueueKeypress(uint16(i), addon.Left, true)
	}
	kps := s.Keypresses()
	require.Len(t, kps, addon.KeypressCapacity)
	assert.Equal(t, uint16(5), kps[0].Keycode)
}

func TestStaticScroll(t *testing.T) {
	s := New(Options{})
	var g render.Grid
	g[2][0] = 255
	s.SetGrid(g)

	s.Tick(s.AnimationPeriod())
	assert.Equal(t, g, s.Grid(), "no scroll unless animate is on")

	s.SetAnimate(true)
	s.Tick(s.AnimationPeriod())
	got := s.Grid()
	assert.Equal(t, uint8(255), got[2][1])
	assert.Equal(t, uint8(0), got[2][0])
}

func TestTimerCarriesRemainder(t *testing.T) {
	s := New(Options{AnimationPeriod: 10 * time.Millisecond})
	s.Tick(4 * time.Millisecond)
	assert.Equal(t, uint32(0), s.Timer())
	s.Tick(7 * time.Millisecond)
	assert.Equal(t, uint32(1), s.Timer())
	s.Tick(29 * time.Millisecond)
	assert.Equal(t, uint32(4), s.Timer())
}

func TestGameHookDrawsFrame(t *testing.T) {
	s := New(Options{})
	calls := 0
	s.SetGameHook(func(g *GameState, frame *render.Grid) {
		calls++
		g.Data = calls
		frame[0][0] = 42
	})
	s.SetGame(GameState{Kind: GameOfLife})
	g := s.Tick(s.AnimationPeriod())
	assert.Equal(t, 1, calls)
	assert.Equal(t, uint8(42), g[0][0])
	assert.Equal(t, 1, s.Mode().(GameMode).Game.Data)
}

func TestFPSAndPWMValidation(t *testing.T) {
	s := New(Options{})
	assert.ErrorIs(t, s.SetAnimationFPS(0), ErrInvalidFPS)
	require.NoError(t, s.SetAnimationFPS(50))
	assert.Equal(t, 20*time.Millisecond, s.AnimationPeriod())

	assert.ErrorIs(t, s.SetPWMFreq(1000), ErrInvalidPWMFreq)
	require.NoError(t, s.SetPWMFreq(PWM1k2))
	assert.Equal(t, PWM1k2, s.PWMFreq())

	f, err := ParsePWMFreq(3600)
	require.NoError(t, err)
	assert.Equal(t, PWM3k6, f)
	_, err = ParsePWMFreq(3600 + 65536)
	assert.ErrorIs(t, err, ErrInvalidPWMFreq)
}

func TestSnapshot(t *testing.T) {
	s := New(Options{Side: addon.Right, Debug: true})
	require.NoError(t, s.SetAddonAnimation(addon.Helix))
	s.SetSleepingFor(true, ReasonTimeout)
	snap := s.Snapshot()
	assert.Equal(t, "addon:helix", snap.Mode)
	assert.Equal(t, "right", snap.Side)
	assert.True(t, snap.Sleeping)
	assert.Equal(t, "timeout", snap.SleepReason)
	assert.Equal(t, 29000, snap.PWMFreqHz)
}

func TestConcurrentKeypressesAndTicks(t *testing.T) {
	s := New(Options{})
	require.NoError(t, s.SetAddonAnimation(addon.Splashes))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.EnqueueKeypress(uint16(w*1000+i), addon.Left, true)
			}
		}(w)
	}
	for i := 0; i < 200; i++ {
		s.Tick(s.AnimationPeriod())
	}
	wg.Wait()

	kps := s.Keypresses()
	assert.LessOrEqual(t, len(kps), addon.KeypressCapacity)
	for _, kp := range kps {
		assert.True(t, kp.Alive)
		assert.Greater(t, kp.Life, uint8(0))
	}
}
