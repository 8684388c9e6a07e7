package sequence

// Keyframe is a value at time T (seconds into the clip) with the easing used
// for the segment that starts here.
type Keyframe struct {
	T    float64 `yaml:"t" json:"t"`
	V    float64 `yaml:"v" json:"v"`
	Ease string  `yaml:"ease,omitempty" json:"ease,omitempty"` // "linear", "smooth", "cubic"
}

// Envelope is a list of keyframes sorted by T; Eval interpolates between them.
type Envelope struct {
	Keys []Keyframe `yaml:"keys" json:"keys"`
}

// Clip is one entry of a show: control commands run when the clip starts,
// how long it lasts, and an optional brightness automation.
type Clip struct {
	Name       string    `yaml:"name" json:"name"`
	Commands   []string  `yaml:"commands" json:"commands"`
	DurationS  float64   `yaml:"duration_s" json:"duration_s"`
	Brightness *Envelope `yaml:"brightness,omitempty" json:"brightness,omitempty"`
}

// Program is a full show.
type Program struct {
	Loop  bool   `yaml:"loop,omitempty" json:"loop,omitempty"`
	Clips []Clip `yaml:"clips" json:"clips"`
}

// PlayerState enumerates sequencer states.
type PlayerState string

const (
	Idle    PlayerState = "idle"
	Running PlayerState = "running"
	Paused  PlayerState = "paused"
)

// Hooks are dependency-injected callbacks into the device.
type Hooks struct {
	// Run executes one control command line.
	Run func(line string) error
	// SetBrightness applies the clip's brightness automation.
	SetBrightness func(b uint8)
}

// Player owns the current Program timeline and uses Hooks to drive the device.
type Player struct {
	State PlayerState

	prog Program
	nowS float64 // position within the current clip
	idx  int     // current clip index

	lastBrightness int // -1 until the first automation write

	hooks Hooks
}
