// Package diagnostics defines the records streamed on /diag.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes used by the daemon.
const (
	CodeCommandError   = "CMD.ERROR"
	CodeDriverFallback = "DRIVER.FALLBACK"
	CodeDriverWrite    = "DRIVER.WRITE"
	CodeSleep          = "POWER.SLEEP"
	CodeWake           = "POWER.WAKE"
	CodeTestRunning    = "TEST.RUNNING"
	CodeTestDone       = "TEST.DONE"
	CodeTestUnknown    = "TEST.UNKNOWN"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Sink receives diagnostics; nil sinks are allowed and drop everything.
type Sink func(Diagnostic)

func (s Sink) Push(d Diagnostic) {
	if s != nil {
		s(d)
	}
}
