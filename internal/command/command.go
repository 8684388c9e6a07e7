// Package command is the line-oriented control surface shared by the
// websocket /control endpoint and the terminal simulator. Every setting
// follows get-or-set: with no argument the current value is returned.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
)

// Command is one tokenized control line.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Parse splits a control line using shell quoting rules. Names are case
// insensitive and may use '_' or '-'.
func Parse(line string) (Command, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return Command{}, fmt.Errorf("parse %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrUsage)
	}
	name := strings.ReplaceAll(strings.ToLower(words[0]), "_", "-")
	if _, ok := handlers[name]; !ok {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, words[0])
	}
	return Command{Name: name, Args: words[1:]}, nil
}

// Names lists the supported commands in a stable order.
func Names() []string {
	return []string{
		"brightness", "sleep", "wake", "animate", "pattern", "grid", "addon", "game",
		"key", "fps", "pwm", "debug", "side", "status",
	}
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(v) {
	case "on", "yes", "1", "true":
		return true, nil
	case "off", "no", "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: want on|off, got %q", ErrUsage, v)
}

func parseUint(v string, bits int) (uint64, error) {
	n, err := strconv.ParseUint(v, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a %d-bit number", ErrUsage, v, bits)
	}
	return n, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
