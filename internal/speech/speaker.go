// Package speech reads notices and chat replies aloud through an external
// text-to-speech engine.
package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Speaker renders text audibly. Speak blocks until playback finishes.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Nop is a Speaker that says nothing.
type Nop struct{}

func (Nop) Speak(context.Context, string) error { return nil }

// engine describes one supported command-line TTS program. Text never
// lands where it could be read as an option: it is piped on stdin, or
// placed after "--".
type engine struct {
	name  string
	flags []string
	stdin bool
}

// command returns the argument list and stdin for speaking text.
func (e engine) command(text string) ([]string, io.Reader) {
	args := append([]string(nil), e.flags...)
	if e.stdin {
		return args, strings.NewReader(text)
	}
	return append(args, "--", text), nil
}

// engines are probed in this order.
var engines = []engine{
	{name: "espeak-ng", flags: []string{"--stdin"}, stdin: true},
	{name: "espeak", flags: []string{"--stdin"}, stdin: true},
	{name: "say", flags: []string{"-f", "-"}, stdin: true},
	{name: "spd-say", flags: []string{"--wait"}},
}

// Engines returns the names of the supported engines in probe order.
func Engines() []string {
	out := make([]string, len(engines))
	for i, e := range engines {
		out[i] = e.name
	}
	return out
}

// CommandSpeaker shells out to a TTS program.
type CommandSpeaker struct {
	path string
	eng  engine
}

// DetectCommand returns a CommandSpeaker for the first engine that
// lookPath finds. preferred, when non-empty, is tried alone.
func DetectCommand(lookPath func(string) (string, error), preferred string) (*CommandSpeaker, error) {
	for _, e := range engines {
		if preferred != "" && e.name != preferred {
			continue
		}
		if p, err := lookPath(e.name); err == nil {
			return &CommandSpeaker{path: p, eng: e}, nil
		}
	}
	if preferred != "" {
		return nil, fmt.Errorf("speech engine %q not found", preferred)
	}
	return nil, fmt.Errorf("no speech engine found (tried %s)", strings.Join(Engines(), ", "))
}

// Name returns the engine name.
func (c *CommandSpeaker) Name() string {
	return c.eng.name
}

func (c *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args, stdin := c.eng.command(text)
	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Stdin = stdin

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", c.eng.name, err, msg)
		}
		return fmt.Errorf("%s: %w", c.eng.name, err)
	}
	return nil
}
