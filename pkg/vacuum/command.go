package vacuum

import (
	"fmt"
	"time"

	"github.com/urmzd/roombridge/pkg/oi"
)

// Command is one entry of the inbound command vocabulary.
type Command int

const (
	TurnOn Command = iota + 1
	TurnOff
	Start
	Pause
	Stop
	CleanSpot
	Locate
	ReturnToBase
)

var commandTokens = map[Command]string{
	TurnOn:       "turn_on",
	TurnOff:      "turn_off",
	Start:        "start",
	Pause:        "pause",
	Stop:         "stop",
	CleanSpot:    "clean_spot",
	Locate:       "locate",
	ReturnToBase: "return_to_base",
}

var tokenCommands = func() map[string]Command {
	m := make(map[string]Command, len(commandTokens))
	for cmd, tok := range commandTokens {
		m[tok] = cmd
	}
	return m
}()

// Commands returns the vocabulary in declaration order.
func Commands() []Command {
	return []Command{TurnOn, TurnOff, Start, Pause, Stop, CleanSpot, Locate, ReturnToBase}
}

// Tokens returns the wire tokens of the vocabulary in declaration order.
func Tokens() []string {
	cmds := Commands()
	tokens := make([]string, len(cmds))
	for i, cmd := range cmds {
		tokens[i] = cmd.String()
	}
	return tokens
}

func (c Command) String() string {
	if tok, ok := commandTokens[c]; ok {
		return tok
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand maps a wire token to a Command. Tokens are case sensitive.
func ParseCommand(token string) (Command, error) {
	cmd, ok := tokenCommands[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, token)
	}
	return cmd, nil
}

// Action is a single write to the device followed by a settle delay.
type Action struct {
	Bytes  []byte
	Settle time.Duration
}

// Plan is the device work and state effect of one command.
type Plan struct {
	Actions []Action

	// SetCleaning is true when the command overrides the cleaning flag.
	SetCleaning bool
	Cleaning    bool
}

// Apply returns s with the plan's cleaning update.
func (p Plan) Apply(s State) State {
	if p.SetCleaning {
		s.Cleaning = p.Cleaning
	}
	return s
}

// Locate tone timing.
const (
	LocateModeSettle = 50 * time.Millisecond
	LocateSongGap    = 4000 * time.Millisecond
	LocateLastGap    = 3500 * time.Millisecond
)

// Translate maps a command to the actions that perform it given the current state.
func Translate(cmd Command, s State) (Plan, error) {
	switch cmd {
	case TurnOn:
		return Plan{Actions: []Action{{Bytes: oi.Clean()}}, SetCleaning: true, Cleaning: true}, nil
	case TurnOff:
		return Plan{Actions: []Action{{Bytes: oi.Power()}}, SetCleaning: true, Cleaning: false}, nil
	case Start, Pause:
		return Plan{Actions: []Action{{Bytes: oi.Clean()}}}, nil
	case Stop:
		if !s.Cleaning {
			return Plan{}, nil
		}
		return Plan{Actions: []Action{{Bytes: oi.Clean()}}}, nil
	case CleanSpot:
		return Plan{Actions: []Action{{Bytes: oi.Spot()}}, SetCleaning: true, Cleaning: true}, nil
	case Locate:
		return Plan{Actions: []Action{
			{Bytes: oi.Safe(), Settle: LocateModeSettle},
			{Bytes: oi.PlaySong(0), Settle: LocateSongGap},
			{Bytes: oi.PlaySong(1), Settle: LocateSongGap},
			{Bytes: oi.PlaySong(2), Settle: LocateLastGap},
			{Bytes: oi.PlaySong(3)},
		}}, nil
	case ReturnToBase:
		return Plan{Actions: []Action{{Bytes: oi.SeekDock()}}, SetCleaning: true, Cleaning: true}, nil
	default:
		return Plan{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// Duration returns the total settle time of the plan.
func (p Plan) Duration() time.Duration {
	var d time.Duration
	for _, a := range p.Actions {
		d += a.Settle
	}
	return d
}
