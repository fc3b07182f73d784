package mines

import (
	"fmt"
	"strings"
)

// Action is one of the abstract inputs every adapter produces.
type Action int8

const (
	NoAction Action = iota
	Up
	Down
	Left
	Right
	Dig
	Flag
	Restart
)

var actionNames = [...]string{
	NoAction: "none",
	Up:       "up",
	Down:     "down",
	Left:     "left",
	Right:    "right",
	Dig:      "dig",
	Flag:     "flag",
	Restart:  "restart",
}

func (a Action) String() string {
	if 0 <= a && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int8(a))
}

func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return Action(a), nil
		}
	}
	return NoAction, fmt.Errorf("unknown action %q", s)
}

// [Action] implements [encoding.TextMarshaler]
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
