package mines

import "fmt"

type Outcome int8

const (
	InProgress Outcome = iota
	Lost
	WonClean
	WonAfterLoss
)

var outcomeNames = map[Outcome]string{
	InProgress:   "in_progress",
	Lost:         "lost",
	WonClean:     "won_clean",
	WonAfterLoss: "won_after_loss",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Outcome(%d)", int8(o))
}

func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return InProgress, fmt.Errorf("unknown outcome %q", s)
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Terminal reports whether o stops the timer.
func (o Outcome) Terminal() bool {
	return o != InProgress
}

func (o Outcome) Face() Face {
	switch o {
	case Lost:
		return FaceLost
	case WonClean:
		return FaceWonClean
	case WonAfterLoss:
		return FaceWonAfterLoss
	default:
		return FacePlaying
	}
}

type Phase int8

const (
	NotStarted Phase = iota
	Running
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not_started"
	case Running:
		return "running"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int8(p))
}
