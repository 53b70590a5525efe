package app

import (
	"fmt"
	"strings"
)

// Turn is one rotation step applied to the working image.
type Turn int

const (
	TurnClockwise Turn = iota
	TurnCounterClockwise
	TurnHalf
)

func (t Turn) String() string {
	switch t {
	case TurnClockwise:
		return "cw"
	case TurnCounterClockwise:
		return "ccw"
	case TurnHalf:
		return "180"
	default:
		return "unknown"
	}
}

// ParseTurns reads a comma list such as "cw,cw" or "ccw,180". Empty entries
// are skipped.
func ParseTurns(s string) ([]Turn, error) {
	var out []Turn
	for _, f := range strings.Split(s, ",") {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "":
		case "cw", "right", "90":
			out = append(out, TurnClockwise)
		case "ccw", "left", "-90", "270":
			out = append(out, TurnCounterClockwise)
		case "180", "flip":
			out = append(out, TurnHalf)
		default:
			return nil, fmt.Errorf("bad rotation %q: want cw, ccw or 180", f)
		}
	}
	return out, nil
}

// Apply rotates the working image by each turn in order.
func (s *State) Apply(turns ...Turn) error {
	for _, t := range turns {
		var err error
		switch t {
		case TurnClockwise:
			err = s.Rotate(true)
		case TurnCounterClockwise:
			err = s.Rotate(false)
		case TurnHalf:
			err = s.Rotate180()
		default:
			err = fmt.Errorf("unknown turn %d", int(t))
		}
		if err != nil {
			return err
		}
	}
	return nil
}
