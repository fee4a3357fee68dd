package evaluation

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads the textual form used on the command line:
//
//	tap | pass | fail | star:<0-5> | score:<0-100>
//
// Parse only checks syntax. Range checking happens in Quality so that an
// out-of-range value still flows through the recoverable path.
func Parse(s string) (Evaluation, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	name, value, hasValue := strings.Cut(raw, ":")

	switch name {
	case "tap":
		return Tap{}, nil
	case "pass", "correct":
		return PassFail{Correct: true}, nil
	case "fail", "wrong":
		return PassFail{Correct: false}, nil
	case "star", "score":
		if !hasValue || value == "" {
			return nil, fmt.Errorf("evaluation %q: missing value", s)
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("evaluation %q: %w", s, err)
		}
		if name == "star" {
			return Star{Level: f}, nil
		}
		return Score{Percentage: f}, nil
	default:
		return nil, fmt.Errorf("unknown evaluation %q (want tap, pass, fail, star:N or score:N)", s)
	}
}

// ParseUnit reads "<unitID>=<evaluation>". An input without "=" is returned
// with an empty unit id.
func ParseUnit(s string) (string, Evaluation, error) {
	id, rest, ok := strings.Cut(s, "=")
	if !ok {
		e, err := Parse(s)
		return "", e, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", nil, fmt.Errorf("evaluation %q: empty unit id", s)
	}
	e, err := Parse(rest)
	if err != nil {
		return "", nil, err
	}
	return id, e, nil
}
