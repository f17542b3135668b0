package render

import (
	"fmt"
	"strings"
)

// Pattern selects the visual encoding of the beat phase.
type Pattern int

const (
	Bar Pattern = iota
	Radar
	Flash
	patternCount
)

var patternNames = [patternCount]string{"bar", "radar", "flash"}

func (p Pattern) String() string {
	if p < 0 || p >= patternCount {
		return "unknown"
	}
	return patternNames[p]
}

// Valid reports whether p is one of the known patterns.
func (p Pattern) Valid() bool { return p >= 0 && p < patternCount }

// Next cycles bar -> radar -> flash -> bar.
func (p Pattern) Next() Pattern { return (p + 1) % patternCount }

// Patterns lists every pattern in display order.
func Patterns() []Pattern { return []Pattern{Bar, Radar, Flash} }

// ParsePattern accepts the lower-case names used in config and on the command line.
func ParsePattern(s string) (Pattern, error) {
	for i, name := range patternNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Pattern(i), nil
		}
	}
	return Bar, fmt.Errorf("unknown pattern %q (want bar, radar or flash)", s)
}
