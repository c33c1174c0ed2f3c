package intersection

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/roadkit/pkg/math"
)

// Exit is one side of a rectangular pad.
type Exit uint8

const (
	North Exit = 1 << iota
	East
	South
	West
)

var exitOrder = []Exit{North, East, South, West}

var exitNames = map[Exit]string{
	North: "north",
	East:  "east",
	South: "south",
	West:  "west",
}

func (e Exit) String() string {
	if s, ok := exitNames[e]; ok {
		return s
	}
	return fmt.Sprintf("Exit(%d)", uint8(e))
}

// Direction returns the outward unit vector of the side in pad-local space.
func (e Exit) Direction() math.Vec3 {
	switch e {
	case North:
		return math.WorldForward
	case South:
		return math.WorldForward.Neg()
	case East:
		return math.WorldRight
	case West:
		return math.WorldRight.Neg()
	}
	return math.Vec3{}
}

// ExitSet is a bitset of open sides.
type ExitSet uint8

// Has reports whether e is open.
func (s ExitSet) Has(e Exit) bool {
	return s&ExitSet(e) != 0
}

// Count returns the number of open sides.
func (s ExitSet) Count() int {
	n := 0
	for _, e := range exitOrder {
		if s.Has(e) {
			n++
		}
	}
	return n
}

// Exits returns the open sides in north, east, south, west order.
func (s ExitSet) Exits() []Exit {
	var out []Exit
	for _, e := range exitOrder {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

// NewExitSet combines sides into a set.
func NewExitSet(exits ...Exit) ExitSet {
	var s ExitSet
	for _, e := range exits {
		s |= ExitSet(e)
	}
	return s
}

// ParseExits parses a comma separated list of side names.
func ParseExits(text string) (ExitSet, error) {
	var s ExitSet
	for _, part := range strings.Split(text, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for e, n := range exitNames {
			if n == name {
				s |= ExitSet(e)
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown exit %q", part)
		}
	}
	return s, nil
}

func (s ExitSet) String() string {
	names := make([]string, 0, 4)
	for _, e := range s.Exits() {
		names = append(names, e.String())
	}
	return strings.Join(names, ",")
}

// MarshalText implements encoding.TextMarshaler.
func (s ExitSet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ExitSet) UnmarshalText(text []byte) error {
	v, err := ParseExits(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalYAML accepts either a list of side names or a comma separated string.
func (s *ExitSet) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		return s.UnmarshalText([]byte(strings.Join(names, ",")))
	}
	return s.UnmarshalText([]byte(value.Value))
}

// MarshalYAML writes the set as a list of side names.
func (s ExitSet) MarshalYAML() (interface{}, error) {
	names := []string{}
	for _, e := range s.Exits() {
		names = append(names, e.String())
	}
	return names, nil
}

// cornerPlacement places one pad corner. Signs select the quadrant in forward/right
// space; sideA and sideB are the sides whose exits touch the corner block.
type cornerPlacement struct {
	name           string
	forward, right float32
	sideA, sideB   Exit
}

// corners is the corner adjacency table. DirA runs along right, DirB along forward.
var corners = [4]cornerPlacement{
	{name: "north_east", forward: 1, right: 1, sideA: East, sideB: North},
	{name: "south_east", forward: -1, right: 1, sideA: East, sideB: South},
	{name: "south_west", forward: -1, right: -1, sideA: West, sideB: South},
	{name: "north_west", forward: 1, right: -1, sideA: West, sideB: North},
}
