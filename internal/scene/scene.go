// Package scene loads a scene file and builds every road, intersection and
// parking lot it lists.
package scene

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/roadkit/internal/config"
	"github.com/Faultbox/roadkit/internal/intersection"
	"github.com/Faultbox/roadkit/internal/parking"
	"github.com/Faultbox/roadkit/internal/road"
	"github.com/Faultbox/roadkit/pkg/spline"
)

var (
	ErrDuplicateName = errors.New("duplicate object name")
	ErrNotFound      = errors.New("object not found")
)

// Kind identifies the object type of a scene entry.
type Kind string

const (
	KindRoad         Kind = "road"
	KindIntersection Kind = "intersection"
	KindParking      Kind = "parking"
)

// Scene is a parsed scene file with every entry's options resolved against defaults.
type Scene struct {
	Path          string
	Roads         []Road
	Intersections []Intersection
	Lots          []Lot
}

// Road is a spline road entry.
type Road struct {
	Name    string
	Spline  spline.Definition
	Options road.Options
}

// Intersection is a junction pad entry.
type Intersection struct {
	Name    string
	Options intersection.Options
}

// Lot is a parking lot entry.
type Lot struct {
	Name    string
	Options parking.Options
}

// document is the on-disk layout. Options stay raw until they are decoded on
// top of a copy of the defaults.
type document struct {
	Roads []struct {
		Name    string            `yaml:"name"`
		Spline  spline.Definition `yaml:"spline"`
		Options yaml.Node         `yaml:"options"`
	} `yaml:"roads"`
	Intersections []struct {
		Name    string    `yaml:"name"`
		Options yaml.Node `yaml:"options"`
	} `yaml:"intersections"`
	Parking []struct {
		Name    string    `yaml:"name"`
		Options yaml.Node `yaml:"options"`
	} `yaml:"parking"`
}

// Load reads and parses the scene at path. The format follows the extension.
func Load(path string, defaults config.Defaults) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	s, err := Parse(config.FormatOf(path), data, defaults)
	if err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Parse decodes a scene document.
func Parse(format config.Format, data []byte, defaults config.Defaults) (*Scene, error) {
	var doc document
	if err := config.Unmarshal(format, data, &doc); err != nil {
		return nil, err
	}

	s := &Scene{}
	names := make(map[string]Kind)
	claim := func(kind Kind, name string, i int) (string, error) {
		if name == "" {
			name = fmt.Sprintf("%s_%d", kind, i)
		}
		if other, ok := names[name]; ok {
			return "", fmt.Errorf("%w: %q used by a %s and a %s", ErrDuplicateName, name, other, kind)
		}
		names[name] = kind
		return name, nil
	}

	for i, e := range doc.Roads {
		name, err := claim(KindRoad, e.Name, i)
		if err != nil {
			return nil, err
		}
		opts := defaults.Road
		if err := decodeOptions(&e.Options, &opts); err != nil {
			return nil, fmt.Errorf("road %s: %w", name, err)
		}
		s.Roads = append(s.Roads, Road{Name: name, Spline: e.Spline, Options: opts})
	}
	for i, e := range doc.Intersections {
		name, err := claim(KindIntersection, e.Name, i)
		if err != nil {
			return nil, err
		}
		opts := defaults.Intersection
		if err := decodeOptions(&e.Options, &opts); err != nil {
			return nil, fmt.Errorf("intersection %s: %w", name, err)
		}
		s.Intersections = append(s.Intersections, Intersection{Name: name, Options: opts})
	}
	for i, e := range doc.Parking {
		name, err := claim(KindParking, e.Name, i)
		if err != nil {
			return nil, err
		}
		opts := defaults.Parking
		if err := decodeOptions(&e.Options, &opts); err != nil {
			return nil, fmt.Errorf("parking lot %s: %w", name, err)
		}
		s.Lots = append(s.Lots, Lot{Name: name, Options: opts})
	}
	return s, nil
}

// decodeOptions overlays node onto opts. Slices in node replace the defaults.
func decodeOptions(node *yaml.Node, opts any) error {
	if node.IsZero() {
		return nil
	}
	return node.Decode(opts)
}

// Road returns the road entry called name.
func (s *Scene) Road(name string) (Road, error) {
	for _, r := range s.Roads {
		if r.Name == name {
			return r, nil
		}
	}
	return Road{}, fmt.Errorf("road %q: %w", name, ErrNotFound)
}

// Len returns the number of objects in the scene.
func (s *Scene) Len() int {
	return len(s.Roads) + len(s.Intersections) + len(s.Lots)
}
