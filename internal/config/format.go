package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a file encoding, chosen by extension.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// Extensions lists the config file extensions discovery tries, in order.
var Extensions = []string{".yaml", ".yml", ".toml"}

// FormatOf returns the encoding of path. Anything other than .toml is YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// Unmarshal decodes data into v, keeping the values of fields the document
// does not mention. TOML documents are decoded to a generic tree and fed
// through the YAML decoder so both formats share the same field hooks.
func Unmarshal(format Format, data []byte, v any) error {
	if format == FormatTOML {
		var tree map[string]any
		if err := toml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("parsing toml: %w", err)
		}
		var err error
		if data, err = yaml.Marshal(tree); err != nil {
			return fmt.Errorf("converting toml: %w", err)
		}
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", format, err)
	}
	return nil
}

// Marshal encodes v in format.
func Marshal(format Format, v any) ([]byte, error) {
	data, err := yaml.Marshal(v)
	if err != nil || format != FormatTOML {
		return data, err
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return toml.Marshal(tree)
}
