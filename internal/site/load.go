package site

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Default returns the built-in site document.
func Default() *Site {
	s, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("site: embedded document: %v", err))
	}
	return s
}

// Load reads a site document from path.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site document: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadOrDefault loads path, falling back to the built-in document when
// the file does not exist.
func LoadOrDefault(path string) (*Site, bool, error) {
	if path == "" {
		return Default(), false, nil
	}
	s, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Parse decodes a YAML site document. Unknown keys are rejected; typing
// settings that are left out keep the hero defaults.
func Parse(data []byte) (*Site, error) {
	s := &Site{
		Typewriter: Typewriter{
			StartDelayMs: 1000,
			TypeSpeedMs:  80,
			BackSpeedMs:  50,
			Loop:         true,
		},
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode site document: %w", err)
	}
	return s, nil
}
