// Package seed provides the activity directory loaded at process start.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mergington/activities/internal/domain/types"
)

// Sentinel errors for seed loading.
var (
	ErrInvalidSeed = errors.New("invalid seed")
	ErrReadSeed    = errors.New("read seed failed")
)

//go:embed activities.yaml
var defaultYAML []byte

// Default returns a fresh copy of the built-in directory.
func Default() types.Directory {
	d, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded seed is invalid: %v", err))
	}
	return d
}

// LoadFile reads a YAML directory from path.
func LoadFile(path string) (types.Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadSeed, path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML mapping of activity name to activity and validates it.
// Unknown fields are rejected.
func Parse(raw []byte) (types.Directory, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var d types.Directory
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	for name, a := range d {
		d[name] = a.Clone()
	}
	return d, nil
}

// Validate checks names and roster uniqueness.
func Validate(d types.Directory) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: no activities", ErrInvalidSeed)
	}
	for name, a := range d {
		if name == "" {
			return fmt.Errorf("%w: empty activity name", ErrInvalidSeed)
		}
		if a.MaxParticipants < 0 {
			return fmt.Errorf("%w: %q: negative max_participants", ErrInvalidSeed, name)
		}
		seen := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if _, dup := seen[email]; dup {
				return fmt.Errorf("%w: %q: duplicate participant %q", ErrInvalidSeed, name, email)
			}
			seen[email] = struct{}{}
		}
	}
	return nil
}
