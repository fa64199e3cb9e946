// Package config loads YAML configuration files into typed structs.
//
// Values may reference the environment as ${NAME}. Options applied after
// decoding let callers layer flags over the file before the result is
// validated.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configs that check themselves after loading.
type Validator interface {
	Validate() error
}

type loadSettings[T any] struct {
	optional  bool
	overrides []func(*T)
}

// LoadOption tunes a single Load call.
type LoadOption[T any] func(*loadSettings[T])

// Optional lets Load proceed with the values already in target when the
// file does not exist.
func Optional[T any]() LoadOption[T] {
	return func(s *loadSettings[T]) {
		s.optional = true
	}
}

// WithOverride runs fn on the decoded config before validation. Overrides
// run in the order given.
func WithOverride[T any](fn func(*T)) LoadOption[T] {
	return func(s *loadSettings[T]) {
		s.overrides = append(s.overrides, fn)
	}
}

// Load decodes filename into target, which keeps any field the file leaves
// out. Overrides run next and the result is validated last.
func Load[T any](filename string, target *T, opts ...LoadOption[T]) error {
	var s loadSettings[T]
	for _, opt := range opts {
		opt(&s)
	}

	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), target); err != nil {
			return fmt.Errorf("config: parse %s: %w", filename, err)
		}
	case s.optional && errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("config: read %s: %w", filename, err)
	}

	for _, fn := range s.overrides {
		fn(target)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
