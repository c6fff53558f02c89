package core

import (
	"fmt"
	"strings"
)

// Mode selects which entry file of a scenario is launched.
type Mode int

const (
	// ModeDefault launches main.
	ModeDefault Mode = iota
	// ModeSync launches main_sync.
	ModeSync
	// ModeAsync launches main_async.
	ModeAsync
)

// IsValid reports whether m is a recognized Mode value.
func (m Mode) IsValid() bool {
	switch m {
	case ModeDefault, ModeSync, ModeAsync:
		return true
	default:
		return false
	}
}

// String returns the mode name as accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeSync:
		return "sync"
	case ModeAsync:
		return "async"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// EntryName returns the entry file base name, without extension.
func (m Mode) EntryName() string {
	switch m {
	case ModeSync:
		return "main_sync"
	case ModeAsync:
		return "main_async"
	default:
		return "main"
	}
}

// ParseMode maps a mode string to a Mode. The empty string, "default" and
// "undefined" (what browser test glue passes for an omitted argument) all
// select ModeDefault. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "undefined":
		return ModeDefault, nil
	case "sync":
		return ModeSync, nil
	case "async":
		return ModeAsync, nil
	default:
		return ModeDefault, fmt.Errorf("%w %q: want sync or async", ErrUnknownMode, s)
	}
}

// Scenario names one e2e fixture and the mode to launch it in. It is
// immutable for the duration of a cycle.
type Scenario struct {
	Name string
	Mode Mode
}

// Validate checks that Name is a single path element and Mode is known.
func (s Scenario) Validate() error {
	if s.Name == "" || s.Name == "." || s.Name == ".." || strings.ContainsAny(s.Name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidScenario, s.Name)
	}
	if !s.Mode.IsValid() {
		return fmt.Errorf("%w: %v", ErrUnknownMode, s.Mode)
	}
	return nil
}
