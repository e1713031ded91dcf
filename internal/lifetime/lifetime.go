// Package lifetime decides how long the instances of each binding live in a
// generated injector.
package lifetime

import (
	"encoding/json"
	"fmt"
)

// Scope specifies how a generated getter caches the values it creates.
type Scope int

const (
	// NoScope creates a new value on every request. The getter delegates
	// straight to the creator and no field is generated.
	NoScope Scope = iota

	// Singleton creates one value on first request and caches it in a field
	// of the injector.
	Singleton

	// EagerSingleton is a Singleton whose getter is also called once from
	// the generated constructor, so the value exists before the first
	// request.
	EagerSingleton
)

// String returns the string representation of the Scope.
func (s Scope) String() string {
	switch s {
	case NoScope:
		return "NoScope"
	case Singleton:
		return "Singleton"
	case EagerSingleton:
		return "EagerSingleton"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsValid checks if the scope is valid.
func (s Scope) IsValid() bool {
	return s >= NoScope && s <= EagerSingleton
}

// Memoized reports whether getters of the scope cache their value.
func (s Scope) Memoized() bool {
	return s == Singleton || s == EagerSingleton
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, ScopeError{Value: int(s)}
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	switch string(text) {
	case "NoScope", "noscope", "none", "":
		*s = NoScope
	case "Singleton", "singleton":
		*s = Singleton
	case "EagerSingleton", "eagersingleton", "eager":
		*s = EagerSingleton
	default:
		return ScopeError{Value: string(text)}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Scope) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scope) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}

	return s.UnmarshalText([]byte(text))
}

// ScopeError indicates an invalid scope value.
type ScopeError struct {
	Value any
}

func (e ScopeError) Error() string {
	return fmt.Sprintf("invalid scope: %v", e.Value)
}
