package typesys

import "fmt"

// Key identifies a bindable dependency: a type plus an optional qualifier.
// Keys are comparable and may be used as map keys.
type Key struct {
	Type      *Type
	Qualifier string
}

// KeyOf returns the unqualified key for t.
func KeyOf(t *Type) Key {
	return Key{Type: t}
}

// QualifiedKey returns the key for t annotated with qualifier.
func QualifiedKey(t *Type, qualifier string) Key {
	return Key{Type: t, Qualifier: qualifier}
}

// IsZero reports whether k has no type.
func (k Key) IsZero() bool {
	return k.Type == nil
}

// IsProvider reports whether k requests a provider func() T.
func (k Key) IsProvider() bool {
	return k.Type.IsProvider()
}

// ProvidedKey returns the key a provider key defers to: the result type of
// the func, carrying the same qualifier.
func (k Key) ProvidedKey() Key {
	return Key{Type: k.Type.results[0], Qualifier: k.Qualifier}
}

// String returns a readable representation of the key.
func (k Key) String() string {
	if k.Qualifier != "" {
		return fmt.Sprintf("%s@%s", k.Type, k.Qualifier)
	}
	return k.Type.String()
}
