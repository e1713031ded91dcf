package members

import "github.com/junioryono/ginject/internal/typesys"

// Marker is a recognized annotation meaning.
type Marker int

const (
	Inject Marker = iota
	Singleton
	EagerSingleton
	Provides
	Module
)

// String returns the marker name.
func (m Marker) String() string {
	switch m {
	case Inject:
		return "Inject"
	case Singleton:
		return "Singleton"
	case EagerSingleton:
		return "EagerSingleton"
	case Provides:
		return "Provides"
	case Module:
		return "Module"
	default:
		return "Unknown"
	}
}

// Markers maps each recognized meaning to the annotation names that express
// it.
type Markers map[Marker][]string

// DefaultMarkers returns the annotation names written by the source loader.
func DefaultMarkers() Markers {
	return Markers{
		Inject:         {"inject"},
		Singleton:      {"singleton"},
		EagerSingleton: {"eager"},
		Provides:       {"provides"},
		Module:         {"module"},
	}
}

// Has reports whether a carries any annotation name for m.
func (t Markers) Has(a typesys.Annotations, m Marker) bool {
	return a.Has(t[m]...)
}
