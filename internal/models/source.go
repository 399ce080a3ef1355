// Package models contains shared data structures used across the application.
package models

// Source is an audio input device as exposed by the sound server.
// Name is the stable identifier used by pactl; Description is the human label.
type Source struct {
	Name        string
	Description string
}

// Label returns the text shown for the source in menus.
// Sources without a description fall back to their raw name.
func (s Source) Label() string {
	if s.Description == "" {
		return s.Name
	}
	return s.Description
}

// Registry is one enumeration of input sources plus the system default.
// A Registry is replaced wholesale on refresh and never mutated in place.
type Registry struct {
	Sources       []Source
	DefaultSource string // empty when unknown
}

// Find returns the source with the given name.
func (r Registry) Find(name string) (Source, bool) {
	for _, s := range r.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// Clone returns a copy whose Sources slice does not alias r's.
func (r Registry) Clone() Registry {
	out := Registry{DefaultSource: r.DefaultSource}
	if r.Sources != nil {
		out.Sources = make([]Source, len(r.Sources))
		copy(out.Sources, r.Sources)
	}
	return out
}
