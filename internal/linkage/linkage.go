// Package linkage describes the search paths and libraries a program needs to
// link against the vendored L-BFGS library, and renders them for a host
// build system.
package linkage

// Kind is how a library is linked. Its value is also the Makefile target that
// produces a library of that kind.
type Kind string

const (
	Static  Kind = "static"
	Dynamic Kind = "dylib"
)

// SelectKind returns Static when the static option is set, Dynamic otherwise.
func SelectKind(static bool) Kind {
	if static {
		return Static
	}
	return Dynamic
}

func (k Kind) String() string { return string(k) }

// DirectiveType distinguishes search path directives from link directives.
type DirectiveType string

const (
	SearchType DirectiveType = "search"
	LibType    DirectiveType = "lib"
)

// A Directive is one instruction to the linker.
type Directive struct {
	Type DirectiveType `json:"type" yaml:"type"`
	Path string        `json:"path,omitempty" yaml:"path,omitempty"` // SearchType only
	Lib  string        `json:"lib,omitempty" yaml:"lib,omitempty"`   // LibType only
	Kind Kind          `json:"kind,omitempty" yaml:"kind,omitempty"` // LibType only
}

// Search returns a directive adding dir to the library search path.
func Search(dir string) Directive {
	return Directive{Type: SearchType, Path: dir}
}

// Link returns a directive linking lib with the given kind.
func Link(kind Kind, lib string) Directive {
	return Directive{Type: LibType, Lib: lib, Kind: kind}
}

// SearchPaths returns the directories of all search directives in ds.
func SearchPaths(ds []Directive) []string {
	var dirs []string
	for _, d := range ds {
		if d.Type == SearchType {
			dirs = append(dirs, d.Path)
		}
	}
	return dirs
}
