package target

// Runtime archives the Fortran compiler is asked about.
const (
	LibGfortran = "libgfortran.a"
	LibGcc      = "libgcc.a"
)

// Policy encodes where a target's toolchain keeps the Fortran runtime and how
// it must be linked.
type Policy struct {
	// DylibProbes are archives whose directories are added as search paths
	// before the vendored library is linked, so the runtime's shared
	// libraries next to them can be found.
	DylibProbes []string

	// StaticProbes are archives whose directories are added as search paths
	// for linking the runtime statically.
	StaticProbes []string

	// StaticRuntime forces gfortran (and ExtraLibs) to be linked statically.
	StaticRuntime bool

	// ExtraLibs are linked after gfortran with the same kind.
	ExtraLibs []string
}

// PolicyFor returns the runtime policy for t. Targets not listed need no
// probing and link the runtime dynamically.
func PolicyFor(t Triple) Policy {
	switch t.String() {
	case "aarch64-apple-darwin":
		return Policy{DylibProbes: []string{LibGfortran, LibGcc}}
	case "x86_64-apple-darwin":
		return Policy{
			StaticProbes:  []string{LibGfortran},
			StaticRuntime: true,
			ExtraLibs:     []string{"quadmath"},
		}
	case "x86_64-pc-windows-gnu":
		return Policy{
			StaticProbes:  []string{LibGfortran},
			StaticRuntime: true,
		}
	}
	return Policy{}
}

// NeedsCompiler reports whether the policy queries the Fortran compiler.
func (p Policy) NeedsCompiler() bool {
	return len(p.DylibProbes)+len(p.StaticProbes) > 0
}
