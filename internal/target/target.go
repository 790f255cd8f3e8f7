// Package target maps a compilation target triple to the values the vendored
// Makefile and the linker need: the OS name, the make tool and the
// per-target Fortran runtime policy.
package target

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

var (
	// ErrInvalidTriple is returned for strings that are not arch-[vendor-]os[-env].
	ErrInvalidTriple = errors.New("invalid target triple")
	// ErrUnknownOS is returned for triples whose OS no branch of the build handles.
	ErrUnknownOS = errors.New("unknown target OS")
)

// OSName is the OSNAME value passed to the vendored Makefile.
type OSName string

const (
	Macos   OSName = "Macos"
	Windows OSName = "Windows"
	Linux   OSName = "Linux"
)

// unixLike lists OS components built through the Makefile's Linux branch.
var unixLike = map[string]bool{
	"linux":     true,
	"android":   true,
	"freebsd":   true,
	"netbsd":    true,
	"openbsd":   true,
	"dragonfly": true,
	"solaris":   true,
	"illumos":   true,
}

// Triple is a parsed target triple such as "x86_64-pc-windows-gnu".
type Triple struct {
	Arch   string
	Vendor string // empty for triples like "aarch64-linux-android"
	OS     string
	Env    string
	raw    string
}

// Parse splits s into its components. It does not check that the OS is
// supported; see OSName.
func Parse(s string) (Triple, error) {
	parts := strings.Split(s, "-")
	for _, p := range parts {
		if p == "" {
			return Triple{}, fmt.Errorf("%w: %q", ErrInvalidTriple, s)
		}
	}
	t := Triple{Arch: parts[0], raw: s}
	switch len(parts) {
	case 2:
		t.OS = parts[1]
	case 3:
		if isOS(parts[1]) {
			t.OS, t.Env = parts[1], parts[2]
		} else {
			t.Vendor, t.OS = parts[1], parts[2]
		}
	case 4:
		t.Vendor, t.OS, t.Env = parts[1], parts[2], parts[3]
	default:
		return Triple{}, fmt.Errorf("%w: %q", ErrInvalidTriple, s)
	}
	return t, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Triple {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Triple) String() string { return t.raw }

// OSName returns the Makefile's name for the triple's OS family.
func (t Triple) OSName() (OSName, error) {
	os := t.OS
	if strings.HasPrefix(os, "darwin") || os == "macos" {
		return Macos, nil
	}
	if os == "windows" {
		return Windows, nil
	}
	if unixLike[os] {
		return Linux, nil
	}
	return "", fmt.Errorf("%w: %q in %s", ErrUnknownOS, os, t.raw)
}

func isOS(s string) bool {
	return unixLike[s] || s == "windows" || s == "macos" || strings.HasPrefix(s, "darwin")
}

// BuildTool returns the make program for os. The MinGW toolchain ships GNU
// make as mingw32-make.
func BuildTool(os OSName) string {
	if os == Windows {
		return "mingw32-make"
	}
	return "make"
}

var goArchToArch = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"arm":     "armv7",
	"riscv64": "riscv64gc",
	"ppc64le": "powerpc64le",
	"s390x":   "s390x",
	"loong64": "loongarch64",
}

// FromGo returns the triple cgo targets for goos/goarch. Windows maps to the
// GNU (MinGW) environment since that is the toolchain cgo uses there.
func FromGo(goos, goarch string) (Triple, error) {
	arch, ok := goArchToArch[goarch]
	if !ok {
		return Triple{}, fmt.Errorf("%w: GOARCH=%s", ErrUnknownOS, goarch)
	}
	switch goos {
	case "darwin":
		return Parse(arch + "-apple-darwin")
	case "windows":
		return Parse(arch + "-pc-windows-gnu")
	case "linux":
		return Parse(arch + "-unknown-linux-gnu")
	case "android":
		return Parse(arch + "-linux-android")
	case "freebsd", "netbsd", "openbsd", "dragonfly":
		return Parse(arch + "-unknown-" + goos)
	}
	return Triple{}, fmt.Errorf("%w: GOOS=%s", ErrUnknownOS, goos)
}

// Host returns the triple of the running Go toolchain.
func Host() (Triple, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

// GoOS returns the GOOS value matching the triple, for build constraints.
func (t Triple) GoOS() string {
	switch {
	case strings.HasPrefix(t.OS, "darwin"), t.OS == "macos":
		return "darwin"
	case t.OS == "linux" && strings.HasPrefix(t.Env, "android"):
		return "android"
	}
	return t.OS
}

// GoArch returns the GOARCH value matching the triple, for build constraints.
func (t Triple) GoArch() string {
	for goarch, arch := range goArchToArch {
		if arch == t.Arch {
			return goarch
		}
	}
	switch {
	case strings.HasPrefix(t.Arch, "armv"):
		return "arm"
	case strings.HasPrefix(t.Arch, "riscv64"):
		return "riscv64"
	case t.Arch == "i386", t.Arch == "i586":
		return "386"
	}
	return t.Arch
}
