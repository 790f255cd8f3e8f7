package linkage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goplus/lbfgs/internal/target"
)

// Format selects how directives are rendered.
type Format string

const (
	FormatCgo     Format = "cgo"     // Go source file with #cgo LDFLAGS
	FormatLDFlags Format = "ldflags" // one line suitable for CGO_LDFLAGS
	FormatCargo   Format = "cargo"   // cargo:rustc-link-* lines
	FormatJSON    Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{FormatCgo, FormatLDFlags, FormatCargo, FormatJSON}

// ParseFormat validates s as a Format.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want one of cgo, ldflags, cargo, json)", s)
}

// Options tune rendering.
type Options struct {
	// Package is the package clause of generated cgo files.
	Package string
}

// Write renders ds for t in format f.
func Write(w io.Writer, f Format, t target.Triple, ds []Directive, opts Options) error {
	switch f {
	case FormatCgo:
		return writeCgo(w, t, ds, opts)
	case FormatLDFlags:
		_, err := fmt.Fprintln(w, joinQuoted(LDFlags(t, ds)))
		return err
	case FormatCargo:
		return writeCargo(w, ds)
	case FormatJSON:
		return writeJSON(w, t, ds)
	}
	return fmt.Errorf("unknown format %q", f)
}

// CgoFileName returns the default file name for a generated cgo file, so that
// one file per target can live side by side in a package.
func CgoFileName(t target.Triple) string {
	return fmt.Sprintf("lbfgs_%s_%s.go", t.GoOS(), t.GoArch())
}

// LDFlags renders ds as linker flags for t.
func LDFlags(t target.Triple, ds []Directive) []string {
	osName, _ := t.OSName()
	var dirs, flags []string
	for _, d := range ds {
		switch d.Type {
		case SearchType:
			dirs = append(dirs, d.Path)
			flags = append(flags, "-L"+d.Path)
		case LibType:
			if d.Kind != Static {
				flags = append(flags, "-l"+d.Lib)
				continue
			}
			// ld64 has no -Bstatic; name the archive instead.
			if osName == target.Macos {
				if archive := findArchive(dirs, d.Lib); archive != "" {
					flags = append(flags, archive)
				} else {
					flags = append(flags, "-l"+d.Lib)
				}
				continue
			}
			flags = append(flags, "-Wl,-Bstatic", "-l"+d.Lib, "-Wl,-Bdynamic")
		}
	}
	return flags
}

func findArchive(dirs []string, lib string) string {
	name := "lib" + lib + ".a"
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

func writeCargo(w io.Writer, ds []Directive) error {
	for _, d := range ds {
		var err error
		switch d.Type {
		case SearchType:
			_, err = fmt.Fprintf(w, "cargo:rustc-link-search=%s\n", d.Path)
		case LibType:
			_, err = fmt.Fprintf(w, "cargo:rustc-link-lib=%s=%s\n", d.Kind, d.Lib)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type jsonReport struct {
	Target     string      `json:"target"`
	OS         string      `json:"os"`
	Directives []Directive `json:"directives"`
	LDFlags    []string    `json:"ldflags"`
}

func writeJSON(w io.Writer, t target.Triple, ds []Directive) error {
	osName, _ := t.OSName()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Target:     t.String(),
		OS:         string(osName),
		Directives: ds,
		LDFlags:    LDFlags(t, ds),
	})
}

func writeCgo(w io.Writer, t target.Triple, ds []Directive, opts Options) error {
	pkg := opts.Package
	if pkg == "" {
		pkg = "lbfgs"
	}
	var b strings.Builder
	b.WriteString("// Code generated by lbfgs-build. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "//go:build %s && %s\n\n", t.GoOS(), t.GoArch())
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	fmt.Fprintf(&b, "// #cgo LDFLAGS: %s\n", joinQuoted(LDFlags(t, ds)))
	b.WriteString("import \"C\"\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// joinQuoted renders flags as one line the go command splits back into the
// same arguments, for both #cgo lines and CGO_LDFLAGS.
func joinQuoted(flags []string) string {
	quoted := make([]string, len(flags))
	for i, f := range flags {
		quoted[i] = quoteCgo(f)
	}
	return strings.Join(quoted, " ")
}

// quoteCgo quotes an argument for a #cgo line, which splits on spaces.
func quoteCgo(s string) string {
	if !strings.ContainsAny(s, " \t'\"\\") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
