// Command lbfgs-build compiles the vendored Fortran L-BFGS library and prints
// the linker directives needed to use it from cgo.
//
// Typical use from a Go package:
//
//	//go:generate go run github.com/goplus/lbfgs/cmd/lbfgs-build build --out ../build/lbfgs --format cgo --emit-file .
package main

import "github.com/goplus/lbfgs/cmd/lbfgs-build/internal"

func main() {
	internal.Execute()
}
