package buildsys

import "context"

// BuildSystem captures what the orchestrator needs from a native build
// driver: where to run, which environment and variables to pass, and a way
// to run a target.
type BuildSystem interface {
	// Basic paths.
	Source(dir string)

	// Environment and command line variables.
	Env(key, val string)
	Var(key, val string)

	// Build runs the given targets and waits for them.
	Build(ctx context.Context, targets ...string) error
}

// Factory creates a BuildSystem running tool. The source directory is set
// afterwards with Source.
type Factory func(tool string) BuildSystem
