package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goplus/lbfgs/internal/linkage"
	"github.com/goplus/lbfgs/internal/target"
)

// Output directory layout after a successful build:
//
//	outDir/
//	  .lbfgs.lock    # held while a build writes outDir
//	  .lbfgs.json    # manifest: what was built and how to link it
//	  liblbfgs.*     # written by the Makefile
const manifestFile = ".lbfgs.json"

type manifest struct {
	Kind       linkage.Kind        `json:"kind"`
	Target     string              `json:"target"`
	OS         target.OSName       `json:"os"`
	Tool       string              `json:"tool"`
	Directives []linkage.Directive `json:"directives"`
	BuildTime  time.Time           `json:"build_time"`
}

func saveManifest(res *Result) error {
	m := manifest{
		Kind:       res.Kind,
		Target:     res.Target.String(),
		OS:         res.OS,
		Tool:       res.Tool,
		Directives: res.Directives,
		BuildTime:  res.BuildTime,
	}
	data, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(res.OutputDir, manifestFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadResult reads the manifest left in outDir by the last successful build.
func LoadResult(outDir string) (*Result, error) {
	path := filepath.Join(outDir, manifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := target.Parse(m.Target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Result{
		Kind:       m.Kind,
		Target:     t,
		OS:         m.OS,
		Tool:       m.Tool,
		OutputDir:  outDir,
		Directives: m.Directives,
		BuildTime:  m.BuildTime,
	}, nil
}
