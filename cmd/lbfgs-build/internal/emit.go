package internal

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/goplus/lbfgs/internal/build"
	"github.com/goplus/lbfgs/internal/ctxlog"
	"github.com/goplus/lbfgs/internal/linkage"
)

// emit renders the directives of res to dest, or to stdout when dest is
// empty. A directory dest receives the default cgo file name.
func emit(cmd *cobra.Command, format linkage.Format, dest, pkg string, res *build.Result) error {
	var buf bytes.Buffer
	if err := linkage.Write(&buf, format, res.Target, res.Directives, linkage.Options{Package: pkg}); err != nil {
		return err
	}
	if dest == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}

	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		if format != linkage.FormatCgo {
			return fmt.Errorf("--emit-file %s is a directory; only the cgo format names its own file", dest)
		}
		dest = filepath.Join(dest, linkage.CgoFileName(res.Target))
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write directives: %w", err)
	}
	ctxlog.FromContext(cmd.Context()).Info("wrote directives", "file", dest, "format", format)
	return nil
}
