package runner

import (
	"fmt"
	"os"

	"github.com/parro-it/fileargs"
)

// ReadTimes reads the periods to run from `file`,
// relative to directory `dir`.
func ReadTimes(dir, file string) (*fileargs.FileArguments, error) {
	fsys := os.DirFS(dir)
	args, err := fileargs.ReadFile(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("cannot read periods from `%s`: %w", file, err)
	}
	return args, nil
}
