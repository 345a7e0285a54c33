package generator

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bench/errors"
	"github.com/wippyai/wasm-bench/scenario"
)

// OutputPath returns where a module for s with extension ext is written
// inside dir.
func OutputPath(dir string, s scenario.Scenario, ext string) string {
	return filepath.Join(dir, s.String()+ext)
}

// writeOutput writes data to dir/<s><ext>, truncating any existing file.
// The directory must already exist.
func writeOutput(s scenario.Scenario, dir, ext string, data []byte) (path string, err error) {
	path = OutputPath(dir, s, ext)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", errors.OutputIO(s.String(), path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			path, err = "", errors.OutputIO(s.String(), path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return "", errors.OutputIO(s.String(), path, err)
	}

	Logger().Debug("wrote module",
		zap.Stringer("scenario", s),
		zap.String("path", path),
		zap.Int("bytes", len(data)))

	return path, nil
}
