package file

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// LoadDotEnv loads environment variables from the given files, or ".env" in
// the working directory when none are given. Missing files are skipped and
// variables already set in the environment are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		logger.Debug("Loaded environment from %s", path)
	}
	return nil
}
