package engine

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

var ErrOutputNotMaterialized = errors.New("upstream output has not been materialized")

// artifactStore records, per task, where each named output landed. It is
// written by completed tasks and read by their dependents, which the
// scheduler guarantees never overlap in time for the same entry.
type artifactStore struct {
	mu    sync.RWMutex
	paths map[string]map[string]string
}

func newArtifactStore() *artifactStore {
	return &artifactStore{paths: make(map[string]map[string]string)}
}

func (s *artifactStore) set(task, output, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paths[task] == nil {
		s.paths[task] = make(map[string]string)
	}

	s.paths[task][output] = path
}

func (s *artifactStore) lookup(task, output string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, ok := s.paths[task][output]
	if !ok {
		return "", errors.Wrapf(ErrOutputNotMaterialized, "%s.%s", task, output)
	}

	return path, nil
}

// copyFile materialises an artifact at its mapped destination.
func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrap(err, "unable to create the destination folder")
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "unable to open the artifact")
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "unable to create the destination file")
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return errors.Wrap(err, "unable to copy the artifact")
	}

	return nil
}
