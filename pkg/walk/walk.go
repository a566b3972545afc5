// Package walk implements the directory-walker collaborator described in
// §6.1: it yields (path, arcname) pairs for everything under a root,
// skipping symlinks with a logged warning rather than following them.
package walk

import (
	"io/fs"
	"path/filepath"

	"github.com/archivekit/splitzip/pkg/logging"
)

// Pair is one (filesystem path, archive member name) yielded by Walk.
type Pair struct {
	Path    string
	Arcname string
	IsDir   bool
}

// Walk traverses root and returns every regular file and directory beneath
// it as a Pair, with arcnames relative to root using forward slashes.
// Symlinks are skipped; each skip is logged as a warning via logger (use
// logging.DefaultLogger() to silence it).
func Walk(root string, logger *logging.Logger) ([]Pair, error) {
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	var pairs []Pair
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			logger.Info("skipping symlink", "path", path)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		arcname := filepath.ToSlash(rel)
		if d.IsDir() {
			arcname += "/"
		}
		pairs = append(pairs, Pair{Path: path, Arcname: arcname, IsDir: d.IsDir()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
