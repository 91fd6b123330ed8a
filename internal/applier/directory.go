package applier

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyDirectory(ctx context.Context, r wire.Resource) (Status, error) {
	path := r.ID.Key

	if attrString(r, "ensure") == "absent" {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return NoChange, nil
			}
			return NoChange, err
		}
		return Applied, nil
	}

	mode, err := parseMode(attrString(r, "mode"))
	if err != nil {
		return NoChange, err
	}

	existed := true
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return NoChange, err
		}
		existed = false
		if err := os.MkdirAll(path, mode); err != nil {
			return NoChange, err
		}
	}
	if err := os.Chmod(path, mode); err != nil {
		return NoChange, err
	}
	if err := chownByName(path, attrString(r, "owner"), attrString(r, "group")); err != nil {
		return NoChange, err
	}

	if attrBool(r, "purge") {
		if err := purgeUnmanaged(path, r.PurgeChildren); err != nil {
			return NoChange, err
		}
	}

	if existed {
		return NoChange, nil
	}
	return Applied, nil
}

// purgeUnmanaged removes any immediate child of dir not named in
// managed (identity-key strings from the graph's purge_children set,
// spec §4.I "Purge behavior").
func purgeUnmanaged(dir string, managed []string) error {
	known := make(map[string]bool, len(managed))
	for _, id := range managed {
		known[managedPath(id)] = true
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if known[full] {
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return err
		}
	}
	return nil
}

// managedPath extracts the filesystem path from a "kind:key" identity
// string for file/directory/symlink entries, whose key is always a path.
func managedPath(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			return id[i+1:]
		}
	}
	return id
}
