package applier

import (
	"context"
	"errors"
	"os"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applySymlink(ctx context.Context, r wire.Resource) (Status, error) {
	path := r.ID.Key
	target := attrString(r, "target")

	if attrString(r, "ensure") == "absent" {
		if err := os.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return NoChange, nil
			}
			return NoChange, err
		}
		return Applied, nil
	}

	current, err := os.Readlink(path)
	if err == nil && current == target {
		return NoChange, nil
	}
	if err == nil || errors.Is(err, os.ErrNotExist) {
		_ = os.Remove(path)
	}
	if err := os.Symlink(target, path); err != nil {
		return NoChange, err
	}
	return Applied, nil
}
