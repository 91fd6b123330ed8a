package applier

import (
	"context"
	"errors"
	"os"
	"strconv"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyFile(ctx context.Context, r wire.Resource) (Status, error) {
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

	var content []byte
	if c, ok := r.Attributes["content"].(string); ok {
		content = []byte(c)
	} else if src, ok := r.Attributes["source"].(string); ok {
		if d.Assets == nil {
			return NoChange, errors.New("file references an asset source but no asset root is configured")
		}
		f, err := d.Assets.Open(src)
		if err != nil {
			return NoChange, err
		}
		defer func() { _ = f.Close() }()
		buf := make([]byte, 0, 4096)
		tmp := make([]byte, 4096)
		for {
			n, rerr := f.Read(tmp)
			buf = append(buf, tmp[:n]...)
			if rerr != nil {
				break
			}
		}
		content = buf
	}

	existing, err := os.ReadFile(path)
	unchanged := err == nil && string(existing) == string(content)

	if !unchanged {
		if err := os.WriteFile(path, content, mode); err != nil {
			return NoChange, err
		}
	}
	if err := os.Chmod(path, mode); err != nil {
		return NoChange, err
	}
	if err := chownByName(path, attrString(r, "owner"), attrString(r, "group")); err != nil {
		return NoChange, err
	}

	if unchanged {
		return NoChange, nil
	}
	return Applied, nil
}

func parseMode(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(v), nil
}
