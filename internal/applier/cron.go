package applier

import (
	"context"
	"fmt"
	"os"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyCronJob(ctx context.Context, r wire.Resource) (Status, error) {
	path := "/etc/cron.d/" + r.ID.Key

	if attrString(r, "ensure") == "absent" {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return NoChange, nil
			}
			return NoChange, err
		}
		return Applied, nil
	}

	rendered := fmt.Sprintf("%s\t%s\t%s\n", attrString(r, "schedule"), attrString(r, "user"), attrString(r, "command"))

	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == rendered {
		return NoChange, nil
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return NoChange, err
	}
	return Applied, nil
}
