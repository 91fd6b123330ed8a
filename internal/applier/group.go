package applier

import (
	"context"
	"os/user"
	"strconv"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyGroup(ctx context.Context, r wire.Resource) (Status, error) {
	name := r.ID.Key
	_, err := user.LookupGroup(name)
	exists := err == nil

	if attrString(r, "ensure") == "absent" {
		if !exists {
			return NoChange, nil
		}
		if _, err := d.Run.Run(ctx, "groupdel", name); err != nil {
			return NoChange, err
		}
		return Applied, nil
	}
	if exists {
		return NoChange, nil
	}

	args := []string{}
	if gid := attrInt(r, "gid"); gid != 0 {
		args = append(args, "--gid", strconv.Itoa(gid))
	}
	if attrBool(r, "system") {
		args = append(args, "--system")
	}
	if _, err := d.Run.Run(ctx, "groupadd", append(args, name)...); err != nil {
		return NoChange, err
	}
	return Applied, nil
}
