package applier

import (
	"context"
	"os/user"
	"strconv"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyUser(ctx context.Context, r wire.Resource) (Status, error) {
	name := r.ID.Key
	_, err := user.Lookup(name)
	exists := err == nil

	if attrString(r, "ensure") == "absent" {
		if !exists {
			return NoChange, nil
		}
		if _, err := d.Run.Run(ctx, "userdel", name); err != nil {
			return NoChange, err
		}
		return Applied, nil
	}

	args := []string{
		"--shell", attrString(r, "shell"),
		"--home", attrString(r, "home"),
		"--gid", attrString(r, "group"),
		"--comment", attrString(r, "comment"),
		"--password", attrString(r, "password"),
	}
	if uid := attrInt(r, "uid"); uid != 0 {
		args = append(args, "--uid", strconv.Itoa(uid))
	}
	if groups := attrStringSlice(r, "groups"); len(groups) > 0 {
		args = append(args, "--groups", joinComma(groups))
	}
	if expiry := attrString(r, "expiry_date"); expiry != "" {
		args = append(args, "--expiredate", expiry)
	}

	if !exists {
		createArgs := append(append([]string{}, args...), "--create-home")
		if attrBool(r, "system") {
			createArgs = append(createArgs, "--system")
		}
		if _, err := d.Run.Run(ctx, "useradd", append(createArgs, name)...); err != nil {
			return NoChange, err
		}
		return Applied, nil
	}
	if _, err := d.Run.Run(ctx, "usermod", append(args, name)...); err != nil {
		return NoChange, err
	}
	return NoChange, nil
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
