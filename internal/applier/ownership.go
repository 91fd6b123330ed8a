package applier

import (
	"os"
	"os/user"
	"strconv"
)

// chownByName resolves owner/group names to numeric IDs via os/user and
// applies them. Empty names are skipped so callers can pass through
// whatever the resource declared, defaults included.
func chownByName(path, owner, group string) error {
	if owner == "" && group == "" {
		return nil
	}
	uid := -1
	gid := -1
	if owner != "" {
		u, err := user.Lookup(owner)
		if err != nil {
			return err
		}
		uid, err = strconv.Atoi(u.Uid)
		if err != nil {
			return err
		}
	}
	if group != "" {
		g, err := user.LookupGroup(group)
		if err != nil {
			return err
		}
		gid, err = strconv.Atoi(g.Gid)
		if err != nil {
			return err
		}
	}
	return os.Chown(path, uid, gid)
}
