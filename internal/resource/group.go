package resource

// Group declares a system group. System controls the GID range groupadd
// allocates from when GID is unset.
type Group struct {
	base
	Name   string
	System bool
	GID    *int
}

func (g *Group) Identity() ID { return ID{Kind: KindGroup, Key: g.Name} }

func parseGroup(tree map[string]any, file, key string) (*Group, error) {
	g := &Group{}

	name, err := getString(tree, file, key, "name", true)
	if err != nil {
		return nil, err
	}
	g.Name = name

	if g.System, err = getBoolDefault(tree, file, key, "system", false); err != nil {
		return nil, err
	}

	if gid, ok, err := getInt(tree, file, key, "gid"); err != nil {
		return nil, err
	} else if ok {
		g.GID = &gid
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	g.Ensure = Ensure(ensure)
	if !ValidEnsure(KindGroup, g.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if g.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return g, nil
}
