package resource

// Directory declares a managed directory. When Purge is true, the
// applier removes any immediate child not tracked as one of this
// directory's managed children (spec §4.E "directory children tracking").
type Directory struct {
	base
	Path  string
	Mode  string
	Owner string
	Group string
	Purge bool
}

func (d *Directory) Identity() ID { return ID{Kind: KindDirectory, Key: d.Path} }

func parseDirectory(tree map[string]any, file, key string) (*Directory, error) {
	d := &Directory{}

	p, err := getString(tree, file, key, "path", true)
	if err != nil {
		return nil, err
	}
	np, err := NormalizePath(p)
	if err != nil {
		return nil, fieldError(file, key, "path", err.Error())
	}
	d.Path = np

	if d.Mode, err = getStringDefault(tree, file, key, "mode", "0755"); err != nil {
		return nil, err
	}
	if d.Mode, err = ParseMode(d.Mode); err != nil {
		return nil, fieldError(file, key, "mode", err.Error())
	}
	if d.Owner, err = getStringDefault(tree, file, key, "owner", "root"); err != nil {
		return nil, err
	}
	if d.Group, err = getStringDefault(tree, file, key, "group", "root"); err != nil {
		return nil, err
	}
	if d.Purge, err = getBoolDefault(tree, file, key, "purge", false); err != nil {
		return nil, err
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	d.Ensure = Ensure(ensure)
	if !ValidEnsure(KindDirectory, d.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if d.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return d, nil
}
