package resource

// Symlink declares a symbolic link at Path pointing to Target.
type Symlink struct {
	base
	Path   string
	Target string
	Owner  string
	Group  string
}

func (s *Symlink) Identity() ID { return ID{Kind: KindSymlink, Key: s.Path} }

func parseSymlink(tree map[string]any, file, key string) (*Symlink, error) {
	s := &Symlink{}

	p, err := getString(tree, file, key, "path", true)
	if err != nil {
		return nil, err
	}
	np, err := NormalizePath(p)
	if err != nil {
		return nil, fieldError(file, key, "path", err.Error())
	}
	s.Path = np

	if s.Target, err = getString(tree, file, key, "target", true); err != nil {
		return nil, err
	}
	if s.Owner, err = getStringDefault(tree, file, key, "owner", "root"); err != nil {
		return nil, err
	}
	if s.Group, err = getStringDefault(tree, file, key, "group", "root"); err != nil {
		return nil, err
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	s.Ensure = Ensure(ensure)
	if !ValidEnsure(KindSymlink, s.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if s.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return s, nil
}
