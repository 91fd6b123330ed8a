package resource

// File declares a regular file managed at Path. At most one of Content
// or Source may be set (spec §3 invariant 6); Source names a path under
// the asset root, resolved and streamed by the agent's applier.
type File struct {
	base
	Path    string
	Mode    string
	Owner   string
	Group   string
	Content *string
	Source  *string
}

func (f *File) Identity() ID { return ID{Kind: KindFile, Key: f.Path} }

func parseFile(tree map[string]any, file, key string) (*File, error) {
	f := &File{}

	p, err := getString(tree, file, key, "path", true)
	if err != nil {
		return nil, err
	}
	np, err := NormalizePath(p)
	if err != nil {
		return nil, fieldError(file, key, "path", err.Error())
	}
	f.Path = np

	if f.Mode, err = getStringDefault(tree, file, key, "mode", "0644"); err != nil {
		return nil, err
	}
	if f.Mode, err = ParseMode(f.Mode); err != nil {
		return nil, fieldError(file, key, "mode", err.Error())
	}
	if f.Owner, err = getStringDefault(tree, file, key, "owner", "root"); err != nil {
		return nil, err
	}
	if f.Group, err = getStringDefault(tree, file, key, "group", "root"); err != nil {
		return nil, err
	}

	if v, ok := tree["content"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(file, key, "content", "string", v)
		}
		f.Content = &s
	}
	if v, ok := tree["source"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, typeMismatch(file, key, "source", "string", v)
		}
		f.Source = &s
	}
	if f.Content != nil && f.Source != nil {
		return nil, fieldError(file, key, "content", "a file may not set both content and source")
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	f.Ensure = Ensure(ensure)
	if !ValidEnsure(KindFile, f.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if f.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return f, nil
}
