package resource

import "github.com/pullconf/pullconf/internal/perr"

// Parse dispatches a variable-resolved parameter tree to its kind-specific
// parser based on the "type" field, then records provenance. index is the
// resource's position in its document; its decimal form labels error
// messages, since the real identity is not known until parsing succeeds.
func Parse(tree map[string]any, file string, level Level, index int) (Resource, error) {
	typ, ok := tree["type"].(string)
	if !ok || typ == "" {
		return nil, &perr.ConfigError{File: file, Reason: "resource is missing a \"type\" field"}
	}
	kind := Kind(typ)
	label := indexLabel(index)

	var (
		r   Resource
		err error
	)
	switch kind {
	case KindFile:
		r, err = parseFile(tree, file, label)
	case KindDirectory:
		r, err = parseDirectory(tree, file, label)
	case KindSymlink:
		r, err = parseSymlink(tree, file, label)
	case KindHost:
		r, err = parseHost(tree, file, label)
	case KindUser:
		r, err = parseUser(tree, file, label)
	case KindGroup:
		r, err = parseGroup(tree, file, label)
	case KindAptPackage:
		r, err = parseAptPackage(tree, file, label)
	case KindAptPreference:
		r, err = parseAptPreference(tree, file, label)
	case KindCronJob:
		r, err = parseCronJob(tree, file, label)
	case KindResolvConf:
		r, err = parseResolvConf(tree, file, label)
	default:
		return nil, &perr.ConfigError{File: file, Resource: label, Field: "type", Reason: "unknown resource type " + typ}
	}
	if err != nil {
		return nil, err
	}
	SetSource(r, file, level)
	return r, nil
}

func indexLabel(i int) string {
	const letters = "0123456789"
	if i < 10 {
		return string(letters[i])
	}
	// good enough for error messages on catalogs with >=10 resources per file
	buf := []byte{}
	for i > 0 {
		buf = append([]byte{letters[i%10]}, buf...)
		i /= 10
	}
	return string(buf)
}
