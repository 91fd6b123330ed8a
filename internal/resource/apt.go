package resource

// AptPackage declares a Debian package. AllowDowngrade resolves the open
// question of what to do when Version names an older version than what
// is installed (SPEC_FULL.md §6): default false, meaning the applier
// must refuse rather than downgrade or silently proceed.
type AptPackage struct {
	base
	Name           string
	Version        string // empty means "any version satisfies present"
	AllowDowngrade bool
}

func (p *AptPackage) Identity() ID { return ID{Kind: KindAptPackage, Key: p.Name} }

func parseAptPackage(tree map[string]any, file, key string) (*AptPackage, error) {
	p := &AptPackage{}

	name, err := getString(tree, file, key, "name", true)
	if err != nil {
		return nil, err
	}
	if err := ValidAptPackageName(name); err != nil {
		return nil, fieldError(file, key, "name", err.Error())
	}
	p.Name = name

	if p.Version, err = getStringDefault(tree, file, key, "version", ""); err != nil {
		return nil, err
	}
	if p.Version != "" {
		if err := ValidAptPackageVersion(p.Version); err != nil {
			return nil, fieldError(file, key, "version", err.Error())
		}
	}
	if p.AllowDowngrade, err = getBoolDefault(tree, file, key, "allow_downgrade", false); err != nil {
		return nil, err
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	p.Ensure = Ensure(ensure)
	if !ValidEnsure(KindAptPackage, p.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\", \"absent\" or \"purged\"")
	}

	if p.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return p, nil
}

// AptPreference declares an apt pinning file under /etc/apt/preferences.d.
type AptPreference struct {
	base
	Name        string
	Package     string
	Pin         string
	PinPriority int
}

func (p *AptPreference) Identity() ID { return ID{Kind: KindAptPreference, Key: p.Name} }

func (p *AptPreference) Path() string { return "/etc/apt/preferences.d/" + p.Name }

func parseAptPreference(tree map[string]any, file, key string) (*AptPreference, error) {
	p := &AptPreference{}

	name, err := getString(tree, file, key, "name", true)
	if err != nil {
		return nil, err
	}
	if err := ValidAptPreferenceName(name); err != nil {
		return nil, fieldError(file, key, "name", err.Error())
	}
	p.Name = name

	if p.Package, err = getString(tree, file, key, "package", true); err != nil {
		return nil, err
	}
	if p.Pin, err = getString(tree, file, key, "pin", true); err != nil {
		return nil, err
	}
	prio, ok, err := getInt(tree, file, key, "pin_priority")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fieldError(file, key, "pin_priority", "missing required field")
	}
	p.PinPriority = prio

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	p.Ensure = Ensure(ensure)
	if !ValidEnsure(KindAptPreference, p.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if p.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return p, nil
}
