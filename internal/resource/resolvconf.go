package resource

import "fmt"

// ResolvConf declares the single, catalog-wide /etc/resolv.conf contents.
// At most one may exist per catalog (spec §3 invariant 4). Nameservers,
// Search, Sortlist and Options all default to empty: an empty resolv.conf
// is a valid configuration, not an error.
type ResolvConf struct {
	base
	Nameservers []string
	Search      []string
	Sortlist    []string
	Options     []string
}

func (r *ResolvConf) Identity() ID { return ID{Kind: KindResolvConf, Key: singletonKey} }

func parseResolvConf(tree map[string]any, file, key string) (*ResolvConf, error) {
	r := &ResolvConf{}
	var err error

	if r.Nameservers, err = getStringSlice(tree, file, key, "nameservers"); err != nil {
		return nil, err
	}
	if r.Search, err = getStringSlice(tree, file, key, "search"); err != nil {
		return nil, err
	}
	if r.Sortlist, err = getStringSlice(tree, file, key, "sortlist"); err != nil {
		return nil, err
	}
	for _, s := range r.Sortlist {
		if err := ValidSortlistEntry(s); err != nil {
			return nil, fieldError(file, key, "sortlist", err.Error())
		}
	}
	if r.Options, err = getStringSlice(tree, file, key, "options"); err != nil {
		return nil, err
	}
	for _, o := range r.Options {
		if !ValidResolverOption(o) {
			return nil, fieldError(file, key, "options", fmt.Sprintf("%q is not a recognized resolver option", o))
		}
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	r.Ensure = Ensure(ensure)
	if !ValidEnsure(KindResolvConf, r.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if r.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return r, nil
}
