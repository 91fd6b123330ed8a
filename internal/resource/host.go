package resource

import "fmt"

// Host declares one /etc/hosts entry.
type Host struct {
	base
	IPAddress string
	Hostname  string
	Aliases   []string
}

func (h *Host) Identity() ID { return ID{Kind: KindHost, Key: h.IPAddress} }

func parseHost(tree map[string]any, file, key string) (*Host, error) {
	h := &Host{}

	ip, err := getString(tree, file, key, "ip_address", true)
	if err != nil {
		return nil, err
	}
	if _, err := ParseIPAddress(ip); err != nil {
		return nil, fieldError(file, key, "ip_address", err.Error())
	}
	h.IPAddress = ip

	if h.Hostname, err = getString(tree, file, key, "hostname", true); err != nil {
		return nil, err
	}
	if err := ValidHostname(h.Hostname); err != nil {
		return nil, fieldError(file, key, "hostname", err.Error())
	}

	if h.Aliases, err = getStringSlice(tree, file, key, "aliases"); err != nil {
		return nil, err
	}
	if len(h.Aliases) > 4 {
		return nil, fieldError(file, key, "aliases", fmt.Sprintf("host has %d aliases, cannot be more than four", len(h.Aliases)))
	}
	for _, a := range h.Aliases {
		if err := ValidHostname(a); err != nil {
			return nil, fieldError(file, key, "aliases", err.Error())
		}
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	h.Ensure = Ensure(ensure)
	if !ValidEnsure(KindHost, h.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if h.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return h, nil
}
