package wire

import "github.com/pullconf/pullconf/internal/resource"

// attributesOf flattens a typed resource's kind-specific fields into the
// generic attribute map the wire format carries. ensure is included on
// every kind since the applier always needs it.
func attributesOf(r resource.Resource) map[string]any {
	attrs := map[string]any{"ensure": string(r.EnsureState())}
	switch v := r.(type) {
	case *resource.File:
		attrs["path"] = v.Path
		attrs["mode"] = v.Mode
		attrs["owner"] = v.Owner
		attrs["group"] = v.Group
		if v.Content != nil {
			attrs["content"] = *v.Content
		}
		if v.Source != nil {
			attrs["source"] = *v.Source
		}
	case *resource.Directory:
		attrs["path"] = v.Path
		attrs["mode"] = v.Mode
		attrs["owner"] = v.Owner
		attrs["group"] = v.Group
		attrs["purge"] = v.Purge
	case *resource.Symlink:
		attrs["path"] = v.Path
		attrs["target"] = v.Target
		attrs["owner"] = v.Owner
		attrs["group"] = v.Group
	case *resource.Host:
		attrs["ip_address"] = v.IPAddress
		attrs["hostname"] = v.Hostname
		attrs["aliases"] = v.Aliases
	case *resource.User:
		attrs["name"] = v.Name
		attrs["system"] = v.System
		if v.UID != nil {
			attrs["uid"] = *v.UID
		}
		attrs["group"] = v.PrimaryGroup
		attrs["groups"] = v.Groups
		attrs["shell"] = v.Shell
		attrs["home"] = v.Home
		attrs["comment"] = v.Comment
		attrs["password"] = v.Password
		if v.ExpiryDate != "" {
			attrs["expiry_date"] = v.ExpiryDate
		}
	case *resource.Group:
		attrs["name"] = v.Name
		attrs["system"] = v.System
		if v.GID != nil {
			attrs["gid"] = *v.GID
		}
	case *resource.AptPackage:
		attrs["name"] = v.Name
		attrs["version"] = v.Version
		attrs["allow_downgrade"] = v.AllowDowngrade
	case *resource.AptPreference:
		attrs["name"] = v.Name
		attrs["package"] = v.Package
		attrs["pin"] = v.Pin
		attrs["pin_priority"] = v.PinPriority
	case *resource.CronJob:
		attrs["name"] = v.Name
		attrs["schedule"] = v.Schedule
		attrs["user"] = v.User
		attrs["command"] = v.Command
	case *resource.ResolvConf:
		attrs["nameservers"] = v.Nameservers
		attrs["search"] = v.Search
		attrs["sortlist"] = v.Sortlist
		attrs["options"] = v.Options
	}
	return attrs
}
