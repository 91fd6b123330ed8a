package resource

import "fmt"

// User declares a system account. PrimaryGroup couples this resource to
// a Group resource of the same name (spec §4.E user/group coupling): the
// OS creates the primary group alongside the user, so Group depends on
// User rather than the reverse. Groups lists supplementary memberships.
type User struct {
	base
	Name         string
	System       bool
	UID          *int
	PrimaryGroup string
	Groups       []string
	Shell        string
	Home         string
	Comment      string
	Password     string // "!" (locked, default) or a hash beginning with a recognized crypt(3) prefix
	ExpiryDate   string // "YYYY-MM-DD"; empty means no expiry
}

func (u *User) Identity() ID { return ID{Kind: KindUser, Key: u.Name} }

func parseUser(tree map[string]any, file, key string) (*User, error) {
	u := &User{}

	name, err := getString(tree, file, key, "name", true)
	if err != nil {
		return nil, err
	}
	u.Name = name

	if u.System, err = getBoolDefault(tree, file, key, "system", false); err != nil {
		return nil, err
	}

	if uid, ok, err := getInt(tree, file, key, "uid"); err != nil {
		return nil, err
	} else if ok {
		u.UID = &uid
	}

	if u.PrimaryGroup, err = getStringDefault(tree, file, key, "group", name); err != nil {
		return nil, err
	}
	if u.Groups, err = getStringSlice(tree, file, key, "groups"); err != nil {
		return nil, err
	}
	for _, g := range u.Groups {
		if g == u.PrimaryGroup {
			return nil, fieldError(file, key, "groups", fmt.Sprintf("primary group %q cannot also appear in the list of supplementary groups", u.PrimaryGroup))
		}
	}

	if u.Shell, err = getStringDefault(tree, file, key, "shell", "/bin/bash"); err != nil {
		return nil, err
	}
	if u.Home, err = getStringDefault(tree, file, key, "home", "/home/"+name); err != nil {
		return nil, err
	}
	if u.Comment, err = getStringDefault(tree, file, key, "comment", ""); err != nil {
		return nil, err
	}

	password, err := getStringDefault(tree, file, key, "password", lockedPassword)
	if err != nil {
		return nil, err
	}
	if u.Password, err = ValidPassword(password); err != nil {
		return nil, fieldError(file, key, "password", err.Error())
	}

	expiry, err := getStringDefault(tree, file, key, "expiry_date", "")
	if err != nil {
		return nil, err
	}
	if expiry != "" {
		if err := ValidExpiryDate(expiry); err != nil {
			return nil, fieldError(file, key, "expiry_date", err.Error())
		}
		u.ExpiryDate = expiry
	}

	ensure, err := getStringDefault(tree, file, key, "ensure", string(EnsurePresent))
	if err != nil {
		return nil, err
	}
	u.Ensure = Ensure(ensure)
	if !ValidEnsure(KindUser, u.Ensure) {
		return nil, fieldError(file, key, "ensure", "must be \"present\" or \"absent\"")
	}

	if u.Requires, err = getRequires(tree, file, key); err != nil {
		return nil, err
	}
	return u, nil
}
