package applier

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/pullconf/pullconf/internal/wire"
)

func (d *Dispatcher) applyAptPackage(ctx context.Context, r wire.Resource) (Status, error) {
	name := r.ID.Key
	installed, version, err := dpkgQuery(ctx, d.Run, name)
	if err != nil {
		return NoChange, err
	}

	switch attrString(r, "ensure") {
	case "absent":
		if !installed {
			return NoChange, nil
		}
		if _, err := d.Run.Run(ctx, "apt-get", "-y", "remove", name); err != nil {
			return NoChange, err
		}
		return Applied, nil
	case "purged":
		if !installed {
			return NoChange, nil
		}
		if _, err := d.Run.Run(ctx, "apt-get", "-y", "purge", name); err != nil {
			return NoChange, err
		}
		return Applied, nil
	default: // present
		want := attrString(r, "version")
		target := name
		if want != "" {
			target = fmt.Sprintf("%s=%s", name, want)
		}
		if installed && (want == "" || want == version) {
			return NoChange, nil
		}
		if installed && want != "" && version > want && !attrBool(r, "allow_downgrade") {
			// lexical comparison, not dpkg's version algebra: good enough to
			// catch the common case, not a full epoch/tilde-aware compare.
			return NoChange, fmt.Errorf("apt::package %s: installed version %s is newer than requested %s and allow_downgrade is false", name, version, want)
		}
		if _, err := d.Run.Run(ctx, "apt-get", "-y", "install", target); err != nil {
			return NoChange, err
		}
		return Applied, nil
	}
}

// dpkgQuery reports whether a package is installed and, if so, its
// installed version, via `dpkg-query`.
func dpkgQuery(ctx context.Context, run Runner, name string) (installed bool, version string, err error) {
	out, err := run.Run(ctx, "dpkg-query", "-W", "-f=${Status} ${Version}", name)
	if err != nil {
		return false, "", nil // dpkg-query exits non-zero for unknown packages
	}
	var status1, status2, status3, ver string
	if _, serr := fmt.Sscanf(string(out), "%s %s %s %s", &status1, &status2, &status3, &ver); serr != nil {
		return false, "", nil
	}
	return status3 == "installed", ver, nil
}

func (d *Dispatcher) applyAptPreference(ctx context.Context, r wire.Resource) (Status, error) {
	path := "/etc/apt/preferences.d/" + r.ID.Key

	if attrString(r, "ensure") == "absent" {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				return NoChange, nil
			}
			return NoChange, err
		}
		return Applied, nil
	}

	rendered := fmt.Sprintf("Package: %s\nPin: %s\nPin-Priority: %s\n",
		attrString(r, "package"), attrString(r, "pin"), strconv.Itoa(attrInt(r, "pin_priority")))

	existing, err := os.ReadFile(path)
	if err == nil && string(existing) == rendered {
		return NoChange, nil
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return NoChange, err
	}
	return Applied, nil
}
