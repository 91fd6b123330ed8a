package applier

import (
	"context"
	"os"
	"strings"

	"github.com/pullconf/pullconf/internal/wire"
)

// resolvConfPath is a var, not a const, so tests can point it at a
// temporary file instead of the real /etc/resolv.conf.
var resolvConfPath = "/etc/resolv.conf"

func (d *Dispatcher) applyResolvConf(ctx context.Context, r wire.Resource) (Status, error) {
	if attrString(r, "ensure") == "absent" {
		if err := os.Remove(resolvConfPath); err != nil {
			if os.IsNotExist(err) {
				return NoChange, nil
			}
			return NoChange, err
		}
		return Applied, nil
	}

	var b strings.Builder
	for _, ns := range attrStringSlice(r, "nameservers") {
		b.WriteString("nameserver " + ns + "\n")
	}
	if search := attrStringSlice(r, "search"); len(search) > 0 {
		b.WriteString("search " + strings.Join(search, " ") + "\n")
	}
	if sortlist := attrStringSlice(r, "sortlist"); len(sortlist) > 0 {
		b.WriteString("sortlist " + strings.Join(sortlist, " ") + "\n")
	}
	if opts := attrStringSlice(r, "options"); len(opts) > 0 {
		b.WriteString("options " + strings.Join(opts, " ") + "\n")
	}
	rendered := b.String()

	existing, err := os.ReadFile(resolvConfPath)
	if err == nil && string(existing) == rendered {
		return NoChange, nil
	}
	if err := os.WriteFile(resolvConfPath, []byte(rendered), 0o644); err != nil {
		return NoChange, err
	}
	return Applied, nil
}
