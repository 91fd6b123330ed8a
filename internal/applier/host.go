package applier

import (
	"context"
	"os"
	"strings"

	"github.com/pullconf/pullconf/internal/wire"
)

const hostsPath = "/etc/hosts"

func (d *Dispatcher) applyHost(ctx context.Context, r wire.Resource) (Status, error) {
	ip := r.ID.Key
	lines, err := readLines(hostsPath)
	if err != nil {
		return NoChange, err
	}

	var rendered string
	if attrString(r, "ensure") != "absent" {
		fields := append([]string{ip, attrString(r, "hostname")}, attrStringSlice(r, "aliases")...)
		rendered = strings.Join(fields, " ")
	}

	out := make([]string, 0, len(lines)+1)
	found := false
	changed := false
	for _, line := range lines {
		if lineOwnsIP(line, ip) {
			found = true
			if rendered == "" {
				changed = true
				continue // drop the line: ensure=absent
			}
			if line != rendered {
				changed = true
			}
			out = append(out, rendered)
			continue
		}
		out = append(out, line)
	}
	if !found && rendered != "" {
		out = append(out, rendered)
		changed = true
	}

	if !changed {
		return NoChange, nil
	}
	if err := writeLines(hostsPath, out); err != nil {
		return NoChange, err
	}
	return Applied, nil
}

func lineOwnsIP(line, ip string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && fields[0] == ip
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func writeLines(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
