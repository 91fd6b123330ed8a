package resource

import (
	"fmt"
	"net"
	"path"
	"strconv"
	"strings"
	"time"
)

// NormalizePath validates and normalizes a path parameter (spec §3
// invariant 5): must be absolute, must not contain "." or ".." segments,
// and is returned with redundant separators collapsed and any trailing
// slash stripped (except for the root itself).
func NormalizePath(p string) (string, error) {
	if p == "" || p[0] != '/' {
		return "", fmt.Errorf("path %q is not absolute", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("path %q contains a %q segment", p, seg)
		}
	}
	clean := path.Clean(p)
	if clean == "." {
		clean = "/"
	}
	return clean, nil
}

// ParseMode validates an octal file mode of 3 or 4 digits (e.g. "644" or
// "0755") and returns it as a canonical 4-digit octal string.
func ParseMode(m string) (string, error) {
	if len(m) < 3 || len(m) > 4 {
		return "", fmt.Errorf("mode %q must be 3 or 4 octal digits", m)
	}
	for _, c := range m {
		if c < '0' || c > '7' {
			return "", fmt.Errorf("mode %q is not valid octal", m)
		}
	}
	v, err := strconv.ParseUint(m, 8, 32)
	if err != nil {
		return "", fmt.Errorf("mode %q is not valid octal: %w", m, err)
	}
	return fmt.Sprintf("%04o", v), nil
}

// ParseIPAddress validates an IPv4 or IPv6 address.
func ParseIPAddress(s string) (net.IP, error) {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil, fmt.Errorf("%q is not a valid IP address", s)
	}
	return ip, nil
}

// ValidHostname validates a hostname per spec §3 invariant 5: length
// <=253, each dot-separated segment <=63 chars, characters restricted to
// [A-Za-z0-9.-], no segment starting with '-', not empty.
func ValidHostname(h string) error {
	if h == "" {
		return fmt.Errorf("hostname is empty")
	}
	if len(h) > 253 {
		return fmt.Errorf("hostname %q exceeds 253 characters", h)
	}
	for _, seg := range strings.Split(h, ".") {
		if seg == "" {
			return fmt.Errorf("hostname %q has an empty label", h)
		}
		if len(seg) > 63 {
			return fmt.Errorf("hostname %q has a label longer than 63 characters", h)
		}
		if seg[0] == '-' {
			return fmt.Errorf("hostname %q has a label starting with '-'", h)
		}
		for _, c := range seg {
			if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
				return fmt.Errorf("hostname %q contains invalid character %q", h, c)
			}
		}
	}
	return nil
}

// lockedPassword is the canonical value of a locked account's shadow
// password field.
const lockedPassword = "!"

// hashPrefixes are the recognized crypt(3) algorithm identifiers a hashed
// password may begin with.
var hashPrefixes = []string{"$5$", "$6$", "$7$", "$2b$", "$gy$", "$y$"}

// ValidPassword validates a user password parameter: a string starting
// with "!" or equal to "*" locks the account and canonicalizes to "!"; a
// string starting with one of the recognized crypt(3) prefixes is an
// unlocked password hash and is returned unchanged. Anything else is
// rejected.
func ValidPassword(s string) (string, error) {
	if strings.HasPrefix(s, "!") || s == "*" {
		return lockedPassword, nil
	}
	for _, prefix := range hashPrefixes {
		if strings.HasPrefix(s, prefix) {
			return s, nil
		}
	}
	return "", fmt.Errorf("password string is not a valid hash")
}

// ValidExpiryDate validates an account expiry date in "YYYY-MM-DD" form.
func ValidExpiryDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("expiry date %q is not in YYYY-MM-DD form", s)
	}
	return nil
}

// ValidSortlistEntry validates a resolv.conf sortlist entry (resolv.conf(5)):
// either a bare IP address, or an "address/netmask" pair with both halves
// valid IP addresses.
func ValidSortlistEntry(s string) error {
	if addr, mask, ok := strings.Cut(s, "/"); ok {
		if _, err := ParseIPAddress(addr); err != nil {
			return fmt.Errorf("sortlist entry %q has an invalid address: %w", s, err)
		}
		if _, err := ParseIPAddress(mask); err != nil {
			return fmt.Errorf("sortlist entry %q has an invalid netmask: %w", s, err)
		}
		return nil
	}
	if _, err := ParseIPAddress(s); err != nil {
		return fmt.Errorf("sortlist entry %q is not a valid IP address: %w", s, err)
	}
	return nil
}

// resolverOptions is the closed set of options accepted by resolv.conf's
// "options" directive (resolv.conf(5)).
var resolverOptions = buildResolverOptions()

func buildResolverOptions() map[string]bool {
	opts := map[string]bool{
		"debug": true, "rotate": true, "no-check-names": true, "inet6": true,
		"edns0": true, "single-request": true, "single-request-reopen": true,
		"no-tld-query": true, "use-vc": true, "no-reload": true, "trust-ad": true,
	}
	for n := 0; n <= 15; n++ {
		opts[fmt.Sprintf("ndots:%d", n)] = true
	}
	for n := 0; n <= 30; n++ {
		opts[fmt.Sprintf("timeout:%d", n)] = true
	}
	for n := 0; n <= 5; n++ {
		opts[fmt.Sprintf("attempts:%d", n)] = true
	}
	return opts
}

// ValidResolverOption reports whether s is one of the fixed set of
// resolv.conf options accepted by glibc's resolver (resolv.conf(5)).
func ValidResolverOption(s string) bool {
	return resolverOptions[s]
}

func isAlphaNumeric(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// ValidAptPackageName validates a Debian source package name
// (debian-policy §5.6.7): at least two characters, starting with a
// lowercase letter or digit, and containing only lowercase letters,
// digits, "+", "-" and ".".
func ValidAptPackageName(s string) error {
	if len(s) < 2 {
		return fmt.Errorf("package name %q must be at least two characters long", s)
	}
	first := rune(s[0])
	if !(first >= 'a' && first <= 'z' || first >= '0' && first <= '9') {
		return fmt.Errorf("package name %q must start with an alphanumeric character", s)
	}
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.') {
			return fmt.Errorf("package name %q contains invalid character %q", s, c)
		}
	}
	return nil
}

// ValidAptPackageVersion validates a Debian package version string
// (debian-policy §5.6.12): an optional "epoch:" prefix of digits, an
// upstream version, and an optional "-debian-revision" suffix.
func ValidAptPackageVersion(s string) error {
	rest := s
	if epoch, tail, ok := strings.Cut(s, ":"); ok {
		if _, err := strconv.ParseUint(epoch, 10, 8); err != nil {
			return fmt.Errorf("epoch component of package version %q is invalid: %w", s, err)
		}
		rest = tail
	}
	if idx := strings.LastIndex(rest, "-"); idx >= 0 {
		revision := rest[idx+1:]
		for _, c := range revision {
			if !(isAlphaNumeric(c) || c == '+' || c == '~' || c == '.') {
				return fmt.Errorf("Debian revision component of package version %q contains invalid character %q", s, c)
			}
		}
		rest = rest[:idx]
	}
	for _, c := range rest {
		if !(isAlphaNumeric(c) || c == '+' || c == '-' || c == '~' || c == '.') {
			return fmt.Errorf("upstream version component of package version %q contains invalid character %q", s, c)
		}
	}
	return nil
}

// ValidAptPreferenceName validates the filename-safe charset for an apt
// preferences file (apt_preferences(5)): letters, digits, "_", "-" and ".".
func ValidAptPreferenceName(s string) error {
	for _, c := range s {
		if !(isAlphaNumeric(c) || c == '_' || c == '-' || c == '.') {
			return fmt.Errorf("apt preference name %q contains invalid character %q", s, c)
		}
	}
	return nil
}

// ValidCronJobName validates a cron job name: non-empty, restricted to
// [A-Za-z0-9_-].
func ValidCronJobName(s string) error {
	if s == "" {
		return fmt.Errorf("cron job name cannot be an empty string")
	}
	for _, c := range s {
		if !(isAlphaNumeric(c) || c == '-' || c == '_') {
			return fmt.Errorf("cron job name contains invalid character %q", c)
		}
	}
	return nil
}

// AncestorOf reports whether ancestor is a proper filesystem ancestor of
// path — both must already be normalized absolute paths.
func AncestorOf(ancestor, p string) bool {
	if ancestor == p {
		return false
	}
	if ancestor == "/" {
		return p != "/"
	}
	return strings.HasPrefix(p, ancestor+"/")
}

// ParentOf reports whether parent is the immediate filesystem parent of
// path — both must already be normalized absolute paths.
func ParentOf(parent, p string) bool {
	return path.Dir(p) == parent
}
