// Package resource implements pullconf's typed resource model and
// validator (spec §4.C): parsing raw, variable-resolved parameter trees
// into kind-specific attribute records, with defaults materialized and
// per-kind invariants enforced.
//
// Resources are a tagged variant (spec Design Notes): one concrete Go
// struct per kind, sharing the Resource interface (Identity/EnsureState/
// Explicit/Origin) rather than runtime inheritance; Parse dispatches on
// Kind to each kind's parser.
package resource

import "fmt"

// Kind identifies a resource variant. String values match the "type"
// field of on-disk resource documents exactly.
type Kind string

const (
	KindFile          Kind = "file"
	KindDirectory     Kind = "directory"
	KindSymlink       Kind = "symlink"
	KindHost          Kind = "host"
	KindUser          Kind = "user"
	KindGroup         Kind = "group"
	KindAptPackage    Kind = "apt::package"
	KindAptPreference Kind = "apt::preference"
	KindCronJob       Kind = "cron::job"
	KindResolvConf    Kind = "resolv.conf"
)

// singletonKey is the identity key value used by resources with no
// natural primary parameter (there is at most one per catalog).
const singletonKey = "·" // "·"

// AllKinds lists every recognized kind, in the priority order the client
// scheduler uses to break ties among ready resources (spec §4.I).
var AllKinds = []Kind{
	KindDirectory,
	KindFile,
	KindSymlink,
	KindHost,
	KindUser,
	KindGroup,
	KindAptPackage,
	KindCronJob,
	KindResolvConf,
	KindAptPreference,
}

// KindPriority returns the scheduler tie-break rank of a kind; lower runs
// first. Unknown kinds sort last.
func KindPriority(k Kind) int {
	for i, kk := range AllKinds {
		if kk == k {
			return i
		}
	}
	return len(AllKinds)
}

// Ensure is the desired-state selector carried by every resource.
type Ensure string

const (
	EnsurePresent Ensure = "present"
	EnsureAbsent  Ensure = "absent"
	// EnsurePurged applies only to apt::package.
	EnsurePurged Ensure = "purged"
)

func ValidEnsure(kind Kind, e Ensure) bool {
	switch e {
	case EnsurePresent, EnsureAbsent:
		return true
	case EnsurePurged:
		return kind == KindAptPackage
	default:
		return false
	}
}

// ID is a resource's identity key: kind plus the primary-parameter value.
type ID struct {
	Kind Kind
	Key  string
}

func (id ID) String() string { return fmt.Sprintf("%s:%s", id.Kind, id.Key) }

// Level records whether a resource, before assembly, came from the
// client's own document or from one of its groups (spec §4.D).
type Level int

const (
	LevelClient Level = iota
	LevelGroup
)
