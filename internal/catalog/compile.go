package catalog

import (
	"sort"
	"strings"

	"github.com/pullconf/pullconf/internal/config"
)

// CompileError aggregates the per-client failures of a single Compile
// call. The reload as a whole fails if this is non-nil (spec §4.G: "if
// any client's catalog fails validation" the whole reload is rejected),
// but every client's failure is recorded so the operator sees the full
// picture in one log line rather than just the first.
type CompileError struct {
	Failures []error
}

func (e *CompileError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, err := range e.Failures {
		msgs[i] = err.Error()
	}
	return "catalog compilation failed for one or more clients: " + strings.Join(msgs, "; ")
}

func (e *CompileError) Unwrap() []error { return e.Failures }

// Compile loads the resource directory and assembles every client's
// catalog (spec §2 data flow A → B → C → D → E → F). It returns the full
// set only if every client compiled; otherwise it returns a CompileError
// describing every failure and the caller must leave the store
// untouched.
func Compile(resourceDir string) ([]*Catalog, error) {
	rawClients, rawGroups, err := config.Load(resourceDir)
	if err != nil {
		return nil, &CompileError{Failures: []error{err}}
	}

	groupsByName := make(map[string]config.RawGroup, len(rawGroups))
	for _, g := range rawGroups {
		groupsByName[g.Name] = g
	}

	sort.Slice(rawClients, func(i, j int) bool { return rawClients[i].Hostname < rawClients[j].Hostname })

	var catalogs []*Catalog
	var failures []error
	for _, c := range rawClients {
		cat, err := Assemble(c, groupsByName)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		catalogs = append(catalogs, cat)
	}

	if len(failures) > 0 {
		return nil, &CompileError{Failures: failures}
	}
	return catalogs, nil
}
