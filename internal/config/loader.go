// Package config implements the resource-directory loader (spec §4.A):
// walking PULLCONF_RESOURCE_DIR/clients and .../groups for *.toml files and
// decoding each into a raw, not-yet-variable-resolved document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/pullconf/pullconf/internal/perr"
)

// RawClient is one clients/*.toml document, not yet variable-resolved or
// typed. Hostname is the file's basename without extension.
type RawClient struct {
	Hostname string
	File     string
	Doc      map[string]any
}

// RawGroup is one groups/*.toml document.
type RawGroup struct {
	Name string
	File string
	Doc  map[string]any
}

// clientTopLevelKeys lists the keys a client document may declare. Any
// other top-level key fails the file (spec §4.A "unknown top-level keys").
var clientTopLevelKeys = map[string]bool{
	"api_key_hash": true,
	"variables":    true,
	"resources":    true,
	"groups":       true,
}

var groupTopLevelKeys = map[string]bool{
	"resources": true,
}

// Load walks resourceDir/clients and resourceDir/groups, returning every
// decoded document. A single malformed file fails the whole load (spec
// §4.A): Load returns the first such error and stops, since a reload
// that cannot fully enumerate its inputs must not partially apply.
func Load(resourceDir string) ([]RawClient, []RawGroup, error) {
	clients, err := loadClients(filepath.Join(resourceDir, "clients"))
	if err != nil {
		return nil, nil, err
	}
	groups, err := loadGroups(filepath.Join(resourceDir, "groups"))
	if err != nil {
		return nil, nil, err
	}
	return clients, groups, nil
}

func loadClients(dir string) ([]RawClient, error) {
	files, err := tomlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]RawClient, 0, len(files))
	for _, f := range files {
		doc, err := decodeFile(f)
		if err != nil {
			return nil, err
		}
		if err := checkTopLevelKeys(f, doc, clientTopLevelKeys); err != nil {
			return nil, err
		}
		hostname := strings.TrimSuffix(filepath.Base(f), ".toml")
		out = append(out, RawClient{Hostname: hostname, File: f, Doc: doc})
	}
	return out, nil
}

func loadGroups(dir string) ([]RawGroup, error) {
	files, err := tomlFiles(dir)
	if err != nil {
		return nil, err
	}
	out := make([]RawGroup, 0, len(files))
	for _, f := range files {
		doc, err := decodeFile(f)
		if err != nil {
			return nil, err
		}
		if err := checkTopLevelKeys(f, doc, groupTopLevelKeys); err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(f), ".toml")
		out = append(out, RawGroup{Name: name, File: f, Doc: doc})
	}
	return out, nil
}

// tomlFiles lists the *.toml entries of dir in stable lexicographic order,
// ignoring subdirectories, hidden files, and any other extension.
func tomlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &perr.ConfigError{File: dir, Reason: fmt.Sprintf("cannot read directory: %v", err)}
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".toml") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(dir, n)
	}
	return out, nil
}

func decodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &perr.ConfigError{File: path, Reason: fmt.Sprintf("cannot read file: %v", err)}
	}
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &perr.ConfigError{File: path, Reason: fmt.Sprintf("invalid TOML: %v", err)}
	}
	return doc, nil
}

func checkTopLevelKeys(file string, doc map[string]any, allowed map[string]bool) error {
	for k := range doc {
		if !allowed[k] {
			return &perr.ConfigError{File: file, Field: k, Reason: "unknown top-level key"}
		}
	}
	return nil
}
