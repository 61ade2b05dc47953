// Package manifest reads npm package.json files and assembles the
// dependency block handed to the resolver.
package manifest

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
)

// PackageJSON is the subset of package.json the resolver cares about.
type PackageJSON struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Read parses the package.json at path.
func Read(path string) (*PackageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &pkg, nil
}

// Specs assembles the name → specifier mapping to resolve. Regular
// dependencies win when the same name appears in several blocks,
// matching npm's install-time precedence.
func (p *PackageJSON) Specs(includeDev, includePeer bool) map[string]string {
	specs := make(map[string]string)
	if includePeer {
		maps.Copy(specs, p.PeerDependencies)
	}
	if includeDev {
		maps.Copy(specs, p.DevDependencies)
	}
	maps.Copy(specs, p.Dependencies)
	return specs
}
