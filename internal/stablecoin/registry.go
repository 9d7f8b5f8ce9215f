package stablecoin

// registry.go implements the asset registry. Assets are configured at boot
// (ASSETS env var) and never change at runtime, so lookups need no locking.

import (
	"fmt"
	"strconv"
	"strings"
)

// Registry holds the set of known, enabled stablecoins.
type Registry struct {
	byIndex map[int]Asset
	ordered []Asset
}

// NewRegistry creates a registry from the given assets.
func NewRegistry(assets []Asset) *Registry {
	r := &Registry{byIndex: make(map[int]Asset, len(assets))}
	for _, a := range assets {
		if _, exists := r.byIndex[a.Index]; exists {
			continue
		}
		r.byIndex[a.Index] = a
		r.ordered = append(r.ordered, a)
	}
	return r
}

// ParseAssetList parses asset specs of the form "index:name"
// (e.g. "0:USDC+") as used by the ASSETS environment variable.
func ParseAssetList(specs []string) ([]Asset, error) {
	assets := make([]Asset, 0, len(specs))
	for _, spec := range specs {
		index, name, found := strings.Cut(spec, ":")
		if !found || name == "" {
			return nil, fmt.Errorf("invalid asset spec %q: expected index:name", spec)
		}
		i, err := strconv.Atoi(index)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid asset index in spec %q", spec)
		}
		assets = append(assets, Asset{Index: i, Name: name})
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("at least one asset must be configured")
	}
	return assets, nil
}

// Lookup returns the asset with the given index, if it is known and enabled.
func (r *Registry) Lookup(index int) (Asset, bool) {
	a, ok := r.byIndex[index]
	return a, ok
}

// Assets returns all enabled assets in configuration order.
func (r *Registry) Assets() []Asset {
	return r.ordered
}
