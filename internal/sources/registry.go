package sources

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hotshotprops/proplab/internal/pkg/config"
)

// Factory builds a prop source from config.
type Factory func(cfg *config.Config) PropSource

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a prop-source factory under name. Concrete adapters call
// this from init(); importing the sources/all package wires everything up.
func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("sources: empty name in Register")
	}
	if f == nil {
		panic("sources: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("sources: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	return f, ok
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuildChainSources resolves cfg.Sources.Order against the registry.
// Unknown names are an error so a typo in config fails fast at startup.
func BuildChainSources(cfg *config.Config) ([]PropSource, error) {
	out := make([]PropSource, 0, len(cfg.Sources.Order))
	for _, name := range cfg.Sources.Order {
		f, ok := FactoryByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown prop source %q in sources.order (available: %v)", name, AvailableNames())
		}
		out = append(out, f(cfg))
	}
	return out, nil
}
