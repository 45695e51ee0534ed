package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	aliases map[string]string // alias -> primary name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]Command),
		aliases: make(map[string]string),
	}
}

func (r *Registry) taken(name string) bool {
	_, cmd := r.byName[name]
	_, alias := r.aliases[name]
	return cmd || alias
}

// Register adds c under its name and aliases. A name or alias that is
// already taken is an error and leaves the registry unchanged.
func (r *Registry) Register(c Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if name == "" {
		return fmt.Errorf("command has no name")
	}
	if r.taken(name) {
		return fmt.Errorf("command already registered: %s", name)
	}
	for _, alias := range c.Aliases() {
		if alias == name || r.taken(alias) {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.byName[name] = c
	for _, alias := range c.Aliases() {
		r.aliases[alias] = name
	}
	return nil
}

// Find resolves a command name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if primary, ok := r.aliases[name]; ok {
		name = primary
	}
	cmd, ok := r.byName[name]
	return cmd, ok
}

// All returns every registered command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// DefaultRegistry holds the commands registered by this package.
var DefaultRegistry = NewRegistry()

// Register adds c to DefaultRegistry and panics on a clash.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
