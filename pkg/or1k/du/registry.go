package du

import (
	"github.com/Manu343726/or1kdbg/pkg/or1k"
	"github.com/Manu343726/or1kdbg/pkg/utils"
)

// Creates a debug unit. options carries adapter specific settings.
type Factory func(options map[string]any) (DebugUnit, error)

type registryEntry struct {
	name        string
	description string
	factory     Factory
}

// Registry maps debug unit names to their factories, keeping registration order
type Registry struct {
	entries []registryEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Registers a debug unit implementation. Registering an existing name replaces its factory.
func (r *Registry) Register(name string, description string, factory Factory) {
	for i := range r.entries {
		if r.entries[i].name == name {
			r.entries[i] = registryEntry{name: name, description: description, factory: factory}
			return
		}
	}

	r.entries = append(r.entries, registryEntry{name: name, description: description, factory: factory})
}

// Returns the registered names in registration order
func (r *Registry) Names() []string {
	return utils.Map(r.entries, func(e registryEntry) string { return e.name })
}

// Returns the description of a registered debug unit
func (r *Registry) Description(name string) (string, error) {
	for _, e := range r.entries {
		if e.name == name {
			return e.description, nil
		}
	}

	return "", utils.MakeError(or1k.ErrUnknownDebugUnit, "'%v', available: %v", name, utils.FormatSlice(r.Names(), ", "))
}

// Creates an instance of the named debug unit
func (r *Registry) Open(name string, options map[string]any) (DebugUnit, error) {
	for _, e := range r.entries {
		if e.name == name {
			return e.factory(options)
		}
	}

	return nil, utils.MakeError(or1k.ErrUnknownDebugUnit, "'%v', available: %v", name, utils.FormatSlice(r.Names(), ", "))
}
