// Package toolregistry implements the Tool Registry (component M): a
// name-keyed map of Tools available to the Session Loop's Tool Dispatcher,
// with last-registration-wins override semantics.
//
// Grounded on the teacher's pkg/registry/registry.go mutex-guarded map,
// re-keyed by tool name instead of provider name.
package toolregistry

import (
	"sync"

	"github.com/digitallysavvy/go-ai/pkg/types"
)

// Registry holds the set of Tools a Session Loop may dispatch calls to.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]types.Tool
	order []string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{tools: make(map[string]types.Tool)}
}

// Register adds or replaces a Tool by name. The last call for a given
// name wins; re-registering moves it to the end of List()'s order.
func (r *Registry) Register(tool types.Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; !exists {
		r.order = append(r.order, tool.Name)
	}
	r.tools[tool.Name] = tool
}

// Unregister removes a Tool by name. No-op if absent.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[name]; !exists {
		return
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the Tool registered under name, if any.
func (r *Registry) Get(name string) (types.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns the wire-shaped ToolDefinition for every registered
// tool, in registration order.
func (r *Registry) Definitions() []types.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]types.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, types.ToolDefinition{
			Name: t.Name, Description: t.Description, Parameters: t.Parameters,
		})
	}
	return defs
}

// List returns a snapshot map of every registered tool, keyed by name.
// The Tool Dispatcher takes this snapshot once at turn start per §4.I, so
// a tool registered mid-turn does not affect calls already in flight.
func (r *Registry) List() map[string]types.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]types.Tool, len(r.tools))
	for k, v := range r.tools {
		out[k] = v
	}
	return out
}
