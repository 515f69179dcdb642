package resolver

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pitabwire/addins/localizer"
)

// Registry maps fully qualified type names to localizer factory types so that
// deferred references can be resolved without loading code by name.
type Registry struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]reflect.Type{}}
}

// RegisterType makes t resolvable by its fully qualified name.
// Registering the same name again replaces the previous type.
func (r *Registry) RegisterType(t reflect.Type) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[localizer.TypeName(t)] = t
}

// Register is RegisterType for a type known at compile time.
func Register[T any](r *Registry) {
	r.RegisterType(reflect.TypeFor[T]())
}

// LookupType returns the type registered under name.
func (r *Registry) LookupType(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names lists the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
