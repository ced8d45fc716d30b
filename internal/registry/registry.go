package registry

// Package registry provides the static route table and lookup operations
// over it. The table is the single source of truth for route classification;
// every component that needs to know how a path is authorized or grouped
// asks this package.

import (
	"fmt"

	"github.com/plantops/opsgate/internal/domain/route"
)

// Registry is an immutable lookup service over the route table. All
// operations are total: unknown paths yield nil or false, never a panic.
type Registry struct {
	ordered     []route.Descriptor
	byPath      map[string]*route.Descriptor
	byWorkspace map[string]*route.Descriptor
}

// New builds a Registry from the given descriptors. Paths must be unique
// across the table.
func New(descriptors []route.Descriptor) (*Registry, error) {
	r := &Registry{
		ordered:     make([]route.Descriptor, len(descriptors)),
		byPath:      make(map[string]*route.Descriptor, len(descriptors)),
		byWorkspace: make(map[string]*route.Descriptor),
	}
	copy(r.ordered, descriptors)

	for i := range r.ordered {
		d := &r.ordered[i]
		if d.Path == "" {
			return nil, fmt.Errorf("route %q: empty path", d.Name)
		}
		if _, exists := r.byPath[d.Path]; exists {
			return nil, fmt.Errorf("route %q: duplicate path %s", d.Name, d.Path)
		}
		r.byPath[d.Path] = d
		if d.WorkspaceName != "" {
			if _, exists := r.byWorkspace[d.WorkspaceName]; !exists {
				r.byWorkspace[d.WorkspaceName] = d
			}
		}
	}
	return r, nil
}

// MustNew is New for static tables known to be well formed at compile time.
func MustNew(descriptors []route.Descriptor) *Registry {
	r, err := New(descriptors)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns a registry over the built-in application route table.
func Default() *Registry {
	return MustNew(Table())
}

// ByPath returns the descriptor registered for path, or nil if none exists.
func (r *Registry) ByPath(path string) *route.Descriptor {
	return r.byPath[path]
}

// ByWorkspace returns the descriptor whose workspace name matches, or nil.
func (r *Registry) ByWorkspace(name string) *route.Descriptor {
	if name == "" {
		return nil
	}
	return r.byWorkspace[name]
}

// ByStrategy returns all descriptors with the given authorization strategy,
// in table order.
func (r *Registry) ByStrategy(strategy route.AuthStrategy) []route.Descriptor {
	var out []route.Descriptor
	for _, d := range r.ordered {
		if d.Strategy == strategy {
			out = append(out, d)
		}
	}
	return out
}

// ByPageType returns all descriptors with the given page type, in table
// order.
func (r *Registry) ByPageType(pt route.PageType) []route.Descriptor {
	var out []route.Descriptor
	for _, d := range r.ordered {
		if d.PageType == pt {
			out = append(out, d)
		}
	}
	return out
}

// All returns every descriptor in table order.
func (r *Registry) All() []route.Descriptor {
	out := make([]route.Descriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// RequiresAuth reports whether the path needs authentication. Unknown paths
// are treated as requiring auth so that a typo never opens a door.
func (r *Registry) RequiresAuth(path string) bool {
	d := r.ByPath(path)
	if d == nil {
		return true
	}
	return d.RequiresAuth()
}

// ExcludedPaths returns the paths the edge gate may skip detailed checks
// for: everything classified None or Simple.
func (r *Registry) ExcludedPaths() []string {
	var out []string
	for _, d := range r.ordered {
		if d.Strategy == route.StrategyNone || d.Strategy == route.StrategySimple {
			out = append(out, d.Path)
		}
	}
	return out
}

// HasPermission reports whether a holder of roleTitle may access path.
// Unknown paths yield false.
func (r *Registry) HasPermission(path, roleTitle string) bool {
	d := r.ByPath(path)
	if d == nil {
		return false
	}
	return d.AllowsRole(roleTitle)
}
