package route

// Package route contains domain-level types for route classification. Like
// the auth domain package it is pure data; lookup behavior lives in
// internal/registry.

// AuthStrategy classifies a route's access requirement.
type AuthStrategy string

const (
	// StrategyNone marks routes open to everyone, no session needed.
	StrategyNone AuthStrategy = "none"
	// StrategySimple marks routes gated by the client-held session only.
	StrategySimple AuthStrategy = "simple"
	// StrategyExternalIdentity marks routes that require an externally
	// verified identity.
	StrategyExternalIdentity AuthStrategy = "external"
	// StrategyAdmin marks administrative routes.
	StrategyAdmin AuthStrategy = "admin"
)

// PageType categorizes what kind of page a route serves.
type PageType string

const (
	PagePublic    PageType = "public"
	PageAuth      PageType = "auth"
	PageWorkspace PageType = "workspace"
	PageAdmin     PageType = "admin"
	PageSample    PageType = "sample"
	PageSystem    PageType = "system"
)

// Metadata carries presentation hints used by navigation menu builders.
// Order sorts entries within a category; zero means "no order", which sorts
// after every explicit order.
type Metadata struct {
	Category string `json:"category,omitempty"`
	Icon     string `json:"icon,omitempty"`
	Order    int    `json:"order,omitempty"`
	Hidden   bool   `json:"hidden,omitempty"`
}

// Descriptor is one entry of the static route table. Descriptors are defined
// at process start and never mutated at runtime; toggling a route is a
// redeploy-time operation.
type Descriptor struct {
	Path          string       `json:"path"`
	Name          string       `json:"name"`
	Title         string       `json:"title"`
	Strategy      AuthStrategy `json:"auth_strategy"`
	PageType      PageType     `json:"page_type"`
	WorkspaceName string       `json:"workspace_name,omitempty"`
	RequiredRoles []string     `json:"required_roles,omitempty"`
	Active        bool         `json:"active"`
	Metadata      Metadata     `json:"metadata"`
}

// RequiresAuth reports whether the route needs any authentication at all.
func (d Descriptor) RequiresAuth() bool {
	return d.Strategy != StrategyNone
}

// AllowsRole reports whether a holder of the given role title may access the
// route. Routes without required roles allow everyone; routes with required
// roles reject an empty role title.
func (d Descriptor) AllowsRole(roleTitle string) bool {
	if len(d.RequiredRoles) == 0 {
		return true
	}
	if roleTitle == "" {
		return false
	}
	for _, r := range d.RequiredRoles {
		if r == roleTitle {
			return true
		}
	}
	return false
}
